package cache

import (
	"context"
	"strings"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/sports/basketball_nba"
	"github.com/sirupsen/logrus"
)

// PlayerCache memoizes season game logs per player name
type PlayerCache struct {
	memo *Memo[string, models.PlayerRecord]
	log  logrus.FieldLogger
}

// NewPlayerCache creates a new player cache over fetch
func NewPlayerCache(fetch FetchFunc[string, models.PlayerRecord], log logrus.FieldLogger) *PlayerCache {
	c := &PlayerCache{log: log}
	c.memo = NewMemo(func(ctx context.Context, name string) (models.PlayerRecord, error) {
		rec, err := fetch(ctx, name)
		if err != nil {
			c.log.WithError(err).WithField("player", name).Warn("player fetch failed, caching empty record")
			return models.PlayerRecord{Name: name, Position: basketball_nba.UnknownPosition}, err
		}
		return rec, nil
	})
	return c
}

// Get returns the player's record. A failed lookup returns an empty record and the original error.
func (c *PlayerCache) Get(ctx context.Context, name string) (models.PlayerRecord, error) {
	return c.memo.GetOrFetch(ctx, normalizeName(name))
}

// Stats returns cache counters
func (c *PlayerCache) Stats() Stats { return c.memo.Stats() }

// TeamCache memoizes season win/loss records per team code
type TeamCache struct {
	memo *Memo[string, models.TeamRecord]
	log  logrus.FieldLogger
}

// NewTeamCache creates a new team cache over fetch
func NewTeamCache(fetch FetchFunc[string, models.TeamRecord], log logrus.FieldLogger) *TeamCache {
	c := &TeamCache{log: log}
	c.memo = NewMemo(func(ctx context.Context, team string) (models.TeamRecord, error) {
		rec, err := fetch(ctx, team)
		if err != nil {
			c.log.WithError(err).WithField("team", team).Warn("team fetch failed, caching empty record")
			return models.TeamRecord{Team: team}, err
		}
		return rec, nil
	})
	return c
}

// Get returns the team's record
func (c *TeamCache) Get(ctx context.Context, team string) (models.TeamRecord, error) {
	return c.memo.GetOrFetch(ctx, strings.ToUpper(strings.TrimSpace(team)))
}

// Stats returns cache counters
func (c *TeamCache) Stats() Stats { return c.memo.Stats() }

// DefenseCache memoizes defense-vs-position tables per position
type DefenseCache struct {
	memo *Memo[string, models.DefenseTable]
	log  logrus.FieldLogger
}

// NewDefenseCache creates a new defense cache over fetch
func NewDefenseCache(fetch FetchFunc[string, models.DefenseTable], log logrus.FieldLogger) *DefenseCache {
	c := &DefenseCache{log: log}
	c.memo = NewMemo(func(ctx context.Context, position string) (models.DefenseTable, error) {
		table, err := fetch(ctx, position)
		if err != nil {
			c.log.WithError(err).WithField("position", position).Warn("defense fetch failed, caching empty table")
			return models.NewDefenseTable(position), err
		}
		return table, nil
	})
	return c
}

// Get returns the defense table for a position
func (c *DefenseCache) Get(ctx context.Context, position string) (models.DefenseTable, error) {
	return c.memo.GetOrFetch(ctx, strings.ToUpper(strings.TrimSpace(position)))
}

// Stats returns cache counters
func (c *DefenseCache) Stats() Stats { return c.memo.Stats() }

// LastGameCache memoizes each player's most recent game, separate from the season log
type LastGameCache struct {
	memo *Memo[string, models.GameStat]
	log  logrus.FieldLogger
}

// NewLastGameCache creates a new last-game cache over fetch
func NewLastGameCache(fetch FetchFunc[string, models.GameStat], log logrus.FieldLogger) *LastGameCache {
	c := &LastGameCache{log: log}
	c.memo = NewMemo(func(ctx context.Context, name string) (models.GameStat, error) {
		game, err := fetch(ctx, name)
		if err != nil {
			c.log.WithError(err).WithField("player", name).Warn("last game fetch failed")
			return models.GameStat{}, err
		}
		return game, nil
	})
	return c
}

// Get returns the player's most recent game
func (c *LastGameCache) Get(ctx context.Context, name string) (models.GameStat, error) {
	return c.memo.GetOrFetch(ctx, normalizeName(name))
}

// Stats returns cache counters
func (c *LastGameCache) Stats() Stats { return c.memo.Stats() }

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
