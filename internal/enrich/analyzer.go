package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/providers/bbref"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/sports/basketball_nba"
	"github.com/sirupsen/logrus"
)

// PlayerSource returns a player's season record
type PlayerSource interface {
	Get(ctx context.Context, name string) (models.PlayerRecord, error)
}

// TeamSource returns a team's season record
type TeamSource interface {
	Get(ctx context.Context, team string) (models.TeamRecord, error)
}

// DefenseSource returns the defense-vs-position table for a position
type DefenseSource interface {
	Get(ctx context.Context, position string) (models.DefenseTable, error)
}

// Reason explains why a row could not be evaluated
type Reason string

const (
	ReasonMissingPlayer  Reason = "missing player name"
	ReasonMissingLine    Reason = "missing O/U line"
	ReasonPlayerNotFound Reason = "player not found"
	ReasonFetchFailed    Reason = "player lookup failed"
	ReasonNoGameLog      Reason = "empty game log"
	ReasonPanic          Reason = "unexpected error"
)

// Result is the outcome for one odds row. Reason is empty when the row was evaluated.
// Warnings list the features left unevaluable on an otherwise evaluated row.
type Result struct {
	Row      models.EnrichedRow
	Reason   Reason
	Err      error
	Warnings []string
}

// OK reports whether the row was evaluated
func (r Result) OK() bool {
	return r.Reason == ""
}

// Report aggregates the results of one market
type Report struct {
	Market    models.MarketType
	Results   []Result
	Succeeded int
	Skipped   int
}

// Rows returns one enriched row per input row, in input order
func (r Report) Rows() []models.EnrichedRow {
	rows := make([]models.EnrichedRow, len(r.Results))
	for i, res := range r.Results {
		rows[i] = res.Row
	}
	return rows
}

// SkippedResults returns the rows that could not be evaluated
func (r Report) SkippedResults() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Analyzer derives historical features for odds rows
type Analyzer struct {
	players PlayerSource
	teams   TeamSource
	defense DefenseSource
	log     logrus.FieldLogger
	asOf    time.Time
}

// NewAnalyzer creates a new analyzer over the given caches.
// asOf is the wager date used for rows that carry none.
func NewAnalyzer(players PlayerSource, teams TeamSource, defense DefenseSource, asOf time.Time, log logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		players: players,
		teams:   teams,
		defense: defense,
		log:     log,
		asOf:    asOf,
	}
}

// Enrich evaluates every row of a market. A failing row never aborts the batch.
func (a *Analyzer) Enrich(ctx context.Context, market models.MarketType, rows []models.OddsRow) Report {
	report := Report{Market: market, Results: make([]Result, 0, len(rows))}

	for i, odds := range rows {
		odds.Market = market
		res := a.enrichRow(ctx, odds)

		if res.OK() {
			report.Succeeded++
			if len(res.Warnings) > 0 {
				a.log.WithFields(logrus.Fields{
					"player": odds.PlayerName,
					"market": market,
				}).Debugf("row partially filled: %s", strings.Join(res.Warnings, "; "))
			}
		} else {
			report.Skipped++
			entry := a.log.WithFields(logrus.Fields{
				"player": odds.PlayerName,
				"market": market,
				"reason": res.Reason,
			})
			if res.Err != nil {
				entry = entry.WithError(res.Err)
			}
			entry.Warn("row skipped")
		}

		report.Results = append(report.Results, res)

		if (i+1)%25 == 0 {
			a.log.WithField("market", market).Infof("enriched %d/%d rows", i+1, len(rows))
		}
	}

	a.log.WithFields(logrus.Fields{
		"market":    market,
		"succeeded": report.Succeeded,
		"skipped":   report.Skipped,
	}).Info("market enriched")

	return report
}

// enrichRow computes one row; panics are turned into a skipped result
func (a *Analyzer) enrichRow(ctx context.Context, odds models.OddsRow) (res Result) {
	res.Row = models.NewEnrichedRow(odds)

	defer func() {
		if r := recover(); r != nil {
			res.Reason = ReasonPanic
			res.Err = fmt.Errorf("panic enriching %s: %v", odds.PlayerName, r)
		}
	}()

	name := strings.TrimSpace(odds.PlayerName)
	if name == "" || name == models.NotAvailable {
		res.Reason = ReasonMissingPlayer
		return res
	}
	if !odds.Line.Valid {
		res.Reason = ReasonMissingLine
		return res
	}

	rec, err := a.players.Get(ctx, name)
	if err != nil {
		res.Err = err
		if errors.Is(err, bbref.ErrPlayerNotFound) {
			res.Reason = ReasonPlayerNotFound
		} else {
			res.Reason = ReasonFetchFailed
		}
		return res
	}
	if rec.Empty() {
		res.Reason = ReasonNoGameLog
		return res
	}

	wagerDate := odds.Date
	if wagerDate.IsZero() {
		wagerDate = a.asOf
	}

	row := &res.Row
	row.Team = rec.Team
	row.Position = rec.Position

	// Only games strictly before the wager date count
	games := rec.Games.Before(wagerDate)
	totals := games.Totals(odds.Market.Stats())
	line := odds.Line.Value

	row.Coverage = windowed(totals, func(v []float64) float64 { return Coverage(v, line) })
	row.Percentile = windowed(totals, func(v []float64) float64 { return Percentile(v, line) })
	row.Combined = windowed(totals, Mean)
	row.Minutes = windowed(games.Minutes(), Mean)

	opponent, err := basketball_nba.Opponent(odds.Teams, rec.Team)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("opponent: %v", err))
	} else {
		row.Opponent = opponent
	}

	if stats, err := a.winPercentages(ctx, rec.Team, wagerDate); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("team record: %v", err))
	} else {
		row.TeamWinPct = stats
	}

	if row.Opponent != "" {
		if stats, err := a.winPercentages(ctx, row.Opponent, wagerDate); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("opponent record: %v", err))
		} else {
			row.OpponentWinPct = stats
		}

		if def, err := a.defenseVsPosition(ctx, odds.Market, rec.Position, row.Opponent); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("defense: %v", err))
		} else {
			row.Defense = def
		}
	}

	return res
}

func (a *Analyzer) winPercentages(ctx context.Context, team string, before time.Time) (models.WindowStats, error) {
	rec, err := a.teams.Get(ctx, team)
	if err != nil {
		return models.WindowStats{}, err
	}
	return windowed(rec.Before(before).Outcomes(), WinPercentage), nil
}

// defenseVsPosition sums the market's stats the opponent allows to the position, per window
func (a *Analyzer) defenseVsPosition(ctx context.Context, market models.MarketType, position, opponent string) (models.DefenseStats, error) {
	if position == "" || position == basketball_nba.UnknownPosition {
		return models.DefenseStats{}, fmt.Errorf("unknown position")
	}

	table, err := a.defense.Get(ctx, position)
	if err != nil {
		return models.DefenseStats{}, err
	}

	stats := market.Stats()
	value := func(w models.DefenseWindow) float64 {
		row, ok := table.Lookup(w, opponent)
		if !ok {
			return models.Unevaluable()
		}
		return stats.SumFloat(row.Points, row.Rebounds, row.Assists)
	}

	return models.DefenseStats{
		Season: value(models.WindowSeason),
		Last7:  value(models.WindowLast7),
		Last15: value(models.WindowLast15),
	}, nil
}
