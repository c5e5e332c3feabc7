package settler

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/sirupsen/logrus"
)

// LastGameSource returns a player's most recent game
type LastGameSource interface {
	Get(ctx context.Context, name string) (models.GameStat, error)
}

// PickSettler records outcomes against stored picks
type PickSettler interface {
	SettlePick(ctx context.Context, row models.EnrichedRow) (int64, error)
}

// Summary counts the outcomes of one labeling pass
type Summary struct {
	Market   models.MarketType
	Covered  int
	Missed   int
	Unknown  int
	Settled  int64
	Failures int
}

// Settler labels yesterday's lines with whether they were covered
type Settler struct {
	lastGames LastGameSource
	picks     PickSettler
	log       logrus.FieldLogger
}

// NewSettler creates a new settler. picks may be nil when stored picks are not tracked.
func NewSettler(lastGames LastGameSource, picks PickSettler, log logrus.FieldLogger) *Settler {
	return &Settler{
		lastGames: lastGames,
		picks:     picks,
		log:       log,
	}
}

// LabelOutcomes sets Covered on every row: 1 or 0 when the outcome is known, NaN otherwise.
// Rows are labeled in place and also returned.
func (s *Settler) LabelOutcomes(ctx context.Context, market models.MarketType, rows []models.EnrichedRow) ([]models.EnrichedRow, Summary) {
	summary := Summary{Market: market}

	for i := range rows {
		row := &rows[i]
		row.Market = market
		row.Covered = s.labelRow(ctx, *row)

		switch {
		case row.Covered == 1:
			summary.Covered++
		case row.Covered == 0:
			summary.Missed++
		default:
			summary.Unknown++
			continue
		}

		if s.picks != nil {
			n, err := s.picks.SettlePick(ctx, *row)
			if err != nil {
				summary.Failures++
				s.log.WithError(err).WithField("player", row.PlayerName).Warn("failed to settle stored pick")
				continue
			}
			summary.Settled += n
		}
	}

	s.log.WithFields(logrus.Fields{
		"market":  market,
		"covered": summary.Covered,
		"missed":  summary.Missed,
		"unknown": summary.Unknown,
		"settled": summary.Settled,
	}).Info("labeled outcomes")

	return rows, summary
}

// labelRow determines if the row's line was covered by the player's most recent game
func (s *Settler) labelRow(ctx context.Context, row models.EnrichedRow) (covered float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("player", row.PlayerName).Errorf("panic labeling row: %v", r)
			covered = models.Unevaluable()
		}
	}()

	name := strings.TrimSpace(row.PlayerName)
	if name == "" || name == models.NotAvailable || !row.Line.Valid {
		return models.Unevaluable()
	}

	game, err := s.lastGames.Get(ctx, name)
	if err != nil {
		return models.Unevaluable()
	}

	if !playedOn(game, row) {
		s.log.WithFields(logrus.Fields{
			"player":    name,
			"last_game": game.Date.Format("2006-01-02"),
			"wager":     row.Date.Format("2006-01-02"),
		}).Debug("most recent game is not the wagered game")
		return models.Unevaluable()
	}

	total := row.Market.Stats().Sum(game.Points, game.Rebounds, game.Assists)
	if float64(total) > row.Line.Value {
		return 1
	}
	return 0
}

// playedOn reports whether game is the one the row was wagered on.
// Without dates on both sides the most recent game is taken as the wagered one.
func playedOn(game models.GameStat, row models.EnrichedRow) bool {
	if game.Date.IsZero() || row.Date.IsZero() {
		return true
	}
	gy, gm, gd := game.Date.Date()
	wy, wm, wd := row.Date.Date()
	return gy == wy && gm == wm && gd == wd
}

// Outcome names the result of a pick given the row's label
func Outcome(side models.Side, covered float64) (string, error) {
	if covered != 0 && covered != 1 {
		return "", fmt.Errorf("row is not labeled")
	}
	over := covered == 1
	if (side == models.SideOver) == over {
		return "won", nil
	}
	return "lost", nil
}
