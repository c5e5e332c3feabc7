package selector

import (
	"fmt"
	"sort"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/pkg/oddsmath"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Options controls how many bets are chosen and how the budget is split
type Options struct {
	StraightCount int
	ParlayCount   int
	TopCount      int
	DailyBudget   decimal.Decimal
	ParlayShare   decimal.Decimal
}

// DefaultOptions returns 5 straight bets, a 4 leg parlay, a top 10 list and a 20 unit budget with 30% on the parlay
func DefaultOptions() Options {
	return Options{
		StraightCount: 5,
		ParlayCount:   4,
		TopCount:      10,
		DailyBudget:   decimal.NewFromInt(20),
		ParlayShare:   decimal.NewFromFloat(0.3),
	}
}

// Selector turns predicted rows into the day's bets
type Selector struct {
	opts Options
	log  logrus.FieldLogger
}

// New creates a new selector
func New(opts Options, log logrus.FieldLogger) *Selector {
	return &Selector{opts: opts, log: log}
}

// Candidates converts predicted rows into picks.
// Rows without player history, a line or a price on the predicted side cannot be bet and are counted as skipped.
func (s *Selector) Candidates(market models.MarketType, rows []models.EnrichedRow) ([]models.Pick, int) {
	picks := make([]models.Pick, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		if !row.Predicted {
			continue
		}
		if !row.Evaluated() {
			skipped++
			s.log.WithFields(logrus.Fields{
				"player": row.PlayerName,
				"market": market,
			}).Debug("skipping row without player history")
			continue
		}
		pick, err := NewPick(market, row)
		if err != nil {
			skipped++
			s.log.WithFields(logrus.Fields{
				"player": row.PlayerName,
				"market": market,
			}).WithError(err).Debug("skipping unbettable row")
			continue
		}
		picks = append(picks, pick)
	}

	return picks, skipped
}

// NewPick scores a predicted row: adjusted confidence is the probability of the predicted side,
// edge is that probability minus the book's implied probability for the same side.
func NewPick(market models.MarketType, row models.EnrichedRow) (models.Pick, error) {
	side := models.SideUnder
	price := row.OddsUnder
	adjusted := 1 - row.Confidence
	if row.Prediction == 1 {
		side = models.SideOver
		price = row.OddsOver
		adjusted = row.Confidence
	}

	if !row.Line.Valid {
		return models.Pick{}, fmt.Errorf("no line posted")
	}
	if !price.Valid {
		return models.Pick{}, fmt.Errorf("no %s price posted", side)
	}

	implied, err := oddsmath.ImpliedProbability(price.Value)
	if err != nil {
		return models.Pick{}, err
	}

	pick := models.Pick{
		Teams:              row.Teams,
		PlayerName:         row.PlayerName,
		Market:             market,
		Line:               row.Line.Value,
		Side:               side,
		OddsOver:           row.OddsOver.Value,
		OddsUnder:          row.OddsUnder.Value,
		Prediction:         row.Prediction,
		Confidence:         row.Confidence,
		AdjustedConfidence: adjusted,
		Edge:               oddsmath.ModelEdge(adjusted, implied),
		Date:               row.Date,
	}
	if row.OddsOver.Valid {
		pick.ImpliedProbOver, _ = oddsmath.ImpliedProbability(row.OddsOver.Value)
	}
	if row.OddsUnder.Valid {
		pick.ImpliedProbUnder, _ = oddsmath.ImpliedProbability(row.OddsUnder.Value)
	}
	return pick, nil
}

// SelectBets ranks picks by edge and chooses the straight bets and parlay legs.
// Straight bets never repeat a (player, market); parlay legs never repeat a player
// and never reuse a pick already chosen as a straight bet.
func SelectBets(picks []models.Pick, straightCount, parlayCount int) ([]models.Pick, []models.Pick) {
	order := make([]int, len(picks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return picks[order[a]].Edge > picks[order[b]].Edge
	})

	type playerMarket struct {
		player string
		market models.MarketType
	}

	used := make(map[int]bool)
	seen := make(map[playerMarket]bool)
	straight := make([]models.Pick, 0, straightCount)
	for _, i := range order {
		if len(straight) >= straightCount {
			break
		}
		key := playerMarket{picks[i].PlayerName, picks[i].Market}
		if seen[key] {
			continue
		}
		seen[key] = true
		used[i] = true
		straight = append(straight, picks[i])
	}

	players := make(map[string]bool)
	parlay := make([]models.Pick, 0, parlayCount)
	for _, i := range order {
		if len(parlay) >= parlayCount {
			break
		}
		if used[i] || players[picks[i].PlayerName] {
			continue
		}
		players[picks[i].PlayerName] = true
		parlay = append(parlay, picks[i])
	}

	return straight, parlay
}

// TopConfidence returns the n picks the model is most sure of
func TopConfidence(picks []models.Pick, n int) []models.Pick {
	sorted := make([]models.Pick, len(picks))
	copy(sorted, picks)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].AdjustedConfidence > sorted[b].AdjustedConfidence
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Select builds the day's selection from every market's picks
func (s *Selector) Select(runID string, picks []models.Pick, skipped int) (models.Selection, error) {
	straight, parlay := SelectBets(picks, s.opts.StraightCount, s.opts.ParlayCount)

	legs := make([]int, len(parlay))
	for i, p := range parlay {
		legs[i] = p.Odds()
	}
	combined, err := oddsmath.ParlayDecimal(legs)
	if err != nil {
		return models.Selection{}, fmt.Errorf("failed to price parlay: %w", err)
	}

	parlayStake := s.opts.DailyBudget.Mul(s.opts.ParlayShare).Round(2)
	straightBudget := s.opts.DailyBudget.Sub(parlayStake)
	straightStake := decimal.Zero
	if len(straight) > 0 {
		straightStake = straightBudget.Div(decimal.NewFromInt(int64(len(straight)))).Round(2)
	}

	parlayReturn := decimal.Zero
	if len(parlay) > 0 {
		parlayReturn = oddsmath.ExpectedParlayReturn(parlayStake, combined)
	} else {
		combined = 0
	}

	sel := models.Selection{
		RunID:         runID,
		Straight:      straight,
		Parlay:        parlay,
		TopConfidence: TopConfidence(picks, s.opts.TopCount),
		ParlayOdds:    combined,
		Budget:        s.opts.DailyBudget.StringFixed(2),
		ParlayStake:   parlayStake.StringFixed(2),
		StraightStake: straightStake.StringFixed(2),
		ParlayReturn:  parlayReturn.StringFixed(2),
		SkippedNoOdds: skipped,
	}

	s.log.WithFields(logrus.Fields{
		"run_id":      runID,
		"candidates":  len(picks),
		"straight":    len(straight),
		"parlay_legs": len(parlay),
		"parlay_odds": fmt.Sprintf("%.2f", combined),
		"skipped":     skipped,
	}).Info("selected bets")

	return sel, nil
}
