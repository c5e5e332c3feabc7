package models

import (
	"errors"
	"time"
)

// ErrNoSelection is returned by stores that hold no selection yet
var ErrNoSelection = errors.New("no selection available")

// Side is the direction of a prop bet
type Side string

const (
	SideOver  Side = "Over"
	SideUnder Side = "Under"
)

// Pick is a scored prediction ready for selection
type Pick struct {
	Teams              string     `json:"teams"`
	PlayerName         string     `json:"player_name"`
	Market             MarketType `json:"market"`
	Line               float64    `json:"line"`
	Side               Side       `json:"side"`
	OddsOver           int        `json:"odds_over"`
	OddsUnder          int        `json:"odds_under"`
	Prediction         int        `json:"prediction"`
	Confidence         float64    `json:"confidence"`
	ImpliedProbOver    float64    `json:"implied_prob_over"`
	ImpliedProbUnder   float64    `json:"implied_prob_under"`
	AdjustedConfidence float64    `json:"adjusted_confidence"`
	Edge               float64    `json:"model_edge"`
	Date               time.Time  `json:"date"`
}

// Odds returns the American price of the predicted side
func (p Pick) Odds() int {
	if p.Side == SideOver {
		return p.OddsOver
	}
	return p.OddsUnder
}

// Selection is the output of the bet selector for one day
type Selection struct {
	RunID         string  `json:"run_id"`
	Straight      []Pick  `json:"straight"`
	Parlay        []Pick  `json:"parlay"`
	TopConfidence []Pick  `json:"top_confidence"`
	ParlayOdds    float64 `json:"parlay_decimal_odds"`
	Budget        string  `json:"budget"`
	ParlayStake   string  `json:"parlay_stake"`
	StraightStake string  `json:"straight_stake"` // per bet
	ParlayReturn  string  `json:"expected_parlay_return"`
	SkippedNoOdds int     `json:"skipped_no_odds"`
}
