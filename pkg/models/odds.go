package models

import (
	"strconv"
	"time"
)

// NotAvailable is written wherever a scraped value was missing
const NotAvailable = "N/A"

// AmericanOdds is a sportsbook price. Valid is false when no price was posted.
type AmericanOdds struct {
	Value int  `json:"value"`
	Valid bool `json:"valid"`
}

// Price wraps a posted American price
func Price(v int) AmericanOdds {
	return AmericanOdds{Value: v, Valid: true}
}

// String formats the price as "+150", "-110" or "N/A"
func (o AmericanOdds) String() string {
	if !o.Valid {
		return NotAvailable
	}
	if o.Value > 0 {
		return "+" + strconv.Itoa(o.Value)
	}
	return strconv.Itoa(o.Value)
}

// Line is the O/U threshold of a prop. Valid is false when the book showed no line.
type Line struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// NewLine wraps a posted line value
func NewLine(v float64) Line {
	return Line{Value: v, Valid: true}
}

// String formats the line or returns "N/A"
func (l Line) String() string {
	if !l.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64)
}

// OddsRow is one player prop quote. Duplicates are possible and tolerated.
type OddsRow struct {
	Teams      string       `json:"teams"` // free-text matchup, e.g. "BOS Celtics @ MIA Heat"
	PlayerName string       `json:"player_name"`
	Line       Line         `json:"line"`
	OddsOver   AmericanOdds `json:"odds_over"`
	OddsUnder  AmericanOdds `json:"odds_under"`
	Market     MarketType   `json:"market"`
	Date       time.Time    `json:"date"` // wager date
}
