package models

import (
	"fmt"
	"strings"
)

// MarketType identifies which box-score stats a prop line is settled against
type MarketType string

const (
	MarketPRA MarketType = "PRA" // points + rebounds + assists
	MarketPR  MarketType = "PR"  // points + rebounds
	MarketPA  MarketType = "PA"  // points + assists
	MarketP   MarketType = "P"
	MarketR   MarketType = "R"
	MarketA   MarketType = "A"
)

// StatSet lists which of points, rebounds and assists a market sums
type StatSet struct {
	Points   bool
	Rebounds bool
	Assists  bool
}

var marketStats = map[MarketType]StatSet{
	MarketPRA: {Points: true, Rebounds: true, Assists: true},
	MarketPR:  {Points: true, Rebounds: true},
	MarketPA:  {Points: true, Assists: true},
	MarketP:   {Points: true},
	MarketR:   {Rebounds: true},
	MarketA:   {Assists: true},
}

// Markets returns every market in workbook sheet order
func Markets() []MarketType {
	return []MarketType{MarketPRA, MarketPR, MarketPA, MarketP, MarketR, MarketA}
}

// ParseMarket resolves a sheet name or market code
func ParseMarket(s string) (MarketType, error) {
	m := MarketType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := marketStats[m]; !ok {
		return "", fmt.Errorf("unknown market type %q", s)
	}
	return m, nil
}

// Stats returns the stat mapping for the market
func (m MarketType) Stats() StatSet {
	return marketStats[m]
}

// Valid reports whether m is one of the known markets
func (m MarketType) Valid() bool {
	_, ok := marketStats[m]
	return ok
}

// Sum adds up the stats the market settles on
func (s StatSet) Sum(points, rebounds, assists int) int {
	total := 0
	if s.Points {
		total += points
	}
	if s.Rebounds {
		total += rebounds
	}
	if s.Assists {
		total += assists
	}
	return total
}

// SumFloat is Sum for aggregated (non-integer) stat rows
func (s StatSet) SumFloat(points, rebounds, assists float64) float64 {
	total := 0.0
	if s.Points {
		total += points
	}
	if s.Rebounds {
		total += rebounds
	}
	if s.Assists {
		total += assists
	}
	return total
}
