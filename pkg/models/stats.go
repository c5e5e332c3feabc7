package models

import (
	"math"
	"time"
)

// Sentinels for insufficient data. Neither is ever counted in an aggregate.
const (
	EmptyWindow = -99.0 // metric over a window with no games
	NaNLabel    = "NAN" // on-disk form of an unevaluable value
)

// Unevaluable returns the in-memory sentinel for a row that could not be computed
func Unevaluable() float64 {
	return math.NaN()
}

// IsMissing reports whether v is one of the sentinels
func IsMissing(v float64) bool {
	return math.IsNaN(v) || v == EmptyWindow
}

// GameStat is one line of a player's game log
type GameStat struct {
	Date     time.Time `json:"date"`
	Points   int       `json:"points"`
	Rebounds int       `json:"rebounds"`
	Assists  int       `json:"assists"`
	Minutes  float64   `json:"minutes"`
}

// GameLog is a chronological sequence of games
type GameLog []GameStat

// Before returns the games played strictly before date.
// A zero date disables the filter.
func (g GameLog) Before(date time.Time) GameLog {
	if date.IsZero() {
		return g
	}
	cutoff := truncateDay(date)
	out := make(GameLog, 0, len(g))
	for _, s := range g {
		if truncateDay(s.Date).Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// Last returns the most recent n games
func (g GameLog) Last(n int) GameLog {
	if len(g) <= n {
		return g
	}
	return g[len(g)-n:]
}

// Totals sums each game's stats according to the market
func (g GameLog) Totals(stats StatSet) []float64 {
	out := make([]float64, len(g))
	for i, s := range g {
		out[i] = float64(stats.Sum(s.Points, s.Rebounds, s.Assists))
	}
	return out
}

// Minutes returns minutes played per game
func (g GameLog) Minutes() []float64 {
	out := make([]float64, len(g))
	for i, s := range g {
		out[i] = s.Minutes
	}
	return out
}

// PlayerRecord is the cached season profile of a player
type PlayerRecord struct {
	Name     string  `json:"name"`
	Games    GameLog `json:"games"`
	Team     string  `json:"team"`     // team code
	Position string  `json:"position"` // PG, SG, SF, PF, C or Unknown
}

// Empty reports whether the record carries no games (unresolved or failed fetch)
func (p PlayerRecord) Empty() bool {
	return len(p.Games) == 0
}

// TeamResult is one decided game of a team's schedule
type TeamResult struct {
	Date time.Time `json:"date"`
	Won  bool      `json:"won"`
}

// TeamRecord is a team's chronological win/loss sequence
type TeamRecord struct {
	Team    string       `json:"team"`
	Results []TeamResult `json:"results"`
}

// Before returns a record restricted to games strictly before date
func (t TeamRecord) Before(date time.Time) TeamRecord {
	if date.IsZero() {
		return t
	}
	cutoff := truncateDay(date)
	out := TeamRecord{Team: t.Team}
	for _, r := range t.Results {
		if truncateDay(r.Date).Before(cutoff) {
			out.Results = append(out.Results, r)
		}
	}
	return out
}

// Outcomes returns the record as a {1=win, 0=loss} sequence
func (t TeamRecord) Outcomes() []int {
	out := make([]int, len(t.Results))
	for i, r := range t.Results {
		if r.Won {
			out[i] = 1
		}
	}
	return out
}

// truncateDay keeps the calendar day as written in t's own location and pins it to UTC midnight,
// so a game date parsed in UTC and a wager date taken from the local clock name the same day.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
