package models

// WindowStats is a metric over the season, last 10 and last 5 games
type WindowStats struct {
	Season float64 `json:"season"`
	Last10 float64 `json:"last_10"`
	Last5  float64 `json:"last_5"`
}

// UnevaluableWindows returns a WindowStats filled with the NaN sentinel
func UnevaluableWindows() WindowStats {
	return WindowStats{Season: Unevaluable(), Last10: Unevaluable(), Last5: Unevaluable()}
}

// DefenseStats is the opponent defense figure over the season, last 7 and last 15 games
type DefenseStats struct {
	Season float64 `json:"season"`
	Last7  float64 `json:"last_7"`
	Last15 float64 `json:"last_15"`
}

// UnevaluableDefense returns a DefenseStats filled with the NaN sentinel
func UnevaluableDefense() DefenseStats {
	return DefenseStats{Season: Unevaluable(), Last7: Unevaluable(), Last15: Unevaluable()}
}

// EnrichedRow is an OddsRow plus its derived features and, later, its label and prediction
type EnrichedRow struct {
	OddsRow

	Team     string `json:"team"`
	Opponent string `json:"opponent"`
	Position string `json:"position"`

	Coverage       WindowStats  `json:"coverage"`
	Percentile     WindowStats  `json:"percentile"`
	Minutes        WindowStats  `json:"minutes"`
	TeamWinPct     WindowStats  `json:"team_win_pct"`
	OpponentWinPct WindowStats  `json:"opponent_win_pct"`
	Defense        DefenseStats `json:"defense"`
	Combined       WindowStats  `json:"combined"`

	// Covered is 1 or 0 once labeled, NaN when the outcome could not be determined
	Covered float64 `json:"covered"`

	Predicted  bool    `json:"predicted"`
	Prediction int     `json:"prediction"` // 1 = over, 0 = under
	Confidence float64 `json:"confidence"` // P(over)
}

// NewEnrichedRow starts an enriched row with every derived value unevaluable
func NewEnrichedRow(odds OddsRow) EnrichedRow {
	return EnrichedRow{
		OddsRow:        odds,
		Coverage:       UnevaluableWindows(),
		Percentile:     UnevaluableWindows(),
		Minutes:        UnevaluableWindows(),
		TeamWinPct:     UnevaluableWindows(),
		OpponentWinPct: UnevaluableWindows(),
		Defense:        UnevaluableDefense(),
		Combined:       UnevaluableWindows(),
		Covered:        Unevaluable(),
	}
}

// Features returns the model inputs in the fixed column order of FeatureColumns
func (r EnrichedRow) Features() []float64 {
	return []float64{
		r.Combined.Last10,
		r.Combined.Last5,
		r.Combined.Season,
		r.Minutes.Season,
		r.Minutes.Last10,
		r.Coverage.Last10,
		r.TeamWinPct.Last10,
		r.Defense.Last15,
		r.Coverage.Last5,
		r.TeamWinPct.Last5,
		r.Minutes.Last5,
		r.Defense.Last7,
		r.OpponentWinPct.Last10,
		r.OpponentWinPct.Last5,
		r.OpponentWinPct.Season,
		r.Defense.Season,
		r.Coverage.Season,
		r.TeamWinPct.Season,
	}
}

// Labeled reports whether the row has a usable Covered label
func (r EnrichedRow) Labeled() bool {
	return r.Covered == 0 || r.Covered == 1
}

// Evaluated reports whether the player's own history produced any feature.
// Rows the enricher skipped, or whose game log had no earlier games, carry sentinels only.
func (r EnrichedRow) Evaluated() bool {
	for _, v := range []float64{
		r.Coverage.Season, r.Coverage.Last10, r.Coverage.Last5,
		r.Combined.Season, r.Combined.Last10, r.Combined.Last5,
	} {
		if !IsMissing(v) {
			return true
		}
	}
	return false
}
