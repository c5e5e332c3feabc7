package workbook

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/pkg/oddsmath"
)

const dateLayout = "2006-01-02"

// column binds a header name to an EnrichedRow field
type column struct {
	name string
	get  func(r *models.EnrichedRow) interface{}
	set  func(r *models.EnrichedRow, cell string) error
}

func floatColumn(name string, field func(r *models.EnrichedRow) *float64) column {
	return column{
		name: name,
		get: func(r *models.EnrichedRow) interface{} {
			return floatCell(*field(r))
		},
		set: func(r *models.EnrichedRow, cell string) error {
			v, err := parseFloatCell(cell)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
	}
}

func textColumn(name string, field func(r *models.EnrichedRow) *string) column {
	return column{
		name: name,
		get: func(r *models.EnrichedRow) interface{} {
			return *field(r)
		},
		set: func(r *models.EnrichedRow, cell string) error {
			*field(r) = strings.TrimSpace(cell)
			return nil
		},
	}
}

func oddsColumn(name string, field func(r *models.EnrichedRow) *models.AmericanOdds) column {
	return column{
		name: name,
		get: func(r *models.EnrichedRow) interface{} {
			o := *field(r)
			if !o.Valid {
				return models.NotAvailable
			}
			return o.Value
		},
		set: func(r *models.EnrichedRow, cell string) error {
			o, err := oddsmath.ParseAmerican(cell)
			if err != nil {
				return err
			}
			*field(r) = o
			return nil
		},
	}
}

var (
	teamsColumn  = textColumn(models.ColTeams, func(r *models.EnrichedRow) *string { return &r.Teams })
	playerColumn = textColumn(models.ColPlayer, func(r *models.EnrichedRow) *string { return &r.PlayerName })

	lineColumn = column{
		name: models.ColLine,
		get: func(r *models.EnrichedRow) interface{} {
			if !r.Line.Valid {
				return models.NotAvailable
			}
			return r.Line.Value
		},
		set: func(r *models.EnrichedRow, cell string) error {
			cell = strings.TrimSpace(cell)
			if cell == "" || strings.EqualFold(cell, models.NotAvailable) {
				r.Line = models.Line{}
				return nil
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", cell, err)
			}
			r.Line = models.NewLine(v)
			return nil
		},
	}

	overColumn  = oddsColumn(models.ColOddsOver, func(r *models.EnrichedRow) *models.AmericanOdds { return &r.OddsOver })
	underColumn = oddsColumn(models.ColOddsUnder, func(r *models.EnrichedRow) *models.AmericanOdds { return &r.OddsUnder })

	dateColumn = column{
		name: models.ColDate,
		get: func(r *models.EnrichedRow) interface{} {
			if r.Date.IsZero() {
				return ""
			}
			return r.Date.Format(dateLayout)
		},
		set: func(r *models.EnrichedRow, cell string) error {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				r.Date = time.Time{}
				return nil
			}
			d, err := time.Parse(dateLayout, cell)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", cell, err)
			}
			r.Date = d
			return nil
		},
	}

	predictionColumn = column{
		name: models.ColPrediction,
		get: func(r *models.EnrichedRow) interface{} {
			if !r.Predicted {
				return models.NaNLabel
			}
			return r.Prediction
		},
		set: func(r *models.EnrichedRow, cell string) error {
			v, err := parseFloatCell(cell)
			if err != nil {
				return err
			}
			if math.IsNaN(v) {
				r.Predicted = false
				return nil
			}
			r.Predicted = true
			r.Prediction = int(v)
			return nil
		},
	}
)

// oddsColumns are the columns written by the scrape stage
var oddsColumns = []column{teamsColumn, playerColumn, lineColumn, overColumn, underColumn, dateColumn}

// featureColumns are the columns written by the enrich stage, after the odds columns
var featureColumns = []column{
	textColumn(models.ColTeam, func(r *models.EnrichedRow) *string { return &r.Team }),
	textColumn(models.ColOpponent, func(r *models.EnrichedRow) *string { return &r.Opponent }),
	textColumn(models.ColPosition, func(r *models.EnrichedRow) *string { return &r.Position }),
	floatColumn(models.ColCoverageSeason, func(r *models.EnrichedRow) *float64 { return &r.Coverage.Season }),
	floatColumn(models.ColCoverageLast10, func(r *models.EnrichedRow) *float64 { return &r.Coverage.Last10 }),
	floatColumn(models.ColCoverageLast5, func(r *models.EnrichedRow) *float64 { return &r.Coverage.Last5 }),
	floatColumn(models.ColPercentileSeason, func(r *models.EnrichedRow) *float64 { return &r.Percentile.Season }),
	floatColumn(models.ColPercentileLast10, func(r *models.EnrichedRow) *float64 { return &r.Percentile.Last10 }),
	floatColumn(models.ColPercentileLast5, func(r *models.EnrichedRow) *float64 { return &r.Percentile.Last5 }),
	floatColumn(models.ColMinutesSeason, func(r *models.EnrichedRow) *float64 { return &r.Minutes.Season }),
	floatColumn(models.ColMinutesLast10, func(r *models.EnrichedRow) *float64 { return &r.Minutes.Last10 }),
	floatColumn(models.ColMinutesLast5, func(r *models.EnrichedRow) *float64 { return &r.Minutes.Last5 }),
	floatColumn(models.ColTeamWinSeason, func(r *models.EnrichedRow) *float64 { return &r.TeamWinPct.Season }),
	floatColumn(models.ColTeamWinLast10, func(r *models.EnrichedRow) *float64 { return &r.TeamWinPct.Last10 }),
	floatColumn(models.ColTeamWinLast5, func(r *models.EnrichedRow) *float64 { return &r.TeamWinPct.Last5 }),
	floatColumn(models.ColOppWinSeason, func(r *models.EnrichedRow) *float64 { return &r.OpponentWinPct.Season }),
	floatColumn(models.ColOppWinLast10, func(r *models.EnrichedRow) *float64 { return &r.OpponentWinPct.Last10 }),
	floatColumn(models.ColOppWinLast5, func(r *models.EnrichedRow) *float64 { return &r.OpponentWinPct.Last5 }),
	floatColumn(models.ColDefenseSeason, func(r *models.EnrichedRow) *float64 { return &r.Defense.Season }),
	floatColumn(models.ColDefenseLast7, func(r *models.EnrichedRow) *float64 { return &r.Defense.Last7 }),
	floatColumn(models.ColDefenseLast15, func(r *models.EnrichedRow) *float64 { return &r.Defense.Last15 }),
	floatColumn(models.ColCombinedSeason, func(r *models.EnrichedRow) *float64 { return &r.Combined.Season }),
	floatColumn(models.ColCombinedLast10, func(r *models.EnrichedRow) *float64 { return &r.Combined.Last10 }),
	floatColumn(models.ColCombinedLast5, func(r *models.EnrichedRow) *float64 { return &r.Combined.Last5 }),
}

var coveredColumn = floatColumn(models.ColCovered, func(r *models.EnrichedRow) *float64 { return &r.Covered })

var confidenceColumn = floatColumn(models.ColConfidence, func(r *models.EnrichedRow) *float64 { return &r.Confidence })

// Layout selects which columns a workbook carries
type Layout int

const (
	LayoutOdds        Layout = iota // scrape output
	LayoutEnriched                  // enrich output
	LayoutLabeled                   // enriched plus Covered
	LayoutPredictions               // enriched plus Prediction and Confidence
)

func (l Layout) columns() []column {
	cols := append([]column(nil), oddsColumns...)
	switch l {
	case LayoutEnriched:
		cols = append(cols, featureColumns...)
	case LayoutLabeled:
		cols = append(cols, featureColumns...)
		cols = append(cols, coveredColumn)
	case LayoutPredictions:
		cols = append(cols, featureColumns...)
		cols = append(cols, predictionColumn, confidenceColumn)
	}
	return cols
}

// readableColumns is every column a sheet may carry
func readableColumns() map[string]column {
	all := LayoutLabeled.columns()
	all = append(all, predictionColumn, confidenceColumn)
	byName := make(map[string]column, len(all))
	for _, c := range all {
		byName[c.name] = c
	}
	return byName
}

func floatCell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.NaNLabel
	}
	return v
}

func parseFloatCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, models.NaNLabel) || strings.EqualFold(cell, models.NotAvailable) {
		return models.Unevaluable(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", cell, err)
	}
	return v, nil
}
