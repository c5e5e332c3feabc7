package workbook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the picks workbook
const (
	SheetStraight      = "Straight"
	SheetParlay        = "Parlay"
	SheetTopConfidence = "Top Confidence"
	SheetSummary       = "Summary"
)

var pickHeader = []interface{}{
	models.ColTeams, models.ColPlayer, models.ColBetType, models.ColLine, models.ColPrediction,
	models.ColOddsOver, models.ColOddsUnder, models.ColConfidence, models.ColImpliedProbOver,
	models.ColImpliedProbUnder, models.ColAdjustedConfidence, models.ColModelEdge,
}

// WritePicks saves a selection as the attachment sent with the daily email
func WritePicks(path string, sel models.Selection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetStraight); err != nil {
		return err
	}
	for _, name := range []string{SheetParlay, SheetTopConfidence, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	lists := []struct {
		sheet string
		picks []models.Pick
	}{
		{SheetStraight, sel.Straight},
		{SheetParlay, sel.Parlay},
		{SheetTopConfidence, sel.TopConfidence},
	}
	for _, l := range lists {
		if err := writePickSheet(f, l.sheet, l.picks); err != nil {
			return err
		}
	}

	summary := [][]interface{}{
		{"Run ID", sel.RunID},
		{"Budget", sel.Budget},
		{"Budget per Straight Bet", sel.StraightStake},
		{"Parlay Budget", sel.ParlayStake},
		{"Parlay Odds", sel.ParlayOdds},
		{"Expected Parlay Return", sel.ParlayReturn},
		{"Skipped (no odds)", sel.SkippedNoOdds},
	}
	for i, line := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &line); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save picks workbook %s: %w", path, err)
	}
	return nil
}

func writePickSheet(f *excelize.File, sheet string, picks []models.Pick) error {
	header := pickHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	for i, p := range picks {
		values := []interface{}{
			p.Teams, p.PlayerName, string(p.Market), p.Line, string(p.Side),
			p.OddsOver, p.OddsUnder, p.Confidence, p.ImpliedProbOver,
			p.ImpliedProbUnder, p.AdjustedConfidence, p.Edge,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}
	return nil
}
