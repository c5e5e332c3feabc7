package workbook_test

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/workbook"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/xuri/excelize/v2"
)

func TestWriteRead_Labeled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DataFrames", "FinishedOutput.xlsx")

	row := models.NewEnrichedRow(models.OddsRow{
		Teams:      "BOS Celtics @ MIA Heat",
		PlayerName: "Jayson Tatum",
		Line:       models.NewLine(27.5),
		OddsOver:   models.Price(-115),
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	row.Team = "BOS"
	row.Opponent = "MIA"
	row.Position = "SF"
	row.Coverage = models.WindowStats{Season: 55.5, Last10: 60, Last5: models.EmptyWindow}
	row.Covered = 1

	unlabeled := models.NewEnrichedRow(models.OddsRow{PlayerName: "Nobody"})

	err := workbook.Write(path, workbook.LayoutLabeled, workbook.Sheets{
		models.MarketP: {row, unlabeled},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	sheets, err := workbook.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sheets) != len(models.Markets()) {
		t.Errorf("expected a sheet per market, got %d", len(sheets))
	}

	got := sheets[models.MarketP]
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	r := got[0]
	if r.PlayerName != "Jayson Tatum" || r.Line.Value != 27.5 || !r.Line.Valid {
		t.Errorf("odds columns not preserved: %+v", r.OddsRow)
	}
	if !r.OddsOver.Valid || r.OddsOver.Value != -115 || r.OddsUnder.Valid {
		t.Errorf("prices not preserved: over=%v under=%v", r.OddsOver, r.OddsUnder)
	}
	if !r.Date.Equal(row.Date) || r.Market != models.MarketP {
		t.Errorf("date/market not preserved: %v %s", r.Date, r.Market)
	}
	if r.Coverage.Season != 55.5 || r.Coverage.Last5 != models.EmptyWindow {
		t.Errorf("coverage not preserved: %+v", r.Coverage)
	}
	if !math.IsNaN(r.Minutes.Season) {
		t.Errorf("NaN should survive as NAN, got %v", r.Minutes.Season)
	}
	if r.Covered != 1 || !math.IsNaN(got[1].Covered) {
		t.Errorf("labels not preserved: %v %v", r.Covered, got[1].Covered)
	}
	if got[1].Line.Valid {
		t.Error("missing line should read back as N/A")
	}
}

func TestWrite_NaNOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	row := models.NewEnrichedRow(models.OddsRow{PlayerName: "Nobody"})

	if err := workbook.Write(path, workbook.LayoutEnriched, workbook.Sheets{models.MarketR: {row}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("R")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	header := rows[0]
	for i, h := range header {
		switch h {
		case models.ColCoverageSeason:
			if rows[1][i] != models.NaNLabel {
				t.Errorf("coverage written as %q, want NAN", rows[1][i])
			}
		case models.ColLine, models.ColOddsOver:
			if rows[1][i] != models.NotAvailable {
				t.Errorf("%s written as %q, want N/A", h, rows[1][i])
			}
		case models.ColCovered:
			t.Error("enriched layout should not carry Covered")
		}
	}
}

func TestOddsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Finaloutput.xlsx")
	odds := map[models.MarketType][]models.OddsRow{
		models.MarketPRA: {{Teams: "LAL Lakers @ DEN Nuggets", PlayerName: "LeBron James", Line: models.NewLine(40.5), OddsOver: models.Price(110), OddsUnder: models.Price(-140)}},
	}
	if err := workbook.WriteOdds(path, odds); err != nil {
		t.Fatalf("WriteOdds: %v", err)
	}
	got, err := workbook.ReadOdds(path)
	if err != nil {
		t.Fatalf("ReadOdds: %v", err)
	}
	rows := got[models.MarketPRA]
	if len(rows) != 1 || rows[0].PlayerName != "LeBron James" || rows[0].OddsOver.Value != 110 || rows[0].Market != models.MarketPRA {
		t.Errorf("unexpected odds %+v", rows)
	}
	if len(got[models.MarketA]) != 0 {
		t.Error("empty market should have no rows")
	}
}

func TestRead_PredictionsWithPartialColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Predictions_for_today.xlsx")

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "PA")
	f.SetSheetRow("PA", "A1", &[]interface{}{"Teams", "Player Name", "O/U", "Prediction", "Confidence", "Extra"})
	f.SetSheetRow("PA", "A2", &[]interface{}{"BOS @ MIA", "Derrick White", 18.5, 1, 0.64, "ignored"})
	f.NewSheet("Notes")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	sheets, err := workbook.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	rows := sheets[models.MarketPA]
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].Predicted || rows[0].Prediction != 1 || rows[0].Confidence != 0.64 {
		t.Errorf("prediction not read: %+v", rows[0])
	}
	if rows[0].OddsOver.Valid {
		t.Error("absent odds column should leave odds unset")
	}
}

func TestWritePicks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Picks_for_today.xlsx")
	sel := models.Selection{
		RunID:        "run-1",
		Straight:     []models.Pick{{PlayerName: "Jayson Tatum", Market: models.MarketP, Side: models.SideOver, OddsOver: -110}},
		ParlayReturn: "24.00",
	}
	if err := workbook.WritePicks(path, sel); err != nil {
		t.Fatalf("WritePicks: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	name, err := f.GetCellValue(workbook.SheetStraight, "B2")
	if err != nil || name != "Jayson Tatum" {
		t.Errorf("straight sheet B2 = %q, %v", name, err)
	}
	ret, _ := f.GetCellValue(workbook.SheetSummary, "B6")
	if ret != "24.00" {
		t.Errorf("summary return = %q", ret)
	}
}
