package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Sheets holds one workbook's rows, keyed by market
type Sheets map[models.MarketType][]models.EnrichedRow

// Total returns the number of rows across every sheet
func (s Sheets) Total() int {
	n := 0
	for _, rows := range s {
		n += len(rows)
	}
	return n
}

// Write saves the sheets to path with one sheet per market, in market order.
// Markets with no entry still get a header-only sheet so downstream readers find every sheet.
func Write(path string, layout Layout, sheets Sheets) error {
	f := excelize.NewFile()
	defer f.Close()

	cols := layout.columns()
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}

	for i, market := range models.Markets() {
		name := string(market)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", name, err)
		}

		for r, row := range sheets[market] {
			values := make([]interface{}, len(cols))
			for j, c := range cols {
				values[j] = c.get(&row)
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of %s: %w", r+2, name, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Read loads every market sheet of the workbook at path.
// Columns are matched by header name; absent columns leave their fields unevaluable.
// Sheets whose name is not a market are ignored.
func Read(path string) (Sheets, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	known := readableColumns()
	sheets := make(Sheets)

	for _, name := range f.GetSheetList() {
		market, err := models.ParseMarket(name)
		if err != nil {
			continue
		}

		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		if len(rows) == 0 {
			sheets[market] = nil
			continue
		}

		cols := make([]*column, len(rows[0]))
		for i, h := range rows[0] {
			if c, ok := known[strings.TrimSpace(h)]; ok {
				cols[i] = &c
			}
		}

		out := make([]models.EnrichedRow, 0, len(rows)-1)
		for r, cells := range rows[1:] {
			if blank(cells) {
				continue
			}
			row := models.NewEnrichedRow(models.OddsRow{Market: market})
			for i, cell := range cells {
				if i >= len(cols) || cols[i] == nil {
					continue
				}
				if err := cols[i].set(&row, cell); err != nil {
					return nil, fmt.Errorf("sheet %s row %d column %q: %w", name, r+2, cols[i].name, err)
				}
			}
			out = append(out, row)
		}
		sheets[market] = out
	}

	return sheets, nil
}

// WriteOdds saves scraped odds in the odds layout
func WriteOdds(path string, odds map[models.MarketType][]models.OddsRow) error {
	sheets := make(Sheets, len(odds))
	for market, rows := range odds {
		enriched := make([]models.EnrichedRow, len(rows))
		for i, row := range rows {
			row.Market = market
			enriched[i] = models.NewEnrichedRow(row)
		}
		sheets[market] = enriched
	}
	return Write(path, LayoutOdds, sheets)
}

// ReadOdds loads a workbook and keeps only the odds columns
func ReadOdds(path string) (map[models.MarketType][]models.OddsRow, error) {
	sheets, err := Read(path)
	if err != nil {
		return nil, err
	}

	odds := make(map[models.MarketType][]models.OddsRow, len(sheets))
	for market, rows := range sheets {
		out := make([]models.OddsRow, len(rows))
		for i, row := range rows {
			out[i] = row.OddsRow
		}
		odds[market] = out
	}
	return odds, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
