package models_test

import (
	"math"
	"testing"
	"time"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMarketStats(t *testing.T) {
	tests := []struct {
		market   models.MarketType
		expected int
	}{
		{models.MarketPRA, 20 + 5 + 3},
		{models.MarketPR, 20 + 5},
		{models.MarketPA, 20 + 3},
		{models.MarketP, 20},
		{models.MarketR, 5},
		{models.MarketA, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.market), func(t *testing.T) {
			got := tt.market.Stats().Sum(20, 5, 3)
			if got != tt.expected {
				t.Errorf("Sum() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestParseMarket(t *testing.T) {
	m, err := models.ParseMarket(" pra ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != models.MarketPRA {
		t.Errorf("got %s, want PRA", m)
	}

	if _, err := models.ParseMarket("STL"); err == nil {
		t.Error("expected error for unknown market")
	}
}

func TestGameLogBefore_LocalWagerDate(t *testing.T) {
	log := models.GameLog{
		{Date: day("2024-01-14"), Points: 10},
		{Date: day("2024-01-15"), Points: 20},
	}

	// 9pm on the 15th in New York is already the 16th in UTC
	evening := time.Date(2024, 1, 15, 21, 0, 0, 0, time.FixedZone("EST", -5*3600))
	got := log.Before(evening)
	if len(got) != 1 || got[0].Points != 10 {
		t.Errorf("games before the evening of Jan 15 = %+v, want only Jan 14", got)
	}
}

func TestGameLogBefore(t *testing.T) {
	log := models.GameLog{
		{Date: day("2024-01-01"), Points: 10},
		{Date: day("2024-01-03"), Points: 20},
		{Date: day("2024-01-05"), Points: 30},
	}

	got := log.Before(day("2024-01-05"))
	if len(got) != 2 {
		t.Fatalf("expected 2 games strictly before the wager date, got %d", len(got))
	}
	if got[1].Points != 20 {
		t.Errorf("last game points = %d, want 20", got[1].Points)
	}

	if len(log.Before(time.Time{})) != 3 {
		t.Error("zero date should not filter")
	}
}

func TestGameLogLast(t *testing.T) {
	log := make(models.GameLog, 12)
	for i := range log {
		log[i].Points = i
	}
	last := log.Last(5)
	if len(last) != 5 || last[0].Points != 7 {
		t.Errorf("Last(5) = %+v", last)
	}
	if len(log.Last(20)) != 12 {
		t.Error("Last(n) with n > len should return everything")
	}
}

func TestTeamRecordOutcomes(t *testing.T) {
	rec := models.TeamRecord{
		Team: "BOS",
		Results: []models.TeamResult{
			{Date: day("2024-01-01"), Won: true},
			{Date: day("2024-01-02"), Won: false},
			{Date: day("2024-01-04"), Won: true},
		},
	}
	got := rec.Before(day("2024-01-04")).Outcomes()
	if len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("Outcomes() = %v", got)
	}
}

func TestAmericanOddsString(t *testing.T) {
	if s := models.Price(150).String(); s != "+150" {
		t.Errorf("got %s", s)
	}
	if s := models.Price(-110).String(); s != "-110" {
		t.Errorf("got %s", s)
	}
	if s := (models.AmericanOdds{}).String(); s != models.NotAvailable {
		t.Errorf("got %s", s)
	}
}

func TestNewEnrichedRowIsUnevaluable(t *testing.T) {
	row := models.NewEnrichedRow(models.OddsRow{PlayerName: "Nobody"})
	for i, v := range row.Features() {
		if !math.IsNaN(v) {
			t.Errorf("feature %d = %v, want NaN", i, v)
		}
	}
	if row.Labeled() {
		t.Error("fresh row should not be labeled")
	}
	if row.Evaluated() {
		t.Error("fresh row should not be evaluated")
	}
	row.TeamWinPct = models.WindowStats{Season: 60, Last10: 50, Last5: 40}
	if row.Evaluated() {
		t.Error("team figures alone do not make a row evaluated")
	}
	row.Coverage.Last5 = 80
	if !row.Evaluated() {
		t.Error("a coverage figure makes the row evaluated")
	}
	if !models.IsMissing(models.EmptyWindow) {
		t.Error("EmptyWindow should count as missing")
	}
}
