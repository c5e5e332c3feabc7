package settler_test

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/settler"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/sirupsen/logrus"
)

type fakeLastGames map[string]models.GameStat

func (f fakeLastGames) Get(ctx context.Context, name string) (models.GameStat, error) {
	g, ok := f[name]
	if !ok {
		return models.GameStat{}, errors.New("not found")
	}
	return g, nil
}

type fakePicks struct{ settled []string }

func (f *fakePicks) SettlePick(ctx context.Context, row models.EnrichedRow) (int64, error) {
	f.settled = append(f.settled, row.PlayerName)
	return 1, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var wagerDay = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func row(name string, line float64) models.EnrichedRow {
	r := models.NewEnrichedRow(models.OddsRow{
		PlayerName: name,
		Line:       models.NewLine(line),
		Date:       wagerDay,
	})
	return r
}

func TestLabelOutcomes(t *testing.T) {
	games := fakeLastGames{
		"Over Guy":   {Date: wagerDay, Points: 25, Rebounds: 5, Assists: 5},
		"Under Guy":  {Date: wagerDay, Points: 10, Rebounds: 2, Assists: 1},
		"Rested Guy": {Date: wagerDay.AddDate(0, 0, -2), Points: 40},
		"Exact Guy":  {Date: wagerDay, Points: 20},
	}
	picks := &fakePicks{}
	s := settler.NewSettler(games, picks, quietLogger())

	noLine := row("Over Guy", 0)
	noLine.Line = models.Line{}

	rows := []models.EnrichedRow{
		row("Over Guy", 24.5),
		row("Under Guy", 12.5),
		row("Rested Guy", 20.5),
		row("Missing Guy", 10.5),
		row("Exact Guy", 20),
		noLine,
	}

	labeled, summary := s.LabelOutcomes(context.Background(), models.MarketP, rows)

	want := []float64{1, 0, math.NaN(), math.NaN(), 0, math.NaN()}
	for i, w := range want {
		got := labeled[i].Covered
		if math.IsNaN(w) != math.IsNaN(got) || (!math.IsNaN(w) && got != w) {
			t.Errorf("row %d (%s): covered = %v, want %v", i, labeled[i].PlayerName, got, w)
		}
	}

	if summary.Covered != 1 || summary.Missed != 2 || summary.Unknown != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.Settled != 3 || len(picks.settled) != 3 {
		t.Errorf("expected 3 stored picks settled, got %d", summary.Settled)
	}
}

func TestLabelOutcomes_MarketSum(t *testing.T) {
	games := fakeLastGames{"Big Man": {Date: wagerDay, Points: 10, Rebounds: 12, Assists: 1}}
	s := settler.NewSettler(games, nil, quietLogger())

	labeled, _ := s.LabelOutcomes(context.Background(), models.MarketPR, []models.EnrichedRow{row("Big Man", 21.5)})
	if labeled[0].Covered != 1 {
		t.Errorf("PR total 22 should cover 21.5, got %v", labeled[0].Covered)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		side    models.Side
		covered float64
		want    string
	}{
		{models.SideOver, 1, "won"},
		{models.SideOver, 0, "lost"},
		{models.SideUnder, 0, "won"},
		{models.SideUnder, 1, "lost"},
	}
	for _, tt := range tests {
		got, err := settler.Outcome(tt.side, tt.covered)
		if err != nil || got != tt.want {
			t.Errorf("Outcome(%s, %v) = %s, %v; want %s", tt.side, tt.covered, got, err, tt.want)
		}
	}
	if _, err := settler.Outcome(models.SideOver, math.NaN()); err == nil {
		t.Error("expected error for unlabeled row")
	}
}
