package enrich_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/cache"
	"github.com/dustykeyboard1/DKScraper/internal/enrich"
	"github.com/dustykeyboard1/DKScraper/internal/providers/bbref"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// newAnalyzer wires the real caches to fake fetch functions
func newAnalyzer(players map[string]models.PlayerRecord) (*enrich.Analyzer, *int) {
	fetches := new(int)
	log := quietLogger()

	pc := cache.NewPlayerCache(func(ctx context.Context, name string) (models.PlayerRecord, error) {
		*fetches++
		rec, ok := players[name]
		if !ok {
			return models.PlayerRecord{}, fmt.Errorf("%w: %s", bbref.ErrPlayerNotFound, name)
		}
		return rec, nil
	}, log)

	tc := cache.NewTeamCache(func(ctx context.Context, team string) (models.TeamRecord, error) {
		switch team {
		case "BOS":
			return models.TeamRecord{Team: team, Results: []models.TeamResult{
				{Date: day(1), Won: true}, {Date: day(2), Won: true}, {Date: day(3), Won: false}, {Date: day(10), Won: false},
			}}, nil
		case "MIA":
			return models.TeamRecord{Team: team, Results: []models.TeamResult{
				{Date: day(1), Won: false}, {Date: day(3), Won: true},
			}}, nil
		}
		return models.TeamRecord{}, errors.New("status 404")
	}, log)

	dc := cache.NewDefenseCache(func(ctx context.Context, pos string) (models.DefenseTable, error) {
		table := models.NewDefenseTable(pos)
		table.Windows[models.WindowSeason]["MIA"] = models.DefenseRow{Points: 20, Rebounds: 4, Assists: 6}
		table.Windows[models.WindowLast7]["MIA"] = models.DefenseRow{Points: 22, Rebounds: 5, Assists: 7}
		table.Windows[models.WindowLast15]["MIA"] = models.DefenseRow{Points: 21, Rebounds: 4.5, Assists: 6.5}
		return table, nil
	}, log)

	return enrich.NewAnalyzer(pc, tc, dc, day(5), log), fetches
}

func tatum() models.PlayerRecord {
	return models.PlayerRecord{
		Name:     "Jayson Tatum",
		Team:     "BOS",
		Position: "PG",
		Games: models.GameLog{
			{Date: day(1), Points: 20, Rebounds: 5, Assists: 3, Minutes: 34},
			{Date: day(3), Points: 30, Rebounds: 10, Assists: 2, Minutes: 38},
			// played on the wager date, must not leak into features
			{Date: day(5), Points: 50, Rebounds: 20, Assists: 10, Minutes: 48},
		},
	}
}

func oddsRow(player string, line float64) models.OddsRow {
	return models.OddsRow{
		Teams:      "BOS Celtics @ MIA Heat",
		PlayerName: player,
		Line:       models.NewLine(line),
		OddsOver:   models.Price(-110),
		OddsUnder:  models.Price(-110),
		Date:       day(5),
	}
}

func TestEnrich_PointsScenario(t *testing.T) {
	analyzer, _ := newAnalyzer(map[string]models.PlayerRecord{"Jayson Tatum": tatum()})

	report := analyzer.Enrich(context.Background(), models.MarketP, []models.OddsRow{oddsRow("Jayson Tatum", 22)})
	if report.Succeeded != 1 || report.Skipped != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	row := report.Rows()[0]
	if row.Coverage.Season != 50 {
		t.Errorf("season coverage = %v, want 50", row.Coverage.Season)
	}
	if row.Percentile.Season != 50 {
		t.Errorf("season percentile = %v, want 50", row.Percentile.Season)
	}
	if row.Combined.Season != 25 {
		t.Errorf("combined average = %v, want 25", row.Combined.Season)
	}
	if row.Minutes.Last5 != 36 {
		t.Errorf("last 5 minutes = %v, want 36", row.Minutes.Last5)
	}
	if row.Team != "BOS" || row.Opponent != "MIA" || row.Position != "PG" {
		t.Errorf("unexpected team/opponent/position %s/%s/%s", row.Team, row.Opponent, row.Position)
	}

	// BOS won 2 of 3 games before day 5
	if math.Abs(row.TeamWinPct.Season-200.0/3) > 1e-9 {
		t.Errorf("team win pct = %v", row.TeamWinPct.Season)
	}
	if row.OpponentWinPct.Season != 50 {
		t.Errorf("opponent win pct = %v", row.OpponentWinPct.Season)
	}
	if row.Defense.Season != 20 || row.Defense.Last7 != 22 || row.Defense.Last15 != 21 {
		t.Errorf("unexpected defense %+v", row.Defense)
	}
}

func TestEnrich_MarketSumsRelevantStats(t *testing.T) {
	analyzer, _ := newAnalyzer(map[string]models.PlayerRecord{"Jayson Tatum": tatum()})

	// PRA totals are 28 and 42
	report := analyzer.Enrich(context.Background(), models.MarketPRA, []models.OddsRow{oddsRow("Jayson Tatum", 30)})
	row := report.Rows()[0]
	if row.Coverage.Season != 50 || row.Combined.Season != 35 {
		t.Errorf("coverage=%v combined=%v", row.Coverage.Season, row.Combined.Season)
	}
	if row.Defense.Season != 30 {
		t.Errorf("PRA defense = %v, want 30", row.Defense.Season)
	}
}

func TestEnrich_MissingPlayerIsUnevaluable(t *testing.T) {
	analyzer, _ := newAnalyzer(nil)

	rows := []models.OddsRow{
		oddsRow("Ghost Player", 10),
		{Teams: "BOS Celtics @ MIA Heat", PlayerName: models.NotAvailable, Line: models.NewLine(10)},
		{Teams: "BOS Celtics @ MIA Heat", PlayerName: "Jayson Tatum"},
	}
	report := analyzer.Enrich(context.Background(), models.MarketP, rows)

	if report.Skipped != 3 || report.Succeeded != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	wantReasons := []enrich.Reason{enrich.ReasonPlayerNotFound, enrich.ReasonMissingPlayer, enrich.ReasonMissingLine}
	for i, res := range report.Results {
		if res.Reason != wantReasons[i] {
			t.Errorf("row %d: reason %q, want %q", i, res.Reason, wantReasons[i])
		}
		if !math.IsNaN(res.Row.Coverage.Season) || !math.IsNaN(res.Row.Coverage.Last5) {
			t.Errorf("row %d: coverage should be NaN, got %+v", i, res.Row.Coverage)
		}
	}
	if len(report.Rows()) != len(rows) {
		t.Error("every odds row must produce an enriched row")
	}
}

func TestEnrich_NoPriorGamesUsesEmptyWindowSentinel(t *testing.T) {
	rookie := models.PlayerRecord{
		Name: "Rookie", Team: "BOS", Position: "C",
		Games: models.GameLog{{Date: day(6), Points: 12}},
	}
	analyzer, _ := newAnalyzer(map[string]models.PlayerRecord{"Rookie": rookie})

	row := analyzer.Enrich(context.Background(), models.MarketP, []models.OddsRow{oddsRow("Rookie", 10)}).Rows()[0]
	if row.Coverage.Season != models.EmptyWindow || row.Percentile.Last10 != models.EmptyWindow {
		t.Errorf("expected -99 sentinels, got %+v / %+v", row.Coverage, row.Percentile)
	}
}

func TestEnrich_UnknownOpponentLeavesRowPartial(t *testing.T) {
	analyzer, _ := newAnalyzer(map[string]models.PlayerRecord{"Jayson Tatum": tatum()})

	odds := oddsRow("Jayson Tatum", 22)
	odds.Teams = "Somewhere"
	report := analyzer.Enrich(context.Background(), models.MarketP, []models.OddsRow{odds})

	res := report.Results[0]
	if !res.OK() || len(res.Warnings) == 0 {
		t.Fatalf("expected evaluated row with warnings, got %+v", res)
	}
	if res.Row.Coverage.Season != 50 {
		t.Errorf("coverage should still be computed, got %v", res.Row.Coverage.Season)
	}
	if !math.IsNaN(res.Row.OpponentWinPct.Season) || !math.IsNaN(res.Row.Defense.Season) {
		t.Errorf("opponent features should stay NaN")
	}
}

func TestEnrich_Idempotent(t *testing.T) {
	analyzer, fetches := newAnalyzer(map[string]models.PlayerRecord{"Jayson Tatum": tatum()})
	rows := []models.OddsRow{oddsRow("Jayson Tatum", 22), oddsRow("Jayson Tatum", 22), oddsRow("Nobody", 5)}

	first := analyzer.Enrich(context.Background(), models.MarketPA, rows).Rows()
	second := analyzer.Enrich(context.Background(), models.MarketPA, rows).Rows()

	for i := range first {
		a, b := first[i].Features(), second[i].Features()
		for j := range a {
			if !sameFloat(a[j], b[j]) {
				t.Errorf("row %d feature %d differs: %v vs %v", i, j, a[j], b[j])
			}
		}
		if !sameFloat(first[i].Percentile.Season, second[i].Percentile.Season) {
			t.Errorf("row %d percentile differs", i)
		}
	}

	if *fetches != 2 {
		t.Errorf("expected one fetch per distinct player, got %d", *fetches)
	}
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

type panickingSource struct{}

func (panickingSource) Get(ctx context.Context, name string) (models.PlayerRecord, error) {
	panic("boom")
}

func TestEnrich_PanicDoesNotAbortBatch(t *testing.T) {
	analyzer := enrich.NewAnalyzer(panickingSource{}, nil, nil, day(5), quietLogger())

	report := analyzer.Enrich(context.Background(), models.MarketP, []models.OddsRow{oddsRow("A", 1), oddsRow("B", 2)})
	if report.Skipped != 2 {
		t.Fatalf("expected both rows skipped, got %+v", report)
	}
	if report.Results[1].Reason != enrich.ReasonPanic {
		t.Errorf("unexpected reason %q", report.Results[1].Reason)
	}
}
