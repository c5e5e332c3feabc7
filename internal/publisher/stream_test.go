package publisher

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/redis/go-redis/v9"
)

const stream = "picks.selected.basketball_nba"

func setup(t *testing.T) (*redis.Client, *StreamPublisher) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, NewStreamPublisher(client, stream)
}

func TestPublishSelection(t *testing.T) {
	client, p := setup(t)
	ctx := context.Background()

	sel := models.Selection{
		RunID:    "run-1",
		Straight: []models.Pick{{PlayerName: "Jayson Tatum", Market: models.MarketP}},
		Parlay:   []models.Pick{{PlayerName: "Bam Adebayo", Market: models.MarketR}, {PlayerName: "Derrick White", Market: models.MarketA}},
		Budget:   "20.00",
	}
	if err := p.PublishSelection(ctx, sel); err != nil {
		t.Fatalf("PublishSelection: %v", err)
	}

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 3 picks and 1 selection, got %d entries", len(entries))
	}
	if entries[0].Values["kind"] != "straight" || entries[1].Values["kind"] != "parlay" {
		t.Errorf("unexpected entry kinds: %v %v", entries[0].Values, entries[1].Values)
	}
	if entries[3].Values["type"] != TypeSelection || entries[3].Values["run_id"] != "run-1" {
		t.Errorf("last entry should be the selection: %v", entries[3].Values)
	}

	latest, err := p.LatestSelection(ctx)
	if err != nil {
		t.Fatalf("LatestSelection: %v", err)
	}
	if latest.RunID != "run-1" || len(latest.Parlay) != 2 || latest.Budget != "20.00" {
		t.Errorf("unexpected latest selection %+v", latest)
	}
}

func TestLatestSelection_Empty(t *testing.T) {
	_, p := setup(t)
	if _, err := p.LatestSelection(context.Background()); !errors.Is(err, models.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}

func TestLatestSelection_NewestWins(t *testing.T) {
	_, p := setup(t)
	ctx := context.Background()
	p.PublishSelection(ctx, models.Selection{RunID: "run-1"})
	p.PublishSelection(ctx, models.Selection{RunID: "run-2"})

	latest, err := p.LatestSelection(ctx)
	if err != nil || latest.RunID != "run-2" {
		t.Errorf("expected run-2, got %+v, %v", latest, err)
	}
}
