package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scrape.Delay != 7*time.Second {
		t.Errorf("Expected default delay 7s, got %s", cfg.Scrape.Delay)
	}
	if cfg.Scrape.Season != 2024 {
		t.Errorf("Expected default season 2024, got %d", cfg.Scrape.Season)
	}
	if cfg.Selection.StraightCount != 5 || cfg.Selection.ParlayCount != 4 {
		t.Errorf("Expected 5 straight / 4 parlay, got %d / %d", cfg.Selection.StraightCount, cfg.Selection.ParlayCount)
	}
	if cfg.Selection.DailyBudget != 20 || cfg.Selection.ParlayShare != 0.3 {
		t.Errorf("Unexpected budget defaults: %+v", cfg.Selection)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("Expected Redis disabled by default, got '%s'", cfg.Redis.URL)
	}
	if cfg.Redis.PickStream != "picks.selected.basketball_nba" {
		t.Errorf("Unexpected pick stream '%s'", cfg.Redis.PickStream)
	}
	if len(cfg.Schedule.Stages) != 5 {
		t.Errorf("Expected 5 default stages, got %v", cfg.Schedule.Stages)
	}
	if got := cfg.WorkbookPath(cfg.Workbooks.Odds); got != "DataFrames/Finaloutput.xlsx" {
		t.Errorf("WorkbookPath() = %s", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROPS_SCRAPE_DELAY", "2s")
	t.Setenv("PROPS_SELECTION_STRAIGHT_COUNT", "3")
	t.Setenv("REDIS_URL", "redis.example.com:6379")
	t.Setenv("PICKS_DSN", "postgres://picks@localhost/picks?sslmode=disable")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scrape.Delay != 2*time.Second {
		t.Errorf("Expected delay 2s, got %s", cfg.Scrape.Delay)
	}
	if cfg.Selection.StraightCount != 3 {
		t.Errorf("Expected straight count 3, got %d", cfg.Selection.StraightCount)
	}
	if cfg.Redis.URL != "redis.example.com:6379" {
		t.Errorf("Expected redis URL from REDIS_URL, got '%s'", cfg.Redis.URL)
	}
	if cfg.Postgres.DSN == "" {
		t.Error("Expected DSN from PICKS_DSN")
	}
	if cfg.Slack.WebhookURL == "" {
		t.Error("Expected webhook from SLACK_WEBHOOK_URL")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	yaml := []byte("selection:\n  daily_budget: 50\n  parlay_share: 0.5\nschedule:\n  cron: \"0 0 9 * * *\"\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Selection.DailyBudget != 50 || cfg.Selection.ParlayShare != 0.5 {
		t.Errorf("Unexpected selection: %+v", cfg.Selection)
	}
	if cfg.Schedule.Cron != "0 0 9 * * *" {
		t.Errorf("Unexpected cron '%s'", cfg.Schedule.Cron)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PROPS_SELECTION_PARLAY_SHARE", "1.5")

	if _, err := config.Load(""); err == nil {
		t.Error("Expected validation error for parlay share > 1")
	}
}
