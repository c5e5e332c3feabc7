package basketball_nba_test

import (
	"testing"

	"github.com/dustykeyboard1/DKScraper/sports/basketball_nba"
)

func TestGetTeamCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"full name", "Boston Celtics", "BOS", true},
		{"sportsbook prefix", "BOS Celtics", "BOS", true},
		{"shared city", "LA Lakers", "LAL", true},
		{"clippers", "LA Clippers", "LAC", true},
		{"two word nickname", "POR Trail Blazers", "POR", true},
		{"numeric nickname", "PHI 76ers", "PHI", true},
		{"alias code", "BKN", "BRK", true},
		{"alias phoenix", "PHX Suns", "PHO", true},
		{"plain code", "mia", "MIA", true},
		{"city only", "Golden State", "GSW", true},
		{"ambiguous city", "Los Angeles", "", false},
		{"unknown", "Seattle SuperSonics", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := basketball_nba.GetTeamCode(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("GetTeamCode(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestParseMatchup(t *testing.T) {
	tests := []struct {
		input string
		away  string
		home  string
	}{
		{"BOS Celtics @ MIA Heat", "BOS", "MIA"},
		{"Golden State Warriors at Los Angeles Lakers", "GSW", "LAL"},
		{"NY Knicks vs BKN Nets", "NYK", "BRK"},
		{"ATL Hawks@CHA Hornets", "ATL", "CHO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			away, home, err := basketball_nba.ParseMatchup(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if away != tt.away || home != tt.home {
				t.Errorf("got %s @ %s, want %s @ %s", away, home, tt.away, tt.home)
			}
		})
	}

	if _, _, err := basketball_nba.ParseMatchup("Celtics"); err == nil {
		t.Error("expected error for matchup without separator")
	}
}

func TestOpponent(t *testing.T) {
	opp, err := basketball_nba.Opponent("BOS Celtics @ MIA Heat", "MIA")
	if err != nil || opp != "BOS" {
		t.Errorf("Opponent() = %q, %v", opp, err)
	}
	opp, err = basketball_nba.Opponent("BKN Nets @ MIA Heat", "BKN")
	if err != nil || opp != "MIA" {
		t.Errorf("Opponent() via alias = %q, %v", opp, err)
	}
	if _, err := basketball_nba.Opponent("BOS Celtics @ MIA Heat", "LAL"); err == nil {
		t.Error("expected error when team is not in the matchup")
	}
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Point Guard and Shooting Guard ▪ Shoots: Right", "PG"},
		{"Shooting Guard and Point Guard", "SG"},
		{"Small Forward", "SF"},
		{"Power Forward and Center", "PF"},
		{"Center", "C"},
		{"C", "C"},
		{"SG", "SG"},
		{"Guard", basketball_nba.UnknownPosition},
		{"", basketball_nba.UnknownPosition},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := basketball_nba.NormalizePosition(tt.input); got != tt.expected {
				t.Errorf("NormalizePosition(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSportsbookMarketURL(t *testing.T) {
	sm, err := basketball_nba.SportsbookMarketFor("PR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := sm.URL("https://sportsbook.draftkings.com/nba-player-props")
	want := "https://sportsbook.draftkings.com/nba-player-props?category=player-combos&subcategory=pts-%2B-reb"
	if got != want {
		t.Errorf("URL() = %s, want %s", got, want)
	}
	if len(basketball_nba.SportsbookMarkets()) != 6 {
		t.Error("expected six markets")
	}
}
