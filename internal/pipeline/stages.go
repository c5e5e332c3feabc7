package pipeline

import (
	"fmt"
	"strings"
)

// Stage is one step of a daily run
type Stage string

const (
	StageLabel   Stage = "label"   // settle yesterday's enriched rows
	StageScrape  Stage = "scrape"  // today's odds
	StageEnrich  Stage = "enrich"  // features for today's odds
	StagePredict Stage = "predict" // train on labeled rows, predict today's rows
	StageSelect  Stage = "select"  // choose, announce and store the day's bets
)

// DefaultStages returns every stage in run order
func DefaultStages() []Stage {
	return []Stage{StageLabel, StageScrape, StageEnrich, StagePredict, StageSelect}
}

// ParseStages resolves configured stage names, keeping run order regardless of the order given
func ParseStages(names []string) ([]Stage, error) {
	if len(names) == 0 {
		return DefaultStages(), nil
	}

	want := make(map[Stage]bool, len(names))
	for _, n := range names {
		s := Stage(strings.ToLower(strings.TrimSpace(n)))
		if !s.valid() {
			return nil, fmt.Errorf("unknown pipeline stage %q", n)
		}
		want[s] = true
	}

	var stages []Stage
	for _, s := range DefaultStages() {
		if want[s] {
			stages = append(stages, s)
		}
	}
	return stages, nil
}

func (s Stage) valid() bool {
	for _, known := range DefaultStages() {
		if s == known {
			return true
		}
	}
	return false
}
