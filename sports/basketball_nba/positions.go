package basketball_nba

import (
	"regexp"
	"strings"
)

// UnknownPosition is used when position text matches none of the five positions
const UnknownPosition = "Unknown"

// Positions lists the five normalized positions
var Positions = []string{"PG", "SG", "SF", "PF", "C"}

var positionPatterns = []struct {
	pattern *regexp.Regexp
	code    string
}{
	{regexp.MustCompile(`(?i)point\s+guard`), "PG"},
	{regexp.MustCompile(`(?i)shooting\s+guard`), "SG"},
	{regexp.MustCompile(`(?i)small\s+forward`), "SF"},
	{regexp.MustCompile(`(?i)power\s+forward`), "PF"},
	{regexp.MustCompile(`(?i)\bcenter\b`), "C"},
	{regexp.MustCompile(`\bPG\b`), "PG"},
	{regexp.MustCompile(`\bSG\b`), "SG"},
	{regexp.MustCompile(`\bSF\b`), "SF"},
	{regexp.MustCompile(`\bPF\b`), "PF"},
	{regexp.MustCompile(`\bC\b`), "C"},
}

// NormalizePosition maps free-form position prose to PG, SG, SF, PF or C.
// The earliest mention in the text wins; no match yields UnknownPosition.
func NormalizePosition(text string) string {
	text = strings.TrimSpace(text)
	best, bestAt := UnknownPosition, -1
	for _, p := range positionPatterns {
		loc := p.pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestAt == -1 || loc[0] < bestAt {
			best, bestAt = p.code, loc[0]
		}
	}
	return best
}
