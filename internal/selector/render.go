package selector

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
)

// Render formats a selection as the plain-text body of the daily email
func Render(sel models.Selection) string {
	var b strings.Builder

	b.WriteString("Selected Straight Bets:\n")
	writeTable(&b, sel.Straight)
	fmt.Fprintf(&b, "\nBudget per Straight Bet: %s\n\n", sel.StraightStake)

	b.WriteString("Parlay Bet Candidates:\n")
	writeTable(&b, sel.Parlay)
	fmt.Fprintf(&b, "Parlay Odds (decimal): %.2f\n", sel.ParlayOdds)
	fmt.Fprintf(&b, "Parlay Budget: %s\n", sel.ParlayStake)
	fmt.Fprintf(&b, "Expected Parlay Return (if successful): %s\n\n", sel.ParlayReturn)

	fmt.Fprintf(&b, "Top %d Confidence Bets:\n", len(sel.TopConfidence))
	writeTable(&b, sel.TopConfidence)

	if sel.SkippedNoOdds > 0 {
		fmt.Fprintf(&b, "\n%d predictions skipped for missing odds\n", sel.SkippedNoOdds)
	}

	return b.String()
}

func writeTable(b *strings.Builder, picks []models.Pick) {
	if len(picks) == 0 {
		b.WriteString("  (none)\n")
		return
	}

	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		models.ColTeams, models.ColPlayer, models.ColBetType, models.ColLine, models.ColPrediction,
		models.ColOddsOver, models.ColOddsUnder, models.ColAdjustedConfidence, models.ColModelEdge)
	for _, p := range picks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\t%s\t%s\t%.3f\t%+.3f\n",
			p.Teams, p.PlayerName, p.Market, p.Line, p.Side,
			price(p.OddsOver), price(p.OddsUnder),
			p.AdjustedConfidence, p.Edge)
	}
	w.Flush()
}

// price formats a stored price, treating 0 as not posted
func price(v int) models.AmericanOdds {
	if v == 0 {
		return models.AmericanOdds{}
	}
	return models.Price(v)
}
