package basketball_nba

import (
	"fmt"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
)

const SportKey = "basketball_nba"

// SportsbookMarket locates a prop market on the DraftKings NBA player-props page
type SportsbookMarket struct {
	Market      models.MarketType
	Category    string
	Subcategory string
}

var sportsbookMarkets = []SportsbookMarket{
	{models.MarketPRA, "player-combos", "pts-%2B-reb-%2B-ast"},
	{models.MarketPR, "player-combos", "pts-%2B-reb"},
	{models.MarketPA, "player-combos", "pts-%2B-ast"},
	{models.MarketP, "player-points", "points"},
	{models.MarketR, "player-rebounds", "rebounds"},
	{models.MarketA, "player-assists", "assists"},
}

// SportsbookMarkets returns the catalogue in workbook sheet order
func SportsbookMarkets() []SportsbookMarket {
	out := make([]SportsbookMarket, len(sportsbookMarkets))
	copy(out, sportsbookMarkets)
	return out
}

// SportsbookMarketFor returns the catalogue entry for a market
func SportsbookMarketFor(m models.MarketType) (SportsbookMarket, error) {
	for _, sm := range sportsbookMarkets {
		if sm.Market == m {
			return sm, nil
		}
	}
	return SportsbookMarket{}, fmt.Errorf("no sportsbook market for %q", m)
}

// URL builds the page URL under base
func (s SportsbookMarket) URL(base string) string {
	return fmt.Sprintf("%s?category=%s&subcategory=%s", base, s.Category, s.Subcategory)
}
