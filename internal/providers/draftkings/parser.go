package draftkings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/pkg/oddsmath"
)

const (
	gameSelector    = "div.sportsbook-event-accordion__wrapper.expanded"
	eventLabelAttr  = "aria-label"
	eventLabelStart = "Event Accordion for "
)

// ParseOddsTable reads every player row of every expanded game on a player-props page.
// Missing values are kept as "N/A" sentinels rather than dropping the row.
func ParseOddsTable(html string, market models.MarketType, date time.Time) ([]models.OddsRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var rows []models.OddsRow

	doc.Find(gameSelector).Each(func(_ int, game *goquery.Selection) {
		teams := models.NotAvailable
		game.Find(`div[` + eventLabelAttr + `^="` + eventLabelStart + `"]`).First().Each(func(_ int, s *goquery.Selection) {
			label, _ := s.Attr(eventLabelAttr)
			teams = strings.TrimSpace(strings.TrimPrefix(label, eventLabelStart))
		})

		game.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			outcomes := tr.Find("div.sportsbook-outcome-cell__body")
			nameSel := tr.Find("span.sportsbook-row-name")

			// Header rows have neither a player nor outcomes
			if nameSel.Length() == 0 && outcomes.Length() == 0 {
				return
			}

			row := models.OddsRow{
				Teams:      teams,
				PlayerName: models.NotAvailable,
				Market:     market,
				Date:       date,
			}
			if name := strings.TrimSpace(nameSel.First().Text()); name != "" {
				row.PlayerName = name
			}

			outcomes.Each(func(_ int, outcome *goquery.Selection) {
				label := strings.TrimSpace(outcome.Find("span.sportsbook-outcome-cell__label").Text())
				lineText := outcome.Find("span.sportsbook-outcome-cell__line").Text()
				oddsText := outcome.Find("span.sportsbook-odds").Text()

				odds, err := oddsmath.ParseAmerican(oddsText)
				if err != nil {
					odds = models.AmericanOdds{}
				}

				switch {
				case strings.HasPrefix(label, "O"):
					row.Line = parseLine(lineText)
					row.OddsOver = odds
				case strings.HasPrefix(label, "U"):
					row.OddsUnder = odds
				}
			})

			rows = append(rows, row)
		})
	})

	return rows, nil
}

func parseLine(text string) models.Line {
	text = strings.TrimSpace(text)
	if text == "" || text == models.NotAvailable {
		return models.Line{}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return models.Line{}
	}
	return models.NewLine(v)
}
