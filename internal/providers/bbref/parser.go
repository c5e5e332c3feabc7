package bbref

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/sports/basketball_nba"
)

const (
	gameLogDateLayout  = "2006-01-02"
	scheduleDateLayout = "Mon, Jan 2, 2006"
)

// ParseSearchResult returns the player page path from a search response.
// A search that matches one player redirects straight to the player page,
// in which case the canonical link is used.
func ParseSearchResult(doc *goquery.Document) (string, bool) {
	first := doc.Find("div#players div.search-item-url").First()
	if path := strings.TrimSpace(first.Text()); path != "" {
		return path, true
	}

	href, ok := doc.Find(`link[rel="canonical"]`).Attr("href")
	if ok && strings.Contains(href, "/players/") {
		return href, true
	}

	return "", false
}

// ParseGameLog reads the regular-season game rows, team and position from a game log page
func ParseGameLog(doc *goquery.Document) models.PlayerRecord {
	rec := models.PlayerRecord{Position: basketball_nba.UnknownPosition}

	rows := doc.Find(`tr[id^="pgl_basic"]`)
	if rows.Length() == 0 {
		rows = doc.Find("table#pgl_basic tbody tr, table#player_game_log_reg tbody tr")
	}

	rows.Each(func(_ int, row *goquery.Selection) {
		// Inactive and DNP rows carry a reason cell instead of stats
		if row.Find(`td[data-stat="pts"]`).Length() == 0 {
			return
		}

		rec.Games = append(rec.Games, models.GameStat{
			Date:     parseDate(cellText(row, "date_game", "date"), gameLogDateLayout),
			Points:   parseInt(cellText(row, "pts")),
			Rebounds: parseInt(cellText(row, "trb")),
			Assists:  parseInt(cellText(row, "ast")),
			Minutes:  parseMinutes(cellText(row, "mp")),
		})

		if team := cellText(row, "team_id", "team_name_abbr"); team != "" {
			rec.Team = team
		}
	})

	if rec.Team == "" {
		rec.Team = "Free Agent"
	}

	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if !strings.Contains(p.Find("strong").First().Text(), "Position") {
			return true
		}
		text := p.Text()
		if i := strings.Index(text, "Position"); i >= 0 {
			text = text[i+len("Position"):]
		}
		if i := strings.Index(text, "▪"); i >= 0 {
			text = text[:i]
		}
		rec.Position = basketball_nba.NormalizePosition(strings.TrimLeft(text, ": "))
		return false
	})

	return rec
}

// ParseSchedule reads decided games from a team schedule page.
// Rows without a result (future games, header rows) are skipped.
func ParseSchedule(doc *goquery.Document, team string) models.TeamRecord {
	rec := models.TeamRecord{Team: team}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		result := strings.ToUpper(strings.TrimSpace(row.Find(`td[data-stat="game_result"]`).Text()))
		if result != "W" && result != "L" {
			return
		}

		dateText := cellText(row, "date_game")
		if dateText == "" {
			dateText = strings.TrimSpace(row.Find(`th[data-stat="date_game"]`).Text())
		}

		rec.Results = append(rec.Results, models.TeamResult{
			Date: parseDate(dateText, scheduleDateLayout),
			Won:  result == "W",
		})
	})

	return rec
}

// cellText returns the text of the first td matching any of the data-stat names
func cellText(row *goquery.Selection, stats ...string) string {
	for _, stat := range stats {
		cell := row.Find(`td[data-stat="` + stat + `"]`)
		if cell.Length() > 0 {
			return strings.TrimSpace(cell.First().Text())
		}
	}
	return ""
}

// parseInt treats blank cells as zero
func parseInt(s string) int {
	i, _ := strconv.Atoi(strings.TrimSpace(s))
	return i
}

// parseMinutes converts "MM:SS" minutes to float
func parseMinutes(s string) float64 {
	if s == "" || s == "0" {
		return 0.0
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		mins, _ := strconv.Atoi(parts[0])
		secs := 0
		if len(parts) > 1 {
			secs, _ = strconv.Atoi(parts[1])
		}
		return float64(mins) + (float64(secs) / 60.0)
	}

	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseDate(s, layout string) time.Time {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
