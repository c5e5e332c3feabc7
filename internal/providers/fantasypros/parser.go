package fantasypros

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/sports/basketball_nba"
)

// Row classes the page uses to tag each split
var windowClasses = map[models.DefenseWindow]string{
	models.WindowSeason: "GC-0",
	models.WindowLast7:  "GC-7",
	models.WindowLast15: "GC-15",
}

// ParseDefenseTable reads one window of the defense-vs-position table into team code → row.
// When rows are tagged with window and position classes only the matching ones are read.
func ParseDefenseTable(html, position string, window models.DefenseWindow) (map[string]models.DefenseRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table#data-table").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("defense table not found")
	}

	cols := map[string]int{}
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		cols[strings.ToUpper(strings.TrimSpace(th.Text()))] = i
	})
	ptsIdx, okP := cols["PTS"]
	rebIdx, okR := cols["REB"]
	astIdx, okA := cols["AST"]
	if !okP || !okR || !okA {
		return nil, fmt.Errorf("defense table missing PTS/REB/AST columns")
	}

	windowClass := windowClasses[window]
	tagged := table.Find("tbody tr." + windowClass).Length() > 0

	out := map[string]models.DefenseRow{}
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if tagged && (!tr.HasClass(windowClass) || !tr.HasClass(position)) {
			return
		}

		cells := tr.Find("td")
		if cells.Length() <= astIdx || cells.Length() <= ptsIdx || cells.Length() <= rebIdx {
			return
		}

		team, ok := teamCode(cells.Eq(0))
		if !ok {
			return
		}

		out[team] = models.DefenseRow{
			Points:   parseFloat(cells.Eq(ptsIdx).Text()),
			Rebounds: parseFloat(cells.Eq(rebIdx).Text()),
			Assists:  parseFloat(cells.Eq(astIdx).Text()),
		}
	})

	return out, nil
}

// teamCode resolves the team cell, which may hold an abbreviation span and a full name
func teamCode(cell *goquery.Selection) (string, bool) {
	if abbr := strings.TrimSpace(cell.Find("span.team-abbr, abbr").First().Text()); abbr != "" {
		if code, ok := basketball_nba.GetTeamCode(abbr); ok {
			return code, true
		}
	}
	if name := strings.TrimSpace(cell.Find("a").First().Text()); name != "" {
		if code, ok := basketball_nba.GetTeamCode(name); ok {
			return code, true
		}
	}
	return basketball_nba.GetTeamCode(strings.Join(strings.Fields(cell.Text()), " "))
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
