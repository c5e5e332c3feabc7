package fantasypros

import (
	"context"
	"fmt"

	"github.com/dustykeyboard1/DKScraper/internal/providers/browser"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	BaseURL       = "https://www.fantasypros.com/daily-fantasy/nba/fanduel-defense-vs-position.php"
	tableSelector = "table#data-table"
)

// Scraper collects defense-vs-position tables by stepping through the position and window tabs
type Scraper struct {
	loader  browser.Loader
	baseURL string
	log     logrus.FieldLogger
}

// NewScraper creates a new FantasyPros scraper
func NewScraper(loader browser.Loader, baseURL string, log logrus.FieldLogger) *Scraper {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Scraper{
		loader:  loader,
		baseURL: baseURL,
		log:     log,
	}
}

// positionTab and windowTab are the tab controls on the page
func positionTab(position string) string {
	return fmt.Sprintf(`a[data-pos="%s"]`, position)
}

func windowTab(window models.DefenseWindow) string {
	return fmt.Sprintf(`a[data-gc="%s"]`, windowClasses[window])
}

// FetchDefense returns the season, last 7 and last 15 tables for a position
func (s *Scraper) FetchDefense(ctx context.Context, position string) (models.DefenseTable, error) {
	table := models.NewDefenseTable(position)

	for _, window := range models.DefenseWindows() {
		html, err := s.loader.Load(ctx, s.baseURL, tableSelector, positionTab(position), windowTab(window))
		if err != nil {
			return table, fmt.Errorf("loading %s %s defense: %w", position, window, err)
		}

		rows, err := ParseDefenseTable(html, position, window)
		if err != nil {
			return table, fmt.Errorf("parsing %s %s defense: %w", position, window, err)
		}

		table.Windows[window] = rows
		s.log.WithFields(logrus.Fields{"position": position, "window": window, "teams": len(rows)}).Debug("parsed defense table")
	}

	return table, nil
}
