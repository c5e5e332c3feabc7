package draftkings

import (
	"context"
	"fmt"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/providers/browser"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/sports/basketball_nba"
	"github.com/sirupsen/logrus"
)

const BaseURL = "https://sportsbook.draftkings.com/nba-player-props"

// Scraper loads the DraftKings NBA player-props pages, one per market
type Scraper struct {
	loader  browser.Loader
	baseURL string
	log     logrus.FieldLogger
}

// NewScraper creates a new DraftKings scraper
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

// ScrapeMarket returns the odds rows of one market
func (s *Scraper) ScrapeMarket(ctx context.Context, market models.MarketType, date time.Time) ([]models.OddsRow, error) {
	sm, err := basketball_nba.SportsbookMarketFor(market)
	if err != nil {
		return nil, err
	}

	html, err := s.loader.Load(ctx, sm.URL(s.baseURL), gameSelector)
	if err != nil {
		return nil, fmt.Errorf("loading %s props: %w", market, err)
	}

	return ParseOddsTable(html, market, date)
}

// ScrapeAll returns the odds rows of every market. A market that fails to load is logged and left out.
func (s *Scraper) ScrapeAll(ctx context.Context, date time.Time) (map[models.MarketType][]models.OddsRow, error) {
	out := make(map[models.MarketType][]models.OddsRow)

	for _, sm := range basketball_nba.SportsbookMarkets() {
		rows, err := s.ScrapeMarket(ctx, sm.Market, date)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			s.log.WithError(err).WithField("market", sm.Market).Warn("failed to scrape market")
			continue
		}
		s.log.WithFields(logrus.Fields{"market": sm.Market, "rows": len(rows)}).Info("scraped market")
		out[sm.Market] = rows
	}

	if len(out) == 0 {
		return out, fmt.Errorf("no markets scraped")
	}
	return out, nil
}
