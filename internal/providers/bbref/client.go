package bbref

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustykeyboard1/DKScraper/internal/ratelimit"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
)

const (
	BaseURL       = "https://www.basketball-reference.com"
	DefaultSeason = 2024
)

// ErrPlayerNotFound is returned when the search resolves to no player page
var ErrPlayerNotFound = errors.New("player not found")

// ErrNoGames is returned when a player page has no game rows
var ErrNoGames = errors.New("no games in game log")

// StatusError is a non-success response from the site
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("basketball-reference error: status=%d, url=%s", e.StatusCode, e.URL)
}

// Client handles basketball-reference page requests
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	season     int
	limiter    ratelimit.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host (tests)
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithSeason selects the season game logs are read from
func WithSeason(season int) Option {
	return func(c *Client) { c.season = season }
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a new basketball-reference client. Every request waits on limiter first.
func New(limiter ratelimit.Limiter, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: "Mozilla/5.0 (compatible; DKScraper/1.0)",
		baseURL:   BaseURL,
		season:    DefaultSeason,
		limiter:   limiter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPlayer resolves a player name to the URL of their season game log
func (c *Client) SearchPlayer(ctx context.Context, name string) (string, error) {
	searchURL := fmt.Sprintf("%s/search/search.fcgi?search=%s", c.baseURL, url.QueryEscape(name))

	doc, err := c.fetch(ctx, searchURL)
	if err != nil {
		return "", err
	}

	path, ok := ParseSearchResult(doc)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}

	// Canonical links are absolute
	if strings.HasPrefix(path, "http") {
		if u, err := url.Parse(path); err == nil {
			path = u.Path
		}
	}

	return fmt.Sprintf("%s%s/gamelog/%d", c.baseURL, strings.TrimSuffix(path, ".html"), c.season), nil
}

// FetchPlayer searches for a player and parses their season game log
func (c *Client) FetchPlayer(ctx context.Context, name string) (models.PlayerRecord, error) {
	gamelogURL, err := c.SearchPlayer(ctx, name)
	if err != nil {
		return models.PlayerRecord{}, err
	}

	doc, err := c.fetch(ctx, gamelogURL)
	if err != nil {
		return models.PlayerRecord{}, err
	}

	rec := ParseGameLog(doc)
	rec.Name = name
	return rec, nil
}

// FetchLastGame returns the player's most recent game
func (c *Client) FetchLastGame(ctx context.Context, name string) (models.GameStat, error) {
	rec, err := c.FetchPlayer(ctx, name)
	if err != nil {
		return models.GameStat{}, err
	}
	if len(rec.Games) == 0 {
		return models.GameStat{}, fmt.Errorf("%w: %s", ErrNoGames, name)
	}
	return rec.Games[len(rec.Games)-1], nil
}

// FetchTeamRecord parses a team's season schedule into decided games
func (c *Client) FetchTeamRecord(ctx context.Context, team string) (models.TeamRecord, error) {
	scheduleURL := fmt.Sprintf("%s/teams/%s/%d_games.html", c.baseURL, team, c.season)

	doc, err := c.fetch(ctx, scheduleURL)
	if err != nil {
		return models.TeamRecord{Team: team}, err
	}

	return ParseSchedule(doc, team), nil
}

// fetch waits on the limiter, makes an HTTP GET request and parses the HTML
func (c *Client) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return doc, nil
}
