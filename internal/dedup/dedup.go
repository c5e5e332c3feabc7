package dedup

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Deduplicator stops the same day's picks from being announced twice
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(client *redis.Client, ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    ttl,
	}
}

// ShouldAnnounce returns true the first time a selection is seen for the date
func (d *Deduplicator) ShouldAnnounce(ctx context.Context, date time.Time, sel models.Selection) (bool, error) {
	dedupKey := d.generateDedupKey(date, sel)

	ok, err := d.client.SetNX(ctx, dedupKey, sel.RunID, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set dedup key: %w", err)
	}

	return ok, nil
}

// generateDedupKey creates a key from the bets chosen, ignoring run ID and list order
// Key format: props:dedup:{date}:{picks_hash}
func (d *Deduplicator) generateDedupKey(date time.Time, sel models.Selection) string {
	ids := make([]string, 0, len(sel.Straight)+len(sel.Parlay))
	for _, p := range sel.Straight {
		ids = append(ids, "S:"+PickID(p))
	}
	for _, p := range sel.Parlay {
		ids = append(ids, "P:"+PickID(p))
	}
	sort.Strings(ids)

	hash := sha256.Sum256([]byte(strings.Join(ids, ",")))
	picksHash := fmt.Sprintf("%x", hash[:8])

	return fmt.Sprintf("props:dedup:%s:%s", date.Format("2006-01-02"), picksHash)
}

// PickID identifies a bet by player, market, side and line
func PickID(p models.Pick) string {
	return fmt.Sprintf("%s|%s|%s|%g", strings.ToLower(p.PlayerName), p.Market, p.Side, p.Line)
}

// Clear removes a dedup entry
func (d *Deduplicator) Clear(ctx context.Context, date time.Time, sel models.Selection) error {
	return d.client.Del(ctx, d.generateDedupKey(date, sel)).Err()
}
