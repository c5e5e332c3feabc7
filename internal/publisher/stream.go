package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Entry types on the picks stream
const (
	TypePick      = "pick"
	TypeSelection = "selection"
)

// StreamPublisher publishes selected picks to a Redis stream
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher
// Stream key format: picks.selected.{sport_key}
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// PublishSelection publishes each chosen pick followed by the whole selection in a single pipeline
func (p *StreamPublisher) PublishSelection(ctx context.Context, sel models.Selection) error {
	pipe := p.client.Pipeline()

	lists := []struct {
		kind  string
		picks []models.Pick
	}{
		{"straight", sel.Straight},
		{"parlay", sel.Parlay},
	}
	for _, l := range lists {
		for _, pick := range l.picks {
			data, err := json.Marshal(pick)
			if err != nil {
				return fmt.Errorf("marshaling pick: %w", err)
			}
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: p.stream,
				Values: map[string]interface{}{
					"type":   TypePick,
					"kind":   l.kind,
					"run_id": sel.RunID,
					"data":   string(data),
				},
			})
		}
	}

	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("marshaling selection: %w", err)
	}
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type":   TypeSelection,
			"run_id": sel.RunID,
			"data":   string(data),
		},
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error publishing to stream %s: %w", p.stream, err)
	}
	return nil
}

// LatestSelection returns the most recently published selection
func (p *StreamPublisher) LatestSelection(ctx context.Context) (models.Selection, error) {
	entries, err := p.client.XRevRangeN(ctx, p.stream, "+", "-", 100).Result()
	if err != nil {
		return models.Selection{}, fmt.Errorf("error reading stream %s: %w", p.stream, err)
	}

	for _, e := range entries {
		if e.Values["type"] != TypeSelection {
			continue
		}
		raw, _ := e.Values["data"].(string)
		var sel models.Selection
		if err := json.Unmarshal([]byte(raw), &sel); err != nil {
			return models.Selection{}, fmt.Errorf("decoding selection %s: %w", e.ID, err)
		}
		return sel, nil
	}

	return models.Selection{}, models.ErrNoSelection
}
