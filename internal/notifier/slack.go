package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/sirupsen/logrus"
)

// SlackNotifier sends messages to Slack via webhook
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string, log logrus.FieldLogger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Name returns "slack"
func (s *SlackNotifier) Name() string { return "slack" }

// Notify posts the subject and body. Attachments cannot be sent through a webhook and are listed by name.
func (s *SlackNotifier) Notify(ctx context.Context, msg Message) error {
	startTime := time.Now()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n```\n%s\n```", msg.Subject, strings.TrimRight(msg.Body, "\n")))
	for _, a := range msg.Attachments {
		sb.WriteString(fmt.Sprintf("\n_attachment: %s_", a))
	}

	if err := s.post(ctx, sb.String()); err != nil {
		return err
	}

	s.log.WithField("latency_ms", time.Since(startTime).Milliseconds()).Info("slack message sent")
	return nil
}

// SendSelection posts a short summary of a selection
func (s *SlackNotifier) SendSelection(ctx context.Context, sel models.Selection) error {
	return s.post(ctx, FormatSelection(sel))
}

// FormatSelection formats a selection as a Slack message
func FormatSelection(sel models.Selection) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🏀 *NBA PROPS* | %d straight | %d leg parlay @ %.2f\n\n",
		len(sel.Straight), len(sel.Parlay), sel.ParlayOdds))

	for i, p := range sel.Straight {
		sb.WriteString(fmt.Sprintf("*%d.* %s %s %s %g @ %s | Edge: %.1f%%\n",
			i+1, p.PlayerName, p.Market, p.Side, p.Line, formatOdds(p.Odds()), p.Edge*100))
	}
	sb.WriteString(fmt.Sprintf("\n*Stake per straight:* %s", sel.StraightStake))

	if len(sel.Parlay) > 0 {
		sb.WriteString("\n\n*Parlay:*")
		for _, p := range sel.Parlay {
			sb.WriteString(fmt.Sprintf("\n• %s %s %s %g @ %s", p.PlayerName, p.Market, p.Side, p.Line, formatOdds(p.Odds())))
		}
		sb.WriteString(fmt.Sprintf("\n*Stake:* %s | *Return:* %s", sel.ParlayStake, sel.ParlayReturn))
	}

	sb.WriteString(fmt.Sprintf("\n\n_Run: %s_", sel.RunID))
	return sb.String()
}

func (s *SlackNotifier) post(ctx context.Context, text string) error {
	if s.webhookURL == "" {
		return fmt.Errorf("no webhook URL configured")
	}

	payload := map[string]interface{}{
		"text": text,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// formatOdds formats American odds with sign
func formatOdds(americanOdds int) string {
	if americanOdds > 0 {
		return fmt.Sprintf("+%d", americanOdds)
	}
	return fmt.Sprintf("%d", americanOdds)
}
