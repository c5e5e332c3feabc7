package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultSubject is used for the daily picks message
const DefaultSubject = "Today's Betting Picks"

// Message is one notification
type Message struct {
	Subject     string
	Body        string
	Attachments []string // file paths
}

// Notifier delivers a message to one destination
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// PicksMessage builds the daily message around a rendered selection
func PicksMessage(body string, date time.Time, attachments ...string) Message {
	subject := DefaultSubject
	if !date.IsZero() {
		subject = fmt.Sprintf("%s (%s)", DefaultSubject, date.Format("Jan 2, 2006"))
	}
	return Message{
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
	}
}

// Multi sends to every notifier and joins their errors
type Multi []Notifier

// Name returns "multi"
func (m Multi) Name() string { return "multi" }

// Notify sends msg to each notifier in turn. A failure does not stop later notifiers.
func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
