package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/retry"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// mailSender is satisfied by *gomail.Dialer
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends messages over SMTP with attachments
type EmailNotifier struct {
	sender mailSender
	from   string
	to     []string
	retry  *retry.RetryPolicy
	log    logrus.FieldLogger
}

// NewEmailNotifier creates a new SMTP notifier. The dialer negotiates STARTTLS when the server offers it.
func NewEmailNotifier(host string, port int, username, password, from string, to []string, log logrus.FieldLogger) *EmailNotifier {
	return newEmailNotifier(gomail.NewDialer(host, port, username, password), from, to, log)
}

func newEmailNotifier(sender mailSender, from string, to []string, log logrus.FieldLogger) *EmailNotifier {
	return &EmailNotifier{
		sender: sender,
		from:   from,
		to:     to,
		retry:  retry.NewRetryPolicy(3, 2*time.Second),
		log:    log,
	}
}

// Name returns "email"
func (e *EmailNotifier) Name() string { return "email" }

// Notify emails msg to every recipient
func (e *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if len(e.to) == 0 {
		return fmt.Errorf("no email recipients configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, path := range msg.Attachments {
		m.Attach(path)
	}

	err := e.retry.Execute(ctx, func(ctx context.Context) error {
		return e.sender.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"recipients":  len(e.to),
		"attachments": len(msg.Attachments),
	}).Info("email sent")
	return nil
}
