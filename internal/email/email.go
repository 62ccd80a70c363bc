package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inbucket/html2text"
	"github.com/wneessen/go-mail"

	"parking-slot-control/internal/config"
)

// Mailer is the outbound mail transport contract: attempt once, report
// success or failure. No retry, no queueing.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// Message represents an email message
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string // optional, will be auto-generated from HTML if empty
}

// Client is an SMTP Mailer. It is created once at startup and passed in
// explicitly wherever mail is sent.
type Client struct {
	client *mail.Client
	from   string

	logger *slog.Logger
}

// NewClient creates a new SMTP email client
func NewClient(cfg config.SMTP) (*Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(time.Duration(cfg.Timeout) * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &Client{
		client: client,
		from:   cfg.From,
		logger: slog.With("component", "email"),
	}, nil
}

// Send sends an email message. The client's timeout bounds the SMTP dial and
// handshake so a slow server cannot stall the calling request indefinitely.
func (c *Client) Send(ctx context.Context, msg *Message) error {
	if msg.Text == "" {
		text, err := htmlToText(msg.HTML)
		if err != nil {
			return fmt.Errorf("failed to convert HTML to text: %w", err)
		}
		msg.Text = text
	}

	m := mail.NewMsg()
	if err := m.From(c.from); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", c.from, err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	if err := c.client.DialAndSendWithContext(ctx, m); err != nil {
		c.logger.Warn("SMTP send failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return err
	}

	c.logger.Debug("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// htmlToText converts HTML to plain text
func htmlToText(htmlContent string) (string, error) {
	text, err := html2text.FromString(htmlContent, html2text.Options{
		PrettyTables: true,
		OmitLinks:    false,
	})
	if err != nil {
		slog.Error("failed to convert HTML to text", "error", err)
		return "", err
	}
	return text, nil
}
