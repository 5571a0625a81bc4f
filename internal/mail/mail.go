// Package mail delivers the notification and auto-reply emails sent for each
// contact submission.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactform/backend/internal/model"
	gomail "github.com/wneessen/go-mail"
)

// Message is one outbound email with an HTML and an optional plain-text body.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Config holds SMTP account settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From defaults to Username.
	From    string
	Timeout time.Duration
}

// Enabled reports whether enough is configured to send mail.
func (c Config) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func (c Config) from() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// SMTPSender sends mail through an authenticated SMTP account using STARTTLS.
// A new connection is dialled per message; the client settings are reused.
type SMTPSender struct {
	cfg Config
}

// NewSMTPSender returns an SMTPSender for cfg.
func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) client() (*gomail.Client, error) {
	return gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(s.cfg.Timeout),
	)
}

// Verify dials and authenticates without sending anything.
func (s *SMTPSender) Verify(ctx context.Context) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	return c.Close()
}

// Send builds a multipart/alternative message and delivers it.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.from()); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	m.Subject(msg.Subject)
	if msg.Text != "" {
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	} else {
		m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	}

	c, err := s.client()
	if err != nil {
		return err
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// NopSender drops every message. Used when no SMTP account is configured.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, msg *Message) error {
	slog.Debug("mail disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}

// ErrNoRecipient is returned when the admin notification has nowhere to go.
var ErrNoRecipient = errors.New("mail: no recipient")

// Notifier renders and sends the two emails for a contact submission.
type Notifier struct {
	sender     Sender
	adminEmail string
	now        func() time.Time
}

// NewNotifier creates a Notifier that sends admin notifications to adminEmail.
func NewNotifier(sender Sender, adminEmail string) *Notifier {
	return &Notifier{sender: sender, adminEmail: adminEmail, now: time.Now}
}

// NotifyAdmin sends the "New Contact" notification to the administrator.
func (n *Notifier) NotifyAdmin(ctx context.Context, c *model.Contact) error {
	if n.adminEmail == "" {
		return ErrNoRecipient
	}
	msg, err := renderNotification(c, n.adminEmail, n.now())
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}

// AutoReply acknowledges receipt to the submitter.
func (n *Notifier) AutoReply(ctx context.Context, c *model.Contact) error {
	msg, err := renderAutoReply(c, n.now())
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}
