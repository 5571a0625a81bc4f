package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contactform/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg *Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func testContact() *model.Contact {
	return &model.Contact{
		ID:        "65f0c0ffee0000000000abcd",
		Name:      "Alice",
		Email:     "alice@example.com",
		Subject:   "Pricing",
		Message:   "First line\nSecond line",
		CreatedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		IPAddress: "203.0.113.7",
	}
}

func newTestNotifier(s Sender, admin string) *Notifier {
	n := NewNotifier(s, admin)
	n.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }
	return n
}

func TestNotifier_NotifyAdmin(t *testing.T) {
	s := &recordingSender{}
	n := newTestNotifier(s, "admin@example.com")

	require.NoError(t, n.NotifyAdmin(context.Background(), testContact()))
	require.Len(t, s.sent, 1)

	msg := s.sent[0]
	assert.Equal(t, "admin@example.com", msg.To)
	assert.Equal(t, "New Contact: Pricing", msg.Subject)
	assert.Contains(t, msg.HTML, "First line<br>Second line")
	assert.Contains(t, msg.HTML, "Not provided")
	assert.Contains(t, msg.HTML, "203.0.113.7")
	assert.Contains(t, msg.HTML, "65f0c0ffee0000000000abcd")
	assert.Contains(t, msg.Text, "Email: alice@example.com")
	assert.Contains(t, msg.Text, "First line\nSecond line")
	assert.Contains(t, msg.Text, "Oct 17, 2026 09:30:00 UTC")
}

func TestNotifier_NotifyAdmin_EscapesHTML(t *testing.T) {
	s := &recordingSender{}
	n := newTestNotifier(s, "admin@example.com")

	c := testContact()
	c.Name = "<script>alert(1)</script>"
	c.Phone = "555-0100"
	require.NoError(t, n.NotifyAdmin(context.Background(), c))

	html := s.sent[0].HTML
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "555-0100")
}

func TestNotifier_NotifyAdmin_NoRecipient(t *testing.T) {
	s := &recordingSender{}
	n := newTestNotifier(s, "")

	err := n.NotifyAdmin(context.Background(), testContact())
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Empty(t, s.sent)
}

func TestNotifier_AutoReply(t *testing.T) {
	s := &recordingSender{}
	n := newTestNotifier(s, "admin@example.com")

	require.NoError(t, n.AutoReply(context.Background(), testContact()))
	require.Len(t, s.sent, 1)

	msg := s.sent[0]
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Thank you for contacting us!", msg.Subject)
	assert.Contains(t, msg.HTML, "Thank you for your message, Alice!")
	assert.Contains(t, msg.HTML, "Pricing")
	assert.Empty(t, msg.Text)
}

func TestNotifier_SenderErrorIsReturned(t *testing.T) {
	boom := errors.New("535 authentication failed")
	n := newTestNotifier(&recordingSender{err: boom}, "admin@example.com")

	assert.ErrorIs(t, n.AutoReply(context.Background(), testContact()), boom)
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Host: "smtp.example.com", Username: "u"}.Enabled())
	assert.True(t, Config{Host: "smtp.example.com", Username: "u", Password: "p"}.Enabled())
}

func TestConfig_FromDefaultsToUsername(t *testing.T) {
	assert.Equal(t, "u@example.com", Config{Username: "u@example.com"}.from())
	assert.Equal(t, "noreply@example.com", Config{Username: "u@example.com", From: "noreply@example.com"}.from())
}

func TestNewSMTPSender_Defaults(t *testing.T) {
	s := NewSMTPSender(Config{Host: "smtp.example.com"})
	assert.Equal(t, 587, s.cfg.Port)
	assert.Equal(t, 10*time.Second, s.cfg.Timeout)
}
