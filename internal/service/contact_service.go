package service

import (
	"context"

	"github.com/contactform/backend/internal/model"
)

const (
	// DefaultPage and DefaultLimit apply when the admin listing gets no usable value.
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit normalises and stores a validated request, then sends the admin
	// notification and auto-reply. Only the store write can fail the call.
	Submit(ctx context.Context, req *model.ContactRequest, meta model.RequestMeta) (*model.Contact, error)

	// List returns one page of contacts, newest first.
	List(ctx context.Context, page, limit int) (*model.ContactPage, error)

	// MarkRead flags the contact as read and returns it.
	// Returns repository.ErrNotFound for unknown ids.
	MarkRead(ctx context.Context, id string) (*model.Contact, error)
}

// Notifier sends the two emails that follow a stored submission.
type Notifier interface {
	NotifyAdmin(ctx context.Context, c *model.Contact) error
	AutoReply(ctx context.Context, c *model.Contact) error
}
