package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo        repository.ContactRepository
	notifier    Notifier
	mailTimeout time.Duration
	now         func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
// mailTimeout bounds each outbound email.
func NewContactService(repo repository.ContactRepository, notifier Notifier, mailTimeout time.Duration) ContactService {
	if mailTimeout <= 0 {
		mailTimeout = 10 * time.Second
	}
	return &contactServiceImpl{
		repo:        repo,
		notifier:    notifier,
		mailTimeout: mailTimeout,
		now:         time.Now,
	}
}

// Normalize builds the record to store from a validated request.
func Normalize(req *model.ContactRequest, meta model.RequestMeta, now time.Time) *model.Contact {
	phone := ""
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}
	return &model.Contact{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     phone,
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: now.UTC(),
		IsRead:    false,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *model.ContactRequest, meta model.RequestMeta) (*model.Contact, error) {
	c := Normalize(req, meta, s.now())
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	// Mail must not be cut short by the client going away.
	mailCtx := context.WithoutCancel(ctx)
	s.send(mailCtx, "notification", c, s.notifier.NotifyAdmin)
	s.send(mailCtx, "auto-reply", c, s.notifier.AutoReply)

	return c, nil
}

func (s *contactServiceImpl) send(ctx context.Context, kind string, c *model.Contact, fn func(context.Context, *model.Contact) error) {
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	if err := fn(ctx, c); err != nil {
		slog.Warn("email send failed", "kind", kind, "contact_id", c.ID, "error", err)
		return
	}
	slog.Info("email sent", "kind", kind, "contact_id", c.ID)
}

func (s *contactServiceImpl) List(ctx context.Context, page, limit int) (*model.ContactPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	contacts, err := s.repo.List(ctx, model.ContactListOptions{
		Limit:  limit,
		Offset: pageOffset(page, limit),
	})
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	// Return [] not null for empty pages
	if contacts == nil {
		contacts = []*model.Contact{}
	}

	return &model.ContactPage{
		Contacts: contacts,
		Pagination: model.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: PageCount(total, limit),
		},
	}, nil
}

// pageOffset returns (page-1)*limit, saturating at math.MaxInt.
// page and limit must be >= 1.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// PageCount returns ceil(total/limit).
func PageCount(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

func (s *contactServiceImpl) MarkRead(ctx context.Context, id string) (*model.Contact, error) {
	return s.repo.MarkRead(ctx, id)
}
