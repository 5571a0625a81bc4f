package repository

import (
	"context"

	"github.com/contactform/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact submissions.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	// Create inserts c and populates c.ID.
	Create(ctx context.Context, c *model.Contact) error
	// List returns contacts newest-first, paginated by opts.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error)
	Count(ctx context.Context) (int64, error)
	// MarkRead sets is_read and returns the updated record, or ErrNotFound.
	MarkRead(ctx context.Context, id string) (*model.Contact, error)
}
