package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/contactform/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactColumns = `id, name, email, phone, subject, message, created_at, is_read, ip_address, user_agent`

func scanContact(scan func(...any) error) (*model.Contact, error) {
	var c model.Contact
	if err := scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message,
		&c.CreatedAt, &c.IsRead, &c.IPAddress, &c.UserAgent); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contacts row. The id is generated here so that every
// backend hands out ids before the write returns.
func (r *PgContactRepository) Create(ctx context.Context, c *model.Contact) error {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contacts (id, name, email, phone, subject, message, created_at, is_read, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, c.Name, c.Email, c.Phone, c.Subject, c.Message, c.CreatedAt, c.IsRead, c.IPAddress, c.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.ID = id
	return nil
}

// List returns contacts ordered newest-first and paginated by limit/offset.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+`
		 FROM contacts
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*model.Contact
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Count returns the total number of stored contacts.
func (r *PgContactRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// MarkRead sets is_read = TRUE and returns the updated row.
func (r *PgContactRepository) MarkRead(ctx context.Context, id string) (*model.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	c, err := scanContact(r.pool.QueryRow(ctx,
		`UPDATE contacts SET is_read = TRUE WHERE id = $1 RETURNING `+contactColumns,
		id,
	).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark contact read: %w", err)
	}
	return c, nil
}
