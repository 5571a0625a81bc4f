package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/contactform/backend/internal/model"
	"github.com/google/uuid"
)

// MemoryContactRepository keeps contacts in process memory.
// Used for local development (memory:// store URL) and tests.
type MemoryContactRepository struct {
	mu      sync.RWMutex
	seq     int64
	entries []memoryEntry
}

type memoryEntry struct {
	seq     int64
	contact model.Contact
}

// NewMemoryContactRepository creates an empty MemoryContactRepository.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{}
}

var _ ContactRepository = (*MemoryContactRepository)(nil)

// Ping always succeeds.
func (r *MemoryContactRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryContactRepository) Create(ctx context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = uuid.NewString()
	r.entries = append(r.entries, memoryEntry{seq: r.seq, contact: *c})
	return nil
}

func (r *MemoryContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	r.mu.RLock()
	sorted := make([]memoryEntry, len(r.entries))
	copy(sorted, r.entries)
	r.mu.RUnlock()

	// newest first; insertion order breaks ties
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.contact.CreatedAt.Equal(b.contact.CreatedAt) {
			return a.contact.CreatedAt.After(b.contact.CreatedAt)
		}
		return a.seq > b.seq
	})

	contacts := []*model.Contact{}
	for i := max(opts.Offset, 0); i < len(sorted) && len(contacts) < opts.Limit; i++ {
		c := sorted[i].contact
		contacts = append(contacts, &c)
	}
	return contacts, nil
}

func (r *MemoryContactRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}

func (r *MemoryContactRepository) MarkRead(ctx context.Context, id string) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].contact.ID == id {
			r.entries[i].contact.IsRead = true
			c := r.entries[i].contact
			return &c, nil
		}
	}
	return nil, ErrNotFound
}
