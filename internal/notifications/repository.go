package notifications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a notification does not exist
var ErrNotFound = errors.New("notification not found")

// Repository defines the interface for notification storage
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListForDoctor(ctx context.Context, doctorID string) ([]*View, error)
	MarkRead(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Notification
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*Notification)}
}

// Create stores a notification.
func (r *InMemoryRepository) Create(ctx context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

// ListForDoctor returns the doctor's notifications, newest first.
func (r *InMemoryRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*View
	for _, n := range r.items {
		if n.DoctorID == doctorID {
			out = append(out, &View{Notification: *n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkRead flips the read flag.
func (r *InMemoryRepository) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}
