package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for blackout-date storage
type Repository interface {
	Add(ctx context.Context, doctorID, date, reason string) (*UnavailableDate, error)
	Remove(ctx context.Context, id string) error
	ListForDoctor(ctx context.Context, doctorID string) ([]*UnavailableDate, error)
	Exists(ctx context.Context, doctorID, date string) (bool, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in tests
// and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	dates map[string]*UnavailableDate
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{dates: make(map[string]*UnavailableDate)}
}

// Add records a blackout date for the doctor.
func (r *InMemoryRepository) Add(ctx context.Context, doctorID, date, reason string) (*UnavailableDate, error) {
	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.dates {
		if d.DoctorID == doctorID && d.Date == date {
			return nil, ErrDateAlreadyBlocked
		}
	}

	d := &UnavailableDate{
		ID:        uuid.New().String(),
		DoctorID:  doctorID,
		Date:      date,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	r.dates[d.ID] = d
	return d, nil
}

// Remove hard-deletes a blackout date.
func (r *InMemoryRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.dates[id]; !ok {
		return ErrNotFound
	}
	delete(r.dates, id)
	return nil
}

// ListForDoctor returns the doctor's blackout dates, most recent date first.
func (r *InMemoryRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*UnavailableDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*UnavailableDate
	for _, d := range r.dates {
		if d.DoctorID == doctorID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// Exists reports whether the doctor blacked out the exact date.
func (r *InMemoryRepository) Exists(ctx context.Context, doctorID, date string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.dates {
		if d.DoctorID == doctorID && d.Date == date {
			return true, nil
		}
	}
	return false, nil
}
