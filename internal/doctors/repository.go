package doctors

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for doctor storage
type Repository interface {
	Create(ctx context.Context, req *RegisterRequest) (*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in tests
// and local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
	emails  map[string]struct{}
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		doctors: make(map[string]*Doctor),
		emails:  make(map[string]struct{}),
	}
}

// Create registers a new doctor in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *RegisterRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.emails[req.Email]; exists {
		return nil, ErrEmailTaken
	}

	doc := &Doctor{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Specialty: req.Specialty,
		CreatedAt: time.Now().UTC(),
	}
	r.doctors[doc.ID] = doc
	r.emails[doc.Email] = struct{}{}
	return doc, nil
}

// GetByID retrieves a doctor by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return doc, nil
}

// List returns all registered doctors ordered by name.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Doctor, 0, len(r.doctors))
	for _, doc := range r.doctors {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
