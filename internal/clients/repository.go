package clients

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for client storage
type Repository interface {
	Create(ctx context.Context, req *RegisterRequest) (*Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in tests
// and local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	clients map[string]*Client
	emails  map[string]struct{}
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		clients: make(map[string]*Client),
		emails:  make(map[string]struct{}),
	}
}

// Create registers a new client in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *RegisterRequest) (*Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.emails[req.Email]; exists {
		return nil, ErrEmailTaken
	}

	c := &Client{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}
	r.clients[c.ID] = c
	r.emails[c.Email] = struct{}{}
	return c, nil
}

// GetByID retrieves a client by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return c, nil
}
