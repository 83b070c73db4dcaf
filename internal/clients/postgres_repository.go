package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores clients in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("clients: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("clients: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *RegisterRequest) (*Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO clients (id, name, email, phone)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, req.Name, req.Email, req.Phone).Scan(&createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("clients: insert failed: %w", err)
	}

	return &Client{
		ID:        id.String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: createdAt,
	}, nil
}

// GetByID fetches a client by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM clients
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var c Client
	var phone sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("clients: select failed: %w", err)
	}
	c.Phone = phone.String
	return &c, nil
}
