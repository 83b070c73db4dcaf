package doctors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores doctors in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("doctors: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *RegisterRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO doctors (id, name, email, specialty)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, req.Name, req.Email, req.Specialty).Scan(&createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("doctors: insert failed: %w", err)
	}

	return &Doctor{
		ID:        id.String(),
		Name:      req.Name,
		Email:     req.Email,
		Specialty: req.Specialty,
		CreatedAt: createdAt,
	}, nil
}

// GetByID fetches a doctor by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	query := `
		SELECT id, name, email, specialty, created_at
		FROM doctors
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var doc Doctor
	if err := row.Scan(&doc.ID, &doc.Name, &doc.Email, &doc.Specialty, &doc.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select failed: %w", err)
	}
	return &doc, nil
}

// List returns all registered doctors ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*Doctor, error) {
	query := `
		SELECT id, name, email, specialty, created_at
		FROM doctors
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("doctors: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		var doc Doctor
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.Email, &doc.Specialty, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("doctors: scan failed: %w", err)
		}
		out = append(out, &doc)
	}
	return out, rows.Err()
}
