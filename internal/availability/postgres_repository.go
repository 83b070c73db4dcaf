package availability

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
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores blackout dates in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("availability: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("availability: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// Add records a blackout date for the doctor.
func (r *PostgresRepository) Add(ctx context.Context, doctorID, date, reason string) (*UnavailableDate, error) {
	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}

	id := uuid.New()
	query := `
		INSERT INTO unavailable_dates (id, doctor_id, unavailable_date, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, doctorID, date, reason).Scan(&createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDateAlreadyBlocked
		}
		return nil, fmt.Errorf("availability: insert failed: %w", err)
	}

	return &UnavailableDate{
		ID:        id.String(),
		DoctorID:  doctorID,
		Date:      date,
		Reason:    reason,
		CreatedAt: createdAt,
	}, nil
}

// Remove hard-deletes a blackout date. No audit trail is kept.
func (r *PostgresRepository) Remove(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM unavailable_dates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("availability: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForDoctor returns the doctor's blackout dates, most recent date first.
func (r *PostgresRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*UnavailableDate, error) {
	query := `
		SELECT id, doctor_id, to_char(unavailable_date, 'YYYY-MM-DD'), reason, created_at
		FROM unavailable_dates
		WHERE doctor_id = $1
		ORDER BY unavailable_date DESC
	`
	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("availability: list failed: %w", err)
	}
	defer rows.Close()

	var out []*UnavailableDate
	for rows.Next() {
		var d UnavailableDate
		if err := rows.Scan(&d.ID, &d.DoctorID, &d.Date, &d.Reason, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("availability: scan failed: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Exists reports whether the doctor blacked out the exact date.
func (r *PostgresRepository) Exists(ctx context.Context, doctorID, date string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM unavailable_dates
			WHERE doctor_id = $1 AND unavailable_date = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, doctorID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("availability: exists check failed: %w", err)
	}
	return exists, nil
}
