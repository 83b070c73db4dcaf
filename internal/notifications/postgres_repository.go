package notifications

import (
	"context"
	"database/sql"
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

// PostgresRepository stores notifications in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("notifications: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("notifications: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	query := `
		INSERT INTO notifications (id, doctor_id, appointment_id, message)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, n.ID, n.DoctorID, n.AppointmentID, n.Message).Scan(&createdAt); err != nil {
		return fmt.Errorf("notifications: insert failed: %w", err)
	}
	n.CreatedAt = createdAt
	return nil
}

// ListForDoctor returns the doctor's notifications, newest first, joined with
// the originating appointment's slot and client name where present.
func (r *PostgresRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*View, error) {
	query := `
		SELECT n.id, n.doctor_id, COALESCE(n.appointment_id::text, ''), n.message, n.is_read, n.created_at,
		       to_char(a.appointment_date, 'YYYY-MM-DD'),
		       to_char(a.appointment_time, 'HH24:MI'),
		       c.name
		FROM notifications n
		LEFT JOIN appointments a ON n.appointment_id = a.id
		LEFT JOIN clients c ON a.client_id = c.id
		WHERE n.doctor_id = $1
		ORDER BY n.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("notifications: list failed: %w", err)
	}
	defer rows.Close()

	var out []*View
	for rows.Next() {
		var (
			v                  View
			apptDate, apptTime sql.NullString
			clientName         sql.NullString
		)
		if err := rows.Scan(
			&v.ID, &v.DoctorID, &v.AppointmentID, &v.Message, &v.IsRead, &v.CreatedAt,
			&apptDate, &apptTime, &clientName,
		); err != nil {
			return nil, fmt.Errorf("notifications: scan failed: %w", err)
		}
		v.AppointmentDate = apptDate.String
		v.AppointmentTime = apptTime.String
		v.ClientName = clientName.String
		out = append(out, &v)
	}
	return out, rows.Err()
}

// MarkRead flips the read flag.
func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("notifications: mark read failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
