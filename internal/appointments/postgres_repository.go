package appointments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database. The
// partial unique index on live (doctor, date, time) triples is what makes
// Insert and Update atomic with respect to competing bookings.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("appointments: exec required")
	}
	return &PostgresRepository{pool: exec}
}

const apptColumns = `
	a.id, a.client_id, a.doctor_id,
	to_char(a.appointment_date, 'YYYY-MM-DD'),
	to_char(a.appointment_time, 'HH24:MI'),
	a.reason, a.status,
	to_char(a.reschedule_date, 'YYYY-MM-DD'),
	to_char(a.reschedule_time, 'HH24:MI'),
	a.reschedule_reason,
	a.created_at, a.updated_at`

func scanAppointment(row pgx.Row, a *Appointment) error {
	var resDate, resTime, resReason sql.NullString
	if err := row.Scan(
		&a.ID, &a.ClientID, &a.DoctorID,
		&a.Date, &a.Time,
		&a.Reason, &a.Status,
		&resDate, &resTime, &resReason,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return err
	}
	if resDate.Valid && resTime.Valid {
		a.Reschedule = &RescheduleProposal{
			Date:   resDate.String,
			Time:   resTime.String,
			Reason: resReason.String,
		}
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrSlotConflict
		case "23503":
			return ErrNotFound
		}
	}
	return nil
}

// Insert stores a new appointment. A unique violation on the live-slot index
// means another booking won the slot.
func (r *PostgresRepository) Insert(ctx context.Context, a *Appointment) error {
	query := `
		INSERT INTO appointments (id, client_id, doctor_id, appointment_date, appointment_time, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.ID, a.ClientID, a.DoctorID, a.Date, a.Time, a.Reason, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches an appointment by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT` + apptColumns + ` FROM appointments a WHERE a.id = $1`

	var a Appointment
	if err := scanAppointment(r.pool.QueryRow(ctx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return &a, nil
}

// Update persists status, slot and proposal changes in one statement.
func (r *PostgresRepository) Update(ctx context.Context, a *Appointment) error {
	var resDate, resTime, resReason *string
	if a.Reschedule != nil {
		resDate = &a.Reschedule.Date
		resTime = &a.Reschedule.Time
		resReason = &a.Reschedule.Reason
	}

	query := `
		UPDATE appointments
		SET appointment_date = $2,
		    appointment_time = $3,
		    status = $4,
		    reschedule_date = $5,
		    reschedule_time = $6,
		    reschedule_reason = $7,
		    updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, a.ID, a.Date, a.Time, a.Status, resDate, resTime, resReason)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("appointments: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SlotTaken reports whether a pending or accepted appointment occupies the slot.
func (r *PostgresRepository) SlotTaken(ctx context.Context, doctorID, date, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND appointment_date = $2
			  AND appointment_time = $3
			  AND status IN ('pending', 'accepted')
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, doctorID, date, timeOfDay).Scan(&exists); err != nil {
		return false, fmt.Errorf("appointments: slot check failed: %w", err)
	}
	return exists, nil
}

// ListForClient returns the client's appointments, newest first, joined with
// the assigned doctor's directory entry.
func (r *PostgresRepository) ListForClient(ctx context.Context, clientID string) ([]*ClientAppointment, error) {
	query := `
		SELECT` + apptColumns + `, d.name, d.specialty
		FROM appointments a
		JOIN doctors d ON a.doctor_id = d.id
		WHERE a.client_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("appointments: client list failed: %w", err)
	}
	defer rows.Close()

	var out []*ClientAppointment
	for rows.Next() {
		var (
			a                Appointment
			resDate, resTime sql.NullString
			resReason        sql.NullString
			view             ClientAppointment
		)
		if err := rows.Scan(
			&a.ID, &a.ClientID, &a.DoctorID,
			&a.Date, &a.Time,
			&a.Reason, &a.Status,
			&resDate, &resTime, &resReason,
			&a.CreatedAt, &a.UpdatedAt,
			&view.DoctorName, &view.DoctorSpecialty,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		if resDate.Valid && resTime.Valid {
			a.Reschedule = &RescheduleProposal{Date: resDate.String, Time: resTime.String, Reason: resReason.String}
		}
		view.Appointment = a
		out = append(out, &view)
	}
	return out, rows.Err()
}

// ListForDoctor returns the doctor's appointments per the filter's ordering,
// joined with the owning client's contact details.
func (r *PostgresRepository) ListForDoctor(ctx context.Context, doctorID string, filter DoctorListFilter) ([]*DoctorAppointment, error) {
	where := `WHERE a.doctor_id = $1`
	order := `ORDER BY a.appointment_date DESC, a.appointment_time DESC`
	switch filter {
	case FilterPending:
		where += ` AND a.status = 'pending'`
		order = `ORDER BY a.appointment_date ASC, a.appointment_time ASC`
	case FilterCompleted:
		where += ` AND a.status = 'completed'`
	case FilterRescheduleRequested:
		where += ` AND a.status = 'reschedule_requested'`
		order = `ORDER BY a.created_at DESC`
	}

	query := `
		SELECT` + apptColumns + `, c.name, c.email, COALESCE(c.phone, '')
		FROM appointments a
		JOIN clients c ON a.client_id = c.id
		` + where + `
		` + order

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("appointments: doctor list failed: %w", err)
	}
	defer rows.Close()

	var out []*DoctorAppointment
	for rows.Next() {
		var (
			a                Appointment
			resDate, resTime sql.NullString
			resReason        sql.NullString
			view             DoctorAppointment
		)
		if err := rows.Scan(
			&a.ID, &a.ClientID, &a.DoctorID,
			&a.Date, &a.Time,
			&a.Reason, &a.Status,
			&resDate, &resTime, &resReason,
			&a.CreatedAt, &a.UpdatedAt,
			&view.ClientName, &view.ClientEmail, &view.ClientPhone,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		if resDate.Valid && resTime.Valid {
			a.Reschedule = &RescheduleProposal{Date: resDate.String, Time: resTime.String, Reason: resReason.String}
		}
		view.Appointment = a
		out = append(out, &view)
	}
	return out, rows.Err()
}
