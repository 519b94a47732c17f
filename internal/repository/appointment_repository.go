package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravtsov/salonbot/internal/model"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `
	id, customer_id, service_key, service_name, duration_minutes, price,
	to_char(appointment_date, 'YYYY-MM-DD'), appointment_time, status, created_at`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.ServiceKey,
		&appt.ServiceName,
		&appt.DurationMinutes,
		&appt.Price,
		&appt.Date,
		&appt.Time,
		&appt.Status,
		&appt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// Insert creates a confirmed appointment. The partial unique index on
// (appointment_date, appointment_time) over non-cancelled rows makes this the
// single atomic reservation point: losing the race returns ErrConflict.
func (r *AppointmentRepository) Insert(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments
			(customer_id, service_key, service_name, duration_minutes, price,
			 appointment_date, appointment_time, status)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		appt.CustomerID,
		appt.ServiceKey,
		appt.ServiceName,
		appt.DurationMinutes,
		appt.Price,
		appt.Date,
		appt.Time,
		appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert appointment: %w", err)
	}

	return nil
}

// GetByID returns an appointment, or nil if absent.
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appt, nil
}

// BookedTimes returns the non-cancelled slot times taken on a date.
func (r *AppointmentRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	query := `
		SELECT appointment_time
		FROM appointments
		WHERE appointment_date = $1::date AND status <> 'cancelled'
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		times = append(times, t)
	}

	return times, rows.Err()
}

// Cancel marks an appointment cancelled. Already-cancelled rows are left
// untouched so the call stays idempotent.
func (r *AppointmentRepository) Cancel(ctx context.Context, id int64) error {
	query := `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1 AND status <> 'cancelled'
	`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}

	return nil
}

// ListByCustomer returns a customer's appointments, newest first.
func (r *AppointmentRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE customer_id = $1
		ORDER BY appointment_date DESC, appointment_time DESC
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by customer: %w", err)
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	return appts, rows.Err()
}

// ReminderTarget joins a confirmed appointment with its owner's contact info.
type ReminderTarget struct {
	Appointment model.Appointment
	Phone       string
	Name        string
}

// ConfirmedForDate returns every confirmed appointment on a date together
// with the customer's phone and name, ordered by slot time.
func (r *AppointmentRepository) ConfirmedForDate(ctx context.Context, date string) ([]ReminderTarget, error) {
	query := `
		SELECT a.id, a.customer_id, a.service_key, a.service_name, a.duration_minutes, a.price,
			to_char(a.appointment_date, 'YYYY-MM-DD'), a.appointment_time, a.status, a.created_at,
			c.phone, c.name
		FROM appointments a
		JOIN customers c ON c.id = a.customer_id
		WHERE a.appointment_date = $1::date AND a.status = 'confirmed'
		ORDER BY a.appointment_time
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get confirmed appointments: %w", err)
	}
	defer rows.Close()

	var targets []ReminderTarget
	for rows.Next() {
		var t ReminderTarget
		err := rows.Scan(
			&t.Appointment.ID,
			&t.Appointment.CustomerID,
			&t.Appointment.ServiceKey,
			&t.Appointment.ServiceName,
			&t.Appointment.DurationMinutes,
			&t.Appointment.Price,
			&t.Appointment.Date,
			&t.Appointment.Time,
			&t.Appointment.Status,
			&t.Appointment.CreatedAt,
			&t.Phone,
			&t.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reminder target: %w", err)
		}
		targets = append(targets, t)
	}

	return targets, rows.Err()
}
