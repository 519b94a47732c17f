package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReminderLogRepository struct {
	pool *pgxpool.Pool
}

func NewReminderLogRepository(pool *pgxpool.Pool) *ReminderLogRepository {
	return &ReminderLogRepository{pool: pool}
}

// Claim records that a reminder for (appointment, date) is being sent. The
// unique pair makes delivery at-most-once per appointment per day even across
// process restarts: only the inserting caller gets true.
func (r *ReminderLogRepository) Claim(ctx context.Context, appointmentID int64, date string) (bool, error) {
	query := `
		INSERT INTO reminder_logs (appointment_id, remind_date, status)
		VALUES ($1, $2::date, 'pending')
		ON CONFLICT (appointment_id, remind_date) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, appointmentID, date)
	if err != nil {
		return false, fmt.Errorf("claim reminder: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Finalize records the outcome of a claimed reminder send.
func (r *ReminderLogRepository) Finalize(ctx context.Context, appointmentID int64, date, status, errorMessage string) error {
	query := `
		UPDATE reminder_logs
		SET status = $3, error_message = $4, sent_at = now()
		WHERE appointment_id = $1 AND remind_date = $2::date
	`

	if _, err := r.pool.Exec(ctx, query, appointmentID, date, status, errorMessage); err != nil {
		return fmt.Errorf("finalize reminder: %w", err)
	}

	return nil
}
