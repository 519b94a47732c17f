package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mkravtsov/salonbot/internal/catalog"
	"github.com/mkravtsov/salonbot/internal/notify"
	"github.com/mkravtsov/salonbot/internal/repository"
	"go.uber.org/zap"
)

// ReminderSource lists tomorrow's confirmed appointments with contact info.
type ReminderSource interface {
	ConfirmedForDate(ctx context.Context, date string) ([]repository.ReminderTarget, error)
}

// ReminderLedger makes reminder delivery at-most-once per appointment per
// day: Claim wins exactly once for a (appointment, date) pair.
type ReminderLedger interface {
	Claim(ctx context.Context, appointmentID int64, date string) (bool, error)
	Finalize(ctx context.Context, appointmentID int64, date, status, errorMessage string) error
}

// ReminderService sends the day-before appointment reminders.
type ReminderService struct {
	source    ReminderSource
	ledger    ReminderLedger
	messenger notify.Messenger
	logger    *zap.Logger
	now       func() time.Time
}

func NewReminderService(source ReminderSource, ledger ReminderLedger, messenger notify.Messenger, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		source:    source,
		ledger:    ledger,
		messenger: messenger,
		logger:    logger,
		now:       time.Now,
	}
}

// SendDailyReminders enumerates tomorrow's confirmed appointments and sends
// each customer a reminder. Per-appointment failures are logged and skipped;
// one bad send never blocks the rest of the batch.
func (s *ReminderService) SendDailyReminders(ctx context.Context) error {
	tomorrow := s.now().AddDate(0, 0, 1).Format(catalog.DateLayout)

	targets, err := s.source.ConfirmedForDate(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("load appointments for %s: %w", tomorrow, err)
	}

	s.logger.Info("Running daily appointment reminders",
		zap.String("date", tomorrow),
		zap.Int("appointments", len(targets)),
	)

	for _, target := range targets {
		claimed, err := s.ledger.Claim(ctx, target.Appointment.ID, tomorrow)
		if err != nil {
			s.logger.Error("Failed to claim reminder",
				zap.Int64("appointment_id", target.Appointment.ID),
				zap.Error(err),
			)
			continue
		}
		if !claimed {
			// Another run already handled this appointment today.
			continue
		}

		status, errMsg := "sent", ""
		if err := s.messenger.Send(ctx, target.Phone, renderReminder(target)); err != nil {
			status, errMsg = "failed", err.Error()
			s.logger.Error("Failed to send reminder",
				zap.String("phone", target.Phone),
				zap.Int64("appointment_id", target.Appointment.ID),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Reminder sent",
				zap.String("phone", target.Phone),
				zap.Int64("appointment_id", target.Appointment.ID),
			)
		}

		if err := s.ledger.Finalize(ctx, target.Appointment.ID, tomorrow, status, errMsg); err != nil {
			s.logger.Error("Failed to record reminder outcome",
				zap.Int64("appointment_id", target.Appointment.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

func renderReminder(t repository.ReminderTarget) string {
	return fmt.Sprintf(
		"Hi %s!\n\nThis is a reminder about your appointment tomorrow:\nDate: %s\nTime: %s\nService: %s\nPrice: $%d\n\nWe look forward to seeing you! If you need to reschedule or cancel, please reply to this message.",
		t.Name,
		t.Appointment.Date,
		t.Appointment.Time,
		t.Appointment.ServiceName,
		t.Appointment.Price,
	)
}
