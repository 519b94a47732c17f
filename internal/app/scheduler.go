package app

import (
	"context"
	"time"

	"github.com/mkravtsov/salonbot/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reminderRunTimeout = 2 * time.Minute

// Scheduler runs the daily reminder job on a wall-clock cron trigger,
// independently of message handling.
type Scheduler struct {
	cron      *cron.Cron
	reminders *service.ReminderService
	spec      string
	logger    *zap.Logger
}

func NewScheduler(reminders *service.ReminderService, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		reminders: reminders,
		spec:      spec,
		logger:    logger,
	}
}

// Start registers the reminder job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderRunTimeout)
		defer cancel()

		if err := s.reminders.SendDailyReminders(ctx); err != nil {
			s.logger.Error("Reminder job failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Reminder scheduler started", zap.String("cron", s.spec))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder scheduler stopped")
}
