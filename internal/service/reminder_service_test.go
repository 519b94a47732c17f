package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/mkravtsov/salonbot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memReminderSource struct {
	targets []repository.ReminderTarget
	gotDate string
}

func (s *memReminderSource) ConfirmedForDate(_ context.Context, date string) ([]repository.ReminderTarget, error) {
	s.gotDate = date
	return s.targets, nil
}

type memReminderLedger struct {
	claimed   map[string]bool
	finalized map[string]string
}

func newMemReminderLedger() *memReminderLedger {
	return &memReminderLedger{claimed: map[string]bool{}, finalized: map[string]string{}}
}

func ledgerKey(id int64, date string) string {
	return fmt.Sprintf("%s#%d", date, id)
}

func (l *memReminderLedger) Claim(_ context.Context, appointmentID int64, date string) (bool, error) {
	key := ledgerKey(appointmentID, date)
	if l.claimed[key] {
		return false, nil
	}
	l.claimed[key] = true
	return true, nil
}

func (l *memReminderLedger) Finalize(_ context.Context, appointmentID int64, date, status, _ string) error {
	l.finalized[ledgerKey(appointmentID, date)] = status
	return nil
}

type recordingMessenger struct {
	sent    []string
	failFor map[string]bool
}

func (m *recordingMessenger) Send(_ context.Context, to, _ string) error {
	if m.failFor[to] {
		return errors.New("delivery failed")
	}
	m.sent = append(m.sent, to)
	return nil
}

func reminderTarget(id int64, phone, name string) repository.ReminderTarget {
	return repository.ReminderTarget{
		Appointment: model.Appointment{
			ID:          id,
			ServiceName: "Haircut",
			Price:       25,
			Date:        "2026-09-08",
			Time:        "09:00",
			Status:      model.AppointmentStatusConfirmed,
		},
		Phone: phone,
		Name:  name,
	}
}

func newTestReminderService(source *memReminderSource, ledger *memReminderLedger, messenger *recordingMessenger) *ReminderService {
	svc := NewReminderService(source, ledger, messenger, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSendDailyReminders_TargetsTomorrow(t *testing.T) {
	source := &memReminderSource{targets: []repository.ReminderTarget{
		reminderTarget(1, "+15550001", "Alice"),
	}}
	ledger := newMemReminderLedger()
	messenger := &recordingMessenger{}

	err := newTestReminderService(source, ledger, messenger).SendDailyReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-09-08", source.gotDate)
	assert.Equal(t, []string{"+15550001"}, messenger.sent)
	assert.Equal(t, "sent", ledger.finalized[ledgerKey(1, "2026-09-08")])
}

func TestSendDailyReminders_AtMostOncePerDay(t *testing.T) {
	source := &memReminderSource{targets: []repository.ReminderTarget{
		reminderTarget(1, "+15550001", "Alice"),
	}}
	ledger := newMemReminderLedger()
	messenger := &recordingMessenger{}
	svc := newTestReminderService(source, ledger, messenger)

	require.NoError(t, svc.SendDailyReminders(context.Background()))
	// A second run, e.g. after a restart, must not send again.
	require.NoError(t, svc.SendDailyReminders(context.Background()))

	assert.Len(t, messenger.sent, 1)
}

func TestSendDailyReminders_PartialFailureIsolation(t *testing.T) {
	source := &memReminderSource{targets: []repository.ReminderTarget{
		reminderTarget(1, "+15550001", "Alice"),
		reminderTarget(2, "+15550002", "Bob"),
		reminderTarget(3, "+15550003", "Carol"),
	}}
	ledger := newMemReminderLedger()
	messenger := &recordingMessenger{failFor: map[string]bool{"+15550002": true}}

	err := newTestReminderService(source, ledger, messenger).SendDailyReminders(context.Background())
	require.NoError(t, err)

	// Bob's failure does not block Alice or Carol.
	assert.Equal(t, []string{"+15550001", "+15550003"}, messenger.sent)
	assert.Equal(t, "failed", ledger.finalized[ledgerKey(2, "2026-09-08")])
	assert.Equal(t, "sent", ledger.finalized[ledgerKey(3, "2026-09-08")])
}

func TestRenderReminder(t *testing.T) {
	msg := renderReminder(reminderTarget(1, "+15550001", "Alice"))

	assert.Contains(t, msg, "Hi Alice!")
	assert.Contains(t, msg, "Date: 2026-09-08")
	assert.Contains(t, msg, "Time: 09:00")
	assert.Contains(t, msg, "Service: Haircut")
	assert.Contains(t, msg, "Price: $25")
}
