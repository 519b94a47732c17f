package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkravtsov/salonbot/internal/catalog"
	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/mkravtsov/salonbot/internal/repository"
	"go.uber.org/zap"
)

// AppointmentStore is the slice of the appointment ledger the calendar needs.
// Insert must be atomic per (date, time): at most one non-cancelled row may
// ever exist for a slot, and losing callers get repository.ErrConflict.
type AppointmentStore interface {
	Insert(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	BookedTimes(ctx context.Context, date string) ([]string, error)
	Cancel(ctx context.Context, id int64) error
}

// CalendarService answers availability queries and performs atomic slot
// reservation and release over the appointment ledger.
type CalendarService struct {
	store   AppointmentStore
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewCalendarService(store AppointmentStore, cat *catalog.Catalog, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		store:   store,
		catalog: cat,
		logger:  logger,
	}
}

// validateDate parses and checks a requested date, returning it normalized.
func (s *CalendarService) validateDate(date string) (string, error) {
	d, err := s.catalog.ParseDate(date)
	if err != nil {
		return "", &InvalidSlotError{Reason: fmt.Sprintf("%q is not a valid date, please use YYYY-MM-DD", date)}
	}
	if s.catalog.IsClosed(d) {
		return "", &InvalidSlotError{Reason: fmt.Sprintf("we are closed on %ss", s.catalog.ClosedWeekday())}
	}
	return d.Format(catalog.DateLayout), nil
}

// AvailableSlots returns every template slot on the date with no
// non-cancelled appointment, in template order. Read-only.
func (s *CalendarService) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	normalized, err := s.validateDate(date)
	if err != nil {
		return nil, err
	}

	booked, err := s.store.BookedTimes(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("load booked times: %w", err)
	}

	return s.catalog.FreeSlots(booked), nil
}

// TryReserve atomically reserves the slot for the customer. The uniqueness
// check and the insert are one conditional write, so concurrent callers for
// the same (date, time) produce exactly one winner; losers get ErrSlotTaken.
func (s *CalendarService) TryReserve(ctx context.Context, date, slot string, customerID int64, svc catalog.Service) (*model.Appointment, error) {
	normalized, err := s.validateDate(date)
	if err != nil {
		return nil, err
	}
	if !s.catalog.HasSlot(slot) {
		return nil, &InvalidSlotError{Reason: fmt.Sprintf("%q is not one of our time slots", slot)}
	}

	appt := &model.Appointment{
		CustomerID:      customerID,
		ServiceKey:      svc.Key,
		ServiceName:     svc.Name,
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Date:            normalized,
		Time:            slot,
		Status:          model.AppointmentStatusConfirmed,
	}

	if err := s.store.Insert(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	s.logger.Info("Slot reserved",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("customer_id", customerID),
		zap.String("date", normalized),
		zap.String("time", slot),
		zap.String("service", svc.Key),
	)

	return appt, nil
}

// Cancel transitions an appointment to cancelled if the requester owns it.
// Cancelling an already-cancelled appointment returns the current state.
func (s *CalendarService) Cancel(ctx context.Context, appointmentID, requesterID int64) (*model.Appointment, error) {
	appt, err := s.store.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	if appt.CustomerID != requesterID {
		return nil, ErrForbidden
	}
	if appt.Status == model.AppointmentStatusCancelled {
		return appt, nil
	}

	if err := s.store.Cancel(ctx, appointmentID); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	appt.Status = model.AppointmentStatusCancelled

	s.logger.Info("Appointment cancelled",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("customer_id", requesterID),
	)

	return appt, nil
}
