package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/mkravtsov/salonbot/internal/repository"
	"go.uber.org/zap"
)

// CustomerStore persists customers.
type CustomerStore interface {
	GetByPhone(ctx context.Context, phone string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) error
	UpdateName(ctx context.Context, id int64, name string) error
}

// AppointmentLister reads a customer's booking history.
type AppointmentLister interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Appointment, error)
}

type CustomerService struct {
	customers    CustomerStore
	appointments AppointmentLister
	logger       *zap.Logger
}

func NewCustomerService(customers CustomerStore, appointments AppointmentLister, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers:    customers,
		appointments: appointments,
		logger:       logger,
	}
}

// GetOrCreate returns the customer for a phone number, creating the record on
// first contact. A later message carrying a profile name backfills the name
// if the stored one is still the default.
func (s *CustomerService) GetOrCreate(ctx context.Context, phone, name string) (*model.Customer, error) {
	existing, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("check existing customer: %w", err)
	}

	if existing != nil {
		if name != "" && existing.Name == model.DefaultCustomerName && name != existing.Name {
			if err := s.customers.UpdateName(ctx, existing.ID, name); err != nil {
				s.logger.Warn("Failed to backfill customer name",
					zap.Int64("customer_id", existing.ID),
					zap.Error(err),
				)
			} else {
				existing.Name = name
			}
		}
		return existing, nil
	}

	if name == "" {
		name = model.DefaultCustomerName
	}

	customer := &model.Customer{
		Phone: phone,
		Name:  name,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		// Two first messages can race; the loser reads the winner's row.
		if errors.Is(err, repository.ErrConflict) {
			existing, err := s.customers.GetByPhone(ctx, phone)
			if err != nil {
				return nil, fmt.Errorf("reread customer after conflict: %w", err)
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info("New customer registered",
		zap.Int64("customer_id", customer.ID),
		zap.String("phone", phone),
	)

	return customer, nil
}

// Appointments returns a customer's appointment history, newest first. An
// unknown phone number yields an empty history, same as the booking flow
// creating the customer on first contact.
func (s *CustomerService) Appointments(ctx context.Context, phone string) ([]*model.Appointment, error) {
	customer, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, nil
	}

	appts, err := s.appointments.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return appts, nil
}
