// Package orchestrator is the booking state machine: it turns one inbound
// message into ledger mutations and a reply. It keeps no session state
// between turns; everything flows through the persistent ledger.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkravtsov/salonbot/internal/catalog"
	"github.com/mkravtsov/salonbot/internal/intent"
	"github.com/mkravtsov/salonbot/internal/llm"
	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/mkravtsov/salonbot/internal/notify"
	"github.com/mkravtsov/salonbot/internal/service"
	"go.uber.org/zap"
)

const (
	escalateAck     = "A human agent will call you shortly to assist with your appointment booking."
	escalateApology = "Sorry, I couldn't initiate a call right now. Please try again later or continue with text messages."
	storeFailure    = "Sorry, something went wrong on our side and I couldn't complete that. Please try again in a moment."
)

// Calendar is the slot-availability engine.
type Calendar interface {
	AvailableSlots(ctx context.Context, date string) ([]string, error)
	TryReserve(ctx context.Context, date, slot string, customerID int64, svc catalog.Service) (*model.Appointment, error)
	Cancel(ctx context.Context, appointmentID, requesterID int64) (*model.Appointment, error)
}

// ConversationLog records turns and replays recent history.
type ConversationLog interface {
	Append(ctx context.Context, customerID int64, inbound, outbound string)
	RecentHistory(ctx context.Context, customerID int64, limit int) []llm.Message
}

// CustomerDirectory resolves inbound phone numbers to customers.
type CustomerDirectory interface {
	GetOrCreate(ctx context.Context, phone, name string) (*model.Customer, error)
}

// IntentResolver classifies an inbound message.
type IntentResolver interface {
	Resolve(ctx context.Context, message string, history []llm.Message) intent.Intent
}

type Orchestrator struct {
	customers     CustomerDirectory
	calendar      Calendar
	conversations ConversationLog
	resolver      IntentResolver
	calls         notify.CallInitiator
	catalog       *catalog.Catalog
	voiceURL      string
	logger        *zap.Logger
}

func New(
	customers CustomerDirectory,
	calendar Calendar,
	conversations ConversationLog,
	resolver IntentResolver,
	calls notify.CallInitiator,
	cat *catalog.Catalog,
	voiceURL string,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		customers:     customers,
		calendar:      calendar,
		conversations: conversations,
		resolver:      resolver,
		calls:         calls,
		catalog:       cat,
		voiceURL:      voiceURL,
		logger:        logger,
	}
}

// HandleInbound processes one customer message end to end and returns the
// reply text. Failures never escape: every path ends in a user-facing reply,
// and one customer's trouble cannot affect another's conversation.
func (o *Orchestrator) HandleInbound(ctx context.Context, from, text, profileName string) string {
	customer, err := o.customers.GetOrCreate(ctx, from, profileName)
	if err != nil {
		o.logger.Error("Failed to resolve customer", zap.String("phone", from), zap.Error(err))
		return storeFailure
	}

	history := o.conversations.RecentHistory(ctx, customer.ID, service.DefaultHistoryLimit)
	it := o.resolver.Resolve(ctx, text, history)
	reply := o.dispatch(ctx, customer, it)

	// Best-effort: a history write failure must not hold the reply hostage.
	o.conversations.Append(ctx, customer.ID, text, reply)

	return reply
}

func (o *Orchestrator) dispatch(ctx context.Context, customer *model.Customer, it intent.Intent) string {
	switch it.Kind {
	case intent.KindEscalate:
		return o.escalate(ctx, customer)
	case intent.KindMenu:
		return o.catalog.MenuText()
	case intent.KindBook:
		return o.book(ctx, customer, it)
	case intent.KindCancel:
		return o.cancel(ctx, customer, it)
	case intent.KindCheckAvailability:
		return o.checkAvailability(ctx, it.Date)
	case intent.KindChat:
		return it.Reply
	default:
		o.logger.Error("Unknown intent kind", zap.String("kind", string(it.Kind)))
		return intent.FallbackReply
	}
}

func (o *Orchestrator) escalate(ctx context.Context, customer *model.Customer) string {
	if err := o.calls.Call(ctx, customer.Phone, o.voiceURL); err != nil {
		o.logger.Error("Failed to initiate escalation call",
			zap.String("phone", customer.Phone),
			zap.Error(err),
		)
		return escalateApology
	}
	return escalateAck
}

func (o *Orchestrator) book(ctx context.Context, customer *model.Customer, it intent.Intent) string {
	svc, ok := o.catalog.Service(it.ServiceKey)
	if !ok {
		return fmt.Sprintf(
			"I don't recognize the service %q. We offer: %s.",
			it.ServiceKey, strings.Join(o.catalog.ServiceKeys(), ", "),
		)
	}

	appt, err := o.calendar.TryReserve(ctx, it.Date, it.Time, customer.ID, svc)
	if err != nil {
		var invalid *service.InvalidSlotError
		switch {
		case errors.Is(err, service.ErrSlotTaken):
			return fmt.Sprintf(
				"Sorry, %s at %s was just taken. Ask me for availability on %s and I'll list what's still free.",
				it.Date, it.Time, it.Date,
			)
		case errors.As(err, &invalid):
			return fmt.Sprintf("I can't book that: %s.", invalid.Reason)
		default:
			o.logger.Error("Reservation failed",
				zap.Int64("customer_id", customer.ID),
				zap.String("date", it.Date),
				zap.String("time", it.Time),
				zap.Error(err),
			)
			return storeFailure
		}
	}

	return fmt.Sprintf(
		"You're booked! %s on %s at %s for $%d. Your appointment number is %d, mention it if you ever need to cancel.",
		appt.ServiceName, appt.Date, appt.Time, appt.Price, appt.ID,
	)
}

func (o *Orchestrator) cancel(ctx context.Context, customer *model.Customer, it intent.Intent) string {
	if it.AppointmentID == 0 {
		return "Which appointment would you like to cancel? Please give me its number."
	}

	appt, err := o.calendar.Cancel(ctx, it.AppointmentID, customer.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return "I couldn't find that appointment. Please check the number and try again."
		case errors.Is(err, service.ErrForbidden):
			return "That appointment isn't linked to your number, so I can't cancel it."
		default:
			o.logger.Error("Cancellation failed",
				zap.Int64("appointment_id", it.AppointmentID),
				zap.Error(err),
			)
			return storeFailure
		}
	}

	return fmt.Sprintf(
		"Your %s appointment on %s at %s has been cancelled. Hope to see you another time!",
		appt.ServiceName, appt.Date, appt.Time,
	)
}

func (o *Orchestrator) checkAvailability(ctx context.Context, date string) string {
	if strings.TrimSpace(date) == "" {
		return "Which day would you like to come in? Please give me a date as YYYY-MM-DD."
	}

	slots, err := o.calendar.AvailableSlots(ctx, date)
	if err != nil {
		var invalid *service.InvalidSlotError
		if errors.As(err, &invalid) {
			return fmt.Sprintf("I can't check that: %s.", invalid.Reason)
		}
		o.logger.Error("Availability check failed", zap.String("date", date), zap.Error(err))
		return storeFailure
	}

	if len(slots) == 0 {
		return fmt.Sprintf("We're fully booked on %s. Would you like to try another day?", date)
	}

	return fmt.Sprintf("Available times on %s:\n%s", date, strings.Join(slots, ", "))
}
