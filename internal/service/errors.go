package service

import "errors"

var (
	// ErrSlotTaken means the reservation race was lost. Expected outcome,
	// callers turn it into a reply, never a fault.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrNotFound means the cancel target does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrForbidden means the requester does not own the appointment.
	ErrForbidden = errors.New("appointment belongs to another customer")
)

// InvalidSlotError describes a user-correctable date/time problem. Reason is
// written for the customer and goes into the reply verbatim.
type InvalidSlotError struct {
	Reason string
}

func (e *InvalidSlotError) Error() string {
	return e.Reason
}
