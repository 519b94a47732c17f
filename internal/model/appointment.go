package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is one reservation of a (date, time) slot. The service fields
// are denormalized copies taken from the catalog at booking time, so history
// stays accurate if prices change later.
type Appointment struct {
	ID              int64             `json:"id"`
	CustomerID      int64             `json:"customer_id"`
	ServiceKey      string            `json:"service_key"`
	ServiceName     string            `json:"service_name"`
	DurationMinutes int               `json:"duration_minutes"`
	Price           int               `json:"price"`
	Date            string            `json:"date"` // YYYY-MM-DD
	Time            string            `json:"time"` // HH:MM
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}
