package model

import "time"

// DefaultCustomerName is used until an inbound message carries a profile name.
const DefaultCustomerName = "User"

type Customer struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
