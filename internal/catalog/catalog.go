package catalog

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for slot start times.
	TimeLayout = "15:04"
)

// Service is a static catalog entry. Price is in whole dollars.
type Service struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           int    `json:"price"`
}

// Catalog holds the immutable per-process booking configuration: the service
// list, the daily slot template and the weekly closed day. It is built once
// at startup and passed explicitly so tests can substitute alternatives.
type Catalog struct {
	services      map[string]Service
	order         []string
	template      []string
	templateSet   map[string]struct{}
	closedWeekday time.Weekday
}

// New builds a catalog from an ordered service list and slot template.
func New(services []Service, template []string, closedWeekday time.Weekday) *Catalog {
	c := &Catalog{
		services:      make(map[string]Service, len(services)),
		template:      template,
		templateSet:   make(map[string]struct{}, len(template)),
		closedWeekday: closedWeekday,
	}
	for _, svc := range services {
		c.services[svc.Key] = svc
		c.order = append(c.order, svc.Key)
	}
	for _, slot := range template {
		c.templateSet[slot] = struct{}{}
	}
	return c
}

// Default returns the salon's production catalog: four services, half-hour
// slots from 09:00 with a lunch break before 14:00, closed on Sundays.
func Default() *Catalog {
	return New(
		[]Service{
			{Key: "haircut", Name: "Haircut", DurationMinutes: 30, Price: 25},
			{Key: "coloring", Name: "Hair Coloring", DurationMinutes: 60, Price: 75},
			{Key: "styling", Name: "Hair Styling", DurationMinutes: 45, Price: 45},
			{Key: "treatment", Name: "Hair Treatment", DurationMinutes: 90, Price: 120},
		},
		[]string{
			"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
			"12:00", "12:30", "14:00", "14:30", "15:00", "15:30",
			"16:00", "16:30", "17:00", "17:30",
		},
		time.Sunday,
	)
}

// Service looks a service up by key, case-insensitively.
func (c *Catalog) Service(key string) (Service, bool) {
	svc, ok := c.services[strings.ToLower(strings.TrimSpace(key))]
	return svc, ok
}

// Services returns the catalog entries in their declared order.
func (c *Catalog) Services() []Service {
	out := make([]Service, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.services[key])
	}
	return out
}

// ServiceKeys returns the valid service keys in declared order.
func (c *Catalog) ServiceKeys() []string {
	return append([]string(nil), c.order...)
}

// Template returns the ordered daily slot template.
func (c *Catalog) Template() []string {
	return append([]string(nil), c.template...)
}

// HasSlot reports whether t is a member of the daily template.
func (c *Catalog) HasSlot(t string) bool {
	_, ok := c.templateSet[t]
	return ok
}

// ClosedWeekday returns the weekly closed day.
func (c *Catalog) ClosedWeekday() time.Weekday {
	return c.closedWeekday
}

// ParseDate parses a YYYY-MM-DD date string strictly.
func (c *Catalog) ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// IsClosed reports whether the salon is closed on the given date.
func (c *Catalog) IsClosed(d time.Time) bool {
	return d.Weekday() == c.closedWeekday
}

// FreeSlots returns the template minus the given booked times, preserving
// template order.
func (c *Catalog) FreeSlots(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}
	var free []string
	for _, slot := range c.template {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

// MenuText renders the static welcome menu sent in reply to "MENU".
func (c *Catalog) MenuText() string {
	var b strings.Builder
	b.WriteString("Welcome to our salon!\n\nAvailable services:\n")
	for _, svc := range c.Services() {
		fmt.Fprintf(&b, "- %s - $%d (%d min)\n", svc.Name, svc.Price, svc.DurationMinutes)
	}
	b.WriteString("\nReply with:\n")
	b.WriteString("- Service name to check availability\n")
	b.WriteString("- \"AGENT\" for human assistance\n")
	b.WriteString("- \"MENU\" to see this menu again")
	return b.String()
}
