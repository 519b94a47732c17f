package intent

import (
	"fmt"
	"strings"

	"github.com/mkravtsov/salonbot/internal/catalog"
)

// SystemPrompt renders the fixed instruction given to the model: the catalog,
// the slot template, the working days and the structured markers the resolver
// parses out of replies.
func SystemPrompt(cat *catalog.Catalog) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant for a hair salon appointment booking system. You can help customers:\n")
	b.WriteString("1. Book appointments (ask for service, date, and time)\n")
	b.WriteString("2. Check available time slots\n")
	b.WriteString("3. Cancel existing appointments\n")
	b.WriteString("4. Answer questions about services and pricing\n\n")

	b.WriteString("Available services:\n")
	for _, svc := range cat.Services() {
		fmt.Fprintf(&b, "- %s (service key: %s): $%d (%d min)\n", svc.Name, svc.Key, svc.Price, svc.DurationMinutes)
	}

	fmt.Fprintf(&b, "\nAvailable time slots: %s\n", strings.Join(cat.Template(), ", "))
	fmt.Fprintf(&b, "Closed on %ss, open every other day\n\n", cat.ClosedWeekday())

	b.WriteString("When the customer has provided everything needed for a booking, reply with a single line:\n")
	b.WriteString("BOOKING_REQUEST service=<service key> date=<YYYY-MM-DD> time=<HH:MM>\n")
	b.WriteString("When the customer clearly asks to cancel a specific appointment and has given its number, reply with:\n")
	b.WriteString("CANCEL_REQUEST id=<appointment number>\n")
	b.WriteString("When the customer asks what times are free on a day, reply with:\n")
	b.WriteString("AVAILABILITY_REQUEST date=<YYYY-MM-DD>\n")
	b.WriteString("Otherwise answer in plain text. Never invent appointment numbers; if the customer wants to cancel but has not said which appointment, ask them for its number.\n\n")

	b.WriteString("If they need human assistance, tell them to reply with \"AGENT\" and we'll call them.\n")
	b.WriteString("Keep responses concise and friendly.")

	return b.String()
}
