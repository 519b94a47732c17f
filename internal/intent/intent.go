// Package intent turns free-text customer messages into structured booking
// intents, delegating the hard part to the AI collaborator.
package intent

type Kind string

const (
	KindBook              Kind = "book"
	KindCancel            Kind = "cancel"
	KindCheckAvailability Kind = "check_availability"
	KindEscalate          Kind = "escalate"
	KindMenu              Kind = "menu"
	KindChat              Kind = "chat"
)

// Intent is the structured interpretation of one message. Kind selects which
// fields carry meaning: ServiceKey/Date/Time for book, AppointmentID for
// cancel (0 when the customer has not identified one), Date for availability
// checks, Reply for chat.
type Intent struct {
	Kind          Kind
	ServiceKey    string
	Date          string
	Time          string
	AppointmentID int64
	Reply         string
}

func Book(serviceKey, date, slot string) Intent {
	return Intent{Kind: KindBook, ServiceKey: serviceKey, Date: date, Time: slot}
}

func Cancel(appointmentID int64) Intent {
	return Intent{Kind: KindCancel, AppointmentID: appointmentID}
}

func CheckAvailability(date string) Intent {
	return Intent{Kind: KindCheckAvailability, Date: date}
}

func Chat(reply string) Intent {
	return Intent{Kind: KindChat, Reply: reply}
}
