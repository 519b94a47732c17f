package intent

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mkravtsov/salonbot/internal/catalog"
	"github.com/mkravtsov/salonbot/internal/llm"
	"go.uber.org/zap"
)

// FallbackReply is sent whenever the AI collaborator is unavailable.
const FallbackReply = "I'm having trouble processing your request right now. Please try again or reply with 'AGENT' for human assistance."

// ClarifyBookingReply is sent when a booking marker comes back incomplete.
const ClarifyBookingReply = "I'd love to book that for you, but I'm missing a detail. Please tell me the service (haircut, coloring, styling, or treatment), the date (YYYY-MM-DD) and the time (e.g. 09:00)."

const (
	bookingMarker      = "BOOKING_REQUEST"
	cancelMarker       = "CANCEL_REQUEST"
	availabilityMarker = "AVAILABILITY_REQUEST"
)

// Resolver classifies inbound messages. Exact commands are handled locally;
// everything else goes to the model with the conversation history, and the
// reply is scanned for the structured markers from SystemPrompt.
type Resolver struct {
	client  llm.Client
	prompt  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewResolver(client llm.Client, cat *catalog.Catalog, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		client:  client,
		prompt:  SystemPrompt(cat),
		timeout: timeout,
		logger:  logger,
	}
}

// Resolve never returns an error: any failure degrades to a Chat intent with
// the fixed fallback text, so the state machine always has a reply.
func (r *Resolver) Resolve(ctx context.Context, message string, history []llm.Message) Intent {
	switch strings.ToUpper(strings.TrimSpace(message)) {
	case "AGENT":
		return Intent{Kind: KindEscalate}
	case "MENU":
		return Intent{Kind: KindMenu}
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: r.prompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.client.Complete(ctx, messages)
	if err != nil {
		r.logger.Warn("AI completion failed, using fallback reply", zap.Error(err))
		return Chat(FallbackReply)
	}

	return r.parse(reply)
}

// parse scans the model output for a structured marker line. Output without a
// marker is returned verbatim as chat.
func (r *Resolver) parse(reply string) Intent {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, bookingMarker):
			return r.parseBooking(line)
		case strings.HasPrefix(line, cancelMarker):
			return r.parseCancel(line)
		case strings.HasPrefix(line, availabilityMarker):
			fields := markerFields(line)
			return CheckAvailability(fields["date"])
		}
	}

	return Chat(strings.TrimSpace(reply))
}

func (r *Resolver) parseBooking(line string) Intent {
	fields := markerFields(line)
	service, date, slot := fields["service"], fields["date"], fields["time"]
	if service == "" || date == "" || slot == "" {
		r.logger.Warn("Incomplete booking marker from model", zap.String("line", line))
		return Chat(ClarifyBookingReply)
	}
	return Book(service, date, slot)
}

func (r *Resolver) parseCancel(line string) Intent {
	fields := markerFields(line)
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil || id <= 0 {
		r.logger.Warn("Unparseable cancel marker from model", zap.String("line", line))
		return Chat("Which appointment would you like to cancel? Please give me its number.")
	}
	return Cancel(id)
}

// markerFields splits "MARKER key=value key=value" into a map.
func markerFields(line string) map[string]string {
	fields := make(map[string]string)
	for _, token := range strings.Fields(line) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		fields[strings.ToLower(key)] = strings.TrimSpace(value)
	}
	return fields
}
