// Package notify holds the outbound collaborators: the message transport and
// the voice-call initiator used for human escalation.
package notify

import "context"

// Messenger delivers one outbound text message. Fire-and-forget: callers log
// errors but never propagate them into the conversation.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}

// CallInitiator places an outbound voice call that plays the TwiML document
// served at callbackURL.
type CallInitiator interface {
	Call(ctx context.Context, to, callbackURL string) error
}
