package model

import "time"

// ConversationTurn is one inbound/outbound exchange. Turns are append-only;
// readers only ever see a bounded recent window.
type ConversationTurn struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	UserMessage string    `json:"user_message"`
	BotReply    string    `json:"bot_reply"`
	CreatedAt   time.Time `json:"created_at"`
}
