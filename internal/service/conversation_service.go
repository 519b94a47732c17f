package service

import (
	"context"

	"github.com/mkravtsov/salonbot/internal/llm"
	"github.com/mkravtsov/salonbot/internal/model"
	"go.uber.org/zap"
)

// DefaultHistoryLimit bounds the replay window given to the intent resolver.
const DefaultHistoryLimit = 5

// TurnStore persists conversation turns. Recent returns newest first.
type TurnStore interface {
	Insert(ctx context.Context, turn *model.ConversationTurn) error
	Recent(ctx context.Context, customerID int64, limit int) ([]*model.ConversationTurn, error)
}

// ConversationService keeps the per-customer message history used as AI
// context. Writes are best-effort and reads degrade to an empty history: a
// store hiccup must never abort a conversation.
type ConversationService struct {
	store  TurnStore
	logger *zap.Logger
}

func NewConversationService(store TurnStore, logger *zap.Logger) *ConversationService {
	return &ConversationService{
		store:  store,
		logger: logger,
	}
}

// Append records one exchange. Failures are logged and swallowed.
func (s *ConversationService) Append(ctx context.Context, customerID int64, inbound, outbound string) {
	turn := &model.ConversationTurn{
		CustomerID:  customerID,
		UserMessage: inbound,
		BotReply:    outbound,
	}

	if err := s.store.Insert(ctx, turn); err != nil {
		s.logger.Error("Failed to save conversation turn",
			zap.Int64("customer_id", customerID),
			zap.Error(err),
		)
	}
}

// RecentHistory returns up to limit most recent turns in chronological order,
// each expanded into a user/assistant message pair.
func (s *ConversationService) RecentHistory(ctx context.Context, customerID int64, limit int) []llm.Message {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	turns, err := s.store.Recent(ctx, customerID, limit)
	if err != nil {
		s.logger.Error("Failed to load conversation history",
			zap.Int64("customer_id", customerID),
			zap.Error(err),
		)
		return nil
	}

	// Storage order is newest first; the resolver wants oldest first.
	history := make([]llm.Message, 0, len(turns)*2)
	for i := len(turns) - 1; i >= 0; i-- {
		history = append(history,
			llm.Message{Role: llm.RoleUser, Content: turns[i].UserMessage},
			llm.Message{Role: llm.RoleAssistant, Content: turns[i].BotReply},
		)
	}

	return history
}
