package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mkravtsov/salonbot/internal/llm"
	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memTurnStore struct {
	turns []*model.ConversationTurn
	fail  bool
}

func (s *memTurnStore) Insert(_ context.Context, turn *model.ConversationTurn) error {
	if s.fail {
		return errors.New("connection refused")
	}
	turn.ID = int64(len(s.turns) + 1)
	s.turns = append(s.turns, turn)
	return nil
}

func (s *memTurnStore) Recent(_ context.Context, customerID int64, limit int) ([]*model.ConversationTurn, error) {
	if s.fail {
		return nil, errors.New("connection refused")
	}

	var mine []*model.ConversationTurn
	for i := len(s.turns) - 1; i >= 0 && len(mine) < limit; i-- {
		if s.turns[i].CustomerID == customerID {
			mine = append(mine, s.turns[i])
		}
	}
	return mine, nil
}

func TestRecentHistory_OrderAndWindow(t *testing.T) {
	store := &memTurnStore{}
	svc := NewConversationService(store, zap.NewNop())
	ctx := context.Background()

	svc.Append(ctx, 1, "T1 in", "T1 out")
	svc.Append(ctx, 1, "T2 in", "T2 out")
	svc.Append(ctx, 1, "T3 in", "T3 out")

	history := svc.RecentHistory(ctx, 1, 2)
	require.Len(t, history, 4)

	// The two most recent turns, oldest first, as user/assistant pairs.
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "T2 in"}, history[0])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "T2 out"}, history[1])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "T3 in"}, history[2])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "T3 out"}, history[3])
}

func TestRecentHistory_PerCustomerIsolation(t *testing.T) {
	store := &memTurnStore{}
	svc := NewConversationService(store, zap.NewNop())
	ctx := context.Background()

	svc.Append(ctx, 1, "mine", "reply")
	svc.Append(ctx, 2, "theirs", "reply")

	history := svc.RecentHistory(ctx, 1, 5)
	require.Len(t, history, 2)
	assert.Equal(t, "mine", history[0].Content)
}

func TestRecentHistory_DefaultLimit(t *testing.T) {
	store := &memTurnStore{}
	svc := NewConversationService(store, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		svc.Append(ctx, 1, "in", "out")
	}

	history := svc.RecentHistory(ctx, 1, 0)
	assert.Len(t, history, DefaultHistoryLimit*2)
}

func TestRecentHistory_DegradesToEmpty(t *testing.T) {
	store := &memTurnStore{fail: true}
	svc := NewConversationService(store, zap.NewNop())

	history := svc.RecentHistory(context.Background(), 1, 5)
	assert.Empty(t, history)
}

func TestAppend_SwallowsFailure(t *testing.T) {
	store := &memTurnStore{fail: true}
	svc := NewConversationService(store, zap.NewNop())

	// Must not panic or propagate anything.
	svc.Append(context.Background(), 1, "in", "out")
}
