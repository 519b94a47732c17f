package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravtsov/salonbot/internal/model"
)

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

// Insert appends one conversation turn.
func (r *ConversationRepository) Insert(ctx context.Context, turn *model.ConversationTurn) error {
	query := `
		INSERT INTO conversations (customer_id, user_message, bot_reply)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, turn.CustomerID, turn.UserMessage, turn.BotReply).
		Scan(&turn.ID, &turn.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert conversation turn: %w", err)
	}

	return nil
}

// Recent returns up to limit most recent turns for a customer, newest first.
func (r *ConversationRepository) Recent(ctx context.Context, customerID int64, limit int) ([]*model.ConversationTurn, error) {
	query := `
		SELECT id, customer_id, user_message, bot_reply, created_at
		FROM conversations
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent turns: %w", err)
	}
	defer rows.Close()

	var turns []*model.ConversationTurn
	for rows.Next() {
		var turn model.ConversationTurn
		err := rows.Scan(
			&turn.ID,
			&turn.CustomerID,
			&turn.UserMessage,
			&turn.BotReply,
			&turn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan conversation turn: %w", err)
		}
		turns = append(turns, &turn)
	}

	return turns, rows.Err()
}
