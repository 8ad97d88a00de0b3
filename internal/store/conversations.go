package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kipps-ai/scorecard/internal/analysis"
)

// Conversation is a stored transcript with its metadata.
type Conversation struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"created_at"`
	Messages  []analysis.Message `json:"messages"`
}

// ConversationSummary is a list-view row: metadata without the transcript.
type ConversationSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int       `json:"message_count"`
	HasScorecard bool      `json:"has_scorecard"`
}

// CreateConversation stores a conversation and its messages in one
// transaction. Message order is preserved via an explicit position column;
// the engine treats input order as conversation order and so does the store.
func (s *Store) CreateConversation(ctx context.Context, title string, msgs []analysis.Message) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	conversationID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO conversations (id, title, created_at)
		VALUES ($1, $2, now())`,
		conversationID, title,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert conversation: %w", err)
	}

	for i, m := range msgs {
		_, err = tx.Exec(ctx, `
			INSERT INTO messages (id, conversation_id, sender, body, sent_at, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), conversationID, string(m.Sender), m.Text, m.Timestamp, i,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return conversationID, nil
}

// GetConversation loads a conversation with its messages in stored order.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	conv := Conversation{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT title, created_at FROM conversations WHERE id = $1`, id,
	).Scan(&conv.Title, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT sender, body, sent_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sender string
			m      analysis.Message
		)
		if err := rows.Scan(&sender, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.Sender = analysis.Sender(sender)
		conv.Messages = append(conv.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return &conv, nil
}

// ListConversations returns summaries, newest first.
func (s *Store) ListConversations(ctx context.Context, limit, offset int) ([]ConversationSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT
			c.id,
			c.title,
			c.created_at,
			(SELECT count(*) FROM messages m WHERE m.conversation_id = c.id),
			EXISTS (SELECT 1 FROM scorecards sc WHERE sc.conversation_id = c.id)
		FROM conversations c
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationSummary
	for rows.Next() {
		var cs ConversationSummary
		if err := rows.Scan(&cs.ID, &cs.Title, &cs.CreatedAt, &cs.MessageCount, &cs.HasScorecard); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation rows: %w", err)
	}
	return out, nil
}

// ListUnanalyzed returns ids of conversations that have messages but no
// scorecard yet, oldest first. Feeds the sweeper.
func (s *Store) ListUnanalyzed(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT c.id
		FROM conversations c
		WHERE EXISTS (SELECT 1 FROM messages m WHERE m.conversation_id = c.id)
		AND NOT EXISTS (SELECT 1 FROM scorecards sc WHERE sc.conversation_id = c.id)
		ORDER BY c.created_at
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query unanalyzed: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return out, nil
}
