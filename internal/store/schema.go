package store

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender TEXT NOT NULL,
		body TEXT NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL,
		position INT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation
		ON messages (conversation_id, position)`,
	`CREATE TABLE IF NOT EXISTS scorecards (
		conversation_id UUID PRIMARY KEY REFERENCES conversations(id) ON DELETE CASCADE,
		clarity DOUBLE PRECISION NOT NULL,
		relevance DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION NOT NULL,
		completeness DOUBLE PRECISION NOT NULL,
		empathy DOUBLE PRECISION NOT NULL,
		fallback_count INT NOT NULL,
		sentiment TEXT NOT NULL,
		resolution BOOLEAN NOT NULL,
		escalation_needed BOOLEAN NOT NULL,
		avg_response_seconds DOUBLE PRECISION NOT NULL,
		overall DOUBLE PRECISION NOT NULL,
		analyzed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scorecards_analyzed_at
		ON scorecards (analyzed_at)`,
}

// Migrate creates the schema if it does not exist. Statements are idempotent
// so every instance can run this at startup.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
