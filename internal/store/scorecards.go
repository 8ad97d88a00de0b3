package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kipps-ai/scorecard/internal/analysis"
	"github.com/kipps-ai/scorecard/internal/sentiment"
)

// ScorecardRecord is a stored analysis snapshot for one conversation.
type ScorecardRecord struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	analysis.Scorecard
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// ScorecardFilter selects scorecards for listing. Zero values mean "no
// constraint".
type ScorecardFilter struct {
	Sentiment string
	From      time.Time
	To        time.Time
	MinScore  *float64
	Limit     int
	Offset    int
}

// UpsertScorecard writes the scorecard for a conversation, replacing any
// previous snapshot.
func (s *Store) UpsertScorecard(ctx context.Context, conversationID uuid.UUID, sc analysis.Scorecard) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scorecards (
			conversation_id, clarity, relevance, accuracy, completeness, empathy,
			fallback_count, sentiment, resolution, escalation_needed,
			avg_response_seconds, overall, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (conversation_id) DO UPDATE SET
			clarity = EXCLUDED.clarity,
			relevance = EXCLUDED.relevance,
			accuracy = EXCLUDED.accuracy,
			completeness = EXCLUDED.completeness,
			empathy = EXCLUDED.empathy,
			fallback_count = EXCLUDED.fallback_count,
			sentiment = EXCLUDED.sentiment,
			resolution = EXCLUDED.resolution,
			escalation_needed = EXCLUDED.escalation_needed,
			avg_response_seconds = EXCLUDED.avg_response_seconds,
			overall = EXCLUDED.overall,
			analyzed_at = now()`,
		conversationID, sc.Clarity, sc.Relevance, sc.Accuracy, sc.Completeness,
		sc.Empathy, sc.FallbackCount, string(sc.Sentiment), sc.Resolution,
		sc.EscalationNeeded, sc.AvgResponseSeconds, sc.Overall,
	)
	if err != nil {
		return fmt.Errorf("upsert scorecard: %w", err)
	}
	return nil
}

const scorecardColumns = `
	conversation_id, clarity, relevance, accuracy, completeness, empathy,
	fallback_count, sentiment, resolution, escalation_needed,
	avg_response_seconds, overall, analyzed_at`

// GetScorecard loads the snapshot for a conversation.
func (s *Store) GetScorecard(ctx context.Context, conversationID uuid.UUID) (*ScorecardRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+scorecardColumns+` FROM scorecards WHERE conversation_id = $1`,
		conversationID,
	)
	rec, err := scanScorecard(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query scorecard: %w", err)
	}
	return rec, nil
}

// ListScorecards returns snapshots matching the filter, newest first.
func (s *Store) ListScorecards(ctx context.Context, f ScorecardFilter) ([]ScorecardRecord, error) {
	query := `SELECT ` + scorecardColumns + ` FROM scorecards WHERE true`
	var args []any

	if f.Sentiment != "" {
		args = append(args, f.Sentiment)
		query += fmt.Sprintf(" AND sentiment = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND analyzed_at >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND analyzed_at <= $%d", len(args))
	}
	if f.MinScore != nil {
		args = append(args, *f.MinScore)
		query += fmt.Sprintf(" AND overall >= $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY analyzed_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scorecards: %w", err)
	}
	defer rows.Close()

	var out []ScorecardRecord
	for rows.Next() {
		rec, err := scanScorecard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scorecard row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scorecard rows: %w", err)
	}
	return out, nil
}

func scanScorecard(row pgx.Row) (*ScorecardRecord, error) {
	var (
		rec   ScorecardRecord
		label string
	)
	err := row.Scan(
		&rec.ConversationID, &rec.Clarity, &rec.Relevance, &rec.Accuracy,
		&rec.Completeness, &rec.Empathy, &rec.FallbackCount, &label,
		&rec.Resolution, &rec.EscalationNeeded, &rec.AvgResponseSeconds,
		&rec.Overall, &rec.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Sentiment = sentiment.Label(label)
	return &rec, nil
}
