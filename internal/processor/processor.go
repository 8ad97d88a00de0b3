// Package processor wires the analysis engine to its collaborators: it loads
// a stored conversation, scores it, persists the scorecard snapshot, and
// announces the result on the bus.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kipps-ai/scorecard/internal/analysis"
	"github.com/kipps-ai/scorecard/internal/bus"
	"github.com/kipps-ai/scorecard/internal/metrics"
	"github.com/kipps-ai/scorecard/internal/store"
)

// Store is the persistence surface the processor needs.
type Store interface {
	GetConversation(ctx context.Context, id uuid.UUID) (*store.Conversation, error)
	UpsertScorecard(ctx context.Context, id uuid.UUID, sc analysis.Scorecard) error
	ListUnanalyzed(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// Publisher announces scorecard updates. May be nil when the service runs
// without a bus.
type Publisher interface {
	Publish(subject string, data any) error
}

type Processor struct {
	store    Store
	analyzer *analysis.Analyzer
	bus      Publisher
	metrics  *metrics.AnalysisMetrics
	logger   *slog.Logger
}

func New(s Store, a *analysis.Analyzer, pub Publisher, m *metrics.AnalysisMetrics, logger *slog.Logger) *Processor {
	return &Processor{
		store:    s,
		analyzer: a,
		bus:      pub,
		metrics:  m,
		logger:   logger,
	}
}

// HandleConversationStored is the bus handler for support.conversation.stored.
// Malformed events are logged and dropped; the subscription stays healthy.
func (p *Processor) HandleConversationStored(subject string, data []byte) {
	ctx := context.Background()

	var evt bus.ConversationStoredEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse conversation event", "error", err)
		return
	}
	id, err := uuid.Parse(evt.ConversationID)
	if err != nil {
		p.logger.Error("invalid conversation id in event", "conversation_id", evt.ConversationID, "error", err)
		return
	}

	if _, err := p.AnalyzeConversation(ctx, id, "event"); err != nil {
		p.logger.Error("analysis failed", "conversation_id", id, "error", err)
	}
}

// AnalyzeConversation runs the full pipeline for one conversation: load,
// score, persist, announce. The returned scorecard is the freshly stored
// snapshot.
func (p *Processor) AnalyzeConversation(ctx context.Context, id uuid.UUID, trigger string) (analysis.Scorecard, error) {
	started := time.Now()

	conv, err := p.store.GetConversation(ctx, id)
	if err != nil {
		p.metrics.ObserveAnalysis(trigger, "error", 0)
		return analysis.Scorecard{}, fmt.Errorf("load conversation: %w", err)
	}

	sc := p.analyzer.Analyze(conv.Messages)

	if err := p.store.UpsertScorecard(ctx, id, sc); err != nil {
		p.metrics.ObserveAnalysis(trigger, "error", 0)
		return analysis.Scorecard{}, fmt.Errorf("persist scorecard: %w", err)
	}

	if p.bus != nil {
		evt := bus.ScorecardUpdatedEvent{
			ConversationID:   id.String(),
			OverallScore:     sc.Overall,
			Sentiment:        string(sc.Sentiment),
			Resolution:       sc.Resolution,
			EscalationNeeded: sc.EscalationNeeded,
			Trigger:          trigger,
		}
		if err := p.bus.Publish(bus.SubjectScorecardUpdated, evt); err != nil {
			p.logger.Warn("failed to publish scorecard update", "conversation_id", id, "error", err)
		}
	}

	p.metrics.ObserveAnalysis(trigger, "ok", time.Since(started).Seconds())
	p.logger.Info("conversation analyzed",
		"conversation_id", id,
		"trigger", trigger,
		"overall", sc.Overall,
		"sentiment", sc.Sentiment,
		"escalation", sc.EscalationNeeded,
	)
	return sc, nil
}
