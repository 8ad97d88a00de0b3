package processor

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically picks up conversations that have messages but no
// scorecard yet and runs them through the analysis pipeline. It covers
// conversations ingested while the service was down or whose trigger event
// was lost.
type Sweeper struct {
	proc     *Processor
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewSweeper(proc *Processor, interval time.Duration, batch int, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		proc:     proc,
		interval: interval,
		batch:    batch,
		logger:   logger,
	}
}

// Run sweeps immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	ids, err := s.proc.store.ListUnanalyzed(ctx, s.batch)
	if err != nil {
		s.logger.Error("failed to list unanalyzed conversations", "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	s.logger.Info("sweep started", "pending", len(ids))
	var done int
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.proc.AnalyzeConversation(ctx, id, "sweep"); err != nil {
			s.logger.Error("sweep analysis failed", "conversation_id", id, "error", err)
			continue
		}
		done++
	}
	s.logger.Info("sweep finished", "analyzed", done, "pending", len(ids))
}
