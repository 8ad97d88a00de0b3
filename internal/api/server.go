// Package api exposes the conversation and scorecard REST surface.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kipps-ai/scorecard/internal/analysis"
	"github.com/kipps-ai/scorecard/internal/metrics"
	"github.com/kipps-ai/scorecard/internal/store"
)

// Store is the persistence surface the handlers need.
type Store interface {
	CreateConversation(ctx context.Context, title string, msgs []analysis.Message) (uuid.UUID, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*store.Conversation, error)
	ListConversations(ctx context.Context, limit, offset int) ([]store.ConversationSummary, error)
	GetScorecard(ctx context.Context, id uuid.UUID) (*store.ScorecardRecord, error)
	ListScorecards(ctx context.Context, f store.ScorecardFilter) ([]store.ScorecardRecord, error)
}

// AnalysisRunner runs the full analysis pipeline for one conversation.
// Satisfied by *processor.Processor.
type AnalysisRunner interface {
	AnalyzeConversation(ctx context.Context, id uuid.UUID, trigger string) (analysis.Scorecard, error)
}

// Publisher announces newly stored conversations. May be nil.
type Publisher interface {
	Publish(subject string, data any) error
}

type Server struct {
	router         *chi.Mux
	port           int
	store          Store
	runner         AnalysisRunner
	bus            Publisher
	metrics        *metrics.AnalysisMetrics
	lexiconVersion string
	logger         *slog.Logger
}

func NewServer(port int, apiToken string, db Store, runner AnalysisRunner, bus Publisher, m *metrics.AnalysisMetrics, lexiconVersion string, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:         router,
		port:           port,
		store:          db,
		runner:         runner,
		bus:            bus,
		metrics:        m,
		lexiconVersion: lexiconVersion,
		logger:         logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/scorecard/status", s.status)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/conversations", s.listConversations)
		r.Get("/conversations/{id}", s.getConversation)
		r.Get("/conversations/{id}/scorecard", s.getScorecard)
		r.Get("/scorecards", s.listScorecards)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiToken))
			r.Post("/conversations", s.createConversation)
			r.Post("/conversations/{id}/analyze", s.analyzeConversation)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "scorecard",
		"status":  "ok",
		"lexicon": s.lexiconVersion,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
