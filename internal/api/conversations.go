package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kipps-ai/scorecard/internal/analysis"
	"github.com/kipps-ai/scorecard/internal/bus"
	"github.com/kipps-ai/scorecard/internal/store"
)

// CreateConversationRequest is the payload for POST /api/v1/conversations.
type CreateConversationRequest struct {
	Title    string            `json:"title"`
	Messages []IncomingMessage `json:"messages"`
}

// IncomingMessage is one transcript turn as submitted over the API. Senders
// are validated at this boundary so the engine only ever sees user and agent
// roles from this path.
type IncomingMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ConversationResponse is a stored conversation plus its scorecard when one
// exists.
type ConversationResponse struct {
	*store.Conversation
	Scorecard *store.ScorecardRecord `json:"scorecard,omitempty"`
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	msgs := make([]analysis.Message, 0, len(req.Messages))
	for i, im := range req.Messages {
		sender := analysis.Sender(im.Sender)
		if sender != analysis.SenderUser && sender != analysis.SenderAgent {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("message %d: unknown sender %q", i, im.Sender))
			return
		}
		if strings.TrimSpace(im.Text) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("message %d: empty text", i))
			return
		}
		ts, err := time.Parse(time.RFC3339, im.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("message %d: invalid timestamp: %v", i, err))
			return
		}
		msgs = append(msgs, analysis.Message{Sender: sender, Text: im.Text, Timestamp: ts})
	}

	id, err := s.store.CreateConversation(r.Context(), req.Title, msgs)
	if err != nil {
		s.logger.Error("failed to store conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store conversation")
		return
	}
	s.metrics.IncConversationCreated()

	if s.bus != nil {
		evt := bus.ConversationStoredEvent{ConversationID: id.String()}
		if err := s.bus.Publish(bus.SubjectConversationStored, evt); err != nil {
			s.logger.Warn("failed to publish stored event", "conversation_id", id, "error", err)
		}
	}

	conv, err := s.store.GetConversation(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to reload conversation", "conversation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := s.store.ListConversations(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("failed to list conversations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	if summaries == nil {
		summaries = []store.ConversationSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": summaries,
		"count":         len(summaries),
	})
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conv, err := s.store.GetConversation(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load conversation", "conversation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	resp := ConversationResponse{Conversation: conv}
	if rec, err := s.store.GetScorecard(r.Context(), id); err == nil {
		resp.Scorecard = rec
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("failed to load scorecard", "conversation_id", id, "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) analyzeConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conv, err := s.store.GetConversation(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load conversation", "conversation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if len(conv.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "conversation has no messages")
		return
	}

	sc, err := s.runner.AnalyzeConversation(r.Context(), id, "api")
	if err != nil {
		s.logger.Error("analysis failed", "conversation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(r *http.Request) (limit, offset int, err error) {
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid limit %q", v)
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", v)
		}
	}
	return limit, offset, nil
}
