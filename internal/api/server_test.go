package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kipps-ai/scorecard/internal/analysis"
	"github.com/kipps-ai/scorecard/internal/bus"
	"github.com/kipps-ai/scorecard/internal/store"
)

type stubStore struct {
	convs      map[uuid.UUID]*store.Conversation
	cards      map[uuid.UUID]*store.ScorecardRecord
	lastFilter store.ScorecardFilter
}

func newStubStore() *stubStore {
	return &stubStore{
		convs: make(map[uuid.UUID]*store.Conversation),
		cards: make(map[uuid.UUID]*store.ScorecardRecord),
	}
}

func (s *stubStore) CreateConversation(_ context.Context, title string, msgs []analysis.Message) (uuid.UUID, error) {
	id := uuid.New()
	s.convs[id] = &store.Conversation{ID: id, Title: title, CreatedAt: time.Now().UTC(), Messages: msgs}
	return id, nil
}

func (s *stubStore) GetConversation(_ context.Context, id uuid.UUID) (*store.Conversation, error) {
	conv, ok := s.convs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return conv, nil
}

func (s *stubStore) ListConversations(_ context.Context, limit, offset int) ([]store.ConversationSummary, error) {
	var out []store.ConversationSummary
	for _, c := range s.convs {
		_, analyzed := s.cards[c.ID]
		out = append(out, store.ConversationSummary{
			ID:           c.ID,
			Title:        c.Title,
			CreatedAt:    c.CreatedAt,
			MessageCount: len(c.Messages),
			HasScorecard: analyzed,
		})
	}
	return out, nil
}

func (s *stubStore) GetScorecard(_ context.Context, id uuid.UUID) (*store.ScorecardRecord, error) {
	rec, ok := s.cards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (s *stubStore) ListScorecards(_ context.Context, f store.ScorecardFilter) ([]store.ScorecardRecord, error) {
	s.lastFilter = f
	var out []store.ScorecardRecord
	for _, rec := range s.cards {
		out = append(out, *rec)
	}
	return out, nil
}

type stubRunner struct {
	lastTrigger string
	scorecard   analysis.Scorecard
	err         error
}

func (r *stubRunner) AnalyzeConversation(_ context.Context, id uuid.UUID, trigger string) (analysis.Scorecard, error) {
	r.lastTrigger = trigger
	return r.scorecard, r.err
}

type stubPublisher struct {
	subjects []string
}

func (p *stubPublisher) Publish(subject string, data any) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func newTestServer(token string, st *stubStore, runner *stubRunner, pub Publisher) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(8460, token, st, runner, pub, nil, "2025.08", logger)
}

func doRequest(srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer("", newStubStore(), &stubRunner{}, nil)

	w := doRequest(srv, "GET", "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer("", newStubStore(), &stubRunner{}, nil)

	w := doRequest(srv, "GET", "/api/v1/scorecard/status", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["service"] != "scorecard" {
		t.Errorf("expected service scorecard, got %q", body["service"])
	}
	if body["lexicon"] != "2025.08" {
		t.Errorf("expected lexicon 2025.08, got %q", body["lexicon"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer("", newStubStore(), &stubRunner{}, nil)

	w := doRequest(srv, "GET", "/metrics", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCreateConversation(t *testing.T) {
	st := newStubStore()
	pub := &stubPublisher{}
	srv := newTestServer("", st, &stubRunner{}, pub)

	payload := `{
		"title": "billing question",
		"messages": [
			{"sender": "user", "text": "Where is my invoice?", "timestamp": "2025-03-10T09:00:00Z"},
			{"sender": "agent", "text": "You can find it under billing.", "timestamp": "2025-03-10T09:00:30Z"}
		]
	}`
	w := doRequest(srv, "POST", "/api/v1/conversations", "", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}

	var conv store.Conversation
	if err := json.NewDecoder(w.Body).Decode(&conv); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if conv.Title != "billing question" {
		t.Errorf("title = %q, want billing question", conv.Title)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("stored %d messages, want 2", len(conv.Messages))
	}
	if conv.Messages[0].Sender != analysis.SenderUser {
		t.Errorf("first sender = %q, want user", conv.Messages[0].Sender)
	}

	if len(pub.subjects) != 1 || pub.subjects[0] != bus.SubjectConversationStored {
		t.Errorf("published subjects = %v, want [%s]", pub.subjects, bus.SubjectConversationStored)
	}
}

func TestCreateConversationValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{not json`},
		{"unknown sender", `{"messages":[{"sender":"bot","text":"hi","timestamp":"2025-03-10T09:00:00Z"}]}`},
		{"bad timestamp", `{"messages":[{"sender":"user","text":"hi","timestamp":"yesterday"}]}`},
		{"empty text", `{"messages":[{"sender":"user","text":"  ","timestamp":"2025-03-10T09:00:00Z"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newStubStore()
			srv := newTestServer("", st, &stubRunner{}, nil)

			w := doRequest(srv, "POST", "/api/v1/conversations", "", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if len(st.convs) != 0 {
				t.Errorf("stored %d conversations, want 0", len(st.convs))
			}
		})
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer("secret", newStubStore(), &stubRunner{}, nil)
	payload := `{"title":"t","messages":[]}`

	w := doRequest(srv, "POST", "/api/v1/conversations", "", payload)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	w = doRequest(srv, "POST", "/api/v1/conversations", "wrong", payload)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: expected 401, got %d", w.Code)
	}

	w = doRequest(srv, "POST", "/api/v1/conversations", "secret", payload)
	if w.Code != http.StatusCreated {
		t.Errorf("valid token: expected 201, got %d", w.Code)
	}

	// reads stay open
	w = doRequest(srv, "GET", "/api/v1/conversations", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("list without token: expected 200, got %d", w.Code)
	}
}

func TestGetConversation(t *testing.T) {
	st := newStubStore()
	id, _ := st.CreateConversation(context.Background(), "t", []analysis.Message{
		{Sender: analysis.SenderUser, Text: "hi", Timestamp: time.Now().UTC()},
	})
	st.cards[id] = &store.ScorecardRecord{
		ConversationID: id,
		Scorecard:      analysis.Scorecard{Overall: 72.5, Sentiment: "positive"},
		AnalyzedAt:     time.Now().UTC(),
	}
	srv := newTestServer("", st, &stubRunner{}, nil)

	w := doRequest(srv, "GET", "/api/v1/conversations/"+id.String(), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ConversationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Scorecard == nil {
		t.Fatal("expected embedded scorecard")
	}
	if resp.Scorecard.Overall != 72.5 {
		t.Errorf("overall = %f, want 72.5", resp.Scorecard.Overall)
	}

	w = doRequest(srv, "GET", "/api/v1/conversations/"+uuid.NewString(), "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", w.Code)
	}

	w = doRequest(srv, "GET", "/api/v1/conversations/not-a-uuid", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
}

func TestAnalyzeConversation(t *testing.T) {
	st := newStubStore()
	id, _ := st.CreateConversation(context.Background(), "t", []analysis.Message{
		{Sender: analysis.SenderUser, Text: "hi", Timestamp: time.Now().UTC()},
	})
	emptyID, _ := st.CreateConversation(context.Background(), "empty", nil)

	runner := &stubRunner{scorecard: analysis.Scorecard{Overall: 64, Sentiment: "neutral"}}
	srv := newTestServer("", st, runner, nil)

	w := doRequest(srv, "POST", "/api/v1/conversations/"+id.String()+"/analyze", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	var sc analysis.Scorecard
	if err := json.NewDecoder(w.Body).Decode(&sc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if sc.Overall != 64 {
		t.Errorf("overall = %f, want 64", sc.Overall)
	}
	if runner.lastTrigger != "api" {
		t.Errorf("trigger = %q, want api", runner.lastTrigger)
	}

	w = doRequest(srv, "POST", "/api/v1/conversations/"+emptyID.String()+"/analyze", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty conversation: expected 400, got %d", w.Code)
	}

	w = doRequest(srv, "POST", "/api/v1/conversations/"+uuid.NewString()+"/analyze", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", w.Code)
	}
}

func TestGetScorecard(t *testing.T) {
	st := newStubStore()
	id, _ := st.CreateConversation(context.Background(), "t", nil)
	srv := newTestServer("", st, &stubRunner{}, nil)

	w := doRequest(srv, "GET", "/api/v1/conversations/"+id.String()+"/scorecard", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("no scorecard yet: expected 404, got %d", w.Code)
	}

	st.cards[id] = &store.ScorecardRecord{
		ConversationID: id,
		Scorecard:      analysis.Scorecard{Overall: 88, Sentiment: "positive"},
		AnalyzedAt:     time.Now().UTC(),
	}
	w = doRequest(srv, "GET", "/api/v1/conversations/"+id.String()+"/scorecard", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var rec store.ScorecardRecord
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rec.Overall != 88 {
		t.Errorf("overall = %f, want 88", rec.Overall)
	}
}

func TestListScorecardsFilter(t *testing.T) {
	st := newStubStore()
	srv := newTestServer("", st, &stubRunner{}, nil)

	w := doRequest(srv, "GET", "/api/v1/scorecards?sentiment=negative&min_score=40&from=2025-03-01T00:00:00Z&limit=10&offset=5", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	f := st.lastFilter
	if f.Sentiment != "negative" {
		t.Errorf("sentiment = %q, want negative", f.Sentiment)
	}
	if f.MinScore == nil || *f.MinScore != 40 {
		t.Errorf("min_score = %v, want 40", f.MinScore)
	}
	if f.From.IsZero() {
		t.Error("from was not parsed")
	}
	if f.Limit != 10 || f.Offset != 5 {
		t.Errorf("limit/offset = %d/%d, want 10/5", f.Limit, f.Offset)
	}
}

func TestListScorecardsBadFilter(t *testing.T) {
	srv := newTestServer("", newStubStore(), &stubRunner{}, nil)

	for _, path := range []string{
		"/api/v1/scorecards?sentiment=angry",
		"/api/v1/scorecards?from=lastweek",
		"/api/v1/scorecards?min_score=lots",
		"/api/v1/scorecards?limit=-1",
	} {
		w := doRequest(srv, "GET", path, "", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := newTestServer("", newStubStore(), &stubRunner{}, nil)

	w := doRequest(srv, "GET", "/nonexistent", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
