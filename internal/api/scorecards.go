package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kipps-ai/scorecard/internal/store"
)

func (s *Server) getScorecard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := s.store.GetScorecard(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scorecard not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load scorecard", "conversation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load scorecard")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) listScorecards(w http.ResponseWriter, r *http.Request) {
	f, err := parseScorecardFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := s.store.ListScorecards(r.Context(), f)
	if err != nil {
		s.logger.Error("failed to list scorecards", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list scorecards")
		return
	}
	if recs == nil {
		recs = []store.ScorecardRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scorecards": recs,
		"count":      len(recs),
	})
}

func parseScorecardFilter(r *http.Request) (store.ScorecardFilter, error) {
	var f store.ScorecardFilter
	q := r.URL.Query()

	if v := q.Get("sentiment"); v != "" {
		switch v {
		case "positive", "neutral", "negative":
			f.Sentiment = v
		default:
			return f, fmt.Errorf("invalid sentiment %q", v)
		}
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("invalid from timestamp: %v", err)
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("invalid to timestamp: %v", err)
		}
		f.To = t
	}
	if v := q.Get("min_score"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("invalid min_score %q", v)
		}
		f.MinScore = &min
	}

	var err error
	f.Limit, f.Offset, err = parsePage(r)
	return f, err
}
