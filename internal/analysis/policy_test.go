package analysis

import (
	"testing"
	"time"

	"github.com/kipps-ai/scorecard/internal/sentiment"
)

func TestDetectResolution(t *testing.T) {
	a := newAnalyzer(t)

	t.Run("empty conversation", func(t *testing.T) {
		if a.detectResolution(nil, nil, sentiment.Neutral) {
			t.Error("empty conversation cannot be resolved")
		}
	})

	t.Run("phrase in trailing window", func(t *testing.T) {
		conv := Conversation{
			msg(SenderUser, "Payment is stuck.", 0),
			msg(SenderAgent, "Looking at it.", time.Minute),
			msg(SenderUser, "Ok.", 2 * time.Minute),
			msg(SenderAgent, "That solved it, you should be all set.", 3 * time.Minute),
		}
		if !a.detectResolution(conv, make([]float64, len(conv)), sentiment.Neutral) {
			t.Error("resolution phrase in the final quarter should resolve")
		}
	})

	t.Run("phrase before the window does not resolve", func(t *testing.T) {
		conv := Conversation{
			msg(SenderAgent, "We fixed a similar bug before.", 0),
			msg(SenderUser, "Mine is still broken.", time.Minute),
			msg(SenderAgent, "Understood, still investigating.", 2 * time.Minute),
			msg(SenderUser, "Waiting.", 3 * time.Minute),
		}
		if a.detectResolution(conv, make([]float64, len(conv)), sentiment.Neutral) {
			t.Error("a resolution phrase outside the recency window should not resolve")
		}
	})

	t.Run("positive sentiment with late user satisfaction", func(t *testing.T) {
		conv := Conversation{
			msg(SenderUser, "Payment is stuck.", 0),
			msg(SenderAgent, "Fixing it now.", time.Minute),
			msg(SenderUser, "Everything looks good now, thanks!", 2 * time.Minute),
			msg(SenderAgent, "Anything else I can do?", 3 * time.Minute),
		}
		compounds := []float64{0, 0, 0.4, 0}
		if !a.detectResolution(conv, compounds, sentiment.Positive) {
			t.Error("positive conversation with a satisfied late user message should resolve")
		}
	})

	t.Run("satisfied message before midpoint does not resolve", func(t *testing.T) {
		conv := Conversation{
			msg(SenderUser, "Great start, thanks!", 0),
			msg(SenderAgent, "Working on the rest.", time.Minute),
			msg(SenderUser, "Still waiting on the second part.", 2 * time.Minute),
			msg(SenderAgent, "It is queued.", 3 * time.Minute),
		}
		compounds := []float64{0.4, 0, 0, 0}
		if a.detectResolution(conv, compounds, sentiment.Positive) {
			t.Error("satisfaction before the midpoint should not resolve")
		}
	})
}

func TestDetectEscalation(t *testing.T) {
	a := newAnalyzer(t)

	userMsg := func(text string) []Message {
		return []Message{{Sender: SenderUser, Text: text}}
	}

	tests := []struct {
		name      string
		user      []Message
		label     sentiment.Label
		fallbacks int
		want      bool
	}{
		{"explicit trigger", userMsg("I want to speak to a human."), sentiment.Positive, 0, true},
		{"trigger phrasing variant", userMsg("Let me talk to a manager please."), sentiment.Neutral, 0, true},
		{"negative with moderate fallbacks", userMsg("nothing works"), sentiment.Negative, 2, true},
		{"negative with one fallback stays", userMsg("nothing works"), sentiment.Negative, 1, false},
		{"neutral with moderate fallbacks stays", userMsg("ok"), sentiment.Neutral, 3, false},
		{"absolute fallback threshold", userMsg("ok"), sentiment.Positive, 4, true},
		{"calm and helpful", userMsg("thanks for checking"), sentiment.Positive, 0, false},
		{"no user messages", nil, sentiment.Neutral, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.detectEscalation(tt.user, tt.label, tt.fallbacks)
			if got != tt.want {
				t.Errorf("detectEscalation = %v, want %v", got, tt.want)
			}
		})
	}
}
