package analysis

import (
	"time"

	"github.com/kipps-ai/scorecard/internal/sentiment"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message is a single turn in a conversation. Messages are immutable once
// handed to the analyzer; input order is conversation order.
type Message struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered transcript of messages. Length zero is valid.
type Conversation []Message

// Scorecard is the structured result of one analysis pass. All bounded scores
// are clamped to [0, 100]; the overall score is a weighted function of the
// five component scores only.
type Scorecard struct {
	Clarity            float64         `json:"clarity_score"`
	Relevance          float64         `json:"relevance_score"`
	Accuracy           float64         `json:"accuracy_score"`
	Completeness       float64         `json:"completeness_score"`
	Empathy            float64         `json:"empathy_score"`
	FallbackCount      int             `json:"fallback_count"`
	Sentiment          sentiment.Label `json:"sentiment"`
	Resolution         bool            `json:"resolution"`
	EscalationNeeded   bool            `json:"escalation_needed"`
	AvgResponseSeconds float64         `json:"avg_response_time_seconds"`
	Overall            float64         `json:"overall_score"`
}

func (c Conversation) bySender(s Sender) []Message {
	var out []Message
	for _, m := range c {
		if m.Sender == s {
			out = append(out, m)
		}
	}
	return out
}
