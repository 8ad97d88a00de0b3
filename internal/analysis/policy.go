package analysis

import (
	"github.com/kipps-ai/scorecard/internal/lexicon"
	"github.com/kipps-ai/scorecard/internal/sentiment"
)

// detectResolution decides whether the conversation ended resolved. Either a
// resolution phrase occurs inside the trailing recency window (an early
// "fixed" in a long conversation does not count), or the conversation
// sentiment is positive and some user message after the midpoint reads as
// satisfied on its own.
func (a *Analyzer) detectResolution(conv Conversation, compounds []float64, label sentiment.Label) bool {
	n := len(conv)
	if n == 0 {
		return false
	}

	window := int(float64(n) * a.cfg.ResolutionWindowFraction)
	if window < 1 {
		window = 1
	}
	for i := n - window; i < n; i++ {
		if a.lex.Contains(lexicon.Resolution, conv[i].Text) {
			return true
		}
	}

	if label == sentiment.Positive {
		for i := n / 2; i < n; i++ {
			if conv[i].Sender == SenderUser && compounds[i] >= sentiment.PositiveThreshold {
				return true
			}
		}
	}
	return false
}

// detectEscalation decides whether the conversation should reach a human.
// Any explicit escalation trigger in a user message escalates; so does a
// negative conversation with a moderate fallback count, or a high fallback
// count regardless of sentiment. Resolution and escalation are independent
// verdicts and may both be true.
func (a *Analyzer) detectEscalation(user []Message, label sentiment.Label, fallbacks int) bool {
	for _, m := range user {
		if a.lex.Contains(lexicon.Escalation, m.Text) {
			return true
		}
	}
	if label == sentiment.Negative && fallbacks >= a.cfg.FallbackNegativeThreshold {
		return true
	}
	return fallbacks >= a.cfg.FallbackAbsoluteThreshold
}
