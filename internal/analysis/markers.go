package analysis

import (
	"github.com/kipps-ai/scorecard/internal/lexicon"
)

// accuracyScore starts neutral at 50 and moves up per confidence marker and
// down per uncertainty marker in agent text, clamped to [0, 100]. A
// conversation with no markers at all stays at 50.
func (a *Analyzer) accuracyScore(agent []Message) float64 {
	confident, uncertain := 0, 0
	for _, m := range agent {
		confident += a.lex.Count(lexicon.Confidence, m.Text)
		uncertain += a.lex.Count(lexicon.Uncertainty, m.Text)
	}
	return clamp100(50 + a.cfg.AccuracyStepPerMarker*float64(confident-uncertain))
}

// empathyScore counts empathy phrases across agent messages and normalizes by
// agent message count through a saturating cap: one phrase per message maps to
// EmpathyScale, two or more saturate at 100. No agent messages means no
// empathy was shown, which scores 0.
func (a *Analyzer) empathyScore(agent []Message) float64 {
	if len(agent) == 0 {
		return 0
	}
	occurrences := 0
	for _, m := range agent {
		occurrences += a.lex.Count(lexicon.Empathy, m.Text)
	}
	score := float64(occurrences) / float64(len(agent)) * a.cfg.EmpathyScale
	return clamp100(score)
}

// fallbackCount is the raw total of fallback-phrase occurrences across agent
// messages. Reported as-is, never normalized.
func (a *Analyzer) fallbackCount(agent []Message) int {
	n := 0
	for _, m := range agent {
		n += a.lex.Count(lexicon.Fallback, m.Text)
	}
	return n
}
