// Package sentiment produces a compound polarity score for a piece of text.
// The scorer is an interface so the lexicon implementation can be swapped for
// an external model without touching the rest of the pipeline.
package sentiment

import (
	"math"

	"github.com/kipps-ai/scorecard/internal/lexicon"
	"github.com/kipps-ai/scorecard/internal/textseg"
)

// Label is the three-way sentiment classification.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Thresholds on the compound score. A compound at or beyond the positive
// threshold classifies as positive, at or beyond the negative threshold as
// negative, anything between as neutral.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// negationWindow is how many tokens back a negation still flips a polarity
// word ("not very happy" → negative).
const negationWindow = 3

// normAlpha controls how fast the weighted sum saturates toward ±1.
// Same constant the VADER scorer uses for its compound normalization.
const normAlpha = 15.0

// valenceScale maps the lexicon's [-4, 4] weights onto [-1, 1].
const valenceScale = 4.0

// Scorer computes a compound polarity in [-1, 1] for one message text.
type Scorer interface {
	Score(text string) float64
}

// LexiconScorer scores text against the signed polarity vocabulary with
// negation handling. It is stateless and safe for concurrent use.
type LexiconScorer struct {
	lex *lexicon.Set
}

// NewLexiconScorer returns a scorer backed by the given lexicon.
func NewLexiconScorer(lex *lexicon.Set) *LexiconScorer {
	return &LexiconScorer{lex: lex}
}

// Score returns the compound polarity of text in [-1, 1]. Empty or
// polarity-free text scores 0. The sum of signed word valences is passed
// through a saturating normalization so piling on more words moves the
// compound asymptotically, never past ±1.
func (s *LexiconScorer) Score(text string) float64 {
	words := textseg.Words(text)
	if len(words) == 0 {
		return 0
	}

	var sum float64
	for i, w := range words {
		valence, ok := s.lex.Polarity(w)
		if !ok {
			continue
		}
		if s.negatedAt(words, i) {
			valence = -valence
		}
		sum += valence / valenceScale
	}
	if sum == 0 {
		return 0
	}

	compound := sum / math.Sqrt(sum*sum+normAlpha)
	return math.Max(-1, math.Min(1, compound))
}

// negatedAt reports whether a negation token occurs within the window
// before position i.
func (s *LexiconScorer) negatedAt(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if s.lex.IsNegation(words[j]) {
			return true
		}
	}
	return false
}

// Classify maps a compound score to its label.
func Classify(compound float64) Label {
	switch {
	case compound >= PositiveThreshold:
		return Positive
	case compound <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}
