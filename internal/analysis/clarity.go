package analysis

import (
	"github.com/kipps-ai/scorecard/internal/lexicon"
	"github.com/kipps-ai/scorecard/internal/textseg"
)

// clarityScore grades the agent's writing: long sentences and jargon density
// each pull the score down from 100 by a capped linear penalty. Only agent
// messages are graded; a conversation with no agent text has nothing unclear
// in it and scores 100.
func (a *Analyzer) clarityScore(agent []Message) float64 {
	var totalWords, totalSentences, jargon int
	for _, m := range agent {
		sentences, words := textseg.Segment(m.Text)
		totalSentences += len(sentences)
		totalWords += len(words)
		jargon += a.lex.Count(lexicon.Jargon, m.Text)
	}
	if totalWords == 0 || totalSentences == 0 {
		return 100
	}

	avgLen := float64(totalWords) / float64(totalSentences)
	lengthPenalty := 0.0
	if over := avgLen - a.cfg.SentenceLengthTarget; over > 0 {
		lengthPenalty = over * a.cfg.LengthPenaltyPerWord
		if lengthPenalty > a.cfg.MaxLengthPenalty {
			lengthPenalty = a.cfg.MaxLengthPenalty
		}
	}

	jargonPenalty := float64(jargon) / float64(totalWords) * a.cfg.JargonPenaltyScale
	if jargonPenalty > a.cfg.MaxJargonPenalty {
		jargonPenalty = a.cfg.MaxJargonPenalty
	}

	return clamp100(100 - lengthPenalty - jargonPenalty)
}
