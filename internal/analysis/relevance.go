package analysis

import (
	"strings"

	"github.com/kipps-ai/scorecard/internal/textseg"
)

// isQuestion reports whether a message reads as a question: it ends with a
// question mark or opens with an interrogative word.
func (a *Analyzer) isQuestion(text string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	words := textseg.Words(trimmed)
	return len(words) > 0 && a.lex.IsInterrogative(words[0])
}

// keywords returns the stopword-filtered token set of text.
func (a *Analyzer) keywords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range textseg.Words(text) {
		if a.lex.IsStopword(w) {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// relevanceScore measures how well agent replies address user questions via
// keyword overlap (Jaccard of stopword-filtered token sets) with the nearest
// following agent message. A conversation with no user questions — or with
// questions the agent never got to — scores the configured neutral default
// instead of dividing by zero.
func (a *Analyzer) relevanceScore(conv Conversation) float64 {
	var sum float64
	pairs := 0

	for i, m := range conv {
		if m.Sender != SenderUser || !a.isQuestion(m.Text) {
			continue
		}
		reply, ok := nextAgentMessage(conv, i)
		if !ok {
			continue
		}
		sum += a.pairOverlap(m.Text, reply.Text) * 100
		pairs++
	}

	if pairs == 0 {
		return clamp100(a.cfg.NoQuestionRelevance)
	}
	return clamp100(sum / float64(pairs))
}

// pairOverlap is |question ∩ answer| / |question ∪ answer| over keyword sets,
// 0 when the answer contributes no keywords.
func (a *Analyzer) pairOverlap(question, answer string) float64 {
	q := a.keywords(question)
	ans := a.keywords(answer)
	if len(ans) == 0 || len(q) == 0 {
		return 0
	}

	inter := 0
	for w := range q {
		if _, ok := ans[w]; ok {
			inter++
		}
	}
	union := len(q) + len(ans) - inter
	return float64(inter) / float64(union)
}

// completenessScore is the fraction of user questions that have any agent
// reply after them, relevant or not. No questions means nothing was left
// unaddressed.
func (a *Analyzer) completenessScore(conv Conversation) float64 {
	questions, answered := 0, 0
	for i, m := range conv {
		if m.Sender != SenderUser || !a.isQuestion(m.Text) {
			continue
		}
		questions++
		if _, ok := nextAgentMessage(conv, i); ok {
			answered++
		}
	}
	if questions == 0 {
		return 100
	}
	return clamp100(float64(answered) / float64(questions) * 100)
}

// nextAgentMessage returns the first agent message after index i.
func nextAgentMessage(conv Conversation, i int) (Message, bool) {
	for j := i + 1; j < len(conv); j++ {
		if conv[j].Sender == SenderAgent {
			return conv[j], true
		}
	}
	return Message{}, false
}
