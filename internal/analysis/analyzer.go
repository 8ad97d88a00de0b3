// Package analysis implements the conversation scoring pipeline: a
// deterministic, single-pass engine that turns a two-party transcript into a
// scorecard of quality metrics, sentiment, and resolution/escalation verdicts.
//
// The engine is a pure function of its input conversation. It performs no I/O,
// reads only the process-wide immutable lexicon, and is safe to call
// concurrently for distinct conversations.
package analysis

import (
	"log/slog"

	"github.com/kipps-ai/scorecard/internal/lexicon"
	"github.com/kipps-ai/scorecard/internal/sentiment"
)

// Analyzer scores conversations. Construct once and share; Analyze allocates
// only local working state.
type Analyzer struct {
	cfg     Config
	weights Weights
	lex     *lexicon.Set
	scorer  sentiment.Scorer
	logger  *slog.Logger
}

// New builds an analyzer on the default lexicon and the lexicon-backed
// sentiment scorer.
func New(cfg Config, logger *slog.Logger) *Analyzer {
	lex := lexicon.Default()
	return NewWithScorer(cfg, sentiment.NewLexiconScorer(lex), logger)
}

// NewWithScorer builds an analyzer with a caller-supplied sentiment scorer,
// for deployments that plug in an external model.
func NewWithScorer(cfg Config, scorer sentiment.Scorer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		cfg:     cfg,
		weights: cfg.Weights.normalized(),
		lex:     lexicon.Default(),
		scorer:  scorer,
		logger:  logger,
	}
}

// LexiconVersion reports the lexicon revision the analyzer scores against.
func (a *Analyzer) LexiconVersion() string {
	return a.lex.Version()
}

// Analyze scores a complete transcript in one pass and returns the scorecard.
// It never fails on degenerate input: an empty conversation yields the
// documented neutral scorecard. Messages with an unrecognized sender are
// excluded from role-specific metrics but still count toward sentiment; they
// are logged as a data-quality signal.
func (a *Analyzer) Analyze(conv Conversation) Scorecard {
	agent := conv.bySender(SenderAgent)
	user := conv.bySender(SenderUser)
	if unknown := len(conv) - len(agent) - len(user); unknown > 0 {
		a.logger.Warn("conversation has messages with unrecognized sender",
			"count", unknown, "total", len(conv))
	}

	// Per-message compounds feed both the conversation label and the
	// late-satisfaction check in the resolution policy.
	compounds := make([]float64, len(conv))
	var compoundSum float64
	for i, m := range conv {
		compounds[i] = a.scorer.Score(m.Text)
		compoundSum += compounds[i]
	}
	var convCompound float64
	if len(conv) > 0 {
		convCompound = compoundSum / float64(len(conv))
	}
	label := sentiment.Classify(convCompound)

	fallbacks := a.fallbackCount(agent)

	sc := Scorecard{
		Clarity:            a.clarityScore(agent),
		Relevance:          a.relevanceScore(conv),
		Accuracy:           a.accuracyScore(agent),
		Completeness:       a.completenessScore(conv),
		Empathy:            a.empathyScore(agent),
		FallbackCount:      fallbacks,
		Sentiment:          label,
		AvgResponseSeconds: a.avgResponseSeconds(conv),
	}
	sc.Resolution = a.detectResolution(conv, compounds, label)
	sc.EscalationNeeded = a.detectEscalation(user, label, fallbacks)
	sc.Overall = a.overallScore(sc)
	return sc
}

// overallScore is the declared weighted combination of the five component
// scores. No other signal enters the formula.
func (a *Analyzer) overallScore(sc Scorecard) float64 {
	return clamp100(a.weights.Clarity*sc.Clarity +
		a.weights.Relevance*sc.Relevance +
		a.weights.Accuracy*sc.Accuracy +
		a.weights.Completeness*sc.Completeness +
		a.weights.Empathy*sc.Empathy)
}
