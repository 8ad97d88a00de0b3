package analysis

// Weights control how the five component scores combine into the overall
// score. They are normalized before use, so any positive values work;
// resolution, escalation and sentiment never enter the formula.
type Weights struct {
	Clarity      float64
	Relevance    float64
	Accuracy     float64
	Completeness float64
	Empathy      float64
}

// normalized scales the weights to sum to 1, falling back to equal weighting
// when the configured sum is not positive.
func (w Weights) normalized() Weights {
	sum := w.Clarity + w.Relevance + w.Accuracy + w.Completeness + w.Empathy
	if sum <= 0 {
		return Weights{Clarity: 0.2, Relevance: 0.2, Accuracy: 0.2, Completeness: 0.2, Empathy: 0.2}
	}
	return Weights{
		Clarity:      w.Clarity / sum,
		Relevance:    w.Relevance / sum,
		Accuracy:     w.Accuracy / sum,
		Completeness: w.Completeness / sum,
		Empathy:      w.Empathy / sum,
	}
}

// Config holds the tunable knobs of the pipeline. The policy thresholds are
// heuristics, not laws of nature; deployments adjust them through the service
// configuration.
type Config struct {
	Weights Weights

	// Clarity: sentences longer than the target accrue a linear penalty,
	// as does jargon density. Both penalties are capped.
	SentenceLengthTarget float64
	LengthPenaltyPerWord float64
	MaxLengthPenalty     float64
	JargonPenaltyScale   float64
	MaxJargonPenalty     float64

	// Relevance when the conversation contains no user questions.
	NoQuestionRelevance float64

	// Accuracy moves away from 50 by this much per confidence or
	// uncertainty marker.
	AccuracyStepPerMarker float64

	// Empathy scale: one empathy phrase per agent message maps to this score.
	EmpathyScale float64

	// Resolution phrases only count inside this trailing fraction of the
	// conversation (recency window), never fewer than one message.
	ResolutionWindowFraction float64

	// Escalation thresholds on the fallback count: the lower one applies
	// when conversation sentiment is negative, the absolute one always.
	FallbackNegativeThreshold int
	FallbackAbsoluteThreshold int
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() Config {
	return Config{
		Weights:                   Weights{Clarity: 0.2, Relevance: 0.2, Accuracy: 0.2, Completeness: 0.2, Empathy: 0.2},
		SentenceLengthTarget:      20,
		LengthPenaltyPerWord:      2.5,
		MaxLengthPenalty:          50,
		JargonPenaltyScale:        500,
		MaxJargonPenalty:          50,
		NoQuestionRelevance:       50,
		AccuracyStepPerMarker:     10,
		EmpathyScale:              50,
		ResolutionWindowFraction:  0.25,
		FallbackNegativeThreshold: 2,
		FallbackAbsoluteThreshold: 4,
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
