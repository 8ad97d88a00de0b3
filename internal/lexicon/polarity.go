package lexicon

// Signed polarity vocabulary for the sentiment scorer. Weights are on a
// [-4, 4] valence scale; the scorer normalizes them. Tokens are matched
// against lower-cased, punctuation-stripped words, so contractions keep
// their apostrophe ("can't") and plain words do not.
var polarity = map[string]float64{
	// positive
	"amazing":    3.2,
	"awesome":    3.1,
	"excellent":  3.0,
	"perfect":    3.0,
	"fantastic":  3.0,
	"love":       2.9,
	"wonderful":  2.8,
	"great":      2.6,
	"glad":       2.2,
	"happy":      2.1,
	"helpful":    2.1,
	"appreciate": 2.0,
	"thanks":     1.9,
	"thank":      1.9,
	"pleased":    1.9,
	"good":       1.8,
	"works":      1.6,
	"working":    1.5,
	"solved":     1.8,
	"resolved":   1.8,
	"better":     1.5,
	"nice":       1.5,
	"fine":       1.1,
	"welcome":    1.1,
	"yes":        0.8,

	// negative
	"terrible":     -3.1,
	"horrible":     -3.0,
	"awful":        -2.9,
	"useless":      -2.8,
	"furious":      -2.8,
	"unacceptable": -2.7,
	"angry":        -2.5,
	"hate":         -2.5,
	"frustrated":   -2.4,
	"frustrating":  -2.4,
	"ridiculous":   -2.3,
	"disappointed": -2.2,
	"annoyed":      -2.0,
	"annoying":     -2.0,
	"upset":        -2.0,
	"broken":       -1.9,
	"worst":        -2.6,
	"bad":          -1.8,
	"wrong":        -1.6,
	"failed":       -1.8,
	"failure":      -1.8,
	"waiting":      -1.1,
	"slow":         -1.3,
	"late":         -1.3,
	"problem":      -1.2,
	"issue":        -0.9,
	"confusing":    -1.6,
	"confused":     -1.5,
	"sorry":        -0.8,
	"no":           -0.6,
}

// negations flip the sign of a polarity word within the scorer's window.
var negations = map[string]struct{}{
	"not":     {},
	"never":   {},
	"no":      {},
	"don't":   {},
	"doesn't": {},
	"didn't":  {},
	"can't":   {},
	"won't":   {},
	"isn't":   {},
	"wasn't":  {},
	"cannot":  {},
}

// stopwords are removed before question/answer keyword overlap.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "am": {}, "i": {}, "you": {}, "we": {}, "it": {},
	"my": {}, "your": {}, "me": {}, "us": {}, "to": {}, "for": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "and": {}, "or": {}, "do": {}, "does": {}, "did": {},
	"can": {}, "could": {}, "would": {}, "will": {}, "this": {}, "that": {},
	"with": {}, "have": {}, "has": {}, "had": {}, "what": {}, "how": {},
	"why": {}, "when": {}, "where": {}, "please": {}, "there": {}, "so": {},
}

// interrogatives mark a leading word as question-forming.
var interrogatives = map[string]struct{}{
	"who": {}, "what": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"which": {}, "can": {}, "could": {}, "would": {}, "will": {}, "do": {},
	"does": {}, "did": {}, "is": {}, "are": {}, "should": {},
}

// Polarity returns the signed valence for a word token, if any.
func (s *Set) Polarity(token string) (float64, bool) {
	w, ok := polarity[token]
	return w, ok
}

// IsNegation reports whether the token flips the sign of a following
// polarity word.
func (s *Set) IsNegation(token string) bool {
	_, ok := negations[token]
	return ok
}

// IsStopword reports whether the token carries no keyword meaning for
// question/answer overlap.
func (s *Set) IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// IsInterrogative reports whether the token opens a question.
func (s *Set) IsInterrogative(token string) bool {
	_, ok := interrogatives[token]
	return ok
}
