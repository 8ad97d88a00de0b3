// Package lexicon holds the static phrase lists the analysis pipeline matches
// against: category phrase sets (jargon, confidence, empathy, ...) and the
// signed polarity vocabulary used by the sentiment scorer. The default set is
// compiled once at first use and shared read-only across concurrent analyses.
package lexicon

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Version identifies the shipped lexicon revision. Bump when any list changes
// so stored scorecards can be traced back to the vocabulary that produced them.
const Version = "2025.08"

// Category names a phrase list.
type Category string

const (
	Jargon      Category = "jargon"
	Confidence  Category = "confidence"
	Uncertainty Category = "uncertainty"
	Empathy     Category = "empathy"
	Fallback    Category = "fallback"
	Resolution  Category = "resolution"
	Escalation  Category = "escalation"
)

var phrases = map[Category][]string{
	// Technical/internal terms that lower clarity for a support audience.
	Jargon: {
		"api", "sdk", "latency", "throughput", "deprecated", "refactor",
		"endpoint", "payload", "middleware", "backend", "webhook",
		"cache invalidation", "rate limit",
	},
	Confidence: {
		"definitely", "certainly", "absolutely", "confirmed", "verified",
		"guaranteed", "will",
	},
	Uncertainty: {
		"maybe", "perhaps", "might be", "could be", "possibly", "not sure",
		"i think", "probably",
	},
	Empathy: {
		"i understand", "i apologize", "i'm sorry", "sorry for the inconvenience",
		"that must be", "i can imagine", "appreciate your patience",
		"thank you for your patience", "i hear you",
	},
	// Agent utterances indicating inability to help.
	Fallback: {
		"i don't know", "i can't help", "unable to assist", "cannot provide",
		"don't have that information", "beyond my capabilities",
	},
	Resolution: {
		"resolved", "fixed", "solved", "that works", "thank you for helping",
		"that solved it", "problem is gone", "all set now",
	},
	// User utterances signaling desire to reach a human/manager.
	Escalation: {
		"speak to a human", "talk to a human", "speak to a manager",
		"talk to a manager", "supervisor", "escalate", "real person",
		"human agent", "this isn't working",
	},
}

// Set is an immutable compiled lexicon. Safe for concurrent use.
type Set struct {
	version  string
	patterns map[Category][]*regexp.Regexp
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the process-wide compiled lexicon.
func Default() *Set {
	defaultOnce.Do(func() {
		defaultSet = MustCompile()
	})
	return defaultSet
}

// MustCompile builds a Set from the shipped phrase lists, panicking on a bad
// pattern. The lists are constants, so a failure here is a programming error.
func MustCompile() *Set {
	s, err := Compile()
	if err != nil {
		panic(err)
	}
	return s
}

// Compile builds a Set from the shipped phrase lists.
func Compile() (*Set, error) {
	s := &Set{
		version:  Version,
		patterns: make(map[Category][]*regexp.Regexp, len(phrases)),
	}
	for cat, list := range phrases {
		for _, phrase := range list {
			re, err := compilePhrase(phrase)
			if err != nil {
				return nil, fmt.Errorf("compile %s phrase %q: %w", cat, phrase, err)
			}
			s.patterns[cat] = append(s.patterns[cat], re)
		}
	}
	return s, nil
}

// compilePhrase turns a phrase into a case-insensitive, word-bounded pattern.
// Internal whitespace is flexible, so "speak to a human" matches across any
// spacing, and boundaries keep "will" from matching inside "willing".
func compilePhrase(phrase string) (*regexp.Regexp, error) {
	parts := strings.Fields(phrase)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile(`(?i)\b` + strings.Join(parts, `\s+`) + `\b`)
}

// Version reports the lexicon revision this Set was compiled from.
func (s *Set) Version() string { return s.version }

// Count returns the total number of occurrences of category phrases in text.
// Matching is case-insensitive containment; surrounding punctuation does not
// block a match.
func (s *Set) Count(cat Category, text string) int {
	n := 0
	for _, re := range s.patterns[cat] {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// Contains reports whether any phrase of the category occurs in text.
func (s *Set) Contains(cat Category, text string) bool {
	for _, re := range s.patterns[cat] {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
