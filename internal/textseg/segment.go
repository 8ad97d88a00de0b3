// Package textseg splits raw message text into sentences and word tokens.
// Every metric in the analysis pipeline is built on top of this segmentation.
package textseg

import (
	"strings"
	"unicode"
)

// Segment splits text into sentences and lower-cased word tokens.
// Sentence boundaries are '.', '!' or '?' followed by whitespace or
// end-of-string. Tokens are stripped of surrounding punctuation and are
// meant for lexicon/overlap matching; the surface text is never mutated.
// Empty or whitespace-only input yields empty slices.
func Segment(text string) (sentences []string, words []string) {
	return Sentences(text), Words(text)
}

// Sentences splits text on terminal punctuation. Whitespace-only fragments
// are dropped; trailing text without a terminator counts as a sentence.
func Sentences(text string) []string {
	var out []string
	var cur strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		cur.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		atEnd := i == len(runes)-1
		if atEnd || unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// Words tokenizes text into lower-cased words, splitting on whitespace and
// trimming surrounding punctuation. Interior punctuation (apostrophes,
// hyphens) is kept so contractions like "don't" survive as one token.
func Words(text string) []string {
	var out []string
	for _, field := range strings.Fields(text) {
		tok := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok == "" {
			continue
		}
		out = append(out, strings.ToLower(tok))
	}
	return out
}

// WordCount returns the number of word tokens in text.
func WordCount(text string) int {
	return len(Words(text))
}
