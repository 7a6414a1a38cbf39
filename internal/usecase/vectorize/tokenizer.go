package vectorize

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// minTokenLen drops single-character tokens.
const minTokenLen = 2

// Tokenizer splits text into lowercase word tokens without stop words.
type Tokenizer struct {
	stem bool
}

// NewTokenizer creates a tokenizer. With stem set, tokens are reduced with
// the English Snowball stemmer after stop-word removal.
func NewTokenizer(stem bool) *Tokenizer {
	return &Tokenizer{stem: stem}
}

// Tokens returns the ordered token stream of text. Empty or unusual input
// yields an empty slice, never an error.
func (t *Tokenizer) Tokens(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) < minTokenLen || IsStopWord(w) {
			continue
		}
		if t.stem {
			w = english.Stem(w, false)
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
