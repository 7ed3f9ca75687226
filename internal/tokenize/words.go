// Package tokenize turns free text into search input: quote-aware words for
// query parsing and byte-level n-grams for the leaf index.
package tokenize

import "strings"

type state int

const (
	stateText state = iota
	stateSingleQuoted
	stateDoubleQuoted
)

func (s state) String() string {
	switch s {
	case stateText:
		return "text"
	case stateSingleQuoted:
		return "single-quoted"
	case stateDoubleQuoted:
		return "double-quoted"
	default:
		return "unknown"
	}
}

// SplitWords splits input on spaces, keeping single- and double-quoted spans
// together. A quote opens a span only at the start of a word or right after a
// lone "-", which stays in the word: `-"two words"` yields "-two words".
// An unterminated quote still flushes what was collected.
func SplitWords(input string) []string {
	words := []string{}
	var word strings.Builder
	st := stateText

	for _, c := range input {
		switch st {
		case stateText:
			switch {
			case c == ' ' && word.Len() == 0:
			case c == ' ':
				words = append(words, word.String())
				word.Reset()
			case c == '"' && opensQuote(word.String()):
				st = stateDoubleQuoted
			case c == '\'' && opensQuote(word.String()):
				st = stateSingleQuoted
			default:
				word.WriteRune(c)
			}
		case stateSingleQuoted:
			if c == '\'' {
				st = stateText
			} else {
				word.WriteRune(c)
			}
		case stateDoubleQuoted:
			if c == '"' {
				st = stateText
			} else {
				word.WriteRune(c)
			}
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}
	return words
}

func opensQuote(word string) bool {
	return word == "" || word == "-"
}
