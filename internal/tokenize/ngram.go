package tokenize

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// DefaultNGramLength is the window size the leaf index is built with.
const DefaultNGramLength = 3

// ErrInvalidArgument marks a rejected n-gram length.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a bad parameter value.
type InvalidArgumentError struct {
	Name  string
	Value int
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s must be positive, got %d", ErrInvalidArgument, e.Name, e.Value)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Occurrence is an n-gram and the byte offset it starts at.
type Occurrence struct {
	NGram    string `json:"ngram"`
	Position int    `json:"position"`
}

// Windows returns every contiguous run of n elements of s, in order. Fewer
// than n elements yield no windows. The windows share s's backing array.
func Windows[T any](s []T, n int) [][]T {
	if n <= 0 || len(s) < n {
		return nil
	}
	out := make([][]T, 0, len(s)-n+1)
	for i := 0; i+n <= len(s); i++ {
		out = append(out, s[i:i+n:i+n])
	}
	return out
}

// HexEncode renders bytes as lowercase hex, two digits per byte.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// NGrams returns the hex encoding of every length-byte window of input's
// UTF-8 bytes, ordered by offset. Multi-byte characters are split across
// windows. Input shorter than length yields an empty slice.
func NGrams(input string, length int) ([]string, error) {
	if length <= 0 {
		return nil, &InvalidArgumentError{Name: "length", Value: length}
	}
	windows := Windows([]byte(input), length)
	out := make([]string, 0, len(windows))
	for _, w := range windows {
		out = append(out, HexEncode(w))
	}
	return out, nil
}

// NGramsDefault is NGrams with DefaultNGramLength.
func NGramsDefault(input string) []string {
	out, _ := NGrams(input, DefaultNGramLength)
	return out
}

// Positions is NGrams with the starting byte offset of each window.
func Positions(input string, length int) ([]Occurrence, error) {
	grams, err := NGrams(input, length)
	if err != nil {
		return nil, err
	}
	out := make([]Occurrence, len(grams))
	for i, g := range grams {
		out[i] = Occurrence{NGram: g, Position: i}
	}
	return out, nil
}

// Unique drops repeated n-grams, keeping first occurrences in order.
func Unique(grams []string) []string {
	seen := make(map[string]struct{}, len(grams))
	out := make([]string, 0, len(grams))
	for _, g := range grams {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// LeafName is the file an n-gram's postings are stored under in index/leaves.
func LeafName(ngram string) string {
	return ngram + ".json"
}

// Normalize applies Unicode NFC so composed and decomposed spellings of the
// same text produce the same n-grams.
func Normalize(input string) string {
	return norm.NFC.String(input)
}
