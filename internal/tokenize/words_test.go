package tokenize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"plain", "a b c", []string{"a", "b", "c"}},
		{"repeated spaces", "  a   b ", []string{"a", "b"}},
		{"double quoted", `"two words" rest`, []string{"two words", "rest"}},
		{"single quoted", `'two words' rest`, []string{"two words", "rest"}},
		{"dash before double quote", `-"two words" rest`, []string{"-two words", "rest"}},
		{"dash before single quote", `-'x y'`, []string{"-x y"}},
		{"double dash does not open", `--"x y"`, []string{`--"x`, `y"`}},
		{"quote inside word is literal", `ab"cd ef"`, []string{`ab"cd`, `ef"`}},
		{"quoted span joins following text", `"a"b`, []string{"ab"}},
		{"empty quotes yield nothing", `"" ''`, []string{}},
		{"other quote kept inside span", `'it"s' "don't"`, []string{`it"s`, "don't"}},
		{"unterminated quote flushes", `x "abc def`, []string{"x", "abc def"}},
		{"tabs are not separators", "a\tb c", []string{"a\tb", "c"}},
		{"multibyte", "héllo wörld", []string{"héllo", "wörld"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitWords(tt.input))
		})
	}
}

func TestSplitWordsNoMoreTokensThanRuns(t *testing.T) {
	inputs := []string{
		"a b c",
		`-"two words" rest`,
		`one "two three" 'four five six' seven`,
		`"unterminated and long`,
		`a  "b"  c'd e'`,
	}
	for _, in := range inputs {
		stripped := strings.NewReplacer(`"`, "", `'`, "").Replace(in)
		assert.LessOrEqual(t, len(SplitWords(in)), len(strings.Fields(stripped)), in)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "text", stateText.String())
	assert.Equal(t, "single-quoted", stateSingleQuoted.String())
	assert.Equal(t, "double-quoted", stateDoubleQuoted.String())
	assert.Equal(t, "unknown", state(9).String())
}
