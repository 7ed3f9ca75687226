package tokenize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba0f3/leafstat/internal/percentile"
)

func TestNGrams(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   []string
	}{
		{"exact window", "abc", 3, []string{"616263"}},
		{"too short", "ab", 3, []string{}},
		{"empty", "", 3, []string{}},
		{"sliding", "abcd", 2, []string{"6162", "6263", "6364"}},
		{"zero padded", "\n\x01\xff", 3, []string{"0a01ff"}},
		{"multibyte split into bytes", "\u00e9", 1, []string{"c3", "a9"}},
		{"window across characters", "a\u00e9", 2, []string{"61c3", "c3a9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NGrams(tt.input, tt.length)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, g := range got {
				assert.Len(t, g, 2*tt.length)
			}
		})
	}
}

func TestNGramsCount(t *testing.T) {
	inputs := []string{"", "a", "hello", "héllo wörld", "日本語のテキスト"}
	for _, in := range inputs {
		for length := 1; length <= 8; length++ {
			got, err := NGrams(in, length)
			require.NoError(t, err)
			assert.Len(t, got, max(0, len(in)-length+1), "%q length %d", in, length)
		}
	}
}

func TestNGramsRejectsNonPositiveLength(t *testing.T) {
	for _, length := range []int{0, -1} {
		_, err := NGrams("abc", length)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))

		var argErr *InvalidArgumentError
		require.True(t, errors.As(err, &argErr))
		assert.Equal(t, length, argErr.Value)
	}
}

func TestNGramsDefault(t *testing.T) {
	assert.Equal(t, []string{"616263", "626364"}, NGramsDefault("abcd"))
}

func TestPositions(t *testing.T) {
	got, err := Positions("abcd", 2)
	require.NoError(t, err)
	assert.Equal(t, []Occurrence{
		{NGram: "6162", Position: 0},
		{NGram: "6263", Position: 1},
		{NGram: "6364", Position: 2},
	}, got)

	_, err = Positions("abcd", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUnique(t *testing.T) {
	grams, err := NGrams("aaaa", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"61"}, Unique(grams))
	assert.Equal(t, []string{"b", "a"}, Unique([]string{"b", "a", "b"}))
}

func TestWindows(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {2, 3}}, Windows([]int{1, 2, 3}, 2))
	assert.Nil(t, Windows([]int{1, 2}, 3))
	assert.Nil(t, Windows([]int{1, 2}, 0))

	b := []byte("abc")
	w := Windows(b, 2)
	w[0] = append(w[0], 'z')
	assert.Equal(t, "abc", string(b), "windows must not grow into each other")
	assert.Equal(t, []byte("bc"), w[1])
}

func TestLeafNameRoundTrip(t *testing.T) {
	for _, g := range NGramsDefault("leaf") {
		name := LeafName(g)
		assert.Equal(t, g+".json", name)
		assert.Equal(t, g, percentile.StripSuffix(name))
	}
}

func TestNormalize(t *testing.T) {
	decomposed := "e\u0301"
	assert.Equal(t, "\u00e9", Normalize(decomposed))

	got, err := NGrams(Normalize(decomposed), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3a9"}, got)
}
