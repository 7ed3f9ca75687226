package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFlagArgs(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addFormatFlags(cmd, "")

	tests := []struct {
		name      string
		args      []string
		wantFlags []string
		wantText  []string
	}{
		{"text only", []string{`-"two words"`, "rest"}, []string{}, []string{`-"two words"`, "rest"}},
		{"bool flag", []string{"--json", "a"}, []string{"--json"}, []string{"a"}},
		{"flag with value", []string{"--format", "json", "-x", "y"}, []string{"--format", "json"}, []string{"-x", "y"}},
		{"inline value", []string{"--format=csv", "a"}, []string{"--format=csv"}, []string{"a"}},
		{"separator", []string{"--json", "--", "--csv"}, []string{"--json"}, []string{"--csv"}},
		{"unknown flag is text", []string{"--quoted", "--json"}, []string{}, []string{"--quoted", "--json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, text := splitFlagArgs(cmd, tt.args)
			assert.Equal(t, tt.wantFlags, append([]string{}, flags...))
			assert.Equal(t, tt.wantText, append([]string{}, text...))
		})
	}
}

func TestWordsCommandAcceptsDashQuotedText(t *testing.T) {
	t.Setenv("LEAFSTAT_CONFIG_DIR", t.TempDir())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	run := func(args ...string) string {
		t.Helper()
		out.Reset()
		rootCmd.SetArgs(append([]string{"words"}, args...))
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	assert.Equal(t, "-two words\nrest\n", run(`-"two words" rest`))
	assert.Equal(t, "-two words\nrest\n", run(`-"two`, `words"`, "rest"))
	assert.Equal(t, "--json\n", run("--", "--json"))
	assert.JSONEq(t, `["a","b c"]`, run("--json", `a 'b c'`))
}
