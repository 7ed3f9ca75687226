package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba0f3/leafstat/internal/config"
	"github.com/ba0f3/leafstat/internal/logging"
	"github.com/ba0f3/leafstat/internal/store"
)

func newToolStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "mcp.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestSplitWordsTool(t *testing.T) {
	res, _, err := splitWordsTool()(context.Background(), nil, splitWordsArgs{Text: `-"two words" rest`})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, map[string]any{"words": []string{"-two words", "rest"}}, res.StructuredContent)
	assert.Equal(t, "-two words\nrest", resultText(t, res))
}

func TestNgramsTool(t *testing.T) {
	tool := ngramsTool(config.Default())

	res, _, err := tool(context.Background(), nil, ngramsArgs{Text: "abcd"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "616263\n626364", resultText(t, res))

	zero := 0
	res, _, err = tool(context.Background(), nil, ngramsArgs{Text: "abcd", Length: &zero})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestOffendersTool(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 99; i++ {
		path := filepath.Join(dir, fmt.Sprintf("leaf%02d.json", i))
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", i)), 0644))
	}
	s := newToolStore(t)
	tool := offendersTool(config.Default(), s, logging.Discard())

	res, _, err := tool(context.Background(), nil, offendersArgs{Dir: dir, Save: true})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 99, structured["leaves"])
	assert.Equal(t, map[string]int{
		"leaf95": 0, "leaf96": 1, "leaf97": 2, "leaf98": 3, "leaf99": 4,
	}, structured["offenders"])

	id, _ := structured["id"].(string)
	snap, err := s.GetReport(id)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 5)

	res, _, err = historyTool(s)(context.Background(), nil, historyArgs{})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), snap.ShortID())

	res, _, err = tool(context.Background(), nil, offendersArgs{Dir: filepath.Join(dir, "missing")})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, _, err = tool(context.Background(), nil, offendersArgs{Dir: dir, Overflow: "wrap"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNewMCPServer(t *testing.T) {
	server := newMCPServer(config.Default(), newToolStore(t), logging.Discard())
	assert.NotNil(t, server)
}

func TestOffendersToolStoresAbsoluteRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "leaves"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaves", "616263.json"), []byte("{}"), 0644))
	t.Chdir(dir)
	want, err := filepath.Abs("leaves")
	require.NoError(t, err)

	s := newToolStore(t)
	res, _, err := offendersTool(config.Default(), s, logging.Discard())(context.Background(), nil, offendersArgs{Dir: "leaves", Save: true})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	structured := res.StructuredContent.(map[string]any)
	assert.Equal(t, want, structured["root"])

	snap, err := s.LatestReport(want)
	require.NoError(t, err)
	assert.Equal(t, structured["id"], snap.ID)
}
