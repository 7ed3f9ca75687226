package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ba0f3/leafstat/internal/config"
	"github.com/ba0f3/leafstat/internal/leaves"
	"github.com/ba0f3/leafstat/internal/percentile"
	"github.com/ba0f3/leafstat/internal/store"
	"github.com/ba0f3/leafstat/internal/tokenize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server (stdio)",
	Long:  "Start the Model Context Protocol server for leafstat. Exposes the tokenizer and offender reports over stdio.",
	Args:  cobra.NoArgs,
	RunE:  runMCPServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	server := newMCPServer(cfg, s, log)
	log.Info("mcp server starting", "transport", "stdio", "db", s.DBPath)
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}

func newMCPServer(cfg *config.Config, s *store.Store, log *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "leafstat", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "split_words",
		Description: "Split text into words on spaces, keeping single- and double-quoted spans together (a quote may follow a leading '-').",
	}, splitWordsTool())
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ngrams",
		Description: "Encode text as overlapping byte n-grams rendered as lowercase hex, the keys of the leaf index.",
	}, ngramsTool(cfg))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "offenders",
		Description: "Rank leaf files by size percentile and return those in the top five percent as name -> offset (0..4).",
	}, offendersTool(cfg, s, log))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "history",
		Description: "List saved offender reports, newest first.",
	}, historyTool(s))
	return server
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: msg}}, IsError: true}
}

type splitWordsArgs struct {
	Text string `json:"text" jsonschema:"Text to split"`
}

func splitWordsTool() func(context.Context, *mcp.CallToolRequest, splitWordsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args splitWordsArgs) (*mcp.CallToolResult, any, error) {
		words := tokenize.SplitWords(args.Text)
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: strings.Join(words, "\n")}},
			StructuredContent: map[string]any{"words": words},
		}, nil, nil
	}
}

type ngramsArgs struct {
	Text      string `json:"text" jsonschema:"Text to encode"`
	Length    *int   `json:"length,omitempty" jsonschema:"Window length in bytes (default 3)"`
	Unique    bool   `json:"unique,omitempty" jsonschema:"Drop repeated n-grams"`
	Normalize bool   `json:"normalize,omitempty" jsonschema:"Normalize text to Unicode NFC first"`
	Leaf      bool   `json:"leaf,omitempty" jsonschema:"Return leaf file names (<hex>.json) instead of bare hex"`
}

func ngramsTool(cfg *config.Config) func(context.Context, *mcp.CallToolRequest, ngramsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args ngramsArgs) (*mcp.CallToolResult, any, error) {
		opts := ngramOptions{
			Length:    cfg.NGramLength,
			Normalize: cfg.Normalize || args.Normalize,
			Unique:    args.Unique,
			Leaf:      args.Leaf,
		}
		if args.Length != nil {
			opts.Length = *args.Length
		}
		grams, err := buildNGrams(args.Text, opts)
		if err != nil {
			return toolError("ngrams failed: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: strings.Join(grams, "\n")}},
			StructuredContent: map[string]any{"ngrams": grams, "length": opts.Length},
		}, nil, nil
	}
}

type offendersArgs struct {
	Dir      string `json:"dir,omitempty" jsonschema:"Leaves directory (default from config)"`
	Pattern  string `json:"pattern,omitempty" jsonschema:"Glob selecting leaf files (default *)"`
	Overflow string `json:"overflow,omitempty" jsonschema:"Buckets past 99: clamp or keep"`
	Save     bool   `json:"save,omitempty" jsonschema:"Store the report in the history database"`
}

func offendersTool(cfg *config.Config, s *store.Store, log *slog.Logger) func(context.Context, *mcp.CallToolRequest, offendersArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args offendersArgs) (*mcp.CallToolResult, any, error) {
		scan := scanRequest{Root: cfg.LeavesDir, Pattern: cfg.Pattern, Overflow: cfg.OverflowPolicy()}
		if args.Dir != "" {
			scan.Root = args.Dir
		}
		if args.Pattern != "" {
			scan.Pattern = args.Pattern
		}
		if args.Overflow != "" {
			o, err := percentile.ParseOverflow(args.Overflow)
			if err != nil {
				return toolError(err.Error()), nil, nil
			}
			scan.Overflow = o
		}
		scan.Root = absRoot(scan.Root)

		report, items, err := runOffenders(scan, log)
		if err != nil {
			return toolError("offenders failed: " + err.Error()), nil, nil
		}
		structured := map[string]any{
			"root":      scan.Root,
			"leaves":    len(items),
			"offenders": report.Map(),
		}
		if args.Save {
			snap := &store.Snapshot{
				Root:      scan.Root,
				Pattern:   scan.Pattern,
				Overflow:  scan.Overflow.String(),
				ItemCount: len(items),
				TotalSize: leaves.TotalSize(items),
				Entries:   report.Entries,
			}
			if err := s.SaveReport(snap); err != nil {
				return toolError("save failed: " + err.Error()), nil, nil
			}
			structured["id"] = snap.ID
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: formatOffendersSummary(scan.Root, len(items), report)}},
			StructuredContent: structured,
		}, nil, nil
	}
}

func formatOffendersSummary(root string, leafCount int, report *percentile.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d leaves in %s are offenders", report.Len(), leafCount, root)
	if report.Len() == 0 {
		return b.String() + "."
	}
	b.WriteString(":\n\n")
	for _, e := range report.Entries {
		b.WriteString(e.Name)
		b.WriteString(" +")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteString(" (")
		b.WriteString(formatSize(e.Size))
		b.WriteString(")\n")
	}
	return b.String()
}

type historyArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum reports to list (default 20)"`
}

func historyTool(s *store.Store) func(context.Context, *mcp.CallToolRequest, historyArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args historyArgs) (*mcp.CallToolResult, any, error) {
		limit := args.Limit
		if limit <= 0 {
			limit = 20
		}
		snaps, err := s.ListReports(limit)
		if err != nil {
			return toolError("history failed: " + err.Error()), nil, nil
		}
		rows := make([]snapshotRow, 0, len(snaps))
		lines := make([]string, 0, len(snaps))
		for _, snap := range snaps {
			rows = append(rows, toSnapshotRow(snap))
			lines = append(lines, snap.ShortID()+" "+snap.Root+" ("+strconv.Itoa(snap.ItemCount)+" leaves)")
		}
		text := "No saved reports."
		if len(lines) > 0 {
			text = strings.Join(lines, "\n")
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: text}},
			StructuredContent: map[string]any{"reports": rows},
		}, nil, nil
	}
}
