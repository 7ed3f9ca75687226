package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ba0f3/leafstat/internal/config"
	"github.com/ba0f3/leafstat/internal/leaves"
	"github.com/ba0f3/leafstat/internal/percentile"
	"github.com/ba0f3/leafstat/internal/store"
	"github.com/spf13/cobra"
)

// scanRequest is a resolved leaves directory, pattern and overflow policy.
type scanRequest struct {
	Root     string
	Pattern  string
	Overflow percentile.Overflow
}

// resolveScan merges the positional dir and flags over the config.
func resolveScan(cmd *cobra.Command, args []string, cfg *config.Config) (scanRequest, error) {
	req := scanRequest{Root: cfg.LeavesDir, Pattern: cfg.Pattern, Overflow: cfg.OverflowPolicy()}
	if len(args) > 0 && args[0] != "" {
		req.Root = args[0]
	}
	if p, _ := cmd.Flags().GetString("pattern"); p != "" {
		req.Pattern = p
	}
	if v, _ := cmd.Flags().GetString("overflow"); v != "" {
		o, err := percentile.ParseOverflow(v)
		if err != nil {
			return req, err
		}
		req.Overflow = o
	}
	req.Root = absRoot(req.Root)
	return req, nil
}

// absRoot makes root absolute so one directory is always saved under one name.
func absRoot(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// runOffenders scans req.Root and classifies what it finds.
func runOffenders(req scanRequest, log *slog.Logger) (*percentile.Report, []percentile.Item, error) {
	items, err := leaves.Scan(req.Root, req.Pattern, log)
	if err != nil {
		return nil, nil, err
	}
	report, err := percentile.Classify(items, percentile.Options{Overflow: req.Overflow})
	if err != nil {
		return nil, nil, err
	}
	log.Info("classified leaves", "root", req.Root, "leaves", len(items), "offenders", report.Len(), "overflow", req.Overflow)
	return report, items, nil
}

var offendersCmd = &cobra.Command{
	Use:   "offenders [leaves-dir]",
	Short: "Report leaves in the top five size percentiles",
	Long: `Scan a leaves directory, rank every file by size and print the files that
fall in percentile buckets 95 and above as name -> offset (bucket - 95).
The ".json" suffix is stripped from names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		req, err := resolveScan(cmd, args, cfg)
		if err != nil {
			return err
		}
		report, items, err := runOffenders(req, log)
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			s, err := openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()
			snap := &store.Snapshot{
				Root:      req.Root,
				Pattern:   req.Pattern,
				Overflow:  req.Overflow.String(),
				ItemCount: len(items),
				TotalSize: leaves.TotalSize(items),
				Entries:   report.Entries,
			}
			if err := s.SaveReport(snap); err != nil {
				return fmt.Errorf("save report: %w", err)
			}
			log.Info("saved report", "id", snap.ID, "db", s.DBPath)
		}

		return writeOffenders(cmd.OutOrStdout(), report, resolveScanFormat(cmd))
	},
}

var bucketsCmd = &cobra.Command{
	Use:   "buckets [leaves-dir]",
	Short: "Show the percentile histogram of a leaves directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		req, err := resolveScan(cmd, args, cfg)
		if err != nil {
			return err
		}
		items, err := leaves.Scan(req.Root, req.Pattern, log)
		if err != nil {
			return err
		}
		buckets, err := percentile.Histogram(items, percentile.Options{Overflow: req.Overflow})
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetInt("from")
		if from > 0 {
			kept := buckets[:0]
			for _, b := range buckets {
				if b.Index >= from {
					kept = append(kept, b)
				}
			}
			buckets = kept
		}
		return writeBuckets(cmd.OutOrStdout(), buckets, resolveFormat(cmd, formatTable, formatCLI))
	},
}

func resolveScanFormat(cmd *cobra.Command) string {
	return resolveFormat(cmd, formatTable, formatJSON)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("pattern", "", "Glob selecting leaf files (default from config: *)")
	cmd.Flags().String("overflow", "", "Buckets past 99: clamp or keep (default from config: clamp)")
}

func init() {
	addScanFlags(offendersCmd)
	addFormatFlags(offendersCmd, "Output: json, table, csv, cli (default: table on a terminal, json otherwise)")
	offendersCmd.Flags().Bool("save", false, "Store the report in the history database")

	addScanFlags(bucketsCmd)
	addFormatFlags(bucketsCmd, "Output: table, json, csv, cli")
	bucketsCmd.Flags().Int("from", 0, "Only show buckets with this index or higher")

	rootCmd.AddCommand(offendersCmd)
	rootCmd.AddCommand(bucketsCmd)
}
