package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and saved report stats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		st, err := s.GetStatus()
		if err != nil {
			return fmt.Errorf("get status: %w", err)
		}

		var size int64
		if fi, err := os.Stat(st.DBPath); err == nil {
			size = fi.Size()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Leafstat Status")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Index:   ", getIndexName())
		fmt.Fprintln(out, "Leaves:  ", cfg.LeavesDir)
		fmt.Fprintln(out, "Pattern: ", cfg.Pattern)
		fmt.Fprintln(out, "Overflow:", cfg.OverflowPolicy())
		fmt.Fprintln(out, "N-gram:  ", cfg.NGramLength, "bytes")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "History:", st.DBPath)
		fmt.Fprintln(out, "Size:   ", formatSize(size))
		fmt.Fprintf(out, "  Reports: %d (%d offender rows)\n\n", st.ReportCount, st.EntryCount)

		if len(st.Roots) == 0 {
			fmt.Fprintln(out, "  No saved reports. Run 'leafstat offenders --save' to record one.")
			return nil
		}
		for _, r := range st.Roots {
			fmt.Fprintf(out, "  %s\n", r.Root)
			fmt.Fprintf(out, "    Reports: %d", r.Reports)
			if !r.LastSaved.IsZero() {
				fmt.Fprintf(out, " (last %s)", humanize.Time(r.LastSaved))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
