package main

import (
	"fmt"

	"github.com/ba0f3/leafstat/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved offender reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initRoot()
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		snaps, err := s.ListReports(limit)
		if err != nil {
			return err
		}
		format := resolveFormat(cmd, formatTable, formatCLI)
		if len(snaps) == 0 && format != formatJSON {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved reports. Run 'leafstat offenders --save' to record one.")
			return nil
		}
		return writeSnapshots(cmd.OutOrStdout(), snaps, format)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved offender report",
	Long:  "Print a saved report by id or unique id prefix, in the same formats as offenders.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initRoot()
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		snap, err := s.GetReport(args[0])
		if err != nil {
			return err
		}
		return writeOffenders(cmd.OutOrStdout(), snap.Report(), resolveScanFormat(cmd))
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <old-id> [new-id]",
	Short: "Compare two saved offender reports",
	Long:  "Compare two saved reports. Without new-id the latest report of the same leaves directory is used.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		initRoot()
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		old, err := s.GetReport(args[0])
		if err != nil {
			return err
		}
		var cur *store.Snapshot
		if len(args) > 1 {
			cur, err = s.GetReport(args[1])
		} else {
			cur, err = s.LatestReport(old.Root)
		}
		if err != nil {
			return err
		}

		changes := store.Diff(old, cur)
		format := resolveFormat(cmd, formatTable, formatCLI)
		if len(changes) == 0 && format != formatJSON {
			fmt.Fprintf(cmd.OutOrStdout(), "No changes between %s and %s.\n", old.ShortID(), cur.ShortID())
			return nil
		}
		return writeChanges(cmd.OutOrStdout(), changes, format)
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <id>",
	Short: "Delete a saved offender report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initRoot()
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		snap, err := s.GetReport(args[0])
		if err != nil {
			return err
		}
		if err := s.DeleteReport(snap.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report %s removed.\n", snap.ShortID())
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum reports to list (0 for all)")
	addFormatFlags(historyCmd, "Output: table, json, csv, cli")
	addFormatFlags(showCmd, "Output: json, table, csv, cli")
	addFormatFlags(diffCmd, "Output: table, json, csv, cli")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(forgetCmd)
}
