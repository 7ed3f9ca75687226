package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ba0f3/leafstat/internal/percentile"
	"github.com/ba0f3/leafstat/internal/store"
	"github.com/ba0f3/leafstat/internal/tokenize"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	formatJSON  = "json"
	formatTable = "table"
	formatCSV   = "csv"
	formatCLI   = "cli"
)

// addFormatFlags registers --format and its shorthands on cmd.
func addFormatFlags(cmd *cobra.Command, usage string) {
	cmd.Flags().String("format", "", usage)
	cmd.Flags().Bool("json", false, "JSON output (short for --format=json)")
	cmd.Flags().Bool("csv", false, "CSV output")
	cmd.Flags().Bool("table", false, "Table output")
}

// resolveFormat returns the requested format, or ttyDefault when stdout is a
// terminal and pipeDefault otherwise.
func resolveFormat(cmd *cobra.Command, ttyDefault, pipeDefault string) string {
	format, _ := cmd.Flags().GetString("format")
	if ok, _ := cmd.Flags().GetBool("json"); ok {
		format = formatJSON
	} else if ok, _ := cmd.Flags().GetBool("csv"); ok {
		format = formatCSV
	} else if ok, _ := cmd.Flags().GetBool("table"); ok {
		format = formatTable
	}
	if format != "" {
		return format
	}
	if isTerminalWriter(cmd.OutOrStdout()) {
		return ttyDefault
	}
	return pipeDefault
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func unsupportedFormat(format string) error {
	return fmt.Errorf("output format: unsupported value %q", format)
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func formatSize(n int64) string {
	if n < 0 {
		return strconv.FormatInt(n, 10)
	}
	return humanize.IBytes(uint64(n))
}

// writeOffenders renders a report. JSON is the name -> offset object the
// index's web page consumes.
func writeOffenders(w io.Writer, report *percentile.Report, format string) error {
	rows := make([][]string, 0, report.Len())
	for _, e := range report.Entries {
		rows = append(rows, []string{e.Name, strconv.Itoa(e.Offset), strconv.FormatInt(e.Size, 10)})
	}
	switch format {
	case formatJSON:
		return writeJSON(w, report)
	case formatCSV:
		return writeCSV(w, []string{"name", "offset", "size"}, rows)
	case formatTable:
		for _, r := range rows {
			size, _ := strconv.ParseInt(r[2], 10, 64)
			r[2] = formatSize(size)
		}
		_, err := fmt.Fprintln(w, renderTable([]string{"Leaf", "Offset", "Size"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
		return err
	case formatCLI:
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", r[0], r[1]); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupportedFormat(format)
	}
}

type bucketRow struct {
	Index   int   `json:"index"`
	Count   int   `json:"count"`
	MinSize int64 `json:"min_size"`
	MaxSize int64 `json:"max_size"`
}

func writeBuckets(w io.Writer, buckets []percentile.Bucket, format string) error {
	out := make([]bucketRow, 0, len(buckets))
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketRow{Index: b.Index, Count: b.Count(), MinSize: b.MinSize, MaxSize: b.MaxSize})
		rows = append(rows, []string{
			strconv.Itoa(b.Index),
			strconv.Itoa(b.Count()),
			strconv.FormatInt(b.MinSize, 10),
			strconv.FormatInt(b.MaxSize, 10),
		})
	}
	switch format {
	case formatJSON:
		return writeJSON(w, out)
	case formatCSV:
		return writeCSV(w, []string{"bucket", "count", "min_size", "max_size"}, rows)
	case formatTable:
		for i, b := range out {
			rows[i][2] = formatSize(b.MinSize)
			rows[i][3] = formatSize(b.MaxSize)
		}
		_, err := fmt.Fprintln(w, renderTable([]string{"Bucket", "Count", "Min", "Max"}, rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignRight}))
		return err
	case formatCLI:
		for _, b := range out {
			if _, err := fmt.Fprintf(w, "%d %%: %d..%d count = %d\n", b.Index, b.MinSize, b.MaxSize, b.Count); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupportedFormat(format)
	}
}

// writeStrings prints one value per line, or a JSON array.
func writeStrings(w io.Writer, values []string, format string) error {
	switch format {
	case formatJSON:
		if values == nil {
			values = []string{}
		}
		return writeJSON(w, values)
	case formatCLI, formatTable, formatCSV:
		for _, v := range values {
			if _, err := fmt.Fprintln(w, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupportedFormat(format)
	}
}

func writeOccurrences(w io.Writer, occ []tokenize.Occurrence, format string) error {
	switch format {
	case formatJSON:
		if occ == nil {
			occ = []tokenize.Occurrence{}
		}
		return writeJSON(w, occ)
	case formatCSV:
		rows := make([][]string, 0, len(occ))
		for _, o := range occ {
			rows = append(rows, []string{strconv.Itoa(o.Position), o.NGram})
		}
		return writeCSV(w, []string{"position", "ngram"}, rows)
	case formatCLI, formatTable:
		for _, o := range occ {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", o.Position, o.NGram); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupportedFormat(format)
	}
}

type snapshotRow struct {
	ID        string `json:"id"`
	Root      string `json:"root"`
	Pattern   string `json:"pattern"`
	Overflow  string `json:"overflow"`
	Items     int    `json:"items"`
	TotalSize int64  `json:"total_size"`
	Offenders int    `json:"offenders,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toSnapshotRow(s store.Snapshot) snapshotRow {
	return snapshotRow{
		ID:        s.ID,
		Root:      s.Root,
		Pattern:   s.Pattern,
		Overflow:  s.Overflow,
		Items:     s.ItemCount,
		TotalSize: s.TotalSize,
		Offenders: len(s.Entries),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func writeSnapshots(w io.Writer, snaps []store.Snapshot, format string) error {
	out := make([]snapshotRow, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, toSnapshotRow(s))
	}
	switch format {
	case formatJSON:
		return writeJSON(w, out)
	case formatCSV:
		rows := make([][]string, 0, len(out))
		for _, r := range out {
			rows = append(rows, []string{r.ID, r.Root, r.Pattern, r.Overflow, strconv.Itoa(r.Items), strconv.FormatInt(r.TotalSize, 10), r.CreatedAt})
		}
		return writeCSV(w, []string{"id", "root", "pattern", "overflow", "items", "total_size", "created_at"}, rows)
	case formatTable:
		rows := make([][]string, 0, len(snaps))
		for _, s := range snaps {
			rows = append(rows, []string{
				s.ShortID(), s.Root, strconv.Itoa(s.ItemCount), formatSize(s.TotalSize), humanize.Time(s.CreatedAt),
			})
		}
		_, err := fmt.Fprintln(w, renderTable([]string{"ID", "Root", "Leaves", "Total", "Saved"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
		return err
	case formatCLI:
		for _, s := range snaps {
			if _, err := fmt.Fprintf(w, "%s  %s  %d leaves  %s\n", s.ShortID(), s.Root, s.ItemCount, s.CreatedAt.Format(time.RFC3339)); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupportedFormat(format)
	}
}

type changeRow struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Old  *int   `json:"old,omitempty"`
	New  *int   `json:"new,omitempty"`
}

func offsetCell(v int) string {
	if v < 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

func writeChanges(w io.Writer, changes []store.Change, format string) error {
	switch format {
	case formatJSON:
		out := make([]changeRow, 0, len(changes))
		for _, c := range changes {
			row := changeRow{Name: c.Name, Kind: string(c.Kind)}
			if c.Old >= 0 {
				row.Old = &c.Old
			}
			if c.New >= 0 {
				row.New = &c.New
			}
			out = append(out, row)
		}
		return writeJSON(w, out)
	case formatCSV, formatTable, formatCLI:
		rows := make([][]string, 0, len(changes))
		for _, c := range changes {
			rows = append(rows, []string{c.Name, string(c.Kind), offsetCell(c.Old), offsetCell(c.New)})
		}
		if format == formatCSV {
			return writeCSV(w, []string{"name", "kind", "old", "new"}, rows)
		}
		if format == formatTable {
			_, err := fmt.Fprintln(w, renderTable([]string{"Leaf", "Change", "Old", "New"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
			return err
		}
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s -> %s\n", r[0], r[1], r[2], r[3]); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupportedFormat(format)
	}
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
