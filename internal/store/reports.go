package store

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ba0f3/leafstat/internal/percentile"
)

// timeLayout is RFC3339 with a fixed nine-digit fraction, so stored
// timestamps order correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	ErrNotFound  = errors.New("report not found")
	ErrAmbiguous = errors.New("report id prefix is ambiguous")
)

// Snapshot is a saved offender report together with the scan it came from.
type Snapshot struct {
	ID        string
	Root      string
	Pattern   string
	Overflow  string
	ItemCount int
	TotalSize int64
	CreatedAt time.Time
	Entries   []percentile.Entry
}

// ShortID returns the first 8 characters of the id, enough to address it.
func (s *Snapshot) ShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// Report rebuilds the percentile report held by the snapshot.
func (s *Snapshot) Report() *percentile.Report {
	return &percentile.Report{Entries: slices.Clone(s.Entries)}
}

// SaveReport inserts snap and its entries in one transaction. A missing ID
// or CreatedAt is filled in.
func (s *Store) SaveReport(snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	return s.withWriteLock(func() error {
		tx, err := s.DB.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			INSERT INTO reports (id, root, pattern, overflow, item_count, total_size, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, snap.ID, snap.Root, snap.Pattern, snap.Overflow, snap.ItemCount, snap.TotalSize,
			snap.CreatedAt.UTC().Format(timeLayout)); err != nil {
			return fmt.Errorf("insert report: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO report_entries (report_id, name, bucket_offset, size) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range snap.Entries {
			if _, err := stmt.Exec(snap.ID, e.Name, e.Offset, e.Size); err != nil {
				return fmt.Errorf("insert entry %s: %w", e.Name, err)
			}
		}
		return tx.Commit()
	})
}

const reportColumns = `id, root, pattern, overflow, item_count, total_size, created_at`

func scanSnapshot(row interface{ Scan(...any) error }) (*Snapshot, error) {
	var snap Snapshot
	var createdAt string
	if err := row.Scan(&snap.ID, &snap.Root, &snap.Pattern, &snap.Overflow, &snap.ItemCount, &snap.TotalSize, &createdAt); err != nil {
		return nil, err
	}
	snap.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &snap, nil
}

// GetReport loads a snapshot by full id or unique id prefix.
func (s *Store) GetReport(id string) (*Snapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := s.DB.Query(`SELECT `+reportColumns+` FROM reports WHERE id = ? OR substr(id, 1, ?) = ? LIMIT 2`, id, len(id), id)
	if err != nil {
		return nil, err
	}
	var found []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		found = append(found, snap)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(found) > 1 && found[0].ID != id && found[1].ID != id:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
	snap := found[0]
	if len(found) > 1 && found[1].ID == id {
		snap = found[1]
	}
	if err := s.loadEntries(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LatestReport returns the most recent snapshot taken of root.
func (s *Store) LatestReport(root string) (*Snapshot, error) {
	row := s.DB.QueryRow(`SELECT `+reportColumns+` FROM reports WHERE root = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, root)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no report for %s", ErrNotFound, root)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadEntries(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListReports returns snapshot headers, newest first, without entries.
// limit <= 0 returns all.
func (s *Store) ListReports(limit int) ([]Snapshot, error) {
	q := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

// DeleteReport removes a snapshot and its entries.
func (s *Store) DeleteReport(id string) error {
	return s.withWriteLock(func() error {
		res, err := s.DB.Exec(`DELETE FROM reports WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

func (s *Store) loadEntries(snap *Snapshot) error {
	rows, err := s.DB.Query(`SELECT name, bucket_offset, size FROM report_entries WHERE report_id = ? ORDER BY name`, snap.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	snap.Entries = []percentile.Entry{}
	for rows.Next() {
		var e percentile.Entry
		if err := rows.Scan(&e.Name, &e.Offset, &e.Size); err != nil {
			return err
		}
		snap.Entries = append(snap.Entries, e)
	}
	return rows.Err()
}
