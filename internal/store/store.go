package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	DB     *sql.DB
	DBPath string

	lock *flock.Flock
}

func GetDefaultDbPath(indexName string) (string, error) {
	if path := os.Getenv("LEAFSTAT_DB"); path != "" {
		return path, nil
	}
	if indexName == "" {
		indexName = "index"
	}

	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cacheDir = filepath.Join(home, ".cache")
	}

	leafstatCacheDir := filepath.Join(cacheDir, "leafstat")
	if err := os.MkdirAll(leafstatCacheDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(leafstatCacheDir, fmt.Sprintf("%s.sqlite", indexName)), nil
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		var err error
		dbPath, err = GetDefaultDbPath("index")
		if err != nil {
			return nil, err
		}
	}

	// Enable WAL mode via DSN
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{DB: db, DBPath: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// withWriteLock serialises writers across processes sharing the database.
func (s *Store) withWriteLock(fn func() error) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.lock.Path(), err)
	}
	defer s.lock.Unlock()
	return fn()
}

// Status holds store statistics for the status command.
type Status struct {
	DBPath      string
	ReportCount int
	EntryCount  int
	Roots       []RootStatus
}

// RootStatus is per-directory stats.
type RootStatus struct {
	Root      string
	Reports   int
	LastSaved time.Time
}

// GetStatus returns the database path, row counts and per-root stats.
func (s *Store) GetStatus() (*Status, error) {
	st := &Status{DBPath: s.DBPath}
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&st.ReportCount); err != nil {
		return nil, err
	}
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM report_entries`).Scan(&st.EntryCount); err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(`
		SELECT root, COUNT(*) as cnt, MAX(created_at) as last_saved
		FROM reports
		GROUP BY root
		ORDER BY root
	`)
	if err != nil {
		return st, nil
	}
	defer rows.Close()
	for rows.Next() {
		var r RootStatus
		var last sql.NullString
		if err := rows.Scan(&r.Root, &r.Reports, &last); err != nil {
			continue
		}
		if last.Valid {
			r.LastSaved, _ = time.Parse(timeLayout, last.String)
		}
		st.Roots = append(st.Roots, r)
	}
	return st, rows.Err()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			pattern TEXT NOT NULL,
			overflow TEXT NOT NULL,
			item_count INTEGER NOT NULL,
			total_size INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS report_entries (
			report_id TEXT NOT NULL,
			name TEXT NOT NULL,
			bucket_offset INTEGER NOT NULL,
			size INTEGER NOT NULL,
			PRIMARY KEY (report_id, name),
			FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_root ON reports(root, created_at)`,
	}

	for _, query := range queries {
		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("schema init failed: %w (query: %s)", err, query)
		}
	}

	return nil
}
