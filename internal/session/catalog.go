package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

// Info is one catalog row describing a finished recording.
type Info struct {
	ID        string
	Dir       string
	StartedAt time.Time
	Duration  float64
	Events    int
}

// Catalog indexes finished sessions in a SQLite file.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens or creates the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions(
	  id               TEXT PRIMARY KEY,
	  dir              TEXT NOT NULL,
	  started_at       INTEGER NOT NULL,
	  duration_seconds REAL NOT NULL,
	  events           INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create catalog tables: %w", err)
	}
	return nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records a finished session. A missing ID is generated; the final
// ID is returned.
func (c *Catalog) Add(info Info) (string, error) {
	id := info.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := c.db.Exec(
		`INSERT INTO sessions(id, dir, started_at, duration_seconds, events) VALUES(?,?,?,?,?)`,
		id, info.Dir, info.StartedAt.Unix(), info.Duration, info.Events,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}
	return id, nil
}

// List returns cataloged sessions, most recent first.
func (c *Catalog) List() ([]Info, error) {
	rows, err := c.db.Query(
		`SELECT id, dir, started_at, duration_seconds, events FROM sessions ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		var started int64
		if err := rows.Scan(&info.ID, &info.Dir, &started, &info.Duration, &info.Events); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		info.StartedAt = time.Unix(started, 0)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return out, nil
}
