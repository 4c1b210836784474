// Package sqlite persists document frequency tables as versioned snapshots in SQLite.
//
// Each Save writes a complete snapshot identified by a ULID; Latest loads the
// most recent snapshot for a language. Loads either return a full table or an
// error, never a partial one.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/chriscorrea/kpe/internal/docfreq"
)

// ErrNoSnapshot is returned when a language has no stored snapshot.
var ErrNoSnapshot = errors.New("no document frequency snapshot")

// Snapshot describes one stored table.
type Snapshot struct {
	ID             string
	Language       string
	TotalDocuments int
	Terms          int
	CreatedAt      time.Time
}

// Store reads and writes document frequency snapshots.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens (creating if needed) the database at path with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	language TEXT NOT NULL,
	num_docs INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_language ON snapshots(language, id);

CREATE TABLE IF NOT EXISTS snapshot_terms (
	snapshot_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	term TEXT NOT NULL,
	df INTEGER NOT NULL,
	PRIMARY KEY(snapshot_id, term),
	FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *Store) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

// Save stores table as a new snapshot for language and returns its ID.
func (s *Store) Save(ctx context.Context, language string, table *docfreq.Table) (string, error) {
	now := time.Now().UTC()
	id := s.newID(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots(id, language, num_docs, created_at) VALUES(?, ?, ?, ?)`,
		id, language, table.TotalDocuments, now.Format(time.RFC3339Nano)); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_terms(snapshot_id, position, term, df) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare terms: %w", err)
	}
	defer stmt.Close()

	for i, term := range table.Terms() {
		if _, err := stmt.ExecContext(ctx, id, i, term, table.Freq(term)); err != nil {
			return "", fmt.Errorf("insert term %q: %w", term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot: %w", err)
	}

	slog.Debug("Saved document frequency snapshot", "id", id, "language", language, "terms", table.Len())
	return id, nil
}

// Latest loads the most recent snapshot for language.
func (s *Store) Latest(ctx context.Context, language string) (*docfreq.Table, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots WHERE language = ? ORDER BY id DESC LIMIT 1`, language).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for language %q", ErrNoSnapshot, language)
	}
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, id)
}

// Load reads the snapshot with the given ID.
func (s *Store) Load(ctx context.Context, id string) (*docfreq.Table, error) {
	table := docfreq.NewTable()
	err := s.db.QueryRowContext(ctx, `SELECT num_docs FROM snapshots WHERE id = ?`, id).Scan(&table.TotalDocuments)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w with id %q", ErrNoSnapshot, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT term, df FROM snapshot_terms WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var term string
		var df int
		if err := rows.Scan(&term, &df); err != nil {
			return nil, err
		}
		table.Set(term, df)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// Snapshots lists the stored snapshots for language, newest first.
func (s *Store) Snapshots(ctx context.Context, language string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT s.id, s.language, s.num_docs, s.created_at, COUNT(t.term)
FROM snapshots s LEFT JOIN snapshot_terms t ON t.snapshot_id = s.id
WHERE s.language = ?
GROUP BY s.id
ORDER BY s.id DESC`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var created string
		if err := rows.Scan(&snap.ID, &snap.Language, &snap.TotalDocuments, &created, &snap.Terms); err != nil {
			return nil, err
		}
		snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, snap)
	}
	return out, rows.Err()
}
