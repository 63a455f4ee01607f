package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	source       TEXT NOT NULL,
	title        TEXT NOT NULL,
	source_title TEXT NOT NULL,
	chunk_index  INTEGER NOT NULL,
	content      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const updatedAtKey = "updated_at"

// local copy of the knowledge base that survives restarts without Postgres
type Store struct {
	db   *sql.DB
	path string
}

// opens (and creates) the snapshot database at path
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to apply snapshot schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// swaps the stored chunk set
func (s *Store) Replace(ctx context.Context, chunks []chunker.Chunk) error {
	return s.write(ctx, chunks, true)
}

// adds chunks to the stored set
func (s *Store) Append(ctx context.Context, chunks []chunker.Chunk) error {
	return s.write(ctx, chunks, false)
}

func (s *Store) write(ctx context.Context, chunks []chunker.Chunk, replace bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (source, title, source_title, chunk_index, content) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}

	defer stmt.Close() //nolint:errcheck

	for i, ch := range chunks {
		if _, err := stmt.ExecContext(ctx, ch.Source, ch.Title, ch.SourceTitle, ch.Index, ch.Content); err != nil {
			return fmt.Errorf("failed to write snapshot chunk %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		updatedAtKey, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to stamp snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// returns every chunk in insertion order
func (s *Store) Load(ctx context.Context) ([]chunker.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, title, source_title, chunk_index, content FROM chunks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	defer rows.Close() //nolint:errcheck

	var chunks []chunker.Chunk

	for rows.Next() {
		var ch chunker.Chunk

		if err := rows.Scan(&ch.Source, &ch.Title, &ch.SourceTitle, &ch.Index, &ch.Content); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		chunks = append(chunks, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	return chunks, nil
}

// returns the time of the last write, zero when the snapshot is empty
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, updatedAtKey).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}

	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot timestamp: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid snapshot timestamp %q: %w", value, err)
	}

	return ts, nil
}
