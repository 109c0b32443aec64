// Package archive keeps an audit trail of raw engine transcripts in a
// SQLite database, so every stored GameState can be traced back to the
// exact text it was parsed from.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Kind labels what a transcript was: a game listing or a turn history.
const (
	KindListing = "listing"
	KindHistory = "history"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	game       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL,
	body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcripts_game ON transcripts(game, fetched_at);
`

// Entry is one archived transcript.
type Entry struct {
	ID        int64
	Game      string
	Kind      string
	FetchedAt time.Time
	Body      string
}

// Archive is a SQLite-backed transcript log.
type Archive struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the archive database, sets WAL mode and a busy
// timeout, and ensures the schema exists.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: creating schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Save records one transcript and returns its row id.
func (a *Archive) Save(ctx context.Context, game, kind, body string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	res, err := a.db.ExecContext(ctx,
		"INSERT INTO transcripts (game, kind, fetched_at, body) VALUES (?, ?, ?, ?)",
		game, kind, time.Now().UTC(), body)
	if err != nil {
		return 0, fmt.Errorf("archive: save %s transcript for %q: %w", kind, game, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("archive: last insert id: %w", err)
	}
	return id, nil
}

// List returns the newest transcripts for a game, most recent first.
func (a *Archive) List(ctx context.Context, game string, limit int) ([]Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.QueryContext(ctx,
		"SELECT id, game, kind, fetched_at, body FROM transcripts WHERE game = ? ORDER BY fetched_at DESC, id DESC LIMIT ?",
		game, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: list transcripts for %q: %w", game, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Game, &e.Kind, &e.FetchedAt, &e.Body); err != nil {
			return nil, fmt.Errorf("archive: scan transcript row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest returns the most recent transcript of the given kind for a game,
// or nil if none is archived.
func (a *Archive) Latest(ctx context.Context, game, kind string) (*Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	row := a.db.QueryRowContext(ctx,
		"SELECT id, game, kind, fetched_at, body FROM transcripts WHERE game = ? AND kind = ? ORDER BY fetched_at DESC, id DESC LIMIT 1",
		game, kind)
	var e Entry
	if err := row.Scan(&e.ID, &e.Game, &e.Kind, &e.FetchedAt, &e.Body); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("archive: latest %s for %q: %w", kind, game, err)
	}
	return &e, nil
}

// Trim keeps only the newest keep transcripts per game and deletes the
// rest, bounding the audit table.
func (a *Archive) Trim(ctx context.Context, game string, keep int) error {
	if keep <= 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	res, err := a.db.ExecContext(ctx, `
		DELETE FROM transcripts WHERE game = ? AND id NOT IN (
			SELECT id FROM transcripts WHERE game = ?
			ORDER BY fetched_at DESC, id DESC LIMIT ?
		)`, game, game, keep)
	if err != nil {
		return fmt.Errorf("archive: trim %q: %w", game, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("archive: trimmed %d old transcripts for %s", n, game)
	}
	return nil
}
