// Package history keeps a local log of past translations in SQLite.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	KindTranslate = "translate"
	KindProofread = "proofread"
)

// ErrNotFound is returned by Lookup when no matching entry exists.
var ErrNotFound = errors.New("history: not found")

// Entry is one stored translation or proofreading result.
type Entry struct {
	ID         string
	Kind       string
	SourceText string
	ResultText string
	TargetLang string
	Style      string
	ModelType  string
	CreatedAt  time.Time
}

// Store is the SQLite-backed history log. SQLite handles one writer, so all
// mutations are serialized behind a mutex.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	source_text TEXT NOT NULL,
	result_text TEXT NOT NULL,
	target_lang TEXT NOT NULL DEFAULT '',
	style       TEXT NOT NULL DEFAULT '',
	model_type  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
CREATE INDEX IF NOT EXISTS idx_history_lookup ON history(source_text, target_lang, style, model_type);
`

// Open opens (and creates if needed) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores a new entry, filling in the id and timestamp.
func (s *Store) Append(e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(
		`INSERT INTO history (id, kind, source_text, result_text, target_lang, style, model_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.SourceText, e.ResultText, e.TargetLang, e.Style, e.ModelType, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting history entry: %w", err)
	}

	return e, nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, source_text, result_text, target_lang, style, model_type, created_at
		 FROM history ORDER BY created_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.SourceText, &e.ResultText, &e.TargetLang, &e.Style, &e.ModelType, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Lookup returns the most recent stored translation for the exact request
// tuple, or ErrNotFound.
func (s *Store) Lookup(sourceText, targetLang, style, modelType string) (Entry, error) {
	var e Entry
	err := s.db.QueryRow(
		`SELECT id, kind, source_text, result_text, target_lang, style, model_type, created_at
		 FROM history
		 WHERE kind = ? AND source_text = ? AND target_lang = ? AND style = ? AND model_type = ?
		 ORDER BY created_at DESC LIMIT 1`,
		KindTranslate, sourceText, targetLang, style, modelType,
	).Scan(&e.ID, &e.Kind, &e.SourceText, &e.ResultText, &e.TargetLang, &e.Style, &e.ModelType, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}

	return e, nil
}

// Prune deletes the oldest entries so at most keep remain.
func (s *Store) Prune(keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY created_at DESC, id LIMIT ?
		)`, keep)
	return err
}
