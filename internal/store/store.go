// Package store provides the dev host's durable key-value state store plus
// high-score persistence. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
//
// The key-value surface never returns errors: availability is probed once
// when a store is opened, and every subsequent operation on an unavailable
// store degrades to a safe no-op. This mirrors the behavior game code
// expects from browser-local storage under private-mode restrictions.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// probeKey is written and deleted once per store to test availability.
const probeKey = "__remix_storage_probe__"

// Store manages the SQLite (or in-memory) backing for dev-host state.
type Store struct {
	mu        sync.Mutex
	db        *sql.DB           // nil when memory-backed
	mem       map[string]string // memory backend and disabled-mode sink
	memScores []ScoreEntry
	available bool

	watchMu  sync.Mutex
	watchers map[string]map[int]func(string)
	nextID   int
}

// Open creates or opens a SQLite-backed store at the given path.
// It creates parent directories, runs migrations, and probes availability.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("store: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: cannot connect to database: %w", err)
	}

	s := &Store{db: db, watchers: make(map[string]map[int]func(string))}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}

	s.available = s.probe()
	if !s.available {
		log.Warn("store: availability probe failed, persistence disabled", "path", dbPath)
	}
	return s, nil
}

// NewMemory returns a store backed by process memory. Used by tests and as
// the fallback when no database path is usable.
func NewMemory() *Store {
	s := &Store{
		mem:      make(map[string]string),
		watchers: make(map[string]map[int]func(string)),
	}
	s.available = s.probe()
	return s
}

// NewDisabled returns a store whose probe has permanently failed: every
// operation is a no-op. Models private-mode storage restrictions.
func NewDisabled() *Store {
	return &Store{watchers: make(map[string]map[int]func(string))}
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// probe performs the one-shot write-then-delete availability test.
func (s *Store) probe() bool {
	if s.db == nil && s.mem == nil {
		return false
	}
	if !s.rawSet(probeKey, "1") {
		return false
	}
	return s.rawRemove(probeKey)
}

// Available reports whether the probe succeeded at open time.
func (s *Store) Available() bool {
	return s.available
}

// Close closes the underlying database connection, if any.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
