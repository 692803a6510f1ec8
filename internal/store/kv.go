package store

import (
	"database/sql"
	"encoding/json"

	"github.com/charmbracelet/log"
)

// Get returns the stored value for key. The second result is false when the
// key is absent or the store is unavailable.
func (s *Store) Get(key string) (string, bool) {
	if !s.available {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		v, ok := s.mem[key]
		return v, ok
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Warn("store: get failed", "key", key, "error", err)
		return "", false
	}
	return value, true
}

// Set stores value under key and notifies watchers. Returns false instead of
// failing when the store is unavailable or the write errors.
func (s *Store) Set(key, value string) bool {
	if !s.available {
		return false
	}
	if !s.rawSet(key, value) {
		return false
	}
	s.notify(key, value)
	return true
}

// Remove deletes key. Returns false when the store is unavailable or the
// delete errors; removing an absent key succeeds.
func (s *Store) Remove(key string) bool {
	if !s.available {
		return false
	}
	return s.rawRemove(key)
}

// GetJSON reads key and unmarshals it into dest. Malformed or missing values
// report false and leave dest for the caller's default.
func (s *Store) GetJSON(key string, dest any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Warn("store: discarding malformed persisted JSON", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON marshals v and stores it under key.
func (s *Store) SetJSON(key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn("store: cannot marshal value", "key", key, "error", err)
		return false
	}
	return s.Set(key, string(raw))
}

// Watch registers fn to run after every successful Set of key, the analog of
// a storage-event listener. The returned cancel func unregisters it.
// Notifications are delivered asynchronously; no ordering is guaranteed
// against the direct messaging channel.
func (s *Store) Watch(key string, fn func(value string)) (cancel func()) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	if s.watchers[key] == nil {
		s.watchers[key] = make(map[int]func(string))
	}
	id := s.nextID
	s.nextID++
	s.watchers[key][id] = fn

	return func() {
		s.watchMu.Lock()
		defer s.watchMu.Unlock()
		delete(s.watchers[key], id)
	}
}

func (s *Store) notify(key, value string) {
	s.watchMu.Lock()
	fns := make([]func(string), 0, len(s.watchers[key]))
	for _, fn := range s.watchers[key] {
		fns = append(fns, fn)
	}
	s.watchMu.Unlock()

	for _, fn := range fns {
		go fn(value)
	}
}

func (s *Store) rawSet(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		if s.mem == nil {
			return false
		}
		s.mem[key] = value
		return true
	}

	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		log.Warn("store: set failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) rawRemove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		if s.mem == nil {
			return false
		}
		delete(s.mem, key)
		return true
	}

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		log.Warn("store: remove failed", "key", key, "error", err)
		return false
	}
	return true
}
