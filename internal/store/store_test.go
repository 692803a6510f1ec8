package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if !s.Available() {
		t.Error("Availability probe should succeed on a writable database")
	}
}

func TestStoreKVRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if ok := s.Set("remix_game_state_pengu", `{"x":1}`); !ok {
		t.Fatal("Set() returned false")
	}

	got, ok := s.Get("remix_game_state_pengu")
	if !ok || got != `{"x":1}` {
		t.Errorf("Get() = %q, %v; want stored value", got, ok)
	}

	if ok := s.Set("remix_game_state_pengu", `{"x":2}`); !ok {
		t.Fatal("overwrite Set() returned false")
	}
	if got, _ := s.Get("remix_game_state_pengu"); got != `{"x":2}` {
		t.Errorf("overwrite not visible, got %q", got)
	}

	if ok := s.Remove("remix_game_state_pengu"); !ok {
		t.Fatal("Remove() returned false")
	}
	if _, ok := s.Get("remix_game_state_pengu"); ok {
		t.Error("key still present after Remove()")
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewMemory()
	if v, ok := s.Get("nope"); ok || v != "" {
		t.Errorf("Get(missing) = %q, %v; want empty, false", v, ok)
	}
}

func TestDisabledStoreNeverThrows(t *testing.T) {
	s := NewDisabled()

	if s.Available() {
		t.Error("disabled store should report unavailable")
	}
	if s.Set("k", "v") {
		t.Error("Set on disabled store should return false")
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Get on disabled store should miss")
	}
	if s.Remove("k") {
		t.Error("Remove on disabled store should return false")
	}
	if s.SetJSON("k", map[string]int{"a": 1}) {
		t.Error("SetJSON on disabled store should return false")
	}
	var dest map[string]int
	if s.GetJSON("k", &dest) {
		t.Error("GetJSON on disabled store should return false")
	}
}

func TestStoreJSONHelpers(t *testing.T) {
	s := NewMemory()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if !s.SetJSON("key", payload{Name: "pengu", Count: 3}) {
		t.Fatal("SetJSON failed")
	}

	var got payload
	if !s.GetJSON("key", &got) {
		t.Fatal("GetJSON failed")
	}
	if got.Name != "pengu" || got.Count != 3 {
		t.Errorf("round trip mangled payload: %+v", got)
	}
}

func TestStoreMalformedJSONTreatedAsMissing(t *testing.T) {
	s := NewMemory()
	s.Set("key", "{not json")

	var dest map[string]any
	if s.GetJSON("key", &dest) {
		t.Error("GetJSON should report false for malformed JSON")
	}
}

func TestStoreWatchFiresOnSet(t *testing.T) {
	s := NewMemory()

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{}, 4)

	cancel := s.Watch("chan", func(v string) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
		done <- struct{}{}
	})
	defer cancel()

	s.Set("chan", "one")
	s.Set("other", "ignored")
	s.Set("chan", "two")

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher was not notified")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("watcher saw %d notifications, want 2: %v", len(seen), seen)
	}
}

func TestStoreWatchCancel(t *testing.T) {
	s := NewMemory()

	fired := make(chan struct{}, 1)
	cancel := s.Watch("chan", func(string) { fired <- struct{}{} })
	cancel()

	s.Set("chan", "value")

	select {
	case <-fired:
		t.Error("cancelled watcher still fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStoreScores(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	s.SaveScore("pengu", 100)
	s.SaveScore("pengu", 50)
	s.SaveScore("pengu", 200)

	scores, err := s.TopScores("pengu", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in descending order: %v", scores)
	}

	high, err := s.HighScore("pengu")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 200 {
		t.Errorf("Expected high score of 200, got %d", high)
	}

	if err := s.ClearScores("pengu"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	scores, _ = s.TopScores("pengu", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
}

func TestSanitizeGameName(t *testing.T) {
	cases := map[string]string{
		"Pengu Drop!":     "PenguDrop",
		"pengu-drop_v2":   "pengu-drop_v2",
		"../../etc":       "etc",
		"game:with|chars": "gamewithchars",
	}
	for in, want := range cases {
		if got := SanitizeGameName(in); got != want {
			t.Errorf("SanitizeGameName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNamespacedKeys(t *testing.T) {
	if got := StateKey("Pengu Drop"); got != "remix_game_state_PenguDrop" {
		t.Errorf("StateKey = %q", got)
	}
	if got := AssignmentsKey("Pengu Drop"); got != "remix_player_assignments_PenguDrop" {
		t.Errorf("AssignmentsKey = %q", got)
	}
	if got := SnapshotsKey("Pengu Drop"); got != "remix_saved_states_PenguDrop" {
		t.Errorf("SnapshotsKey = %q", got)
	}
}
