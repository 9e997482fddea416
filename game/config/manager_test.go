package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/card-match-game/game/engine"
)

func createValidLevel(id int) *engine.LevelConfig {
	return &engine.LevelConfig{
		LevelID: id,
		Playfield: []engine.CardConfig{
			{Face: engine.Seven, Suit: engine.Hearts, Position: engine.Position{X: 100, Y: 1300}},
			{Face: engine.Nine, Suit: engine.Clubs, Position: engine.Position{X: 300, Y: 1300}},
		},
		Stack: []engine.CardConfig{
			{Face: engine.Two, Suit: engine.Spades, Position: engine.Position{X: 200, Y: 290}},
			{Face: engine.Eight, Suit: engine.Diamonds, Position: engine.Position{X: 700, Y: 290}},
		},
	}
}

func writeLevelFile(t *testing.T, dir string, level *engine.LevelConfig) {
	t.Helper()
	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}
	writeRawLevel(t, dir, LevelFilename(level.LevelID), string(data))
}

func writeRawLevel(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeLevelFile(t, dir, createValidLevel(1))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory uses built-in level", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without level files, got error: %v", err)
		}
		def := manager.GetDefault()
		if def == nil {
			t.Fatal("Expected a built-in default level")
		}
		if err := engine.ValidateLevelConfig(def); err != nil {
			t.Errorf("Built-in level should be valid: %v", err)
		}
	})
}

func TestManager_LoadLevel(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, createValidLevel(1))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing level", func(t *testing.T) {
		level, err := manager.LoadLevel(1)
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if len(level.Playfield) != 2 || len(level.Stack) != 2 {
			t.Errorf("Expected 2+2 cards, got %d+%d", len(level.Playfield), len(level.Stack))
		}
		if level.Stack[1].Face != engine.Eight {
			t.Errorf("Expected stack top EIGHT, got %s", level.Stack[1].Face)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadLevel(1)
		second, _ := manager.LoadLevel(1)
		if first != second {
			t.Error("Expected cached level to be returned")
		}
	})

	t.Run("load non-existent level", func(t *testing.T) {
		_, err := manager.LoadLevel(42)
		if !errors.Is(err, ErrLevelNotFound) {
			t.Errorf("Expected ErrLevelNotFound, got %v", err)
		}
	})

	t.Run("load unplayable level", func(t *testing.T) {
		writeRawLevel(t, dir, LevelFilename(5), `{"levelId": 5, "Playfield": [], "Stack": []}`)
		_, err := manager.LoadLevel(5)
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("malformed file is lenient", func(t *testing.T) {
		writeRawLevel(t, dir, LevelFilename(6), `{"Playfield": [{"CardFace": 3, "CardSuit": 1}], "Stack": [{"CardFace": 4}]}`)
		_, err := manager.LoadLevel(6)
		// The stack card has no suit, so the level parses but is unplayable.
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("file name decides the id", func(t *testing.T) {
		level := createValidLevel(99)
		data, _ := json.Marshal(level)
		writeRawLevel(t, dir, LevelFilename(7), string(data))

		loaded, err := manager.LoadLevel(7)
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if loaded.LevelID != 7 {
			t.Errorf("Expected level id 7, got %d", loaded.LevelID)
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, createValidLevel(3))
	writeLevelFile(t, dir, createValidLevel(2))
	writeRawLevel(t, dir, LevelFilename(1), `not json`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	def := manager.GetDefault()
	if def.LevelID != 2 {
		t.Errorf("Expected lowest playable level 2 as default, got %d", def.LevelID)
	}

	if err := manager.SetDefault(3); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().LevelID != 3 {
		t.Error("Expected default to change to level 3")
	}

	if err := manager.SetDefault(8); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

func TestManager_ListLevels(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, createValidLevel(10))
	writeLevelFile(t, dir, createValidLevel(2))
	writeRawLevel(t, dir, LevelFilename(4), `{"Playfield": []}`)
	writeRawLevel(t, dir, "notes.txt", "ignore me")
	writeRawLevel(t, dir, "level_x.json", "{}")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	levels, err := manager.ListLevels()
	if err != nil {
		t.Fatalf("Failed to list levels: %v", err)
	}

	if len(levels) != 2 {
		t.Fatalf("Expected 2 playable levels, got %d", len(levels))
	}
	if levels[0].LevelID != 2 || levels[1].LevelID != 10 {
		t.Errorf("Expected levels ordered [2 10], got [%d %d]", levels[0].LevelID, levels[1].LevelID)
	}
	if levels[0].Filename != "level_2.json" {
		t.Errorf("Expected filename level_2.json, got %s", levels[0].Filename)
	}
	if levels[0].TotalCards != 4 || levels[0].StackCards != 2 {
		t.Errorf("Unexpected card counts: %+v", levels[0])
	}
}

func TestManager_SaveLevel(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save valid level", func(t *testing.T) {
		level := createValidLevel(12)
		if err := manager.SaveLevel(level); err != nil {
			t.Fatalf("Failed to save level: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "level_12.json"))
		if err != nil {
			t.Fatalf("Expected level file on disk: %v", err)
		}
		parsed := engine.ParseLevelConfig(data)
		if parsed.LevelID != 12 || len(parsed.Playfield) != 2 {
			t.Errorf("Saved file did not round trip: %+v", parsed)
		}
	})

	t.Run("reject invalid level", func(t *testing.T) {
		level := createValidLevel(13)
		level.Playfield[0].Face = engine.FaceNone
		if err := manager.SaveLevel(level); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "level_13.json")); !os.IsNotExist(err) {
			t.Error("Invalid level should not be written")
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, createValidLevel(1))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	before, _ := manager.LoadLevel(1)

	updated := createValidLevel(1)
	updated.Stack = append(updated.Stack, engine.CardConfig{Face: engine.Ace, Suit: engine.Clubs})
	writeLevelFile(t, dir, updated)

	cached, _ := manager.LoadLevel(1)
	if cached != before {
		t.Error("Expected cached level before refresh")
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}

	reloaded, err := manager.LoadLevel(1)
	if err != nil {
		t.Fatalf("Failed to reload level: %v", err)
	}
	if len(reloaded.Stack) != 3 {
		t.Errorf("Expected 3 stack cards after refresh, got %d", len(reloaded.Stack))
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for id := 1; id <= 3; id++ {
		writeLevelFile(t, dir, createValidLevel(id))
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := manager.LoadLevel(i%3 + 1); err != nil {
				errs <- err
			}
			if i%10 == 0 {
				if _, err := manager.ListLevels(); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent access error: %v", err)
	}
}

func TestParseLevelFilename(t *testing.T) {
	tests := []struct {
		name string
		id   int
		ok   bool
	}{
		{"level_1.json", 1, true},
		{"level_0.json", 0, true},
		{"level_12.json", 12, true},
		{"level_-1.json", 0, false},
		{"level_x.json", 0, false},
		{"level_1.yaml", 0, false},
		{"config_1.json", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseLevelFilename(tt.name)
		if ok != tt.ok || id != tt.id {
			t.Errorf("ParseLevelFilename(%q) = %d, %v; want %d, %v", tt.name, id, ok, tt.id, tt.ok)
		}
	}
}
