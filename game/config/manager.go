package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/wricardo/card-match-game/game/engine"
	"github.com/wricardo/card-match-game/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

const (
	levelFilePrefix = "level_"
	levelFileSuffix = ".json"
)

// LevelFilename returns the file name a level is stored under
func LevelFilename(id int) string {
	return fmt.Sprintf("%s%d%s", levelFilePrefix, id, levelFileSuffix)
}

// ParseLevelFilename extracts the level id from a file name like level_3.json
func ParseLevelFilename(name string) (int, bool) {
	if !strings.HasPrefix(name, levelFilePrefix) || !strings.HasSuffix(name, levelFileSuffix) {
		return 0, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, levelFilePrefix), levelFileSuffix)
	id, err := strconv.Atoi(raw)
	if err != nil || id < engine.MinLevelID {
		return 0, false
	}
	return id, true
}

// Manager handles level loading and caching
type Manager struct {
	levelsDir    string
	defaultLevel *engine.LevelConfig
	levels       map[int]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelsDir string) (*Manager, error) {
	if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
	}

	m := &Manager{
		levelsDir: levelsDir,
		levels:    make(map[int]*engine.LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by id. The file is parsed leniently; a level that
// parses but cannot be played is reported as ErrInvalidLevel.
func (m *Manager) LoadLevel(id int) (*engine.LevelConfig, error) {
	m.mu.RLock()
	if level, exists := m.levels[id]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[id]; exists {
		return level, nil
	}

	data, err := os.ReadFile(filepath.Join(m.levelsDir, LevelFilename(id)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %d", ErrLevelNotFound, id)
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	level := engine.ParseLevelConfig(data)
	// The file name is authoritative for the id.
	level.LevelID = id

	if err := engine.ValidateLevelConfig(level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	m.levels[id] = level
	return level, nil
}

// ListLevels returns information about every playable level, ordered by id
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	ids, err := m.levelIDs()
	if err != nil {
		return nil, err
	}

	levels := make([]*service.LevelInfo, 0, len(ids))
	for _, id := range ids {
		level, err := m.LoadLevel(id)
		if err != nil {
			// Skip invalid levels
			continue
		}
		levels = append(levels, &service.LevelInfo{
			LevelID:        id,
			Filename:       LevelFilename(id),
			PlayfieldCards: len(level.Playfield),
			StackCards:     len(level.Stack),
			TotalCards:     len(level.Playfield) + len(level.Stack),
		})
	}

	return levels, nil
}

// levelIDs returns the ids of all level files in the directory, ascending
func (m *Manager) levelIDs() ([]int, error) {
	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var ids []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := ParseLevelFilename(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by id
func (m *Manager) SetDefault(id int) error {
	level, err := m.LoadLevel(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache drops all cached levels and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[int]*engine.LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

// loadDefaultLevel picks the lowest-numbered playable level, falling back to
// a built-in level when the directory has none
func (m *Manager) loadDefaultLevel() error {
	ids, err := m.levelIDs()
	if err != nil {
		return err
	}

	var level *engine.LevelConfig
	for _, id := range ids {
		if l, err := m.LoadLevel(id); err == nil {
			level = l
			break
		}
	}
	if level == nil {
		level = createMinimalLevel()
	}

	m.mu.Lock()
	m.defaultLevel = level
	m.mu.Unlock()
	return nil
}

// SaveLevel validates a level and writes it to level_<id>.json
func (m *Manager) SaveLevel(level *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	path := filepath.Join(m.levelsDir, LevelFilename(level.LevelID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[level.LevelID] = level
	m.mu.Unlock()

	return nil
}

// createMinimalLevel creates a small level that can be cleared in three clicks
func createMinimalLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		LevelID: 0,
		Playfield: []engine.CardConfig{
			{Face: engine.Four, Suit: engine.Hearts, Position: engine.Position{X: 200, Y: 1300}},
			{Face: engine.Five, Suit: engine.Spades, Position: engine.Position{X: 450, Y: 1300}},
			{Face: engine.Six, Suit: engine.Clubs, Position: engine.Position{X: 700, Y: 1300}},
		},
		Stack: []engine.CardConfig{
			{Face: engine.King, Suit: engine.Diamonds, Position: engine.Position{X: 250, Y: 290}},
			{Face: engine.Three, Suit: engine.Clubs, Position: engine.Position{X: 700, Y: 290}},
		},
	}
}
