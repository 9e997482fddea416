package service

import (
	"context"
	"time"

	"github.com/wricardo/card-match-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelID int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	ClickCard(ctx context.Context, sessionID string, cardID int) (*ClickResult, error)
	Undo(ctx context.Context, sessionID string) (*UndoResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.BoardView, error)
	Start(ctx context.Context, sessionID string) (*engine.BoardView, error)
	Pause(ctx context.Context, sessionID string) (*engine.BoardView, error)
	Resume(ctx context.Context, sessionID string) (*engine.BoardView, error)

	// Game State
	GetBoard(ctx context.Context, sessionID string) (*engine.BoardView, error)
	GetUndoHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	GetHints(ctx context.Context, sessionID string) (*HintsResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelID int) (*engine.LevelConfig, error)
	SaveLevel(ctx context.Context, level *engine.LevelConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	// UpdateLastAccessed refreshes the access time and returns it
	UpdateLastAccessed(id string) (time.Time, error)
	LastAccessed(id string) (time.Time, error)
}

// LevelManager handles level file loading
type LevelManager interface {
	LoadLevel(id int) (*engine.LevelConfig, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.LevelConfig
	SaveLevel(level *engine.LevelConfig) error
}

// EventPublisher receives every committed change of every session
type EventPublisher interface {
	Publish(msg EventMessage)
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Level          *engine.LevelConfig
	CreatedAt      time.Time
	// LastAccessedAt belongs to the SessionManager; read it through
	// SessionManager.LastAccessed
	LastAccessedAt time.Time
}
