package service

import (
	"time"

	"github.com/wricardo/card-match-game/game/engine"
)

// DefaultLevel asks CreateSession for the level manager's default level
const DefaultLevel = -1

// Rejection reasons reported by ClickResult and UndoResult
const (
	ReasonNoSuchCard    = "no_such_card"
	ReasonIllegalMove   = "illegal_move"
	ReasonEmptyStack    = "empty_stack"
	ReasonNothingToUndo = "nothing_to_undo"
	ReasonGamePaused    = "game_paused"
	ReasonGameOver      = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LevelID        int               `json:"level_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Board          *engine.BoardView `json:"board"`
	UndoDepth      int               `json:"undo_depth"`
}

// ClickResult contains the result of a card click. A rejected click has
// Success false, a Reason code, and an unchanged board.
type ClickResult struct {
	Success bool               `json:"success"`
	Reason  string             `json:"reason,omitempty"`
	Message string             `json:"message"`
	CardID  int                `json:"card_id"`
	Move    *engine.MoveRecord `json:"move,omitempty"`
	Events  []engine.Event     `json:"events,omitempty"`
	Board   *engine.BoardView  `json:"board"`
}

// UndoResult contains the result of an undo request
type UndoResult struct {
	Success bool               `json:"success"`
	Reason  string             `json:"reason,omitempty"`
	Message string             `json:"message"`
	Undone  *engine.MoveRecord `json:"undone,omitempty"`
	Events  []engine.Event     `json:"events,omitempty"`
	Board   *engine.BoardView  `json:"board"`
}

// HistoryOptions configures undo history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the undo history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// HintsResponse lists the clicks that would currently commit
type HintsResponse struct {
	LegalMoves []int         `json:"legal_moves"`
	Cards      []engine.Card `json:"cards"`
	TopCard    *engine.Card  `json:"top_card,omitempty"`
	Stuck      bool          `json:"stuck"`
	CanUndo    bool          `json:"can_undo"`
	Status     engine.Status `json:"status"`
}

// LevelInfo provides information about a level file
type LevelInfo struct {
	LevelID        int    `json:"level_id"`
	Filename       string `json:"filename"`
	PlayfieldCards int    `json:"playfield_cards"`
	StackCards     int    `json:"stack_cards"`
	TotalCards     int    `json:"total_cards"`
}

// EventMessage is one committed change forwarded to subscribers
type EventMessage struct {
	SessionID string            `json:"session_id"`
	Type      string            `json:"type"`
	Events    []engine.Event    `json:"events,omitempty"`
	Board     *engine.BoardView `json:"board"`
}

// Event message types
const (
	MessageMoveCommitted = "move_committed"
	MessageUndoCompleted = "undo_completed"
	MessageBoardUpdate   = "board_update"
)
