package engine

import "errors"

// Rejections. None of these abort a game; callers treat them as a no-op
// and may show different feedback per class.
var (
	ErrNoSuchCard    = errors.New("no such card")
	ErrIllegalMove   = errors.New("illegal move")
	ErrEmptyStack    = errors.New("stack is empty")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrGamePaused    = errors.New("game is paused")
	ErrGameOver      = errors.New("game is over")
)

// IsRejection reports whether err is one of the engine's non-fatal rejections
func IsRejection(err error) bool {
	return errors.Is(err, ErrNoSuchCard) ||
		errors.Is(err, ErrIllegalMove) ||
		errors.Is(err, ErrEmptyStack) ||
		errors.Is(err, ErrNothingToUndo) ||
		errors.Is(err, ErrGamePaused) ||
		errors.Is(err, ErrGameOver)
}

// RejectionReason maps a rejection to a short machine-friendly code
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrNoSuchCard):
		return "no_such_card"
	case errors.Is(err, ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, ErrEmptyStack):
		return "empty_stack"
	case errors.Is(err, ErrNothingToUndo):
		return "nothing_to_undo"
	case errors.Is(err, ErrGamePaused):
		return "game_paused"
	case errors.Is(err, ErrGameOver):
		return "game_over"
	default:
		return ""
	}
}
