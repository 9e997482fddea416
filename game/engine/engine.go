package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Moves
	Click(cardID int) (*MoveResult, error)
	Undo() (*UndoResult, error)
	CanUndo() bool
	LegalMoves() []int

	// Game status
	Start()
	Pause()
	Resume()
	Restart() BoardView
	Status() Status

	// Read-only queries
	View() BoardView
	FindCard(id int) (Card, bool)
	TopOfStack() (Card, bool)
	History() []MoveRecord
	Level() *LevelConfig
}

// GameEngine implements Engine for one game session. It is not safe for
// concurrent use; callers serialize access.
type GameEngine struct {
	board    *Board
	history  *UndoHistory
	level    *LevelConfig
	sequence int
}

// NewEngine creates a game engine for the provided level
func NewEngine(level *LevelConfig) (*GameEngine, error) {
	if err := ValidateLevelConfig(level); err != nil {
		return nil, err
	}

	return &GameEngine{
		board:   Generate(level),
		history: NewUndoHistory(),
		level:   level,
	}, nil
}

// Click dispatches a click on a card. Rejections come back as one of the
// engine's sentinel errors and leave the board untouched.
func (e *GameEngine) Click(cardID int) (*MoveResult, error) {
	rec, err := PlanMove(e.board, cardID)
	if err != nil {
		return nil, err
	}

	e.sequence++
	rec.Sequence = e.sequence

	// History first: a record whose mutation never lands is treated as not committed.
	e.history.Push(rec)
	if err := ApplyMove(e.board, rec); err != nil {
		return nil, fmt.Errorf("failed to apply move %d: %w", rec.Sequence, err)
	}

	return &MoveResult{
		Record: rec,
		Events: e.moveEvents(rec),
		Status: e.board.Status(),
	}, nil
}

// Undo reverses the most recent committed move
func (e *GameEngine) Undo() (*UndoResult, error) {
	rec, ok := e.history.Pop()
	if !ok {
		return nil, ErrNothingToUndo
	}

	if err := RevertMove(e.board, rec); err != nil {
		return nil, fmt.Errorf("failed to undo move %d: %w", rec.Sequence, err)
	}
	e.sequence = rec.Sequence - 1

	recCopy := rec
	from, to := rec.TargetPosition, rec.SourcePosition
	events := []Event{{
		Type:       EventUndoCompleted,
		ClickedID:  rec.MovedCardID,
		ConsumedID: rec.ConsumedStackTopID,
		From:       &from,
		To:         &to,
		StackOrder: e.board.StackOrder(),
		Record:     &recCopy,
		Status:     e.board.Status(),
	}}

	return &UndoResult{
		Record: rec,
		Events: events,
		Status: e.board.Status(),
	}, nil
}

// CanUndo reports whether the history holds a move
func (e *GameEngine) CanUndo() bool {
	return e.history.HasUndo()
}

// UndoDepth returns the number of moves that can be undone
func (e *GameEngine) UndoDepth() int {
	return e.history.Len()
}

// LegalMoves returns every card id whose click would commit
func (e *GameEngine) LegalMoves() []int {
	return LegalMoves(e.board)
}

// Start marks an idle game as playing. Any other status is left alone.
func (e *GameEngine) Start() {
	if e.board.Status() == StatusIdle {
		e.board.SetStatus(StatusPlaying)
	}
}

// Pause suspends the game; clicks are rejected until Resume
func (e *GameEngine) Pause() {
	if e.board.Status() == StatusGameOver {
		return
	}
	e.board.SetStatus(StatusPaused)
}

// Resume continues a paused game
func (e *GameEngine) Resume() {
	if e.board.Status() == StatusPaused {
		e.board.SetStatus(StatusPlaying)
	}
}

// Restart rebuilds the board from the level and drops the undo history
func (e *GameEngine) Restart() BoardView {
	if e.level != nil {
		e.board = Generate(e.level)
	}
	e.history.Clear()
	e.sequence = 0
	return e.board.View()
}

// Status returns the global game status
func (e *GameEngine) Status() Status {
	return e.board.Status()
}

// View returns a snapshot of the board
func (e *GameEngine) View() BoardView {
	return e.board.View()
}

// Board exposes the underlying board for read-only use
func (e *GameEngine) Board() *Board {
	return e.board
}

// FindCard looks up a card by id
func (e *GameEngine) FindCard(id int) (Card, bool) {
	return e.board.FindByID(id)
}

// TopOfStack returns the active card
func (e *GameEngine) TopOfStack() (Card, bool) {
	return e.board.TopOfStack()
}

// History returns the undo log, oldest first
func (e *GameEngine) History() []MoveRecord {
	return e.history.Records()
}

// Level returns the level the engine was built from
func (e *GameEngine) Level() *LevelConfig {
	return e.level
}

// moveEvents builds the notifications for a committed move
func (e *GameEngine) moveEvents(rec MoveRecord) []Event {
	status := e.board.Status()
	order := e.board.StackOrder()

	var events []Event
	if rec.Kind == MovePlayfieldToStack {
		from, to := rec.SourcePosition, rec.TargetPosition
		events = append(events, Event{
			Type:       EventCardConsumed,
			ClickedID:  rec.MovedCardID,
			ConsumedID: rec.ConsumedStackTopID,
			From:       &from,
			To:         &to,
			Status:     status,
		})
	}
	events = append(events, Event{
		Type:       EventStackChanged,
		ClickedID:  rec.MovedCardID,
		ConsumedID: rec.ConsumedStackTopID,
		StackOrder: order,
		Status:     status,
	})
	if status != rec.PriorStatus {
		events = append(events, Event{
			Type:   EventStatusChanged,
			Status: status,
		})
	}
	return events
}
