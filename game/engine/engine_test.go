package engine

import (
	"errors"
	"reflect"
	"slices"
	"testing"
)

// createTestLevel builds a small level:
//
//	playfield: id0 SEVEN, id1 NINE, id2 FIVE
//	stack:     id3 THREE, id4 SIX, id5 EIGHT (top)
func createTestLevel() *LevelConfig {
	return &LevelConfig{
		LevelID: 1,
		Playfield: []CardConfig{
			{Face: Seven, Suit: Clubs, Position: Position{X: 100, Y: 1200}},
			{Face: Nine, Suit: Diamonds, Position: Position{X: 250, Y: 1200}},
			{Face: Five, Suit: Hearts, Position: Position{X: 400, Y: 1200}},
		},
		Stack: []CardConfig{
			{Face: Three, Suit: Spades, Position: Position{X: 200, Y: 300}},
			{Face: Six, Suit: Clubs, Position: Position{X: 300, Y: 300}},
			{Face: Eight, Suit: Hearts, Position: Position{X: 700, Y: 300}},
		},
	}
}

func newTestEngine(t *testing.T) *GameEngine {
	t.Helper()
	engine, err := NewEngine(createTestLevel())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return engine
}

func TestNewEngine(t *testing.T) {
	engine := newTestEngine(t)

	if engine.Status() != StatusIdle {
		t.Errorf("Expected initial status IDLE, got %s", engine.Status())
	}
	if engine.CanUndo() {
		t.Error("Expected no undo history initially")
	}

	top, ok := engine.TopOfStack()
	if !ok {
		t.Fatal("Expected a top card")
	}
	if top.ID != 5 {
		t.Errorf("Expected top card id 5, got %d", top.ID)
	}
}

func TestNewEngine_InvalidLevel(t *testing.T) {
	level := createTestLevel()
	level.Playfield[0].Face = FaceNone

	if _, err := NewEngine(level); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestEngine_ClickPlayfieldMatch(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Click(0) // SEVEN on EIGHT
	if err != nil {
		t.Fatalf("Expected legal match, got %v", err)
	}

	if result.Record.Kind != MovePlayfieldToStack {
		t.Errorf("Expected PLAYFIELD_TO_STACK, got %s", result.Record.Kind)
	}
	if result.Record.ConsumedStackTopID != 5 {
		t.Errorf("Expected consumed top 5, got %d", result.Record.ConsumedStackTopID)
	}
	if !slices.Equal(result.Record.PriorStackOrder, []int{3, 4, 5}) {
		t.Errorf("Unexpected prior stack order %v", result.Record.PriorStackOrder)
	}

	view := engine.View()
	if !slices.Equal(view.StackOrder, []int{3, 4, 0}) {
		t.Errorf("Expected stack [3 4 0], got %v", view.StackOrder)
	}
	if len(view.Playfield) != 2 {
		t.Errorf("Expected 2 playfield cards, got %d", len(view.Playfield))
	}

	moved, _ := engine.FindCard(0)
	if moved.Zone != ZoneStack || moved.StackIndex != 2 {
		t.Errorf("Expected card 0 at stack index 2, got zone %s index %d", moved.Zone, moved.StackIndex)
	}
	if moved.Position != (Position{X: 700, Y: 300}) {
		t.Errorf("Expected card 0 in the right slot, got %+v", moved.Position)
	}

	consumed, _ := engine.FindCard(5)
	if consumed.Zone != ZoneNone || consumed.StackIndex != -1 {
		t.Errorf("Expected card 5 out of play, got zone %s index %d", consumed.Zone, consumed.StackIndex)
	}

	if engine.Status() != StatusPlaying {
		t.Errorf("Expected status PLAYING after first move, got %s", engine.Status())
	}
}

func TestEngine_ClickPlayfieldEvents(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Click(1) // NINE on EIGHT
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}

	if len(result.Events) < 2 {
		t.Fatalf("Expected at least 2 events, got %d", len(result.Events))
	}
	consumed := result.Events[0]
	if consumed.Type != EventCardConsumed {
		t.Errorf("Expected first event card_consumed, got %s", consumed.Type)
	}
	if consumed.ClickedID != 1 || consumed.ConsumedID != 5 {
		t.Errorf("Expected pair (1, 5), got (%d, %d)", consumed.ClickedID, consumed.ConsumedID)
	}
	if consumed.From == nil || *consumed.From != (Position{X: 250, Y: 1200}) {
		t.Errorf("Unexpected source position %+v", consumed.From)
	}
	if result.Events[1].Type != EventStackChanged {
		t.Errorf("Expected second event stack_changed, got %s", result.Events[1].Type)
	}
}

func TestEngine_ClickPlayfieldIllegal(t *testing.T) {
	engine := newTestEngine(t)
	before := engine.View()

	_, err := engine.Click(2) // FIVE on EIGHT
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove, got %v", err)
	}

	after := engine.View()
	if !slices.Equal(before.StackOrder, after.StackOrder) {
		t.Errorf("Stack changed on rejected move: %v -> %v", before.StackOrder, after.StackOrder)
	}
	if engine.CanUndo() {
		t.Error("Rejected move must not be recorded")
	}
	if engine.Status() != StatusIdle {
		t.Errorf("Rejected move must not change status, got %s", engine.Status())
	}
}

func TestEngine_ClickUnknownCard(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Click(42)
	if !errors.Is(err, ErrNoSuchCard) {
		t.Fatalf("Expected ErrNoSuchCard, got %v", err)
	}
	if errors.Is(err, ErrIllegalMove) {
		t.Error("ErrNoSuchCard must be distinguishable from ErrIllegalMove")
	}
}

func TestEngine_ClickEmptyStack(t *testing.T) {
	level := &LevelConfig{
		LevelID:   2,
		Playfield: []CardConfig{{Face: Two, Suit: Clubs}},
	}
	engine, err := NewEngine(level)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	_, err = engine.Click(0)
	if !errors.Is(err, ErrEmptyStack) {
		t.Fatalf("Expected ErrEmptyStack, got %v", err)
	}
}

func TestEngine_ClickStackSupplement(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Click(4) // SIX, not the top
	if err != nil {
		t.Fatalf("Expected legal supplement, got %v", err)
	}
	if result.Record.Kind != MoveStackSupplement {
		t.Errorf("Expected STACK_SUPPLEMENT, got %s", result.Record.Kind)
	}
	if result.Record.ConsumedStackTopID != 5 {
		t.Errorf("Expected consumed top 5, got %d", result.Record.ConsumedStackTopID)
	}

	if order := engine.View().StackOrder; !slices.Equal(order, []int{3, 4}) {
		t.Errorf("Expected stack [3 4], got %v", order)
	}
	if len(result.Events) == 0 || result.Events[0].Type != EventStackChanged {
		t.Fatalf("Expected stack_changed event, got %+v", result.Events)
	}
	if !slices.Equal(result.Events[0].StackOrder, []int{3, 4}) {
		t.Errorf("Expected event order [3 4], got %v", result.Events[0].StackOrder)
	}
}

func TestEngine_ClickStackBottomRotates(t *testing.T) {
	engine := newTestEngine(t)

	if _, err := engine.Click(3); err != nil {
		t.Fatalf("Expected legal supplement, got %v", err)
	}

	if order := engine.View().StackOrder; !slices.Equal(order, []int{4, 3}) {
		t.Errorf("Expected stack [4 3], got %v", order)
	}
	card, _ := engine.FindCard(3)
	if card.StackIndex != 1 {
		t.Errorf("Expected card 3 at index 1, got %d", card.StackIndex)
	}
	other, _ := engine.FindCard(4)
	if other.StackIndex != 0 {
		t.Errorf("Expected card 4 at index 0, got %d", other.StackIndex)
	}
}

func TestEngine_ClickStackTopIsIllegal(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Click(5)
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove, got %v", err)
	}
}

func TestEngine_ClickSingleCardStackIsIllegal(t *testing.T) {
	level := &LevelConfig{
		LevelID:   3,
		Playfield: []CardConfig{{Face: Queen, Suit: Hearts}},
		Stack:     []CardConfig{{Face: Two, Suit: Spades}},
	}
	engine, err := NewEngine(level)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if _, err := engine.Click(1); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove, got %v", err)
	}
}

func TestEngine_ClickConsumedCard(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.Click(0); err != nil {
		t.Fatalf("Click failed: %v", err)
	}

	// Card 5 left play with the match above.
	if _, err := engine.Click(5); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove for a consumed card, got %v", err)
	}
}

func TestEngine_UndoEmpty(t *testing.T) {
	engine := newTestEngine(t)
	before := engine.View()

	_, err := engine.Undo()
	if !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Expected ErrNothingToUndo, got %v", err)
	}

	after := engine.View()
	if !slices.Equal(before.StackOrder, after.StackOrder) || len(before.Playfield) != len(after.Playfield) {
		t.Error("Board changed on empty undo")
	}
}

func TestEngine_UndoMatch(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.Click(0); err != nil {
		t.Fatalf("Click failed: %v", err)
	}

	result, err := engine.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}

	if result.Record.MovedCardID != 0 {
		t.Errorf("Expected record for card 0, got %d", result.Record.MovedCardID)
	}
	if len(result.Events) != 1 || result.Events[0].Type != EventUndoCompleted {
		t.Fatalf("Expected one undo_completed event, got %+v", result.Events)
	}
	ev := result.Events[0]
	if ev.To == nil || *ev.To != (Position{X: 100, Y: 1200}) {
		t.Errorf("Expected reverse animation towards the source position, got %+v", ev.To)
	}

	if order := engine.View().StackOrder; !slices.Equal(order, []int{3, 4, 5}) {
		t.Errorf("Expected stack [3 4 5], got %v", order)
	}
	card, _ := engine.FindCard(0)
	if card.Zone != ZonePlayfield {
		t.Errorf("Expected card 0 back in the playfield, got %s", card.Zone)
	}
	if card.Position != (Position{X: 100, Y: 1200}) {
		t.Errorf("Expected card 0 at its source position, got %+v", card.Position)
	}
	if engine.Status() != StatusIdle {
		t.Errorf("Expected status restored to IDLE, got %s", engine.Status())
	}
}

func TestEngine_UndoSupplement(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.Click(3); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if _, err := engine.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}

	if order := engine.View().StackOrder; !slices.Equal(order, []int{3, 4, 5}) {
		t.Errorf("Expected stack [3 4 5], got %v", order)
	}
	card, _ := engine.FindCard(3)
	if card.Position != (Position{X: 200, Y: 300}) {
		t.Errorf("Expected card 3 back at its source position, got %+v", card.Position)
	}
}

func TestEngine_PauseRejectsClicks(t *testing.T) {
	engine := newTestEngine(t)
	engine.Start()
	engine.Pause()

	if _, err := engine.Click(0); !errors.Is(err, ErrGamePaused) {
		t.Fatalf("Expected ErrGamePaused, got %v", err)
	}

	engine.Resume()
	if _, err := engine.Click(0); err != nil {
		t.Fatalf("Expected click to succeed after resume, got %v", err)
	}
}

func TestEngine_StartOnlyFromIdle(t *testing.T) {
	engine := newTestEngine(t)
	engine.Start()
	if engine.Status() != StatusPlaying {
		t.Fatalf("Expected PLAYING after start, got %s", engine.Status())
	}

	engine.Pause()
	engine.Start()
	if engine.Status() != StatusPaused {
		t.Errorf("Expected start to leave a paused game paused, got %s", engine.Status())
	}

	level := &LevelConfig{
		LevelID:   3,
		Playfield: []CardConfig{{Face: Two, Suit: Clubs}},
		Stack:     []CardConfig{{Face: Three, Suit: Hearts}},
	}
	cleared, err := NewEngine(level)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if _, err := cleared.Click(0); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if cleared.Status() != StatusGameOver {
		t.Fatalf("Expected GAME_OVER, got %s", cleared.Status())
	}

	cleared.Start()
	if cleared.Status() != StatusGameOver {
		t.Errorf("Expected start to leave a cleared board over, got %s", cleared.Status())
	}
}

func TestEngine_UndoRewindsSequence(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.Click(0); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if _, err := engine.Click(4); err != nil {
		t.Fatalf("Click failed: %v", err)
	}

	if _, err := engine.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	result, err := engine.Click(4)
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if result.Record.Sequence != 2 {
		t.Errorf("Expected sequence 2 after undo and replay, got %d", result.Record.Sequence)
	}

	engine.Undo()
	engine.Undo()
	result, err = engine.Click(0)
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if result.Record.Sequence != 1 {
		t.Errorf("Expected sequence 1 once history is empty, got %d", result.Record.Sequence)
	}
}

func TestEngine_Restart(t *testing.T) {
	engine := newTestEngine(t)
	engine.Click(0)
	engine.Click(4)

	view := engine.Restart()

	if engine.CanUndo() {
		t.Error("Expected undo history cleared on restart")
	}
	if !slices.Equal(view.StackOrder, []int{3, 4, 5}) {
		t.Errorf("Expected fresh stack [3 4 5], got %v", view.StackOrder)
	}
	if view.Status != StatusIdle {
		t.Errorf("Expected IDLE after restart, got %s", view.Status)
	}
}

func TestEngine_LegalMoves(t *testing.T) {
	engine := newTestEngine(t)

	moves := engine.LegalMoves()
	expected := []int{0, 1, 3, 4}
	if !slices.Equal(moves, expected) {
		t.Errorf("Expected legal moves %v, got %v", expected, moves)
	}
}

func TestEngine_UndoRestoresExactView(t *testing.T) {
	engine := newTestEngine(t)
	before := engine.View()

	// SEVEN onto EIGHT, then supplement THREE
	for _, id := range []int{0, 3} {
		if _, err := engine.Click(id); err != nil {
			t.Fatalf("Click %d failed: %v", id, err)
		}
	}
	for engine.CanUndo() {
		if _, err := engine.Undo(); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
	}

	after := engine.View()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Expected identical view after undoing everything\nbefore: %+v\nafter:  %+v", before, after)
	}
}
