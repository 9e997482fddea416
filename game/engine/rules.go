package engine

import (
	"fmt"
	"slices"
)

// CanMatch reports whether two cards may be matched: their ranks differ by
// exactly one. Suits are ignored and ranks do not wrap from King to Ace.
func CanMatch(a, b Card) bool {
	if !a.Face.Valid() || !b.Face.Valid() {
		return false
	}
	return FaceDifference(a, b) == 1
}

// FaceDifference returns |rank(a) - rank(b)|
func FaceDifference(a, b Card) int {
	return abs(a.Face.Rank() - b.Face.Rank())
}

// PlanMove validates a click on card id against the board and returns the
// record describing the move it would commit. The board is not modified.
func PlanMove(b *Board, id int) (MoveRecord, error) {
	clicked, ok := b.FindByID(id)
	if !ok {
		return MoveRecord{}, fmt.Errorf("%w: %d", ErrNoSuchCard, id)
	}

	switch b.Status() {
	case StatusPaused:
		return MoveRecord{}, ErrGamePaused
	case StatusGameOver:
		return MoveRecord{}, ErrGameOver
	}

	switch clicked.Zone {
	case ZonePlayfield:
		return planMatch(b, clicked)
	case ZoneStack:
		return planSupplement(b, clicked)
	default:
		return MoveRecord{}, fmt.Errorf("%w: card %d is out of play", ErrIllegalMove, id)
	}
}

// planMatch handles a playfield click: the card must match the active stack top
func planMatch(b *Board, clicked Card) (MoveRecord, error) {
	top, ok := b.TopOfStack()
	if !ok {
		return MoveRecord{}, ErrEmptyStack
	}
	if !CanMatch(clicked, top) {
		return MoveRecord{}, fmt.Errorf("%w: %s does not match %s", ErrIllegalMove, clicked.Face, top.Face)
	}
	return MoveRecord{
		Kind:               MovePlayfieldToStack,
		MovedCardID:        clicked.ID,
		ConsumedStackTopID: top.ID,
		SourcePosition:     clicked.Position,
		TargetPosition:     top.Position,
		PriorStackOrder:    b.StackOrder(),
		PriorStatus:        b.Status(),
	}, nil
}

// planSupplement handles a stack click: any non-top card of a stack with at
// least two cards may replace the active top
func planSupplement(b *Board, clicked Card) (MoveRecord, error) {
	if b.StackSize() < 2 {
		return MoveRecord{}, fmt.Errorf("%w: stack has fewer than two cards", ErrIllegalMove)
	}
	top, _ := b.TopOfStack()
	if top.ID == clicked.ID {
		return MoveRecord{}, fmt.Errorf("%w: card %d is already the active card", ErrIllegalMove, clicked.ID)
	}
	return MoveRecord{
		Kind:               MoveStackSupplement,
		MovedCardID:        clicked.ID,
		ConsumedStackTopID: top.ID,
		SourcePosition:     clicked.Position,
		TargetPosition:     top.Position,
		PriorStackOrder:    b.StackOrder(),
		PriorStatus:        b.Status(),
	}, nil
}

// ApplyMove mutates the board according to a planned record
func ApplyMove(b *Board, rec MoveRecord) error {
	switch rec.Kind {
	case MovePlayfieldToStack:
		b.RemoveFromPlayfield(rec.MovedCardID)
		b.RemoveFromStack(rec.ConsumedStackTopID)
		if err := b.AddToStack(rec.MovedCardID); err != nil {
			return err
		}

	case MoveStackSupplement:
		b.RemoveFromStack(rec.ConsumedStackTopID)
		// Rotate the clicked card to the tail; the rest keep their relative order.
		if err := b.AddToStack(rec.MovedCardID); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown move kind %d", rec.Kind)
	}

	// The new top takes the right slot the old top occupied.
	if err := b.SetPosition(rec.MovedCardID, rec.TargetPosition); err != nil {
		return err
	}

	if b.PlayfieldSize() == 0 {
		b.SetStatus(StatusGameOver)
	} else if b.Status() == StatusIdle {
		b.SetStatus(StatusPlaying)
	}
	return nil
}

// RevertMove restores the board to the state captured by rec. The stack is
// rebuilt from the snapshot instead of being reversed element by element.
func RevertMove(b *Board, rec MoveRecord) error {
	b.ClearStack()
	b.RemoveFromPlayfield(rec.MovedCardID)
	for _, id := range rec.PriorStackOrder {
		if err := b.AddToStack(id); err != nil {
			return err
		}
	}

	if rec.Kind == MovePlayfieldToStack {
		if err := b.AddToPlayfield(rec.MovedCardID); err != nil {
			return err
		}
	} else if !slices.Contains(rec.PriorStackOrder, rec.MovedCardID) {
		return fmt.Errorf("record %d: moved card %d missing from prior stack", rec.Sequence, rec.MovedCardID)
	}

	if err := b.SetPosition(rec.MovedCardID, rec.SourcePosition); err != nil {
		return err
	}
	if b.Status() != StatusPaused {
		b.SetStatus(rec.PriorStatus)
	}
	return nil
}
