package engine

import (
	"fmt"
	"slices"
	"sort"
)

// Board owns every card of a game and the two zones that arrange them.
// It is the only writer of a card's Zone, StackIndex and Position; the
// rest of the code refers to cards by id.
type Board struct {
	cards     map[int]*Card
	playfield []int
	stack     []int
	status    Status
}

// NewBoard creates an empty board in the IDLE status
func NewBoard() *Board {
	return &Board{
		cards:     make(map[int]*Card),
		playfield: []int{},
		stack:     []int{},
		status:    StatusIdle,
	}
}

// Insert registers a card in the board's store without placing it in a zone
func (b *Board) Insert(card Card) error {
	if _, exists := b.cards[card.ID]; exists {
		return fmt.Errorf("card %d already exists", card.ID)
	}
	card.Zone = ZoneNone
	card.StackIndex = -1
	c := card
	b.cards[card.ID] = &c
	return nil
}

// AddToPlayfield places a card in the playfield. The playfield is kept in id
// order, so an undone match puts the card back in its original slot.
func (b *Board) AddToPlayfield(id int) error {
	card, ok := b.cards[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchCard, id)
	}
	b.detach(card)
	idx, _ := slices.BinarySearch(b.playfield, id)
	b.playfield = slices.Insert(b.playfield, idx, id)
	card.Zone = ZonePlayfield
	card.StackIndex = -1
	return nil
}

// AddToStack appends a card on top of the stack
func (b *Board) AddToStack(id int) error {
	card, ok := b.cards[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchCard, id)
	}
	b.detach(card)
	card.StackIndex = len(b.stack)
	b.stack = append(b.stack, id)
	card.Zone = ZoneStack
	return nil
}

// RemoveFromPlayfield takes a card out of the playfield. Absent cards are ignored.
func (b *Board) RemoveFromPlayfield(id int) {
	idx := slices.Index(b.playfield, id)
	if idx < 0 {
		return
	}
	b.playfield = slices.Delete(b.playfield, idx, idx+1)
	if card, ok := b.cards[id]; ok {
		card.Zone = ZoneNone
		card.StackIndex = -1
	}
}

// RemoveFromStack takes a card out of the stack. Absent cards are ignored.
func (b *Board) RemoveFromStack(id int) {
	idx := slices.Index(b.stack, id)
	if idx < 0 {
		return
	}
	b.stack = slices.Delete(b.stack, idx, idx+1)
	if card, ok := b.cards[id]; ok {
		card.Zone = ZoneNone
		card.StackIndex = -1
	}
	b.reindexStack()
}

// ClearStack empties the stack; the playfield is left alone
func (b *Board) ClearStack() {
	for _, id := range b.stack {
		if card, ok := b.cards[id]; ok {
			card.Zone = ZoneNone
			card.StackIndex = -1
		}
	}
	b.stack = []int{}
}

// TopOfStack returns the active card, the last element of the stack
func (b *Board) TopOfStack() (Card, bool) {
	if len(b.stack) == 0 {
		return Card{}, false
	}
	return *b.cards[b.stack[len(b.stack)-1]], true
}

// FindByID looks a card up by id. Cards taken out of play are still found, with ZoneNone.
func (b *Board) FindByID(id int) (Card, bool) {
	card, ok := b.cards[id]
	if !ok {
		return Card{}, false
	}
	return *card, true
}

// SetPosition moves a card's logical position
func (b *Board) SetPosition(id int, pos Position) error {
	card, ok := b.cards[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchCard, id)
	}
	card.Position = pos
	return nil
}

// Status returns the global game status
func (b *Board) Status() Status {
	return b.status
}

// SetStatus changes the global game status
func (b *Board) SetStatus(status Status) {
	b.status = status
}

// StackSize returns the number of cards in the stack
func (b *Board) StackSize() int {
	return len(b.stack)
}

// PlayfieldSize returns the number of cards in the playfield
func (b *Board) PlayfieldSize() int {
	return len(b.playfield)
}

// TotalCards returns the number of cards the board owns, in play or not
func (b *Board) TotalCards() int {
	return len(b.cards)
}

// StackOrder returns the stack ids, bottom first
func (b *Board) StackOrder() []int {
	return slices.Clone(b.stack)
}

// PlayfieldIDs returns the playfield ids in insertion order
func (b *Board) PlayfieldIDs() []int {
	return slices.Clone(b.playfield)
}

// Playfield returns copies of the playfield cards
func (b *Board) Playfield() []Card {
	return b.copyCards(b.playfield)
}

// Stack returns copies of the stack cards, bottom first
func (b *Board) Stack() []Card {
	return b.copyCards(b.stack)
}

// Cards returns copies of every card sorted by id
func (b *Board) Cards() []Card {
	result := make([]Card, 0, len(b.cards))
	for _, card := range b.cards {
		result = append(result, *card)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// View builds a JSON-friendly snapshot of the board
func (b *Board) View() BoardView {
	view := BoardView{
		Status:     b.status,
		Playfield:  b.Playfield(),
		Stack:      b.Stack(),
		StackOrder: b.StackOrder(),
		Removed:    []int{},
	}
	if top, ok := b.TopOfStack(); ok {
		id := top.ID
		view.TopCardID = &id
	}
	for _, card := range b.Cards() {
		if card.Zone == ZoneNone {
			view.Removed = append(view.Removed, card.ID)
		}
	}
	return view
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	clone := &Board{
		cards:     make(map[int]*Card, len(b.cards)),
		playfield: slices.Clone(b.playfield),
		stack:     slices.Clone(b.stack),
		status:    b.status,
	}
	for id, card := range b.cards {
		c := *card
		clone.cards[id] = &c
	}
	return clone
}

// detach removes a card from whichever zone currently holds it
func (b *Board) detach(card *Card) {
	switch card.Zone {
	case ZonePlayfield:
		b.RemoveFromPlayfield(card.ID)
	case ZoneStack:
		b.RemoveFromStack(card.ID)
	}
}

func (b *Board) reindexStack() {
	for i, id := range b.stack {
		b.cards[id].StackIndex = i
	}
}

func (b *Board) copyCards(ids []int) []Card {
	result := make([]Card, 0, len(ids))
	for _, id := range ids {
		result = append(result, *b.cards[id])
	}
	return result
}
