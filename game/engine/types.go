package engine

import (
	"fmt"
	"strings"
)

// Face is a card rank. Ace is 1 and King is 13.
type Face int

const (
	FaceNone Face = 0
	Ace      Face = 1
	Two      Face = 2
	Three    Face = 3
	Four     Face = 4
	Five     Face = 5
	Six      Face = 6
	Seven    Face = 7
	Eight    Face = 8
	Nine     Face = 9
	Ten      Face = 10
	Jack     Face = 11
	Queen    Face = 12
	King     Face = 13
)

var faceNames = map[Face]string{
	FaceNone: "NONE",
	Ace:      "ACE",
	Two:      "TWO",
	Three:    "THREE",
	Four:     "FOUR",
	Five:     "FIVE",
	Six:      "SIX",
	Seven:    "SEVEN",
	Eight:    "EIGHT",
	Nine:     "NINE",
	Ten:      "TEN",
	Jack:     "JACK",
	Queen:    "QUEEN",
	King:     "KING",
}

// Valid reports whether f is one of Ace..King
func (f Face) Valid() bool {
	return f >= Ace && f <= King
}

// Rank returns the numeric rank used for matching
func (f Face) Rank() int {
	return int(f)
}

func (f Face) String() string {
	if name, ok := faceNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Face(%d)", int(f))
}

// MarshalText encodes the face by name
func (f Face) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a face name; unknown names decode to FaceNone
func (f *Face) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for face, n := range faceNames {
		if n == name {
			*f = face
			return nil
		}
	}
	*f = FaceNone
	return nil
}

// Suit is a card suit. Suits never take part in matching.
type Suit int

const (
	SuitNone Suit = -1
	Clubs    Suit = 0
	Diamonds Suit = 1
	Hearts   Suit = 2
	Spades   Suit = 3
)

var suitNames = map[Suit]string{
	SuitNone: "NONE",
	Clubs:    "CLUBS",
	Diamonds: "DIAMONDS",
	Hearts:   "HEARTS",
	Spades:   "SPADES",
}

// Valid reports whether s is one of Clubs..Spades
func (s Suit) Valid() bool {
	return s >= Clubs && s <= Spades
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Suit(%d)", int(s))
}

// MarshalText encodes the suit by name
func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a suit name; unknown names decode to SuitNone
func (s *Suit) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for suit, n := range suitNames {
		if n == name {
			*s = suit
			return nil
		}
	}
	*s = SuitNone
	return nil
}

// Zone identifies which collection of the board a card sits in
type Zone int

const (
	ZoneNone      Zone = -1
	ZonePlayfield Zone = 0
	ZoneStack     Zone = 1
)

func (z Zone) String() string {
	switch z {
	case ZonePlayfield:
		return "PLAYFIELD"
	case ZoneStack:
		return "STACK"
	default:
		return "NONE"
	}
}

// MarshalText encodes the zone by name
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText decodes a zone name
func (z *Zone) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "PLAYFIELD":
		*z = ZonePlayfield
	case "STACK":
		*z = ZoneStack
	default:
		*z = ZoneNone
	}
	return nil
}

// Status is the global game status held by the board
type Status int

const (
	StatusIdle     Status = 0
	StatusPlaying  Status = 1
	StatusGameOver Status = 2
	StatusPaused   Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusPlaying:
		return "PLAYING"
	case StatusGameOver:
		return "GAME_OVER"
	case StatusPaused:
		return "PAUSED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status by name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name
func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "PLAYING":
		*s = StatusPlaying
	case "GAME_OVER":
		*s = StatusGameOver
	case "PAUSED":
		*s = StatusPaused
	default:
		*s = StatusIdle
	}
	return nil
}

// Position is a 2D coordinate in design-resolution units
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Card is one card entity. Face and Suit never change after generation;
// the remaining fields are owned by the Board.
type Card struct {
	ID         int      `json:"id"`
	Face       Face     `json:"face"`
	Suit       Suit     `json:"suit"`
	Position   Position `json:"position"`
	Visible    bool     `json:"visible"`
	Zone       Zone     `json:"zone"`
	StackIndex int      `json:"stack_index"`
}

// MoveKind distinguishes the two reversible moves
type MoveKind int

const (
	MovePlayfieldToStack MoveKind = iota
	MoveStackSupplement
)

func (k MoveKind) String() string {
	switch k {
	case MovePlayfieldToStack:
		return "PLAYFIELD_TO_STACK"
	case MoveStackSupplement:
		return "STACK_SUPPLEMENT"
	default:
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
}

// MarshalText encodes the move kind by name
func (k MoveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a move kind name
func (k *MoveKind) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "PLAYFIELD_TO_STACK":
		*k = MovePlayfieldToStack
	case "STACK_SUPPLEMENT":
		*k = MoveStackSupplement
	default:
		return fmt.Errorf("unknown move kind %q", string(text))
	}
	return nil
}

// MoveRecord is one undo unit. PriorStackOrder is a full snapshot of the
// stack taken before the move, enough to rebuild the zone on undo.
type MoveRecord struct {
	Sequence           int      `json:"sequence"`
	Kind               MoveKind `json:"kind"`
	MovedCardID        int      `json:"moved_card_id"`
	ConsumedStackTopID int      `json:"consumed_stack_top_id"`
	SourcePosition     Position `json:"source_position"`
	TargetPosition     Position `json:"target_position"`
	PriorStackOrder    []int    `json:"prior_stack_order"`
	PriorStatus        Status   `json:"prior_status"`
}

// EventType names a notification emitted to the presentation layer
type EventType string

const (
	EventCardConsumed  EventType = "card_consumed"
	EventStackChanged  EventType = "stack_changed"
	EventUndoCompleted EventType = "undo_completed"
	EventStatusChanged EventType = "status_changed"
)

// Event describes one committed change. Only the fields relevant to Type are set.
type Event struct {
	Type       EventType   `json:"type"`
	ClickedID  int         `json:"clicked_id"`
	ConsumedID int         `json:"consumed_id"`
	From       *Position   `json:"from,omitempty"`
	To         *Position   `json:"to,omitempty"`
	StackOrder []int       `json:"stack_order,omitempty"`
	Record     *MoveRecord `json:"record,omitempty"`
	Status     Status      `json:"status"`
}

// MoveResult is returned by a committed click
type MoveResult struct {
	Record MoveRecord `json:"record"`
	Events []Event    `json:"events"`
	Status Status     `json:"status"`
}

// UndoResult is returned by a committed undo
type UndoResult struct {
	Record MoveRecord `json:"record"`
	Events []Event    `json:"events"`
	Status Status     `json:"status"`
}

// BoardView is a read-only JSON snapshot of a board
type BoardView struct {
	Status     Status `json:"status"`
	Playfield  []Card `json:"playfield"`
	Stack      []Card `json:"stack"`
	StackOrder []int  `json:"stack_order"`
	TopCardID  *int   `json:"top_card_id,omitempty"`
	Removed    []int  `json:"removed"`
}
