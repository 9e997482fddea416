package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/buger/jsonparser"
)

// Validation limits
const (
	MaxLevelCards = 104
	MinLevelID    = 0
)

// CardConfig is the static description of one card in a level file
type CardConfig struct {
	Face     Face
	Suit     Suit
	Position Position
}

// LevelConfig is the static layout of a level: which cards start in the
// playfield and which in the stack, in file order
type LevelConfig struct {
	LevelID   int
	Playfield []CardConfig
	Stack     []CardConfig
}

// NewCardConfig returns a card config with the loader's defaults
func NewCardConfig() CardConfig {
	return CardConfig{Face: FaceNone, Suit: SuitNone}
}

// ParseLevelConfig parses a level file. It never fails: a document that is
// not a JSON object yields an empty level, and missing or ill-typed fields
// fall back to NONE face/suit and the origin.
func ParseLevelConfig(data []byte) *LevelConfig {
	config := &LevelConfig{
		Playfield: []CardConfig{},
		Stack:     []CardConfig{},
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return config
	}

	if id, err := jsonparser.GetInt(trimmed, "levelId"); err == nil {
		config.LevelID = int(id)
	}

	config.Playfield = parseCardArray(trimmed, "Playfield")
	config.Stack = parseCardArray(trimmed, "Stack")

	return config
}

// parseCardArray reads an array of card objects; non-array values yield an empty list
func parseCardArray(data []byte, key string) []CardConfig {
	cards := []CardConfig{}

	_, dataType, _, err := jsonparser.Get(data, key)
	if err != nil || dataType != jsonparser.Array {
		return cards
	}

	jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil {
			return
		}
		cards = append(cards, parseCardConfig(value, dataType))
	}, key)

	return cards
}

func parseCardConfig(value []byte, dataType jsonparser.ValueType) CardConfig {
	card := NewCardConfig()
	if dataType != jsonparser.Object {
		return card
	}

	if suit, err := jsonparser.GetInt(value, "CardSuit"); err == nil {
		if s := Suit(suit); s.Valid() {
			card.Suit = s
		}
	}

	if face, err := jsonparser.GetInt(value, "CardFace"); err == nil {
		if f := Face(face); f.Valid() {
			card.Face = f
		}
	}

	_, posType, _, err := jsonparser.Get(value, "Position")
	if err == nil && posType == jsonparser.Object {
		if x, err := jsonparser.GetFloat(value, "Position", "x"); err == nil {
			card.Position.X = x
		}
		if y, err := jsonparser.GetFloat(value, "Position", "y"); err == nil {
			card.Position.Y = y
		}
	}

	return card
}

type cardConfigJSON struct {
	CardFace int      `json:"CardFace"`
	CardSuit int      `json:"CardSuit"`
	Position Position `json:"Position"`
}

type levelConfigJSON struct {
	LevelID   int              `json:"levelId"`
	Playfield []cardConfigJSON `json:"Playfield"`
	Stack     []cardConfigJSON `json:"Stack"`
}

// MarshalJSON writes the level in the level-file format
func (l LevelConfig) MarshalJSON() ([]byte, error) {
	out := levelConfigJSON{
		LevelID:   l.LevelID,
		Playfield: make([]cardConfigJSON, 0, len(l.Playfield)),
		Stack:     make([]cardConfigJSON, 0, len(l.Stack)),
	}
	for _, c := range l.Playfield {
		out.Playfield = append(out.Playfield, cardConfigJSON{CardFace: int(c.Face), CardSuit: int(c.Suit), Position: c.Position})
	}
	for _, c := range l.Stack {
		out.Stack = append(out.Stack, cardConfigJSON{CardFace: int(c.Face), CardSuit: int(c.Suit), Position: c.Position})
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the level-file format with the same leniency as ParseLevelConfig
func (l *LevelConfig) UnmarshalJSON(data []byte) error {
	*l = *ParseLevelConfig(data)
	return nil
}

// ValidateLevelConfig checks that a level can be played as written
func ValidateLevelConfig(config *LevelConfig) error {
	if config == nil {
		return fmt.Errorf("level validation: config is nil")
	}
	if config.LevelID < MinLevelID {
		return fmt.Errorf("level validation: levelId must be >= %d, got %d", MinLevelID, config.LevelID)
	}

	total := len(config.Playfield) + len(config.Stack)
	if total == 0 {
		return fmt.Errorf("level validation: level has no cards")
	}
	if total > MaxLevelCards {
		return fmt.Errorf("level validation: level has %d cards, max is %d", total, MaxLevelCards)
	}

	check := func(zone string, cards []CardConfig) error {
		for i, c := range cards {
			if !c.Face.Valid() {
				return fmt.Errorf("level validation: %s[%d] has invalid face %d", zone, i, int(c.Face))
			}
			if !c.Suit.Valid() {
				return fmt.Errorf("level validation: %s[%d] has invalid suit %d", zone, i, int(c.Suit))
			}
			if math.IsNaN(c.Position.X) || math.IsNaN(c.Position.Y) ||
				math.IsInf(c.Position.X, 0) || math.IsInf(c.Position.Y, 0) {
				return fmt.Errorf("level validation: %s[%d] has a non-finite position", zone, i)
			}
		}
		return nil
	}

	if err := check("Playfield", config.Playfield); err != nil {
		return err
	}
	return check("Stack", config.Stack)
}

// Generate builds the initial board for a level. Ids are assigned from 0,
// playfield entries first and then stack entries, each in file order.
func Generate(config *LevelConfig) *Board {
	board := NewBoard()
	if config == nil {
		return board
	}

	nextID := 0
	place := func(cc CardConfig, add func(int) error) {
		card := Card{
			ID:       nextID,
			Face:     cc.Face,
			Suit:     cc.Suit,
			Position: cc.Position,
			Visible:  true,
		}
		nextID++
		// Ids are fresh, so neither call can fail.
		_ = board.Insert(card)
		_ = add(card.ID)
	}

	for _, cc := range config.Playfield {
		place(cc, board.AddToPlayfield)
	}
	for _, cc := range config.Stack {
		place(cc, board.AddToStack)
	}

	board.SetStatus(StatusIdle)
	return board
}
