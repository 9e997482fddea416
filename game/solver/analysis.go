package solver

import (
	"github.com/wricardo/card-match-game/game/engine"
)

// Report is a static summary of a level, computed without playing it
type Report struct {
	LevelID        int                 `json:"level_id"`
	PlayfieldCards int                 `json:"playfield_cards"`
	StackCards     int                 `json:"stack_cards"`
	Faces          map[engine.Face]int `json:"faces"`
	InitialMoves   []int               `json:"initial_moves"`
	// OrphanCards are playfield cards with no card one rank away anywhere
	// in the level. Such a level can never be cleared.
	OrphanCards []int `json:"orphan_cards"`
}

// Solvable reports whether nothing in the static summary rules out a clear.
// It does not prove the level can be cleared; use Solve for that.
func (r *Report) Solvable() bool {
	if r.PlayfieldCards == 0 {
		return true
	}
	return r.StackCards > 0 && len(r.OrphanCards) == 0
}

// Analyze builds a Report for level
func Analyze(level *engine.LevelConfig) (*Report, error) {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return nil, err
	}

	board := engine.Generate(level)
	faces := engine.CountFaces(board)

	report := &Report{
		LevelID:        level.LevelID,
		PlayfieldCards: board.PlayfieldSize(),
		StackCards:     board.StackSize(),
		Faces:          faces,
		InitialMoves:   engine.LegalMoves(board),
		OrphanCards:    []int{},
	}
	if report.InitialMoves == nil {
		report.InitialMoves = []int{}
	}

	for _, card := range board.Playfield() {
		if faces[card.Face-1] == 0 && faces[card.Face+1] == 0 {
			report.OrphanCards = append(report.OrphanCards, card.ID)
		}
	}

	return report, nil
}
