package solver

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/wricardo/card-match-game/game/engine"
)

// DefaultMaxNodes bounds a search when Options.MaxNodes is zero
const DefaultMaxNodes = 1_000_000

// ErrPaused is returned when asked to solve a paused game
var ErrPaused = errors.New("solver: game is paused")

// Options bounds a search
type Options struct {
	MaxNodes int
}

// Result describes a finished search. Moves is the click sequence that
// clears the playfield when Solved is true.
type Result struct {
	Solved    bool  `json:"solved"`
	Moves     []int `json:"moves"`
	Nodes     int   `json:"nodes"`
	Exhausted bool  `json:"exhausted"`
}

type search struct {
	ctx       context.Context
	eng       *engine.GameEngine
	seen      map[string]struct{}
	path      []int
	solution  []int
	nodes     int
	maxNodes  int
	exhausted bool
}

// Solve runs a depth-first search over committed clicks, backtracking with
// Undo. The engine is back in its starting state when Solve returns.
func Solve(ctx context.Context, eng *engine.GameEngine, opts Options) (*Result, error) {
	if eng.Status() == engine.StatusPaused {
		return nil, ErrPaused
	}

	maxNodes := opts.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	s := &search{
		ctx:      ctx,
		eng:      eng,
		seen:     make(map[string]struct{}),
		maxNodes: maxNodes,
	}

	solved, err := s.dfs()
	if err != nil {
		return nil, err
	}

	return &Result{
		Solved:    solved,
		Moves:     s.solution,
		Nodes:     s.nodes,
		Exhausted: !solved && s.exhausted,
	}, nil
}

func (s *search) dfs() (bool, error) {
	if s.eng.Status() == engine.StatusGameOver || s.eng.Board().PlayfieldSize() == 0 {
		s.solution = slices.Clone(s.path)
		if s.solution == nil {
			s.solution = []int{}
		}
		return true, nil
	}

	if s.nodes >= s.maxNodes {
		s.exhausted = true
		return false, nil
	}
	if s.nodes%1024 == 0 {
		if err := s.ctx.Err(); err != nil {
			return false, err
		}
	}

	key := stateKey(s.eng.Board())
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	s.nodes++

	for _, id := range s.eng.LegalMoves() {
		if _, err := s.eng.Click(id); err != nil {
			return false, err
		}
		s.path = append(s.path, id)

		solved, err := s.dfs()

		s.path = s.path[:len(s.path)-1]
		if _, undoErr := s.eng.Undo(); undoErr != nil && err == nil {
			err = undoErr
		}
		if err != nil || solved {
			return solved, err
		}
	}

	return false, nil
}

// stateKey identifies a position by the cards left on the playfield and the
// exact stack order; consumed cards follow from those two.
func stateKey(b *engine.Board) string {
	playfield := b.PlayfieldIDs()
	slices.Sort(playfield)

	var sb strings.Builder
	for _, id := range playfield {
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	for _, id := range b.StackOrder() {
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte(',')
	}
	return sb.String()
}
