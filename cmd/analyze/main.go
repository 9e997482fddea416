// Command analyze prints quick, human-readable statistics about the levels in
// a levels directory: card counts, the face histogram, the opening moves,
// cards that can never be matched and, optionally, a clearing sequence.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/card-match-game/game/config"
	"github.com/wricardo/card-match-game/game/engine"
	"github.com/wricardo/card-match-game/game/solver"
)

// LevelAnalysis is everything printed for one level
type LevelAnalysis struct {
	Report   *solver.Report `json:"report"`
	Solution *solver.Result `json:"solution,omitempty"`
	Steps    []string       `json:"steps,omitempty"`
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Print statistics about card match levels",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "levels-dir", Value: "levels", Usage: "Directory containing level_<id>.json files", Sources: cli.EnvVars("CARDMATCH_LEVELS_DIR")},
			&cli.IntFlag{Name: "level", Value: -1, Usage: "Analyze a single level id"},
			&cli.BoolFlag{Name: "solve", Usage: "Search for a clearing sequence"},
			&cli.IntFlag{Name: "max-nodes", Value: solver.DefaultMaxNodes, Usage: "Search limit per level"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("levels-dir"))
			if err != nil {
				return err
			}

			var levels []*engine.LevelConfig
			if id := int(cmd.Int("level")); id >= 0 {
				level, err := manager.LoadLevel(id)
				if err != nil {
					return err
				}
				levels = append(levels, level)
			} else {
				infos, err := manager.ListLevels()
				if err != nil {
					return err
				}
				for _, info := range infos {
					level, err := manager.LoadLevel(info.LevelID)
					if err != nil {
						return err
					}
					levels = append(levels, level)
				}
			}

			var results []*LevelAnalysis
			for _, level := range levels {
				analysis, err := analyzeLevel(ctx, level, cmd.Bool("solve"), int(cmd.Int("max-nodes")))
				if err != nil {
					return fmt.Errorf("level %d: %w", level.LevelID, err)
				}
				results = append(results, analysis)
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, analysis := range results {
				printAnalysis(os.Stdout, analysis)
			}
			return nil
		},
	}
}

// analyzeLevel builds the static report and, when asked, a solution
func analyzeLevel(ctx context.Context, level *engine.LevelConfig, solve bool, maxNodes int) (*LevelAnalysis, error) {
	report, err := solver.Analyze(level)
	if err != nil {
		return nil, err
	}
	analysis := &LevelAnalysis{Report: report}
	if !solve {
		return analysis, nil
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}
	result, err := solver.Solve(ctx, eng, solver.Options{MaxNodes: maxNodes})
	if err != nil {
		return nil, err
	}
	analysis.Solution = result

	if result.Solved {
		// Replay the moves on the engine to describe each step
		for _, id := range result.Moves {
			move, err := eng.Click(id)
			if err != nil {
				return nil, fmt.Errorf("replaying move %d: %w", id, err)
			}
			analysis.Steps = append(analysis.Steps, describeMove(eng, move.Record))
		}
	}
	return analysis, nil
}

func describeMove(eng *engine.GameEngine, rec engine.MoveRecord) string {
	moved, _ := eng.FindCard(rec.MovedCardID)
	consumed, _ := eng.FindCard(rec.ConsumedStackTopID)
	if rec.Kind == engine.MoveStackSupplement {
		return fmt.Sprintf("supplement %s of %s (#%d) over %s (#%d)",
			moved.Face, moved.Suit, moved.ID, consumed.Face, consumed.ID)
	}
	return fmt.Sprintf("match %s of %s (#%d) onto %s (#%d)",
		moved.Face, moved.Suit, moved.ID, consumed.Face, consumed.ID)
}

func printAnalysis(w io.Writer, analysis *LevelAnalysis) {
	r := analysis.Report
	fmt.Fprintf(w, "\n=== Level %d ===\n", r.LevelID)
	fmt.Fprintf(w, "Playfield cards: %d\n", r.PlayfieldCards)
	fmt.Fprintf(w, "Stack cards: %d\n", r.StackCards)

	var faces []string
	for f := engine.Ace; f <= engine.King; f++ {
		if n := r.Faces[f]; n > 0 {
			faces = append(faces, fmt.Sprintf("%s x%d", f, n))
		}
	}
	fmt.Fprintf(w, "Faces: %s\n", strings.Join(faces, ", "))
	fmt.Fprintf(w, "Opening moves: %v\n", r.InitialMoves)

	if len(r.OrphanCards) > 0 {
		fmt.Fprintf(w, "Never matchable: %v\n", r.OrphanCards)
	}

	s := analysis.Solution
	if s == nil {
		return
	}
	switch {
	case s.Solved:
		fmt.Fprintf(w, "Solution (%d clicks, %d positions searched):\n", len(s.Moves), s.Nodes)
		for i, step := range analysis.Steps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	case s.Exhausted:
		fmt.Fprintf(w, "Search gave up after %d positions\n", s.Nodes)
	default:
		fmt.Fprintf(w, "Unsolvable (%d positions searched)\n", s.Nodes)
	}
}
