// Command validate checks level files before they are served. For every
// level_<id>.json in the levels directory (or every file given as an
// argument) it checks:
//   - JSON structure and the required card fields
//   - That the file name carries a level id and agrees with levelId
//   - The rules the server enforces when loading a level
//   - Playfield cards that no other card could ever match
//   - Optionally, that a search finds a sequence of clicks clearing the level
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/card-match-game/game/config"
	"github.com/wricardo/card-match-game/game/engine"
	"github.com/wricardo/card-match-game/game/solver"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the level invalid; Info lines are printed for valid levels.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// Options controls the optional solvability search
type Options struct {
	Solve    bool
	MaxNodes int
}

// validateLevel loads and validates a single level file
func validateLevel(ctx context.Context, filePath string, opts Options) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
		Info:   []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	if !json.Valid(data) {
		result.fail("Invalid JSON")
		return result
	}
	if _, dataType, _, err := jsonparser.Get(data); err != nil || dataType != jsonparser.Object {
		result.fail("Invalid JSON: expected a level object")
		return result
	}

	fileID, ok := config.ParseLevelFilename(result.File)
	if !ok {
		result.fail("File name must look like level_<id>.json")
	}

	if id, err := jsonparser.GetInt(data, "levelId"); err != nil {
		result.fail("Missing or non-integer levelId")
	} else if ok && int(id) != fileID {
		result.fail("levelId %d does not match file name id %d", id, fileID)
	}

	checkCards(data, "Playfield", &result)
	checkCards(data, "Stack", &result)
	if !result.Valid {
		return result
	}

	level := engine.ParseLevelConfig(data)
	summary, err := solver.Analyze(level)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	board := engine.Generate(level)
	for _, id := range summary.OrphanCards {
		card, _ := board.FindByID(id)
		result.fail("Playfield card %d (%s) has no card one rank away and can never be matched", id, card.Face)
	}
	if summary.PlayfieldCards > 0 && summary.StackCards == 0 {
		result.fail("Stack is empty; no playfield card can be matched")
	}
	if !result.Valid {
		return result
	}

	result.info("✓ Level: %d", level.LevelID)
	result.info("✓ Playfield cards: %d", summary.PlayfieldCards)
	result.info("✓ Stack cards: %d", summary.StackCards)
	result.info("✓ Opening moves: %d", len(summary.InitialMoves))

	if !opts.Solve {
		return result
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		result.fail("%v", err)
		return result
	}
	solution, err := solver.Solve(ctx, eng, solver.Options{MaxNodes: opts.MaxNodes})
	switch {
	case err != nil:
		result.fail("Search failed: %v", err)
	case solution.Solved:
		result.info("✓ Solvable in %d clicks (%d positions searched)", len(solution.Moves), solution.Nodes)
	case solution.Exhausted:
		result.info("⚠ Search gave up after %d positions; solvability unknown", solution.Nodes)
	default:
		result.fail("Level cannot be cleared: no click sequence empties the playfield")
	}

	return result
}

// checkCards verifies that every card in a zone carries a face, a suit and a
// position of the right JSON types. The server would silently default them.
func checkCards(data []byte, zone string, result *ValidationResult) {
	value, dataType, _, err := jsonparser.Get(data, zone)
	if err != nil {
		result.fail("Missing %s array", zone)
		return
	}
	if dataType != jsonparser.Array {
		result.fail("%s must be an array", zone)
		return
	}

	i := 0
	_, _ = jsonparser.ArrayEach(value, func(card []byte, dataType jsonparser.ValueType, _ int, _ error) {
		defer func() { i++ }()
		if dataType != jsonparser.Object {
			result.fail("%s[%d] must be an object", zone, i)
			return
		}
		face, err := jsonparser.GetInt(card, "CardFace")
		if err != nil {
			result.fail("%s[%d]: missing or non-integer CardFace", zone, i)
		} else if !engine.Face(face).Valid() {
			result.fail("%s[%d]: CardFace %d is not between %d and %d", zone, i, face, engine.Ace, engine.King)
		}
		suit, err := jsonparser.GetInt(card, "CardSuit")
		if err != nil {
			result.fail("%s[%d]: missing or non-integer CardSuit", zone, i)
		} else if !engine.Suit(suit).Valid() {
			result.fail("%s[%d]: CardSuit %d is not between %d and %d", zone, i, suit, engine.Clubs, engine.Spades)
		}
		for _, axis := range []string{"x", "y"} {
			if _, err := jsonparser.GetFloat(card, "Position", axis); err != nil {
				result.fail("%s[%d]: missing or non-numeric Position.%s", zone, i, axis)
			}
		}
	})
}

// levelFiles returns the files named on the command line, or every level
// file in dir when none are given
func levelFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "level_*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding level files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no level files found in %s", dir)
	}
	return files, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate card match level files",
		ArgsUsage: "[level files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "levels-dir", Value: "levels", Usage: "Directory containing level_<id>.json files", Sources: cli.EnvVars("CARDMATCH_LEVELS_DIR")},
			&cli.BoolFlag{Name: "solve", Value: true, Usage: "Search for a clearing sequence"},
			&cli.IntFlag{Name: "max-nodes", Value: 200000, Usage: "Search limit per level"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := levelFiles(cmd.String("levels-dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}

			opts := Options{Solve: cmd.Bool("solve"), MaxNodes: int(cmd.Int("max-nodes"))}
			if !report(ctx, files, opts) {
				return errors.New("some levels have errors")
			}
			return nil
		},
	}
}

// report validates every file and prints the results. It returns false if
// any level is invalid.
func report(ctx context.Context, files []string, opts Options) bool {
	allValid := true
	for _, file := range files {
		result := validateLevel(ctx, file, opts)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
	}
	return allValid
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}
}
