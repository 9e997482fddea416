// Command solver finds a click sequence that clears a level. Offline it reads
// the level from a levels directory; with --url it creates a session on a
// running server, solves that session's level and plays the moves through
// the REST API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/card-match-game/game/config"
	"github.com/wricardo/card-match-game/game/engine"
	"github.com/wricardo/card-match-game/game/solver"
	"github.com/wricardo/card-match-game/settings"
)

// ErrUnsolvable is returned when the search proves a level cannot be cleared
var ErrUnsolvable = errors.New("level cannot be cleared")

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "solver: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "solver",
		Usage: "Solve a card match level offline or against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "levels-dir", Value: "levels", Usage: "Directory containing level_<id>.json files", Sources: cli.EnvVars("CARDMATCH_LEVELS_DIR")},
			&cli.IntFlag{Name: "level", Value: -1, Usage: "Level id (default level when negative)"},
			&cli.StringFlag{Name: "url", Usage: "Play through the REST API of the server at this URL"},
			&cli.IntFlag{Name: "max-nodes", Value: solver.DefaultMaxNodes, Usage: "Search limit"},
			&cli.BoolFlag{Name: "debug", Usage: "Log every move"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logLevel := "info"
			if cmd.Bool("debug") {
				logLevel = "debug"
			}
			logger, err := settings.NewLogger(logLevel, "console")
			if err != nil {
				return err
			}
			defer logger.Sync()

			levelID := int(cmd.Int("level"))
			maxNodes := int(cmd.Int("max-nodes"))

			if url := cmd.String("url"); url != "" {
				_, err := playRemote(ctx, NewClient(url), levelID, maxNodes, logger)
				return err
			}

			result, err := solveOffline(ctx, cmd.String("levels-dir"), levelID, maxNodes, logger)
			if err != nil {
				return err
			}
			fmt.Println(formatMoves(result.Moves))
			return nil
		},
	}
}

// solveOffline loads a level from disk and searches it
func solveOffline(ctx context.Context, dir string, levelID, maxNodes int, logger *zap.Logger) (*solver.Result, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}

	level := manager.GetDefault()
	if levelID >= 0 {
		if level, err = manager.LoadLevel(levelID); err != nil {
			return nil, err
		}
	}

	return search(ctx, level, maxNodes, logger)
}

// playRemote creates a session, solves its level locally and clicks the
// solution through the API. It returns the number of clicks sent.
func playRemote(ctx context.Context, client *Client, levelID, maxNodes int, logger *zap.Logger) (int, error) {
	info, err := client.CreateSession(ctx, levelID)
	if err != nil {
		return 0, err
	}
	logger.Info("session created", zap.String("session_id", info.ID), zap.Int("level_id", info.LevelID))

	level, err := client.GetLevel(ctx, info.LevelID)
	if err != nil {
		return 0, err
	}

	result, err := search(ctx, level, maxNodes, logger)
	if err != nil {
		return 0, err
	}

	for i, id := range result.Moves {
		click, err := client.Click(ctx, id)
		if err != nil {
			return i, err
		}
		if !click.Success {
			return i, fmt.Errorf("server rejected click %d on card %d: %s", i+1, id, click.Reason)
		}
		logger.Debug("click committed", zap.Int("step", i+1), zap.Int("card_id", id), zap.String("status", click.Board.Status.String()))
	}

	board, err := client.GetBoard(ctx)
	if err != nil {
		return len(result.Moves), err
	}
	if board.Status != engine.StatusGameOver {
		return len(result.Moves), fmt.Errorf("board not cleared after %d clicks: status %s", len(result.Moves), board.Status)
	}

	logger.Info("level cleared", zap.String("session_id", client.SessionID()), zap.Int("clicks", len(result.Moves)))
	return len(result.Moves), nil
}

func search(ctx context.Context, level *engine.LevelConfig, maxNodes int, logger *zap.Logger) (*solver.Result, error) {
	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}

	result, err := solver.Solve(ctx, eng, solver.Options{MaxNodes: maxNodes})
	if err != nil {
		return nil, err
	}

	logger.Info("search finished",
		zap.Int("level_id", level.LevelID),
		zap.Bool("solved", result.Solved),
		zap.Int("nodes", result.Nodes),
		zap.Int("moves", len(result.Moves)))

	switch {
	case result.Solved:
		return result, nil
	case result.Exhausted:
		return nil, fmt.Errorf("search gave up after %d positions", result.Nodes)
	default:
		return nil, fmt.Errorf("level %d: %w", level.LevelID, ErrUnsolvable)
	}
}

func formatMoves(moves []int) string {
	if len(moves) == 0 {
		return "already cleared"
	}
	parts := make([]string, len(moves))
	for i, id := range moves {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
