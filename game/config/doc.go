// Package config provides level file management for the Card Match Game.
//
// The config package handles:
//   - Loading levels from levels/level_<id>.json
//   - Level validation before play
//   - Default level selection
//   - Level discovery and listing
//
// Level Format:
//
// A level file is a JSON object with a numeric levelId and two arrays,
// Playfield and Stack, whose entries carry CardFace (1-13), CardSuit (0-3)
// and a Position {x, y}. Parsing is lenient: missing or ill-typed fields fall
// back to defaults and the result is then validated.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific level
//	level, err := manager.LoadLevel(1)
//
//	// Lowest-numbered playable level, or a built-in one
//	def := manager.GetDefault()
//
//	// List available levels
//	levels, err := manager.ListLevels()
package config
