// Package engine provides the core game logic for the Card Match Game.
//
// The engine package implements the game rules including:
//   - The card and zone data model (Playfield and Stack)
//   - Move validation and application
//   - Exact undo of any committed move
//   - Level configuration parsing and board generation
//
// Core Types:
//
// Board is the single store of a game's cards; it owns each card's zone,
// stack index and position. GameEngine implements the Engine interface on top
// of a Board and an UndoHistory. LevelConfig describes a level file.
//
// Usage:
//
//	level := engine.ParseLevelConfig(data)
//
//	gameEngine, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Click a card
//	result, err := gameEngine.Click(3)
//	if engine.IsRejection(err) {
//		// no state change
//	}
//
//	// Take it back
//	_, err = gameEngine.Undo()
//
// Game Rules:
//
// The last card of the Stack is the active card. A Playfield card whose rank
// differs from the active card's by exactly one replaces it on the Stack;
// the old active card leaves play. Ace and King are not adjacent and suits
// never matter. Clicking any other Stack card (when the Stack holds at least
// two) discards the active card and promotes the clicked one. Every committed
// move records the full Stack order first, so undo rebuilds the Stack from
// that snapshot.
package engine
