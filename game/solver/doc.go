// Package solver searches a level for a click sequence that clears the
// playfield and summarizes levels without playing them.
//
// Solve drives a live engine with Click and Undo, so the moves it finds are
// exactly the moves a player could send. The engine is left as it was found.
//
//	eng, _ := engine.NewEngine(level)
//	result, err := solver.Solve(ctx, eng, solver.Options{MaxNodes: 50000})
//	if err == nil && result.Solved {
//		for _, id := range result.Moves {
//			eng.Click(id)
//		}
//	}
package solver
