package engine

// LegalMoves returns the ids of every card whose click would commit,
// playfield cards first and then stack cards bottom to top
func LegalMoves(b *Board) []int {
	var moves []int
	for _, id := range b.PlayfieldIDs() {
		if _, err := PlanMove(b, id); err == nil {
			moves = append(moves, id)
		}
	}
	for _, id := range b.StackOrder() {
		if _, err := PlanMove(b, id); err == nil {
			moves = append(moves, id)
		}
	}
	return moves
}

// HasLegalMove reports whether any click would commit
func HasLegalMove(b *Board) bool {
	return len(LegalMoves(b)) > 0
}

// CountFaces counts the cards still in play per face
func CountFaces(b *Board) map[Face]int {
	counts := make(map[Face]int)
	for _, card := range b.Playfield() {
		counts[card.Face]++
	}
	for _, card := range b.Stack() {
		counts[card.Face]++
	}
	return counts
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
