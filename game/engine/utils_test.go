package engine

import "testing"

func TestHasLegalMove(t *testing.T) {
	if !HasLegalMove(Generate(createTestLevel())) {
		t.Error("Expected a legal move on the test level")
	}

	// A lone playfield card with no stack can never be clicked
	b := NewBoard()
	if err := b.Insert(Card{ID: 0, Face: Four, Suit: Clubs}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddToPlayfield(0); err != nil {
		t.Fatal(err)
	}
	if HasLegalMove(b) {
		t.Error("Expected no legal move without a stack")
	}
}

func TestCountFaces(t *testing.T) {
	eng := newTestEngine(t)
	if _, err := eng.Click(0); err != nil {
		t.Fatalf("Click failed: %v", err)
	}

	counts := CountFaces(eng.Board())
	// EIGHT was consumed by the SEVEN
	if counts[Eight] != 0 {
		t.Errorf("Expected consumed EIGHT not to be counted, got %d", counts[Eight])
	}
	for _, f := range []Face{Seven, Nine, Five, Three, Six} {
		if counts[f] != 1 {
			t.Errorf("Expected one %s, got %d", f, counts[f])
		}
	}
}
