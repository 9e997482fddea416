package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/card-match-game/game/engine"
)

func testLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		LevelID: 1,
		Playfield: []engine.CardConfig{
			{Face: engine.Seven, Suit: engine.Clubs, Position: engine.Position{X: 100, Y: 1200}},
			{Face: engine.Two, Suit: engine.Hearts, Position: engine.Position{X: 250, Y: 1200}},
		},
		Stack: []engine.CardConfig{
			{Face: engine.Three, Suit: engine.Spades, Position: engine.Position{X: 200, Y: 300}},
			{Face: engine.Eight, Suit: engine.Diamonds, Position: engine.Position{X: 700, Y: 300}},
		},
	}
}

func TestAnalyzeLevelWithoutSolve(t *testing.T) {
	analysis, err := analyzeLevel(context.Background(), testLevel(), false, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if analysis.Solution != nil {
		t.Error("Expected no solution without --solve")
	}
	if analysis.Report.PlayfieldCards != 2 || analysis.Report.StackCards != 2 {
		t.Errorf("Unexpected counts: %+v", analysis.Report)
	}
}

func TestAnalyzeLevelWithSolve(t *testing.T) {
	analysis, err := analyzeLevel(context.Background(), testLevel(), true, 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if analysis.Solution == nil || !analysis.Solution.Solved {
		t.Fatalf("Expected a solution, got %+v", analysis.Solution)
	}

	want := []string{
		"match SEVEN of CLUBS (#0) onto EIGHT (#3)",
		"supplement THREE of SPADES (#2) over SEVEN (#0)",
		"match TWO of HEARTS (#1) onto THREE (#2)",
	}
	if len(analysis.Steps) != len(want) {
		t.Fatalf("Expected %d steps, got %v", len(want), analysis.Steps)
	}
	for i := range want {
		if analysis.Steps[i] != want[i] {
			t.Errorf("Step %d: expected %q, got %q", i+1, want[i], analysis.Steps[i])
		}
	}
}

func TestAnalyzeLevelInvalid(t *testing.T) {
	if _, err := analyzeLevel(context.Background(), &engine.LevelConfig{LevelID: 1}, false, 0); err == nil {
		t.Error("Expected error for a level with no cards")
	}
}

func TestPrintAnalysis(t *testing.T) {
	analysis, err := analyzeLevel(context.Background(), testLevel(), true, 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var buf bytes.Buffer
	printAnalysis(&buf, analysis)
	out := buf.String()

	for _, want := range []string{
		"=== Level 1 ===",
		"Playfield cards: 2",
		"Faces: TWO x1, THREE x1, SEVEN x1, EIGHT x1",
		"Opening moves: [0 2]",
		"Solution (3 clicks",
		"  3. match TWO of HEARTS (#1) onto THREE (#2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintAnalysisUnsolvable(t *testing.T) {
	level := &engine.LevelConfig{
		LevelID:   2,
		Playfield: []engine.CardConfig{{Face: engine.King, Suit: engine.Clubs}},
		Stack:     []engine.CardConfig{{Face: engine.Two, Suit: engine.Clubs}},
	}
	analysis, err := analyzeLevel(context.Background(), level, true, 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var buf bytes.Buffer
	printAnalysis(&buf, analysis)
	out := buf.String()

	if !strings.Contains(out, "Never matchable: [0]") {
		t.Errorf("Expected orphan line, got:\n%s", out)
	}
	if !strings.Contains(out, "Unsolvable") {
		t.Errorf("Expected unsolvable line, got:\n%s", out)
	}
}

func TestAppRun(t *testing.T) {
	dir := t.TempDir()
	content := `{"levelId": 1, "Playfield": [{"CardFace": 2, "CardSuit": 0, "Position": {"x": 0, "y": 0}}], "Stack": [{"CardFace": 3, "CardSuit": 1, "Position": {"x": 0, "y": 0}}]}`
	if err := os.WriteFile(filepath.Join(dir, "level_1.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := newApp().Run(context.Background(), []string{"analyze", "--levels-dir", dir, "--solve"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := newApp().Run(context.Background(), []string{"analyze", "--levels-dir", dir, "--level", "7"}); err == nil {
		t.Error("Expected error for a missing level")
	}
	if err := newApp().Run(context.Background(), []string{"analyze", "--levels-dir", filepath.Join(dir, "missing")}); err == nil {
		t.Error("Expected error for a missing directory")
	}
}
