package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validLevel = `{
  "levelId": 1,
  "Playfield": [
    {"CardFace": 7, "CardSuit": 0, "Position": {"x": 100, "y": 1200}},
    {"CardFace": 2, "CardSuit": 2, "Position": {"x": 250, "y": 1200}}
  ],
  "Stack": [
    {"CardFace": 3, "CardSuit": 3, "Position": {"x": 200, "y": 300}},
    {"CardFace": 8, "CardSuit": 1, "Position": {"x": 700, "y": 300}}
  ]
}`

func writeLevel(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	return path
}

func hasError(result ValidationResult, substr string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

var solveOpts = Options{Solve: true, MaxNodes: 10000}

func TestValidateLevel_Valid(t *testing.T) {
	path := writeLevel(t, "level_1.json", validLevel)

	result := validateLevel(context.Background(), path, solveOpts)
	if !result.Valid {
		t.Fatalf("Expected valid level, got errors: %v", result.Errors)
	}
	if result.File != "level_1.json" {
		t.Errorf("Expected file name level_1.json, got %s", result.File)
	}

	found := false
	for _, line := range result.Info {
		if strings.HasPrefix(line, "✓ Solvable in 3 clicks") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a solvable line in %v", result.Info)
	}
}

func TestValidateLevel_SkipSolve(t *testing.T) {
	path := writeLevel(t, "level_1.json", validLevel)

	result := validateLevel(context.Background(), path, Options{})
	if !result.Valid {
		t.Fatalf("Expected valid level, got errors: %v", result.Errors)
	}
	for _, line := range result.Info {
		if strings.Contains(line, "Solvable") {
			t.Errorf("Did not expect a search, got %q", line)
		}
	}
}

func TestValidateLevel_InvalidJSON(t *testing.T) {
	path := writeLevel(t, "level_1.json", `{"levelId": 1, invalid json}`)

	result := validateLevel(context.Background(), path, solveOpts)
	if result.Valid {
		t.Error("Expected invalid result for malformed JSON")
	}
	if !hasError(result, "Invalid JSON") {
		t.Errorf("Expected JSON error, got %v", result.Errors)
	}
}

func TestValidateLevel_MissingFile(t *testing.T) {
	result := validateLevel(context.Background(), filepath.Join(t.TempDir(), "level_9.json"), solveOpts)
	if result.Valid || !hasError(result, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidateLevel_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "id mismatch",
			file:    "level_2.json",
			content: validLevel,
			want:    "does not match file name id 2",
		},
		{
			name:    "bad file name",
			file:    "first.json",
			content: validLevel,
			want:    "File name must look like",
		},
		{
			name:    "missing level id",
			file:    "level_1.json",
			content: `{"Playfield": [], "Stack": [{"CardFace": 3, "CardSuit": 0, "Position": {"x": 0, "y": 0}}]}`,
			want:    "Missing or non-integer levelId",
		},
		{
			name:    "missing stack",
			file:    "level_1.json",
			content: `{"levelId": 1, "Playfield": []}`,
			want:    "Missing Stack array",
		},
		{
			name:    "string face",
			file:    "level_1.json",
			content: `{"levelId": 1, "Playfield": [{"CardFace": "7", "CardSuit": 0, "Position": {"x": 0, "y": 0}}], "Stack": []}`,
			want:    "Playfield[0]: missing or non-integer CardFace",
		},
		{
			name:    "face out of range",
			file:    "level_1.json",
			content: `{"levelId": 1, "Playfield": [], "Stack": [{"CardFace": 14, "CardSuit": 0, "Position": {"x": 0, "y": 0}}]}`,
			want:    "Stack[0]: CardFace 14",
		},
		{
			name:    "suit out of range",
			file:    "level_1.json",
			content: `{"levelId": 1, "Playfield": [], "Stack": [{"CardFace": 4, "CardSuit": 7, "Position": {"x": 0, "y": 0}}]}`,
			want:    "Stack[0]: CardSuit 7",
		},
		{
			name:    "missing position",
			file:    "level_1.json",
			content: `{"levelId": 1, "Playfield": [], "Stack": [{"CardFace": 4, "CardSuit": 1, "Position": {"x": 3}}]}`,
			want:    "Stack[0]: missing or non-numeric Position.y",
		},
		{
			name:    "no cards",
			file:    "level_1.json",
			content: `{"levelId": 1, "Playfield": [], "Stack": []}`,
			want:    "no cards",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLevel(t, tt.file, tt.content)
			result := validateLevel(context.Background(), path, solveOpts)
			if result.Valid {
				t.Fatal("Expected invalid result")
			}
			if !hasError(result, tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateLevel_OrphanCard(t *testing.T) {
	content := `{
  "levelId": 4,
  "Playfield": [
    {"CardFace": 13, "CardSuit": 0, "Position": {"x": 100, "y": 1200}},
    {"CardFace": 4, "CardSuit": 0, "Position": {"x": 250, "y": 1200}}
  ],
  "Stack": [
    {"CardFace": 5, "CardSuit": 2, "Position": {"x": 700, "y": 300}}
  ]
}`
	path := writeLevel(t, "level_4.json", content)

	result := validateLevel(context.Background(), path, solveOpts)
	if result.Valid {
		t.Fatal("Expected invalid result for an unmatchable card")
	}
	if !hasError(result, "Playfield card 0 (KING)") {
		t.Errorf("Expected orphan error, got %v", result.Errors)
	}
}

func TestValidateLevel_EmptyStack(t *testing.T) {
	content := `{"levelId": 1, "Playfield": [{"CardFace": 4, "CardSuit": 0, "Position": {"x": 0, "y": 0}}, {"CardFace": 5, "CardSuit": 0, "Position": {"x": 0, "y": 0}}], "Stack": []}`
	path := writeLevel(t, "level_1.json", content)

	result := validateLevel(context.Background(), path, solveOpts)
	if result.Valid || !hasError(result, "Stack is empty") {
		t.Errorf("Expected empty stack error, got %v", result.Errors)
	}
}

func TestValidateLevel_Unsolvable(t *testing.T) {
	// Both playfield cards need the single THREE; playing either buries it.
	content := `{
  "levelId": 5,
  "Playfield": [
    {"CardFace": 2, "CardSuit": 0, "Position": {"x": 100, "y": 1200}},
    {"CardFace": 4, "CardSuit": 0, "Position": {"x": 250, "y": 1200}}
  ],
  "Stack": [
    {"CardFace": 3, "CardSuit": 2, "Position": {"x": 700, "y": 300}}
  ]
}`
	path := writeLevel(t, "level_5.json", content)

	result := validateLevel(context.Background(), path, solveOpts)
	if result.Valid {
		t.Fatal("Expected invalid result for an unsolvable level")
	}
	if !hasError(result, "Level cannot be cleared") {
		t.Errorf("Expected unsolvable error, got %v", result.Errors)
	}
}

func TestLevelFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"level_1.json", "level_2.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := levelFiles(dir, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 level files, got %v", files)
	}

	files, err = levelFiles(dir, []string{"a.json"})
	if err != nil || len(files) != 1 || files[0] != "a.json" {
		t.Errorf("Expected explicit files to win, got %v, %v", files, err)
	}

	if _, err := levelFiles(t.TempDir(), nil); err == nil {
		t.Error("Expected error for an empty directory")
	}
}

func TestAppExitsWithErrorOnInvalidLevel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "level_1.json"), []byte(`{"levelId": 1}`), 0644); err != nil {
		t.Fatal(err)
	}

	err := newApp().Run(context.Background(), []string{"validate", "--levels-dir", dir})
	if err == nil {
		t.Error("Expected an error for an invalid level")
	}

	if err := os.WriteFile(filepath.Join(dir, "level_1.json"), []byte(validLevel), 0644); err != nil {
		t.Fatal(err)
	}
	if err := newApp().Run(context.Background(), []string{"validate", "--levels-dir", dir}); err != nil {
		t.Errorf("Expected valid run, got %v", err)
	}
}
