package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleResults() *RoundResults {
	return &RoundResults{
		GameState:      PhaseResults,
		Winner:         &Player{ID: "conn-a", Name: "Alice", Score: 2},
		WinningCaption: "quack",
		AllScores: []ScoreEntry{
			{Name: "Bob", Score: 1},
			{Name: "Alice", Score: 2},
		},
		VoteCounts: []VoteCount{
			{PlayerName: "Alice", Caption: "quack", Votes: 2},
			{PlayerName: "Bob", Caption: "honk", Votes: 1},
		},
	}
}

func TestExportRoundWritesHeaderAndReveal(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results", "game.txt")

	if err := ExportRound(file, "ABCD", 1, sampleResults()); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Caption Contest Results - Room ABCD") {
		t.Errorf("round 1 export should carry the header:\n%s", out)
	}
	if !strings.Contains(out, "Round 1") {
		t.Errorf("missing round marker:\n%s", out)
	}
	if !strings.Contains(out, `Round winner: Alice with "quack"`) {
		t.Errorf("missing winner line:\n%s", out)
	}
	if !strings.Contains(out, `- Bob: "honk", 1 vote(s)`) {
		t.Errorf("missing vote breakdown:\n%s", out)
	}

	// scores are listed highest first
	aliceIdx := strings.Index(out, "- Alice: 2 points")
	bobIdx := strings.Index(out, "- Bob: 1 points")
	if aliceIdx == -1 || bobIdx == -1 || aliceIdx > bobIdx {
		t.Errorf("scores should be sorted descending:\n%s", out)
	}
}

func TestExportRoundAppendsLaterRounds(t *testing.T) {
	file := filepath.Join(t.TempDir(), "game.txt")

	if err := ExportRound(file, "ABCD", 1, sampleResults()); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if err := ExportRound(file, "ABCD", 2, sampleResults()); err != nil {
		t.Fatalf("round 2: %v", err)
	}

	data, _ := os.ReadFile(file)
	out := string(data)

	if strings.Count(out, "Caption Contest Results") != 1 {
		t.Errorf("header belongs to round 1 only:\n%s", out)
	}
	if !strings.Contains(out, "Round 1") || !strings.Contains(out, "Round 2") {
		t.Errorf("both rounds should be present:\n%s", out)
	}
}

func TestExportRoundWithoutWinner(t *testing.T) {
	file := filepath.Join(t.TempDir(), "game.txt")
	results := sampleResults()
	results.Winner = nil
	results.VoteCounts = nil

	if err := ExportRound(file, "ABCD", 1, results); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, _ := os.ReadFile(file)
	if strings.Contains(string(data), "Round winner") {
		t.Errorf("no winner line expected:\n%s", data)
	}
}
