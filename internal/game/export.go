package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExportRound appends a round's reveal to a plain-text results file. Best
// effort only; gameplay never depends on it succeeding.
func ExportRound(filename, code string, round int, results *RoundResults) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder

	if round == 1 {
		sb.WriteString(fmt.Sprintf("Caption Contest Results - Room %s\n", code))
		sb.WriteString(fmt.Sprintf("Started: %s\n", time.Now().Format("2006-01-02 15:04:05")))
		sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("Round %d\n", round))
	sb.WriteString(strings.Repeat("-", 40) + "\n")

	if len(results.VoteCounts) > 0 {
		sb.WriteString("Votes:\n")
		for _, vc := range results.VoteCounts {
			sb.WriteString(fmt.Sprintf("- %s: %q, %d vote(s)\n", vc.PlayerName, vc.Caption, vc.Votes))
		}
	}

	if results.Winner != nil {
		sb.WriteString(fmt.Sprintf("\nRound winner: %s with %q\n", results.Winner.Name, results.WinningCaption))
	}

	if len(results.AllScores) > 0 {
		scores := make([]ScoreEntry, len(results.AllScores))
		copy(scores, results.AllScores)
		sort.Slice(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
		sb.WriteString("\nScores after this round:\n")
		for _, s := range scores {
			sb.WriteString(fmt.Sprintf("- %s: %d points\n", s.Name, s.Score))
		}
	}

	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
