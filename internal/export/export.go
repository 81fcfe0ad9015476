// Package export writes conversation transcripts and progression
// snapshots to JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"heistchat/internal/chat"
	"heistchat/internal/progress"
)

// Transcript is the exported form of one conversation.
type Transcript struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Persona    string         `json:"persona"`
	Language   string         `json:"language"`
	ExportedAt time.Time      `json:"exportedAt"`
	Messages   []chat.Message `json:"messages"`
}

// Snapshot bundles everything the app persists, suitable for backups.
type Snapshot struct {
	ExportedAt time.Time             `json:"exportedAt"`
	Progress   progress.UserProgress `json:"progress"`
	Chats      []chat.HistoryEntry   `json:"chats"`
}

// SanitizeFilename strips characters that are unsafe in file names and
// collapses whitespace to single dashes.
func SanitizeFilename(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "chat"
	}
	const maxLen = 60
	if len(name) > maxLen {
		name = strings.Trim(name[:maxLen], "-")
	}
	return name
}

// WriteTranscript writes one conversation to dir and returns the path.
func WriteTranscript(dir string, entry chat.HistoryEntry) (string, error) {
	tr := Transcript{
		ID:         entry.ID,
		Title:      entry.Title,
		Persona:    entry.Persona,
		Language:   entry.Language,
		ExportedAt: time.Now(),
		Messages:   entry.Messages,
	}
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", SanitizeFilename(entry.Title), entry.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}

// WriteSnapshot writes the full backup to dir and returns the path.
func WriteSnapshot(dir string, p progress.UserProgress, chats []chat.HistoryEntry) (string, error) {
	snap := Snapshot{
		ExportedAt: time.Now(),
		Progress:   p,
		Chats:      chats,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("heistchat-backup-%s.json", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}
