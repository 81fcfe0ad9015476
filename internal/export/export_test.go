package export

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heistchat/internal/chat"
	"heistchat/internal/progress"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is the plan?", "what-is-the-plan"},
		{"  spaced   out  ", "spaced-out"},
		{"números & símbolos!!", "n-meros-s-mbolos"},
		{"", "chat"},
		{"???", "chat"},
		{"already-clean", "already-clean"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestWriteTranscript(t *testing.T) {
	dir := t.TempDir()
	entry := chat.HistoryEntry{
		ID:       "1700000000000",
		Title:    "Vault plan",
		Persona:  "professor",
		Language: "en",
		Messages: []chat.Message{
			{ID: "m1", Text: "how do we get in?", IsUser: true, Timestamp: time.Now()},
			{ID: "m2", Text: "through the front door", Persona: "professor"},
		},
	}

	path, err := WriteTranscript(dir, entry)
	require.NoError(t, err)
	assert.Contains(t, path, "vault-plan-1700000000000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var tr Transcript
	require.NoError(t, json.Unmarshal(data, &tr))
	assert.Equal(t, entry.ID, tr.ID)
	assert.Len(t, tr.Messages, 2)
	assert.False(t, tr.ExportedAt.IsZero())
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	p := progress.UserProgress{XP: 250, Level: 2, Streak: 3}
	chats := []chat.HistoryEntry{{ID: "a"}, {ID: "b"}}

	path, err := WriteSnapshot(dir, p, chats)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 250, snap.Progress.XP)
	assert.Len(t, snap.Chats, 2)
}
