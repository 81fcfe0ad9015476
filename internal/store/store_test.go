package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "heistchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(KeySelectedPersona, "tokyo"))

	got, ok, err := s.Get(KeySelectedPersona)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tokyo", got)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get("nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutReplaces(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(KeySelectedTheme, "classic"))
	require.NoError(t, s.Put(KeySelectedTheme, "gold"))

	got, ok, err := s.Get(KeySelectedTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gold", got)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(KeyTheme, "dark"))
	require.NoError(t, s.Delete(KeyTheme))

	_, ok, err := s.Get(KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete("never-existed"))
}

func TestJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)

	type progress struct {
		XP    int `json:"xp"`
		Level int `json:"level"`
	}

	require.NoError(t, s.PutJSON(KeyUserProgress, progress{XP: 250, Level: 2}))

	var got progress
	ok, err := s.GetJSON(KeyUserProgress, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, progress{XP: 250, Level: 2}, got)
}

func TestJSONCorruptValueDefaultsToEmpty(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(KeyChatHistory, "{not valid json"))

	var got []string
	ok, err := s.GetJSON(KeyChatHistory, &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestKeys(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(KeySelectedLanguage, "es"))
	require.NoError(t, s.Put(KeySelectedPersona, "berlin"))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{KeySelectedLanguage, KeySelectedPersona}, keys)
}
