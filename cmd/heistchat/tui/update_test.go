package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heistchat/internal/chat"
	"heistchat/internal/config"
	"heistchat/internal/generation"
	"heistchat/internal/progress"
	"heistchat/internal/store"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	return "echo: " + req.Message, nil
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	h, err := chat.LoadHistory(s)
	require.NoError(t, err)
	tracker := progress.NewTracker(progress.DefaultProgress(), nil)
	ctrl := chat.NewController(h, tracker, echoGenerator{}, s)

	cfg := config.DefaultConfig()
	m := New(ctrl, cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestResizeMakesReady(t *testing.T) {
	m := newTestModel(t)
	assert.True(t, m.ready)
	assert.NotEmpty(t, m.View())
}

func TestSendAppendsAndSchedulesReply(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("open the vault")

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.typing)
	assert.Equal(t, 10, m.xpGain)
	require.Len(t, m.ctrl.Messages(), 1)

	// resolve the reply through the message loop
	_, err := m.ctrl.GenerateReply(context.Background())
	require.NoError(t, err)
	reply := m.ctrl.Messages()[1]
	m.Update(replyMsg{message: reply})
	assert.False(t, m.typing)
	assert.Equal(t, "echo: open the vault", reply.Text)
}

func TestEmptySendIgnored(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	m.Update(keyMsg("enter"))
	assert.False(t, m.typing)
	assert.Empty(t, m.ctrl.Messages())
}

func TestDeepThinkToggle(t *testing.T) {
	m := newTestModel(t)
	assert.False(t, m.ctrl.DeepThink())
	m.Update(keyMsg("ctrl+d"))
	assert.True(t, m.ctrl.DeepThink())
	m.Update(keyMsg("ctrl+d"))
	assert.False(t, m.ctrl.DeepThink())
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("first question")
	m.Update(keyMsg("enter"))
	_, err := m.ctrl.GenerateReply(context.Background())
	require.NoError(t, err)

	m.Update(keyMsg("ctrl+h"))
	assert.Equal(t, HistoryView, m.mode)
	assert.Contains(t, m.View(), "first question")

	m.Update(keyMsg("esc"))
	assert.Equal(t, ChatView, m.mode)
}

func TestPersonaPickerLockedSelection(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+p"))
	require.Equal(t, PersonaView, m.mode)

	// move to a locked persona (level 1 user, everything past index 0 is locked)
	m.Update(keyMsg("j"))
	m.Update(keyMsg("enter"))
	assert.Equal(t, PersonaView, m.mode)
	assert.NotEmpty(t, m.notice)
	assert.Equal(t, "professor", m.ctrl.Persona().ID)
}

func TestClearConfirmFlow(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("something to clear")
	m.Update(keyMsg("enter"))
	_, err := m.ctrl.GenerateReply(context.Background())
	require.NoError(t, err)

	m.Update(keyMsg("ctrl+l"))
	assert.Equal(t, ClearConfirmView, m.mode)

	// cancel keeps messages
	m.Update(keyMsg("n"))
	assert.Equal(t, ChatView, m.mode)
	assert.NotEmpty(t, m.ctrl.Messages())

	m.Update(keyMsg("ctrl+l"))
	m.Update(keyMsg("y"))
	assert.Equal(t, ChatView, m.mode)
	assert.Empty(t, m.ctrl.Messages())
}

func TestXPBannerDismiss(t *testing.T) {
	m := newTestModel(t)
	m.Update(xpGainMsg{amount: 10})
	assert.Equal(t, 10, m.xpGain)

	// stale dismiss is ignored
	m.Update(xpDismissMsg{seq: m.xpSeq - 1})
	assert.Equal(t, 10, m.xpGain)

	m.Update(xpDismissMsg{seq: m.xpSeq})
	assert.Equal(t, 0, m.xpGain)
}

func TestLevelUpBanner(t *testing.T) {
	m := newTestModel(t)
	m.Update(levelUpMsg{level: 2})
	assert.Equal(t, 2, m.levelUp)
	assert.Contains(t, m.View(), "2")

	m.Update(levelDismissMsg{seq: m.levelSeq})
	assert.Equal(t, 0, m.levelUp)
}
