// Package tui implements the interactive chat interface.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"heistchat/internal/attachment"
	"heistchat/internal/chat"
	"heistchat/internal/config"
	"heistchat/internal/progress"
	"heistchat/internal/search"
)

// ViewMode determines which screen is active.
type ViewMode int

const (
	ChatView ViewMode = iota
	HistoryView
	SearchView
	PersonaView
	ThemeView
	LanguageView
	StatsView
	AttachView
	ClearConfirmView
)

// Banner dismiss delays, matching the web app's timers.
const (
	xpBannerDuration    = 2 * time.Second
	levelBannerDuration = 3 * time.Second
)

// Messages produced by commands and background events.
type (
	replyMsg struct {
		message chat.Message
		err     error
	}
	xpGainMsg        struct{ amount int }
	xpDismissMsg     struct{ seq int }
	levelUpMsg       struct{ level int }
	levelDismissMsg  struct{ seq int }
	runSearchMsg     struct{}
	noticeDismissMsg struct{ seq int }
)

// Model is the bubbletea model for the chat interface.
type Model struct {
	ctrl *chat.Controller
	cfg  *config.Config

	input       textinput.Model
	searchInput textinput.Model
	attachInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	renderer    *glamour.TermRenderer
	styles      Styles

	mode   ViewMode
	width  int
	height int
	ready  bool

	typing  bool
	pending *attachment.Attachment
	notice  string

	searchResults []search.Result
	debouncer     *Debouncer
	events        chan tea.Msg

	cursor int

	xpGain    int
	xpSeq     int
	levelUp   int
	levelSeq  int
	noticeSeq int
}

// New builds the chat interface. Level-up notifications reach the UI
// through the events channel, so the tracker callback must be wired by
// the caller via NotifyLevelUp.
func New(ctrl *chat.Controller, cfg *config.Config) *Model {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.CharLimit = 4000
	input.Focus()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search chat history..."

	attachInput := textinput.New()
	attachInput.Placeholder = "Path to PDF or image..."

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ctrl.Theme().Accent))

	return &Model{
		ctrl:        ctrl,
		cfg:         cfg,
		input:       input,
		searchInput: searchInput,
		attachInput: attachInput,
		spinner:     sp,
		styles:      NewStyles(ctrl.Theme()),
		debouncer:   NewDebouncer(SearchDebounceDuration),
		events:      make(chan tea.Msg, 16),
	}
}

// NotifyLevelUp is registered as the tracker's level-up callback.
func (m *Model) NotifyLevelUp(level int) {
	select {
	case m.events <- levelUpMsg{level: level}:
	default:
	}
}

// Init starts the spinner and the background event listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenEvents(), textinput.Blink)
}

func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) generateReplyCmd() tea.Cmd {
	ctrl := m.ctrl
	timeout := m.cfg.GetGenerationTimeout()
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout(timeout)
		defer cancel()
		reply, err := ctrl.GenerateReply(ctx)
		return replyMsg{message: reply, err: err}
	}
}

func dismissAfter(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Progress returns the current progression for the status bar.
func (m *Model) Progress() progress.UserProgress {
	return m.ctrl.Progress()
}
