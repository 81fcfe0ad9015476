package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"heistchat/internal/attachment"
	"heistchat/internal/chat"
	"heistchat/internal/persona"
	"heistchat/internal/search"
)

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case replyMsg:
		m.typing = false
		if msg.err != nil {
			m.notice = m.strings().ConnectionError
			m.noticeSeq++
			m.refreshViewport()
			return m, dismissAfter(levelBannerDuration, noticeDismissMsg{seq: m.noticeSeq})
		}
		m.xpGain = msg.message.XPEarned
		m.xpSeq++
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, dismissAfter(xpBannerDuration, xpDismissMsg{seq: m.xpSeq})

	case xpGainMsg:
		m.xpGain = msg.amount
		m.xpSeq++
		return m, dismissAfter(xpBannerDuration, xpDismissMsg{seq: m.xpSeq})
	case xpDismissMsg:
		if msg.seq == m.xpSeq {
			m.xpGain = 0
		}
		return m, nil

	case levelUpMsg:
		m.levelUp = msg.level
		m.levelSeq++
		return m, tea.Batch(m.listenEvents(), dismissAfter(levelBannerDuration, levelDismissMsg{seq: m.levelSeq}))
	case levelDismissMsg:
		if msg.seq == m.levelSeq {
			m.levelUp = 0
		}
		return m, nil

	case noticeDismissMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case runSearchMsg:
		m.searchResults = search.Search(m.ctrl.History().Entries(), m.searchInput.Value())
		m.cursor = 0
		return m, m.listenEvents()
	}

	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 3
	footerHeight := 5
	if !m.ready {
		m.viewport = newViewport(msg.Width, msg.Height-headerHeight-footerHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
	}
	m.input.Width = msg.Width - 6
	m.searchInput.Width = msg.Width - 6
	m.attachInput.Width = msg.Width - 6

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(msg.Width-8, 100)),
	)
	if err == nil {
		m.renderer = renderer
	}
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key := msg.String(); key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ChatView:
		return m.handleChatKey(msg)
	case HistoryView:
		return m.handleHistoryKey(msg)
	case SearchView:
		return m.handleSearchKey(msg)
	case PersonaView, ThemeView, LanguageView:
		return m.handlePickerKey(msg)
	case StatsView:
		if msg.String() == "esc" || msg.String() == "q" {
			m.mode = ChatView
		}
		return m, nil
	case AttachView:
		return m.handleAttachKey(msg)
	case ClearConfirmView:
		return m.handleClearConfirmKey(msg)
	}
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.send()
	case "ctrl+d":
		m.ctrl.SetDeepThink(!m.ctrl.DeepThink())
		return m, nil
	case "ctrl+n":
		m.ctrl.NewChat()
		m.pending = nil
		m.refreshViewport()
		m.xpSeq++
		m.xpGain = 0
		return m, func() tea.Msg { return xpGainMsg{amount: 5} }
	case "ctrl+l":
		m.mode = ClearConfirmView
		return m, nil
	case "ctrl+h":
		m.mode = HistoryView
		m.cursor = 0
		return m, nil
	case "ctrl+f":
		m.mode = SearchView
		m.searchInput.SetValue("")
		m.searchResults = nil
		m.searchInput.Focus()
		m.input.Blur()
		return m, nil
	case "ctrl+p":
		m.mode = PersonaView
		m.cursor = 0
		return m, nil
	case "ctrl+t":
		m.mode = ThemeView
		m.cursor = 0
		return m, nil
	case "ctrl+g":
		m.mode = LanguageView
		m.cursor = 0
		return m, nil
	case "ctrl+s":
		m.mode = StatsView
		return m, nil
	case "ctrl+u":
		m.mode = AttachView
		m.attachInput.SetValue("")
		m.attachInput.Focus()
		m.input.Blur()
		return m, nil
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) send() (tea.Model, tea.Cmd) {
	userMsg, err := m.ctrl.BeginSend(m.input.Value(), m.pending)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			return m, nil
		case errors.Is(err, chat.ErrPending):
			m.notice = m.ctrl.Persona().Name.For(m.ctrl.Language().Code) + " " + m.strings().Thinking
			m.noticeSeq++
			return m, dismissAfter(xpBannerDuration, noticeDismissMsg{seq: m.noticeSeq})
		default:
			m.notice = err.Error()
			m.noticeSeq++
			return m, dismissAfter(levelBannerDuration, noticeDismissMsg{seq: m.noticeSeq})
		}
	}

	m.input.SetValue("")
	m.pending = nil
	m.typing = true
	m.xpGain = userMsg.XPEarned
	m.xpSeq++
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.generateReplyCmd(),
		m.spinner.Tick,
		dismissAfter(xpBannerDuration, xpDismissMsg{seq: m.xpSeq}),
	)
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.ctrl.History().Entries()
	switch msg.String() {
	case "esc", "q":
		m.mode = ChatView
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(entries) {
			if err := m.ctrl.OpenChat(entries[m.cursor].ID); err == nil {
				m.mode = ChatView
				m.refreshViewport()
				m.viewport.GotoBottom()
			}
		}
	case "d":
		if m.cursor < len(entries) {
			_ = m.ctrl.History().Remove(entries[m.cursor].ID)
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.debouncer.Cancel()
		m.mode = ChatView
		m.searchInput.Blur()
		m.input.Focus()
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(m.searchResults)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if m.cursor < len(m.searchResults) {
			if err := m.ctrl.OpenChat(m.searchResults[m.cursor].ChatID); err == nil {
				m.debouncer.Cancel()
				m.mode = ChatView
				m.searchInput.Blur()
				m.input.Focus()
				m.refreshViewport()
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.debouncer.Debounce(func() {
		select {
		case m.events <- runSearchMsg{}:
		default:
		}
	})
	return m, cmd
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.pickerCount()
	switch msg.String() {
	case "esc", "q":
		m.mode = ChatView
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < count-1 {
			m.cursor++
		}
	case "enter":
		return m.pickerSelect()
	}
	return m, nil
}

func (m *Model) pickerCount() int {
	switch m.mode {
	case PersonaView:
		return len(persona.All())
	case ThemeView:
		return len(persona.Themes())
	case LanguageView:
		return len(persona.Languages())
	}
	return 0
}

func (m *Model) pickerSelect() (tea.Model, tea.Cmd) {
	var err error
	unlockLevel := 0
	switch m.mode {
	case PersonaView:
		p := persona.All()[m.cursor]
		unlockLevel = p.UnlockLevel
		err = m.ctrl.SelectPersona(p.ID)
	case ThemeView:
		th := persona.Themes()[m.cursor]
		unlockLevel = th.UnlockLevel
		err = m.ctrl.SelectTheme(th.ID)
		if err == nil {
			m.styles = NewStyles(m.ctrl.Theme())
		}
	case LanguageView:
		err = m.ctrl.SelectLanguage(persona.Languages()[m.cursor].Code)
	}
	if err != nil {
		if errors.Is(err, chat.ErrLocked) {
			m.notice = fmt.Sprintf("🔒 %s %d", m.strings().Level, unlockLevel)
		} else {
			m.notice = err.Error()
		}
		m.noticeSeq++
		return m, dismissAfter(xpBannerDuration, noticeDismissMsg{seq: m.noticeSeq})
	}
	m.mode = ChatView
	m.input.Placeholder = m.strings().TypeMessage
	m.searchInput.Placeholder = m.strings().SearchPlaceholder
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleAttachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ChatView
		m.attachInput.Blur()
		m.input.Focus()
		return m, nil
	case "enter":
		att, err := attachment.Process(m.attachInput.Value())
		m.mode = ChatView
		m.attachInput.Blur()
		m.input.Focus()
		if err != nil {
			if errors.Is(err, attachment.ErrUnsupportedType) {
				m.notice = m.strings().SupportedFiles
			} else {
				m.notice = err.Error()
			}
			m.noticeSeq++
			return m, dismissAfter(levelBannerDuration, noticeDismissMsg{seq: m.noticeSeq})
		}
		m.pending = att
		m.ctrl.AwardUpload()
		return m, func() tea.Msg { return xpGainMsg{amount: 20} }
	}

	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(msg)
	return m, cmd
}

func (m *Model) handleClearConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.ctrl.Clear()
		m.pending = nil
		m.mode = ChatView
		m.refreshViewport()
		return m, func() tea.Msg { return xpGainMsg{amount: 5} }
	case "n", "esc":
		m.mode = ChatView
	}
	return m, nil
}

func (m *Model) strings() persona.Strings {
	return persona.T(m.ctrl.Language().Code)
}
