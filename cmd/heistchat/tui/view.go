package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"heistchat/internal/chat"
	"heistchat/internal/persona"
	"heistchat/internal/progress"
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// View renders the active screen.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	switch m.mode {
	case HistoryView:
		return m.viewHistory()
	case SearchView:
		return m.viewSearch()
	case PersonaView:
		return m.viewPersonaPicker()
	case ThemeView:
		return m.viewThemePicker()
	case LanguageView:
		return m.viewLanguagePicker()
	case StatsView:
		return m.viewStats()
	case AttachView:
		return m.viewAttach()
	case ClearConfirmView:
		return m.viewClearConfirm()
	}
	return m.viewChat()
}

func (m *Model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.typing {
		p := m.ctrl.Persona()
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			m.spinner.View(), p.Emoji, p.Name.For(m.ctrl.Language().Code), m.strings().Thinking))
	} else if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice))
		b.WriteString("\n")
	} else if m.levelUp > 0 {
		b.WriteString(m.styles.LevelBanner.Render(
			fmt.Sprintf("🎉 %s %s %d!", m.strings().LevelUp, m.strings().ReachedLevel, m.levelUp)))
		b.WriteString("\n")
	} else if m.xpGain > 0 {
		b.WriteString(m.styles.XPBanner.Render(fmt.Sprintf("+%d XP", m.xpGain)))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
	}

	prompt := m.input.View()
	if m.pending != nil {
		prompt = "📎 " + m.pending.Name + "  " + prompt
	}
	b.WriteString(m.styles.InputBorder.Width(m.width - 2).Render(prompt))
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m *Model) header() string {
	p := m.ctrl.Persona()
	lang := m.ctrl.Language()
	title := fmt.Sprintf("%s %s · %s %s", m.ctrl.Theme().Emoji, m.strings().WelcomeTitle, p.Emoji, p.Name.For(lang.Code))
	if m.ctrl.DeepThink() {
		title += "  🧠 " + m.strings().DeepThinkActive
	}
	return m.styles.Header.Width(m.width).Render(title)
}

func (m *Model) statusBar() string {
	p := m.Progress()
	into, span, percent := progress.ProgressInLevel(p)
	s := m.strings()
	left := fmt.Sprintf("⭐ %s %d  %d/%d XP (%d%%)  🔥 %d %s", s.Level, p.Level, into, span, percent, p.Streak, s.Days)
	right := "^D deepthink ^U file ^F search ^H history ^P persona ^T theme ^G lang ^S stats ^L clear ^C quit"
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		return m.styles.StatusBar.Width(m.width).Render(left)
	}
	return m.styles.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// refreshViewport re-renders the conversation transcript.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		p := m.ctrl.Persona()
		s := m.strings()
		m.viewport.SetContent(fmt.Sprintf("\n  %s %s\n\n  %s %s %s\n",
			m.ctrl.Theme().Emoji, s.WelcomeTitle,
			s.StartConversation, p.Emoji, p.Name.For(m.ctrl.Language().Code)))
		return
	}

	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) renderMessage(msg chat.Message) string {
	ts := m.styles.Timestamp.Render(msg.Timestamp.Format("15:04"))
	if msg.IsUser {
		text := msg.Text
		if msg.HasAttachment {
			text += "\n📎 " + msg.AttachmentName
		}
		return fmt.Sprintf("%s 👤\n%s\n", ts, m.styles.UserBubble.Render(text))
	}

	p, _ := persona.ByID(msg.Persona)
	body := msg.Text
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.Text); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}
	return fmt.Sprintf("%s %s\n%s\n", ts, p.Emoji, body)
}

func (m *Model) viewHistory() string {
	s := m.strings()
	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("📜 " + s.ChatHistory))
	b.WriteString("\n\n")

	entries := m.ctrl.History().Entries()
	if len(entries) == 0 {
		b.WriteString("  " + s.NoChatHistory + "\n")
	}
	for i, e := range entries {
		line := fmt.Sprintf("%s  (%d)  %s", e.Title, len(e.Messages), e.LastActivity.Format("Jan 2 15:04"))
		if i == m.cursor {
			b.WriteString(m.styles.ListSelected.Render("> " + line))
		} else {
			b.WriteString(m.styles.ListItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter open · d delete · esc back"))
	return b.String()
}

func (m *Model) viewSearch() string {
	s := m.strings()
	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("🔍 " + s.SearchHistory))
	b.WriteString("\n\n")
	b.WriteString(m.styles.InputBorder.Width(m.width - 2).Render(m.searchInput.View()))
	b.WriteString("\n\n")

	if m.searchInput.Value() != "" {
		if len(m.searchResults) == 0 {
			b.WriteString("  " + s.NoResults + "\n")
		} else {
			b.WriteString(fmt.Sprintf("  %d %s\n\n", len(m.searchResults), s.ResultsFound))
		}
	}
	for i, r := range m.searchResults {
		title := r.ChatTitle
		if i == m.cursor {
			title = m.styles.ListSelected.Render("> " + title)
		} else {
			title = m.styles.ListItem.Render("  " + title)
		}
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString("    " + m.styles.Snippet.Render(r.Snippet))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter open chat · esc back"))
	return b.String()
}

func (m *Model) viewPersonaPicker() string {
	level := m.Progress().Level
	lang := m.ctrl.Language().Code
	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("🎭 Personas"))
	b.WriteString("\n\n")
	for i, p := range persona.All() {
		locked := p.UnlockLevel > level
		line := fmt.Sprintf("%s %s — %s", p.Emoji, p.Name.For(lang), p.Specialty)
		if locked {
			line += fmt.Sprintf("  🔒 %s %d", m.strings().Level, p.UnlockLevel)
		}
		b.WriteString(m.pickerLine(line, i == m.cursor, locked))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter select · esc back"))
	return b.String()
}

func (m *Model) viewThemePicker() string {
	level := m.Progress().Level
	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("🎨 Themes"))
	b.WriteString("\n\n")
	for i, th := range persona.Themes() {
		locked := th.UnlockLevel > level
		line := fmt.Sprintf("%s %s", th.Emoji, th.Name)
		if locked {
			line += fmt.Sprintf("  🔒 %s %d", m.strings().Level, th.UnlockLevel)
		}
		b.WriteString(m.pickerLine(line, i == m.cursor, locked))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter select · esc back"))
	return b.String()
}

func (m *Model) viewLanguagePicker() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("🌍 Languages"))
	b.WriteString("\n\n")
	for i, l := range persona.Languages() {
		line := fmt.Sprintf("%s %s (%s)", l.Flag, l.Name, l.NativeName)
		b.WriteString(m.pickerLine(line, i == m.cursor, false))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter select · esc back"))
	return b.String()
}

func (m *Model) pickerLine(line string, selected, locked bool) string {
	switch {
	case selected:
		return m.styles.ListSelected.Render("> " + line)
	case locked:
		return m.styles.ListLocked.Render("  " + line)
	default:
		return m.styles.ListItem.Render("  " + line)
	}
}

func (m *Model) viewStats() string {
	p := m.Progress()
	s := m.strings()
	into, span, percent := progress.ProgressInLevel(p)

	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("📊 " + s.Level + fmt.Sprintf(" %d", p.Level)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  XP: %d (%d/%d, %d%%)\n", p.XP, into, span, percent))
	b.WriteString(fmt.Sprintf("  %s: %d\n", s.MessagesSent, p.MessagesSent))
	b.WriteString(fmt.Sprintf("  %s: %d\n", s.DeepThinkUsed, p.DeepThinkUses))
	b.WriteString(fmt.Sprintf("  %s: %d %s\n", s.CurrentStreak, p.Streak, s.Days))
	b.WriteString(fmt.Sprintf("  Files: %d\n", p.FilesUploaded))
	b.WriteString(fmt.Sprintf("  Total chats: %d\n", m.ctrl.History().Len()))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("esc back"))
	return b.String()
}

func (m *Model) viewAttach() string {
	s := m.strings()
	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("📎 " + s.SupportedFiles))
	b.WriteString("\n\n")
	b.WriteString(m.styles.InputBorder.Width(m.width - 2).Render(m.attachInput.View()))
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("enter attach · esc back"))
	return b.String()
}

func (m *Model) viewClearConfirm() string {
	s := m.strings()
	var b strings.Builder
	b.WriteString(m.styles.Header.Width(m.width).Render("🗑  " + s.ClearChat))
	b.WriteString("\n\n")
	b.WriteString("  " + s.ClearConfirm + "\n\n")
	b.WriteString(m.styles.Help.Render("y confirm · n cancel"))
	return b.String()
}
