package tui

import (
	"github.com/charmbracelet/lipgloss"

	"heistchat/internal/persona"
)

// Styles holds the lipgloss styles derived from the active theme.
type Styles struct {
	Header       lipgloss.Style
	UserBubble   lipgloss.Style
	BotBubble    lipgloss.Style
	Timestamp    lipgloss.Style
	InputBorder  lipgloss.Style
	StatusBar    lipgloss.Style
	Notice       lipgloss.Style
	XPBanner     lipgloss.Style
	LevelBanner  lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListLocked   lipgloss.Style
	Snippet      lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme persona.Theme) Styles {
	accent := lipgloss.Color(theme.Accent)
	bg := lipgloss.Color(theme.Background)
	light := lipgloss.Color(theme.Light)

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(light).
			Background(bg).
			Padding(0, 1),
		UserBubble: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(accent).
			Padding(0, 1),
		BotBubble: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		Timestamp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true),
		XPBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true),
		LevelBanner: lipgloss.NewStyle().
			Foreground(light).
			Background(accent).
			Bold(true).
			Padding(0, 2),
		ListItem: lipgloss.NewStyle().
			Padding(0, 1),
		ListSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(accent).
			Padding(0, 1),
		ListLocked: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		Snippet: lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
