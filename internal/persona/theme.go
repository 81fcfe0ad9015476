package persona

// Theme is a selectable visual theme, unlocked by level.
type Theme struct {
	ID          string
	Name        string
	SpanishName string
	Emoji       string
	UnlockLevel int
	Accent      string // Accent color (hex)
	Background  string // Dark background tint (hex)
	Light       string // Light background tint (hex)
}

var themes = []Theme{
	{
		ID:          "classic",
		Name:        "Royal Mint",
		SpanishName: "Casa Real de la Moneda",
		Emoji:       "🎭",
		UnlockLevel: 0,
		Accent:      "#dc2626",
		Background:  "#1a0a0a",
		Light:       "#fff1f2",
	},
	{
		ID:          "bank",
		Name:        "Bank of Spain",
		SpanishName: "Banco de España",
		Emoji:       "🏛️",
		UnlockLevel: 3,
		Accent:      "#3b82f6",
		Background:  "#0a0f1a",
		Light:       "#eff6ff",
	},
	{
		ID:          "resistance",
		Name:        "La Resistencia",
		SpanishName: "Bella Ciao",
		Emoji:       "✊",
		UnlockLevel: 5,
		Accent:      "#22c55e",
		Background:  "#0a1a0f",
		Light:       "#f0fdf4",
	},
	{
		ID:          "gold",
		Name:        "Gold Reserve",
		SpanishName: "Reserva de Oro",
		Emoji:       "👑",
		UnlockLevel: 7,
		Accent:      "#f59e0b",
		Background:  "#1a140a",
		Light:       "#fffbeb",
	},
}

// Themes returns the full theme catalog in unlock order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeByID returns the theme with the given id.
func ThemeByID(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// DefaultTheme returns the theme available from level 1.
func DefaultTheme() Theme {
	return themes[0]
}

// UnlockedThemes returns the themes available at the given level.
func UnlockedThemes(level int) []Theme {
	var out []Theme
	for _, t := range themes {
		if t.UnlockLevel <= level {
			out = append(out, t)
		}
	}
	return out
}
