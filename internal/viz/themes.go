package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette of the live view.
type Theme struct {
	Name    string
	Field   lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:    "classic",
		Field:   lipgloss.Color("#d0d0d0"),
		Primary: lipgloss.Color("#00d7af"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e4e4e4"),
		Muted:   lipgloss.Color("#808080"),
		Success: lipgloss.Color("#00ff87"),
		Warning: lipgloss.Color("#ffaf00"),
		Error:   lipgloss.Color("#ff5f5f"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Field:   lipgloss.Color("#00ff00"), // green phosphor
		Primary: lipgloss.Color("#00cc00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Field:   lipgloss.Color("#00a8cc"),
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeClassic, ThemeRetroGreen, ThemeOcean}
)

// GetTheme returns the named theme, or the classic one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles through Themes in order.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
