package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the animation view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeSteel = Theme{
		Name:    "steel",
		Primary: lipgloss.Color("#8ab4f8"),
		Accent:  lipgloss.Color("#ffd166"),
		Text:    lipgloss.Color("#e8eaed"),
		Muted:   lipgloss.Color("#5f6368"),
		Warning: lipgloss.Color("#f28b82"),
	}

	ThemePhosphor = Theme{
		Name:    "phosphor",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemePaper = Theme{
		Name:    "paper",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	CurrentTheme = ThemeSteel

	Themes = []Theme{ThemeSteel, ThemePhosphor, ThemePaper}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSteel
}

// SetTheme switches the palette and rebuilds the derived styles.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
	restyle()
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
