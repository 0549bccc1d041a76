package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette shared by the live view, tables and SVG export.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Bodies     []lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#00ffff"),
		Accent:     lipgloss.Color("#ff00ff"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666688"),
		Warning:    lipgloss.Color("#ff8800"),
		Bodies:     []lipgloss.Color{"#00ffff", "#ff00ff", "#ffff00", "#00ff88", "#ff4444"},
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Warning:    lipgloss.Color("#ffff00"),
		Bodies:     []lipgloss.Color{"#00ff00", "#88ff88", "#00cc00", "#ccff66", "#66ffcc"},
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Warning:    lipgloss.Color("#ffcc00"),
		Bodies:     []lipgloss.Color{"#0077be", "#ffd700", "#00ff88", "#ff6b6b", "#e0f0ff"},
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"),
		Accent:     lipgloss.Color("#feca57"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Warning:    lipgloss.Color("#ffc048"),
		Bodies:     []lipgloss.Color{"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#48dbfb"},
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{ThemeCyberpunk, ThemeRetro, ThemeOcean, ThemeSunset}
)

// BodyColor picks a stable color for the i-th body.
func (t Theme) BodyColor(i int) lipgloss.Color {
	if len(t.Bodies) == 0 {
		return t.Primary
	}
	return t.Bodies[i%len(t.Bodies)]
}

// GetTheme returns the named theme, or the default one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
