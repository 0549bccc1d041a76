package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/config"
)

var presetInfo = map[string]string{
	"bounce":   "walls and a collision",
	"pendulum": "distance to an anchor",
	"springs":  "spring chain with drag",
	"orbit":    "inverse square attraction",
	"bead":     "bead on a curve",
	"snap":     "soft snap to an anchor",
}

// menu picks a preset and then hands the screen to its live Model.
type menu struct {
	log     *zap.Logger
	presets []string
	cursor  int
	live    *Model
	err     error
}

func newMenu(log *zap.Logger) menu {
	return menu{log: log, presets: config.ListPresets()}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.live = nil
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		live, err := NewModel(config.GetPreset(m.presets[m.cursor]), m.log)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.live = &live
		return m, live.Init()
	}
	return m, nil
}

func (m menu) View() string {
	if m.live != nil {
		return m.live.View()
	}
	var b strings.Builder
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + GradientText("PHYSIM", CurrentTheme.Primary, CurrentTheme.Accent) + "\n")
	b.WriteString("    " + sub.Render("constraint physics in the terminal") + "\n")
	b.WriteString("    " + Separator(26) + "\n\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			cursor := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("▸")
			label := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true).Render(fmt.Sprintf("%-10s", name))
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor, label, lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(desc)))
			continue
		}
		b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-10s", name)), sub.Render(desc)))
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hintStyle().Render("j/k navigate  enter run  esc back  q quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu.
func RunInteractive(log *zap.Logger) error {
	_, err := tea.NewProgram(newMenu(log), tea.WithAltScreen()).Run()
	return err
}
