package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

// Theme defines the colors of the terminal views, including one color per
// flight phase.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Phases    map[dynamo.Phase]lipgloss.Color
}

func (t Theme) PhaseColor(p dynamo.Phase) lipgloss.Color {
	if c, ok := t.Phases[p]; ok {
		return c
	}
	return t.Text
}

var (
	ThemeLaunch = Theme{
		Name:      "launch",
		Primary:   lipgloss.Color("#00ffff"),
		Secondary: lipgloss.Color("#ff00ff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Phases: map[dynamo.Phase]lipgloss.Color{
			dynamo.PhaseLaunchTube: lipgloss.Color("#ffaa00"),
			dynamo.PhaseWater:      lipgloss.Color("#00aaff"),
			dynamo.PhaseAir:        lipgloss.Color("#aaffff"),
			dynamo.PhaseBallistic:  lipgloss.Color("#ff66cc"),
			dynamo.PhaseLanded:     lipgloss.Color("#88ff88"),
		},
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Phases: map[dynamo.Phase]lipgloss.Color{
			dynamo.PhaseLaunchTube: lipgloss.Color("#ccff00"),
			dynamo.PhaseWater:      lipgloss.Color("#00ff00"),
			dynamo.PhaseAir:        lipgloss.Color("#88ff88"),
			dynamo.PhaseBallistic:  lipgloss.Color("#00aa00"),
			dynamo.PhaseLanded:     lipgloss.Color("#005500"),
		},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeLaunch

	Themes = []Theme{
		ThemeLaunch,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the launch theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLaunch
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles CurrentTheme through Themes.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}
