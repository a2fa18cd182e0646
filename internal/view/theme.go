package view

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

type Palette struct {
	Background string `yaml:"background"`
	Surface    string `yaml:"surface"`
	Text       string `yaml:"text"`
	Muted      string `yaml:"muted"`
	Accent     string `yaml:"accent"`
	Success    string `yaml:"success"`
	Warning    string `yaml:"warning"`
	Border     string `yaml:"border"`
}

// Theme is everything that differs between the tracker's looks. Layout and content
// are shared; only these knobs change.
type Theme struct {
	Name            string  `yaml:"name"`
	Extends         string  `yaml:"extends,omitempty"`
	Colors          Palette `yaml:"colors"`
	Border          string  `yaml:"border"` // thick | rounded | normal | hidden
	UppercaseTitles bool    `yaml:"uppercase_titles"`
	RecentLogs      int     `yaml:"recent_logs"`
	StreakGlyph     string  `yaml:"streak_glyph"`
	BarWidth        int     `yaml:"bar_width"`
	BarFull         string  `yaml:"bar_full"`
	BarEmpty        string  `yaml:"bar_empty"`
}

const DefaultTheme = "refined"

var presets = map[string]Theme{
	"brutalist": {
		Name: "brutalist",
		Colors: Palette{
			Background: "#ffffff",
			Surface:    "#f4f4f0",
			Text:       "#000000",
			Muted:      "#555555",
			Accent:     "#ff3b00",
			Success:    "#00a651",
			Warning:    "#ffcc00",
			Border:     "#000000",
		},
		Border:          "thick",
		UppercaseTitles: true,
		RecentLogs:      5,
		StreakGlyph:     "🔥",
		BarWidth:        20,
		BarFull:         "█",
		BarEmpty:        "░",
	},
	"dark": {
		Name: "dark",
		Colors: Palette{
			Background: "#0f172a",
			Surface:    "#1e293b",
			Text:       "#e2e8f0",
			Muted:      "#94a3b8",
			Accent:     "#38bdf8",
			Success:    "#4ade80",
			Warning:    "#fbbf24",
			Border:     "#334155",
		},
		Border:      "rounded",
		RecentLogs:  7,
		StreakGlyph: "⚡",
		BarWidth:    24,
		BarFull:     "━",
		BarEmpty:    "─",
	},
	"refined": {
		Name: "refined",
		Colors: Palette{
			Background: "#fafaf9",
			Surface:    "#f5f5f4",
			Text:       "#1c1917",
			Muted:      "#78716c",
			Accent:     "#ea580c",
			Success:    "#16a34a",
			Warning:    "#ca8a04",
			Border:     "#1c1917",
		},
		Border:          "normal",
		UppercaseTitles: true,
		RecentLogs:      7,
		StreakGlyph:     "🔥",
		BarWidth:        20,
		BarFull:         "■",
		BarEmpty:        "□",
	},
}

// PresetNames lists the built-in themes in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Preset(name string) (Theme, error) {
	t, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return t, nil
}

// LoadTheme reads a YAML theme. Keys left out keep the value of the preset named by
// "extends", or of the default preset.
func LoadTheme(path string) (Theme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}

	var head struct {
		Extends string `yaml:"extends"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	base := head.Extends
	if base == "" {
		base = DefaultTheme
	}

	t, err := Preset(base)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if t.RecentLogs <= 0 {
		return Theme{}, fmt.Errorf("theme %s: recent_logs must be positive", path)
	}
	if t.BarWidth <= 0 {
		return Theme{}, fmt.Errorf("theme %s: bar_width must be positive", path)
	}
	return t, nil
}

// Resolve picks a theme file when one is given, otherwise a preset by name.
func Resolve(name, file string) (Theme, error) {
	if file != "" {
		return LoadTheme(file)
	}
	if name == "" {
		name = DefaultTheme
	}
	return Preset(name)
}

type styles struct {
	App     lipgloss.Style
	Pane    lipgloss.Style
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	TabOn   lipgloss.Style
	TabOff  lipgloss.Style
}

func borderFor(name string) (lipgloss.Border, bool) {
	switch name {
	case "thick":
		return lipgloss.ThickBorder(), true
	case "rounded":
		return lipgloss.RoundedBorder(), true
	case "hidden":
		return lipgloss.HiddenBorder(), false
	default:
		return lipgloss.NormalBorder(), true
	}
}

func (t Theme) styles() styles {
	c := t.Colors
	border, visible := borderFor(t.Border)

	pane := lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Text)).
		Padding(0, 1)
	if visible {
		pane = pane.BorderStyle(border).BorderForeground(lipgloss.Color(c.Border))
	}

	title := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Accent)).Bold(true)

	return styles{
		App:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Text)).Padding(0, 1),
		Pane:    pane,
		Title:   title,
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Text)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.Accent)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Success)).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Warning)),
		TabOn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Background)).
			Background(lipgloss.Color(c.Accent)).
			Bold(true).
			Padding(0, 1),
		TabOff: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)).Padding(0, 1),
	}
}
