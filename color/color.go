// Package color holds the CLI palettes and the currently active one.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Palette is a named set of semantic colors.
type Palette struct {
	Name   string
	Text   lipgloss.Color
	Faint  lipgloss.Color
	Red    lipgloss.Color
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Blue   lipgloss.Color
	Purple lipgloss.Color
	Cyan   lipgloss.Color
	Accent lipgloss.Color
}

// Dark suits terminals with a dark background.
var Dark = Palette{
	Name:   "dark",
	Text:   New("#cdd6f4"),
	Faint:  New("#6c7086"),
	Red:    New("#f38ba8"),
	Green:  New("#a6e3a1"),
	Yellow: New("#f9e2af"),
	Blue:   New("#89b4fa"),
	Purple: New("#cba6f7"),
	Cyan:   New("#94e2d5"),
	Accent: New("#cba6f7"),
}

// Light suits terminals with a light background.
var Light = Palette{
	Name:   "light",
	Text:   New("#4c4f69"),
	Faint:  New("#8c8fa1"),
	Red:    New("#d20f39"),
	Green:  New("#40a02b"),
	Yellow: New("#df8e1d"),
	Blue:   New("#1e66f5"),
	Purple: New("#8839ef"),
	Cyan:   New("#179299"),
	Accent: New("#8839ef"),
}

// Active palette colors. Use swaps them all at once.
var (
	Text   = Dark.Text
	Faint  = Dark.Faint
	Red    = Dark.Red
	Green  = Dark.Green
	Yellow = Dark.Yellow
	Blue   = Dark.Blue
	Purple = Dark.Purple
	Cyan   = Dark.Cyan
	Accent = Dark.Accent
)

var active = Dark

// Use makes p the active palette.
func Use(p Palette) {
	active = p
	Text, Faint, Red, Green, Yellow = p.Text, p.Faint, p.Red, p.Green, p.Yellow
	Blue, Purple, Cyan, Accent = p.Blue, p.Purple, p.Cyan, p.Accent
}

// Active returns the palette in use.
func Active() Palette {
	return active
}
