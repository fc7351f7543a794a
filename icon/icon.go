// Package icon renders status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vidshelf/vidshelf/key"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns every supported icon variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a status symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Video
	Collection
	Resume
	Warn
)

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Success:    {emoji: "✅", nerd: "", plain: "✓"},
	Fail:       {emoji: "❌", nerd: "", plain: "✗"},
	Progress:   {emoji: "⏳", nerd: "", plain: "…"},
	Video:      {emoji: "🎬", nerd: "", plain: "▶"},
	Collection: {emoji: "📚", nerd: "", plain: "≡"},
	Resume:     {emoji: "⏯️", nerd: "", plain: "↻"},
	Warn:       {emoji: "⚠️", nerd: "", plain: "!"},
}

// Get returns the symbol for i in the configured variant.
func Get(i Icon) string {
	return icons[i].get()
}
