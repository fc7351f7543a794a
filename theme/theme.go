// Package theme stores the light/dark preference and applies it to the CLI palette.
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/storage"
)

// Preference is the persisted theme choice.
type Preference string

const (
	Light  Preference = "light"
	Dark   Preference = "dark"
	System Preference = "system"
)

// Preferences lists every valid preference.
func Preferences() []Preference {
	return []Preference{Light, Dark, System}
}

var ErrUnknownPreference = errors.New("unknown theme")

// Parse validates s.
func Parse(s string) (Preference, error) {
	p := Preference(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Preferences(), p) {
		return "", fmt.Errorf("%w %q, expected one of %v", ErrUnknownPreference, s, Preferences())
	}
	return p, nil
}

// Store persists the preference.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	current Preference
}

// NewStore loads the stored preference, defaulting to System.
func NewStore(st storage.Storage) *Store {
	s := &Store{storage: st, current: System}

	var stored string
	if storage.LoadOrDefault(st, storage.KeyTheme, &stored) {
		if p, err := Parse(stored); err == nil {
			s.current = p
		}
	}
	return s
}

// Get returns the current preference.
func (s *Store) Get() Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set validates and stores p.
func (s *Store) Set(p Preference) error {
	if _, err := Parse(string(p)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p
	storage.SaveOrLog(s.storage, storage.KeyTheme, string(p))
	return nil
}

// Palette resolves p to a palette. System asks darkBackground.
func Palette(p Preference, darkBackground func() bool) color.Palette {
	switch p {
	case Light:
		return color.Light
	case Dark:
		return color.Dark
	default:
		if darkBackground == nil || darkBackground() {
			return color.Dark
		}
		return color.Light
	}
}

// Apply activates the palette for p, probing the terminal for System.
func Apply(p Preference) color.Palette {
	palette := Palette(p, lipgloss.HasDarkBackground)
	color.Use(palette)
	return palette
}
