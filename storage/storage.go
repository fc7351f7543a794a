// Package storage is the durable key/value port behind every persisted part of the library.
//
// Values are JSON documents addressed by a fixed set of keys. Consumers receive a
// Storage at construction time; none of them reach for a global.
package storage

import (
	"errors"
	"fmt"

	"github.com/vidshelf/vidshelf/log"
)

// Key names a persisted document.
type Key string

const (
	KeyVideos         Key = "videos"
	KeyWatchProgress  Key = "watchProgress"
	KeyRecentlyPlayed Key = "recentlyPlayed"
	KeyCollections    Key = "collections"
	KeyTheme          Key = "theme"
)

// Keys lists every key in a stable order.
func Keys() []Key {
	return []Key{KeyVideos, KeyWatchProgress, KeyRecentlyPlayed, KeyCollections, KeyTheme}
}

// Storage reads and writes JSON documents by key.
type Storage interface {
	// Load decodes the document stored under key into target.
	// It reports false without error when nothing is stored.
	Load(key Key, target any) (bool, error)

	// Save replaces the document stored under key.
	Save(key Key, value any) error

	// Delete removes the document stored under key.
	Delete(key Key) error
}

// ErrUnavailable is matched by every error produced by a Storage.
var ErrUnavailable = errors.New("storage unavailable")

// Error describes a failed storage operation.
type Error struct {
	Op  string
	Key Key
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every *Error match ErrUnavailable.
func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}

// LoadOrDefault loads key into target and logs failures instead of returning them.
// target is left untouched when nothing usable is stored.
func LoadOrDefault(s Storage, key Key, target any) bool {
	found, err := s.Load(key, target)
	if err != nil {
		log.Warnf("%v; starting with defaults", err)
		return false
	}
	return found
}

// SaveOrLog saves value under key and logs failures instead of returning them.
// In-memory state stays authoritative for the session when a write fails.
func SaveOrLog(s Storage, key Key, value any) {
	if err := s.Save(key, value); err != nil {
		log.Warnf("%v; keeping in-memory state", err)
	}
}
