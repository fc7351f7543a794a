// Package player drives an external media player and reports what it does as events.
// The primary backend is mpv, controlled over its JSON-IPC socket.
package player

import (
	"fmt"
	"sync"
)

// Player is the capability set the playback session depends on.
type Player interface {
	// Load replaces the current media. A Ready event follows once it can be played.
	Load(url, title string) error

	Play() error
	Pause() error

	// SeekTo moves to an absolute position in seconds.
	SeekTo(seconds float64) error

	// SetVolume sets the volume in the range 0..1.
	SetVolume(level float64) error
	SetMuted(muted bool) error

	// GetDuration returns the length of the loaded media in seconds.
	GetDuration() (float64, error)

	// Restart seeks to the beginning and resumes playback.
	Restart() error

	// Destroy terminates the player and releases its resources.
	Destroy() error

	// Subscribe registers fn for every event. The returned func removes it.
	Subscribe(fn func(Event)) (unsubscribe func())

	// Wait returns a channel that is closed when the player exits.
	Wait() <-chan struct{}
}

// EventKind identifies a player event.
type EventKind int

const (
	EventReady EventKind = iota + 1
	EventTimeUpdate
	EventEnded
	EventError
	EventEnterFullscreen
	EventExitFullscreen
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventTimeUpdate:
		return "timeupdate"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	case EventEnterFullscreen:
		return "enterfullscreen"
	case EventExitFullscreen:
		return "exitfullscreen"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// ErrorCode classifies a playback failure.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota
	ErrorAborted
	ErrorNetwork
	ErrorDecode
	ErrorSourceNotSupported
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorAborted:
		return "aborted"
	case ErrorNetwork:
		return "network"
	case ErrorDecode:
		return "decode"
	case ErrorSourceNotSupported:
		return "source not supported"
	default:
		return "unknown"
	}
}

// Event is a single notification from the player.
// Time and Duration are set for EventTimeUpdate; Code and Detail for EventError.
type Event struct {
	Kind     EventKind
	Time     float64
	Duration float64
	Code     ErrorCode
	Detail   string
}

// Emitter fans events out to subscribers. The zero value is ready to use.
type Emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// Subscribe registers fn and returns a func removing it.
func (e *Emitter) Subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subs == nil {
		e.subs = make(map[int]func(Event))
	}
	id := e.nextID
	e.nextID++
	e.subs[id] = fn

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Emit delivers event to every subscriber in registration order.
func (e *Emitter) Emit(event Event) {
	e.mu.Lock()
	fns := make([]func(Event), 0, len(e.subs))
	for id := 0; id < e.nextID; id++ {
		if fn, ok := e.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
