package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/vidshelf/vidshelf/log"
)

// observed lists the properties the listener subscribes to, by observer id.
var observed = []string{"time-pos", "duration", "fullscreen"}

// EventListener keeps one connection to mpv open and turns its notifications into Events.
type EventListener struct {
	socketPath string
	emit       func(Event)
	conn       net.Conn
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a listener that passes decoded events to emit.
func NewEventListener(socketPath string, emit func(Event)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		emit:       emit,
		stopCh:     make(chan struct{}),
	}
}

// Start connects and registers the property observers. mpv only sends property
// changes to the client that asked for them, so registration uses the same connection.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, []any{"observe_property", i + 1, name}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop()

	log.Debugf("mpv event listener started on %s (observing: %s)", el.socketPath, strings.Join(observed, ", "))
	return nil
}

// Stop closes the connection and ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

func (el *EventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	var (
		reader  = bufio.NewReader(el.conn)
		dec     decoder
		pending []byte
	)

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		line := pending
		pending = nil
		if event, ok := dec.decode(line); ok {
			el.emit(event)
		}
	}
}

type rawEvent struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// decoder turns mpv notification lines into Events. It remembers the last
// known duration so time updates carry both values.
type decoder struct {
	duration   float64
	fullscreen bool
}

func (d *decoder) decode(line []byte) (Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil || raw.Event == "" {
		return Event{}, false
	}

	switch raw.Event {
	case "file-loaded":
		return Event{Kind: EventReady}, true
	case "end-file":
		d.duration = 0
		switch raw.Reason {
		case "eof":
			return Event{Kind: EventEnded}, true
		case "error":
			return Event{Kind: EventError, Code: errorCodeFor(raw.FileError), Detail: raw.FileError}, true
		}
		return Event{}, false
	case "property-change":
		return d.property(raw.Name, raw.Data)
	}
	return Event{}, false
}

func (d *decoder) property(name string, data json.RawMessage) (Event, bool) {
	switch name {
	case "duration":
		var duration float64
		if json.Unmarshal(data, &duration) == nil {
			d.duration = duration
		}
	case "time-pos":
		var pos *float64
		if json.Unmarshal(data, &pos) != nil || pos == nil {
			return Event{}, false
		}
		return Event{Kind: EventTimeUpdate, Time: *pos, Duration: d.duration}, true
	case "fullscreen":
		var fullscreen bool
		if json.Unmarshal(data, &fullscreen) != nil || fullscreen == d.fullscreen {
			return Event{}, false
		}
		d.fullscreen = fullscreen
		if fullscreen {
			return Event{Kind: EventEnterFullscreen}, true
		}
		return Event{Kind: EventExitFullscreen}, true
	}
	return Event{}, false
}

// errorCodeFor classifies mpv's end-file error string.
func errorCodeFor(fileError string) ErrorCode {
	msg := strings.ToLower(fileError)

	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("abort", "interrupt"):
		return ErrorAborted
	case contains("network", "connection", "timed out", "timeout", "http", "tls", "host"):
		return ErrorNetwork
	case contains("no audio or video data played", "audio output", "video output", "decod", "demux"):
		return ErrorDecode
	case contains("loading failed", "unrecognized file format", "unsupported"):
		return ErrorSourceNotSupported
	default:
		return ErrorUnknown
	}
}
