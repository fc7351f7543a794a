// Package session runs the playback state machine for the current video.
//
// The controller reacts to player events and user commands, records selections
// in the recently-played list and writes playback positions to the progress
// tracker at a bounded rate.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/vidshelf/vidshelf/constant"
	"github.com/vidshelf/vidshelf/log"
	"github.com/vidshelf/vidshelf/player"
	"github.com/vidshelf/vidshelf/progress"
	"github.com/vidshelf/vidshelf/recent"
	"github.com/vidshelf/vidshelf/video"
)

// State is a playback state.
type State int

const (
	Idle State = iota
	Loading
	PendingResume
	Playing
	Paused
	Ended
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case PendingResume:
		return "pending resume"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNoVideo           = errors.New("no video selected")
	ErrInvalidTransition = errors.New("not allowed in the current state")
)

// PlaybackError is a failure reported by the player. It is recoverable by Retry or Skip.
type PlaybackError struct {
	URL    string
	Code   player.ErrorCode
	Detail string
}

func (e *PlaybackError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("playback of %s failed: %s", e.URL, e.Code)
	}
	return fmt.Sprintf("playback of %s failed: %s (%s)", e.URL, e.Code, e.Detail)
}

// Library is the part of the video store the controller drives.
type Library interface {
	Select(url string) (video.Entry, error)
	Next(url string) mo.Option[video.Entry]
	ClearCurrent()
}

// Progress stores playback positions.
type Progress interface {
	Update(url string, currentTime, duration float64) progress.Outcome
	Get(url string) mo.Option[progress.Record]
}

// Recents records selections.
type Recents interface {
	Record(entry video.Entry) recent.Entry
}

// Status is a snapshot of the controller.
type Status struct {
	State      State
	Video      mo.Option[video.Entry]
	Time       float64
	Duration   float64
	Saved      mo.Option[progress.Record]
	Err        *PlaybackError
	Fullscreen bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithAutoResume skips the resume decision and always continues from the saved position.
func WithAutoResume(auto bool) Option {
	return func(c *Controller) {
		c.autoResume = auto
	}
}

// Controller coordinates one player with the library, progress and recents.
// Player methods are called with the controller locked, so a Player must not
// deliver events synchronously from inside them.
type Controller struct {
	mu sync.Mutex

	player   player.Player
	library  Library
	progress Progress
	recents  Recents

	autoResume bool

	state      State
	current    mo.Option[video.Entry]
	time       float64
	duration   float64
	lastSaved  float64
	saved      mo.Option[progress.Record]
	err        *PlaybackError
	fullscreen bool

	listeners   map[int]func(Status)
	nextID      int
	unsubscribe func()
}

// New creates an idle controller subscribed to p.
func New(p player.Player, library Library, tracker Progress, recents Recents, options ...Option) *Controller {
	c := &Controller{
		player:    p,
		library:   library,
		progress:  tracker,
		recents:   recents,
		listeners: make(map[int]func(Status)),
	}
	for _, option := range options {
		option(c)
	}

	c.unsubscribe = p.Subscribe(c.HandleEvent)
	return c
}

// Subscribe registers fn for every status change and returns a func removing it.
func (c *Controller) Subscribe(fn func(Status)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Status returns the current snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

func (c *Controller) status() Status {
	return Status{
		State:      c.state,
		Video:      c.current,
		Time:       c.time,
		Duration:   c.duration,
		Saved:      c.saved,
		Err:        c.err,
		Fullscreen: c.fullscreen,
	}
}

// unlockAndNotify releases the lock and then delivers the snapshot to listeners.
func (c *Controller) unlockAndNotify() {
	status := c.status()
	fns := make([]func(Status), 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}

func (c *Controller) logger() *logrus.Entry {
	fields := logrus.Fields{"state": c.state.String()}
	if entry, ok := c.current.Get(); ok {
		fields["url"] = entry.URL
	}
	return log.WithFields(fields)
}

// Select makes url the current video and starts loading it.
func (c *Controller) Select(url string) error {
	entry, err := c.library.Select(url)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.load(entry, true)
	c.unlockAndNotify()
	return nil
}

// load must be called with the lock held.
func (c *Controller) load(entry video.Entry, record bool) {
	c.state = Loading
	c.current = mo.Some(entry)
	c.time, c.duration, c.lastSaved = 0, 0, 0
	c.saved = mo.None[progress.Record]()
	c.err = nil

	if record {
		c.recents.Record(entry)
	}

	if err := c.player.Load(entry.URL, entry.Name); err != nil {
		c.fail(player.ErrorUnknown, err.Error())
		return
	}
	c.logger().Debug("loading")
}

func (c *Controller) fail(code player.ErrorCode, detail string) {
	url := ""
	if entry, ok := c.current.Get(); ok {
		url = entry.URL
	}
	c.state = Failed
	c.err = &PlaybackError{URL: url, Code: code, Detail: detail}
	c.logger().Warn(c.err.Error())
}

// HandleEvent applies a player event.
func (c *Controller) HandleEvent(event player.Event) {
	c.mu.Lock()

	entry, ok := c.current.Get()
	if !ok {
		c.mu.Unlock()
		return
	}

	switch event.Kind {
	case player.EventReady:
		if c.state != Loading {
			c.mu.Unlock()
			return
		}
		c.ready(entry)
	case player.EventTimeUpdate:
		if c.state != Playing && c.state != Paused {
			c.mu.Unlock()
			return
		}
		c.timeUpdate(entry, event.Time, event.Duration)
	case player.EventEnded:
		if c.state == Idle || c.state == Failed {
			c.mu.Unlock()
			return
		}
		c.ended(entry)
		c.unlockAndNotify()

		c.mu.Lock()
		if current, ok := c.current.Get(); !ok || current.URL != entry.URL || c.state != Ended {
			c.mu.Unlock()
			return
		}
		c.advance(entry)
	case player.EventError:
		c.fail(event.Code, event.Detail)
	case player.EventEnterFullscreen:
		c.fullscreen = true
	case player.EventExitFullscreen:
		c.fullscreen = false
	default:
		c.mu.Unlock()
		return
	}

	c.unlockAndNotify()
}

func (c *Controller) ready(entry video.Entry) {
	if duration, err := c.player.GetDuration(); err == nil && duration > 0 {
		c.duration = duration
	}

	record, found := c.progress.Get(entry.URL).Get()
	switch {
	case found && record.Resumable() && c.autoResume:
		c.startAt(record.CurrentTime, true)
	case found && record.Resumable():
		c.saved = mo.Some(record)
		c.state = PendingResume
		if err := c.player.Pause(); err != nil {
			c.logger().Warnf("pause for resume prompt: %v", err)
		}
	default:
		c.startAt(0, found)
	}
}

// startAt optionally seeks to seconds and plays. The lock must be held.
func (c *Controller) startAt(seconds float64, seek bool) {
	if seek {
		if err := c.player.SeekTo(seconds); err != nil {
			c.logger().Warnf("seek to %.1f: %v", seconds, err)
		}
	}
	if err := c.player.Play(); err != nil {
		c.fail(player.ErrorUnknown, err.Error())
		return
	}
	c.time, c.lastSaved = seconds, seconds
	c.saved = mo.None[progress.Record]()
	c.state = Playing
}

func (c *Controller) timeUpdate(entry video.Entry, seconds, duration float64) {
	c.time = seconds
	if duration > 0 {
		c.duration = duration
	}

	if math.Abs(seconds-c.lastSaved) >= constant.ProgressSaveIntervalSeconds {
		c.progress.Update(entry.URL, c.time, c.duration)
		c.lastSaved = seconds
	}
}

func (c *Controller) ended(entry video.Entry) {
	if c.duration > 0 {
		c.progress.Update(entry.URL, c.duration, c.duration)
		c.time = c.duration
	}
	c.state = Ended
	c.logger().Debug("ended")
}

// advance loads the entry after current, or goes idle at the end of the library.
func (c *Controller) advance(current video.Entry) {
	next, ok := c.library.Next(current.URL).Get()
	if !ok {
		c.idle()
		return
	}

	entry, err := c.library.Select(next.URL)
	if err != nil {
		c.idle()
		return
	}
	c.load(entry, true)
}

func (c *Controller) idle() {
	c.library.ClearCurrent()
	c.state = Idle
	c.current = mo.None[video.Entry]()
	c.time, c.duration, c.lastSaved = 0, 0, 0
	c.saved = mo.None[progress.Record]()
	c.err = nil
}

// Resume continues from the saved position.
func (c *Controller) Resume() error {
	c.mu.Lock()
	record, ok := c.saved.Get()
	if c.state != PendingResume || !ok {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.startAt(record.CurrentTime, true)
	c.unlockAndNotify()
	return nil
}

// StartOver plays from the beginning. The saved position is left to be
// overwritten by normal progress updates.
func (c *Controller) StartOver() error {
	c.mu.Lock()
	if c.state != PendingResume {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.startAt(0, true)
	c.unlockAndNotify()
	return nil
}

// Play resumes a paused video.
func (c *Controller) Play() error {
	c.mu.Lock()
	if c.state != Paused {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := c.player.Play(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Playing
	c.unlockAndNotify()
	return nil
}

// Pause pauses a playing video.
func (c *Controller) Pause() error {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := c.player.Pause(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Paused
	c.unlockAndNotify()
	return nil
}

// Seek moves to seconds and saves the position immediately.
func (c *Controller) Seek(seconds float64) error {
	c.mu.Lock()
	entry, ok := c.current.Get()
	if !ok {
		c.mu.Unlock()
		return ErrNoVideo
	}
	if c.state != Playing && c.state != Paused {
		c.mu.Unlock()
		return ErrInvalidTransition
	}

	if err := c.player.SeekTo(seconds); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.duration <= 0 {
		if duration, err := c.player.GetDuration(); err == nil {
			c.duration = duration
		}
	}

	c.time, c.lastSaved = seconds, seconds
	c.progress.Update(entry.URL, seconds, c.duration)
	c.unlockAndNotify()
	return nil
}

// Flush saves the current position regardless of the save interval.
func (c *Controller) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.current.Get()
	if !ok || (c.state != Playing && c.state != Paused) {
		return
	}
	c.progress.Update(entry.URL, c.time, c.duration)
	c.lastSaved = c.time
}

// Retry reloads the current video after a playback error.
func (c *Controller) Retry() error {
	c.mu.Lock()
	entry, ok := c.current.Get()
	if c.state != Failed || !ok {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.load(entry, false)
	c.unlockAndNotify()
	return nil
}

// Skip abandons the current video and advances to the next one.
func (c *Controller) Skip() error {
	c.mu.Lock()
	entry, ok := c.current.Get()
	if !ok {
		c.mu.Unlock()
		return ErrNoVideo
	}
	c.advance(entry)
	c.unlockAndNotify()
	return nil
}

// Stop pauses the player and clears the selection.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.current.IsPresent() {
		_ = c.player.Pause()
	}
	c.idle()
	c.unlockAndNotify()
}

// Removed drops the selection when the current video was deleted from the library.
func (c *Controller) Removed(entry video.Entry) {
	c.mu.Lock()
	current, ok := c.current.Get()
	if !ok || current.URL != entry.URL {
		c.mu.Unlock()
		return
	}
	_ = c.player.Pause()
	c.idle()
	c.unlockAndNotify()
}

// SetVolume sets the player volume in the range 0..1.
func (c *Controller) SetVolume(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.SetVolume(level)
}

// SetMuted mutes or unmutes the player.
func (c *Controller) SetMuted(muted bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.SetMuted(muted)
}

// Wait returns a channel closed when the player exits.
func (c *Controller) Wait() <-chan struct{} {
	return c.player.Wait()
}

// Close detaches from the player and destroys it.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	return c.player.Destroy()
}
