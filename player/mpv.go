package player

import (
	"crypto/rand"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vidshelf/vidshelf/constant"
	"github.com/vidshelf/vidshelf/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPV implements Player on top of mpv's JSON-IPC protocol.
type MPV struct {
	Emitter

	launcher   launcher
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	started    bool
	listener   *EventListener

	volume *float64
	muted  *bool

	mu sync.Mutex // serializes socket writes
}

// NewMPV returns an mpv player using binary. Nothing is started until the first Load.
func NewMPV(binary string) *MPV {
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{
		launcher: mpvLauncher(binary),
		exited:   make(chan struct{}),
	}
}

// New returns the player matching binary: iina-cli gets the IINA launcher, anything else is treated as mpv.
func New(binary string) Player {
	if strings.HasPrefix(strings.ToLower(filepath.Base(binary)), "iina") {
		return NewIINA(binary)
	}
	return NewMPV(binary)
}

// Load sanitizes the target and loads it paused. Ready is emitted once mpv has opened it.
func (m *MPV) Load(rawURL, title string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	title = sanitizeTitle(title)

	if !m.IsRunning() {
		if err := m.start(); err != nil {
			return err
		}
	}

	if err := m.set("force-media-title", title); err != nil {
		return err
	}
	if err := m.set("pause", true); err != nil {
		return err
	}
	if _, err := m.sendCommand([]any{"loadfile", target, "replace"}); err != nil {
		return fmt.Errorf("load %s: %w", target, err)
	}

	log.Debugf("mpv loading %s", target)
	return nil
}

func (m *MPV) start() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.App, randomBytes))
	}

	args := m.launcher.args(m.socketPath, m.volume, m.muted)
	m.cmd = exec.Command(m.launcher.binary, args...)

	m.cmd.SysProcAttr = detachedAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.launcher.binary, err)
	}

	m.exited = make(chan struct{})
	m.started = true
	exited := m.exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing %s: socket never became ready", m.launcher.binary)
			_ = forceStop(m.cmd)
		}
		return fmt.Errorf("player socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.Emit)
	if err := m.listener.Start(); err != nil {
		return err
	}
	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("%s exited before socket was ready", m.launcher.binary)
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) Play() error {
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	return m.set("pause", true)
}

func (m *MPV) SeekTo(seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	_, err := m.sendCommand([]any{"seek", seconds, "absolute"})
	return err
}

// SetVolume maps level from 0..1 onto mpv's 0..100 scale. Before the process
// starts the value is kept and passed on the command line.
func (m *MPV) SetVolume(level float64) error {
	level = volumePercent(level)
	if !m.IsRunning() {
		m.volume = &level
		return nil
	}
	return m.set("volume", level)
}

func (m *MPV) SetMuted(muted bool) error {
	if !m.IsRunning() {
		m.muted = &muted
		return nil
	}
	return m.set("mute", muted)
}

func (m *MPV) GetDuration() (float64, error) {
	return m.getFloatProperty("duration")
}

func (m *MPV) Restart() error {
	if err := m.SeekTo(0); err != nil {
		return err
	}
	return m.Play()
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if !m.started {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]any{"get_property", "pid"})
	return err == nil
}

// Destroy quits mpv, killing it if it does not exit in time, and removes the socket.
func (m *MPV) Destroy() error {
	if m.listener != nil {
		m.listener.Stop()
	}

	if !m.started {
		return nil
	}

	_, _ = m.sendCommand([]any{"quit"})

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = forceStop(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) set(property string, value any) error {
	_, err := m.sendCommand([]any{"set_property", property, value})
	if err != nil {
		return fmt.Errorf("set %s: %w", property, err)
	}
	return nil
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]any{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

func volumePercent(level float64) float64 {
	switch {
	case math.IsNaN(level):
		return 100
	case level < 0:
		return 0
	case level > 1:
		return 100
	default:
		return level * 100
	}
}

// launcher describes how to start a player process that exposes mpv's IPC.
type launcher struct {
	binary string
	// optionPrefix is prepended to every mpv option name.
	optionPrefix string
	base         []string
}

func mpvLauncher(binary string) launcher {
	return launcher{
		binary:       binary,
		optionPrefix: "--",
		base:         []string{"--no-terminal", "--really-quiet", "--force-window=yes", "--idle=yes"},
	}
}

func (l launcher) option(name string, value any) string {
	return fmt.Sprintf("%s%s=%v", l.optionPrefix, name, value)
}

// args builds the command line. Only what the session needs is passed so the
// user's own player configuration stays in effect.
func (l launcher) args(socketPath string, volume *float64, muted *bool) []string {
	args := append([]string{}, l.base...)
	args = append(args, l.option("input-ipc-server", socketPath))

	if volume != nil {
		args = append(args, l.option("volume", *volume))
	}
	if muted != nil {
		args = append(args, l.option("mute", map[bool]string{true: "yes", false: "no"}[*muted]))
	}
	return args
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// A leading dash would be read as an option.
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "rtmp", "rtsp":
			return l, nil
		case "file":
			if u.Path == "" {
				return "", fmt.Errorf("file URL without a path")
			}
			return filepath.Clean(filepath.FromSlash(u.Path)), nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
