// Package progress tracks mid-playback positions per video URL.
//
// A record exists only while playback is strictly between 5% and 95% of the
// duration. Crossing the upper bound deletes it; updates at or below the lower
// bound are ignored.
package progress

import (
	"math"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/vidshelf/vidshelf/constant"
	"github.com/vidshelf/vidshelf/log"
	"github.com/vidshelf/vidshelf/storage"
	"golang.org/x/exp/slices"
)

// Record is a saved playback position.
type Record struct {
	CurrentTime     float64   `json:"currentTime"`
	Duration        float64   `json:"duration"`
	ProgressPercent float64   `json:"progressPercent"`
	LastWatched     time.Time `json:"lastWatched"`
}

// Resumable reports whether the record is far enough in to offer a resume prompt.
func (r Record) Resumable() bool {
	return r.CurrentTime > constant.ResumeThresholdSeconds
}

// Outcome describes what an Update did.
type Outcome int

const (
	// Ignored means the update changed nothing.
	Ignored Outcome = iota
	// Saved means the record was created or replaced.
	Saved
	// Completed means the record was deleted because playback is effectively finished.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Completed:
		return "completed"
	default:
		return "ignored"
	}
}

// Entry pairs a record with the URL it belongs to.
type Entry struct {
	URL string
	Record
}

// Tracker holds progress records and writes them through to storage.
type Tracker struct {
	mu      sync.RWMutex
	storage storage.Storage
	records map[string]Record
	now     func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now as the source of LastWatched.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New rehydrates a tracker from st.
func New(st storage.Storage, options ...Option) *Tracker {
	t := &Tracker{
		storage: st,
		records: make(map[string]Record),
		now:     time.Now,
	}
	for _, option := range options {
		option(t)
	}

	var persisted map[string]Record
	storage.LoadOrDefault(st, storage.KeyWatchProgress, &persisted)
	for url, record := range persisted {
		if inRange(record.ProgressPercent) && record.Duration > 0 {
			t.records[url] = record
		}
	}
	return t
}

func inRange(pct float64) bool {
	return pct > constant.ProgressMinPercent && pct < constant.ProgressMaxPercent
}

func (t *Tracker) persist() {
	storage.SaveOrLog(t.storage, storage.KeyWatchProgress, t.records)
}

// Update applies a playback position for url. Non-positive or non-finite
// durations are ignored.
func (t *Tracker) Update(url string, currentTime, duration float64) Outcome {
	if url == "" || duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) || math.IsNaN(currentTime) {
		return Ignored
	}

	pct := currentTime / duration * 100

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case pct >= constant.ProgressMaxPercent:
		if _, ok := t.records[url]; !ok {
			return Completed
		}
		delete(t.records, url)
		log.WithFields(logrus.Fields{"url": url}).Debug("progress cleared on completion")
	case inRange(pct):
		t.records[url] = Record{
			CurrentTime:     currentTime,
			Duration:        duration,
			ProgressPercent: pct,
			LastWatched:     t.now(),
		}
	default:
		return Ignored
	}

	t.persist()
	if pct >= constant.ProgressMaxPercent {
		return Completed
	}
	return Saved
}

// Get returns the record stored for url.
func (t *Tracker) Get(url string) mo.Option[Record] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	record, ok := t.records[url]
	if !ok {
		return mo.None[Record]()
	}
	return mo.Some(record)
}

// Forget deletes the record for url.
func (t *Tracker) Forget(url string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[url]; !ok {
		return false
	}
	delete(t.records, url)
	t.persist()
	return true
}

// Clear deletes every record and returns how many there were.
func (t *Tracker) Clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.records)
	if n == 0 {
		return 0
	}
	t.records = make(map[string]Record)
	t.persist()
	return n
}

// List returns every record, most recently watched first.
func (t *Tracker) List() []Entry {
	t.mu.RLock()
	entries := lo.MapToSlice(t.records, func(url string, record Record) Entry {
		return Entry{URL: url, Record: record}
	})
	t.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.LastWatched.Compare(a.LastWatched); c != 0 {
			return c
		}
		if a.URL < b.URL {
			return -1
		}
		if a.URL > b.URL {
			return 1
		}
		return 0
	})
	return entries
}

// Len returns the number of records.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}
