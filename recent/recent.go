// Package recent keeps the bounded, most-recent-first list of played videos.
package recent

import (
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/vidshelf/vidshelf/constant"
	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/video"
)

// Entry is a video stamped with the time it was last selected.
type Entry struct {
	video.Entry
	LastPlayed time.Time `json:"lastPlayed"`
}

// Tracker holds recently played entries. Rows are unique by URL and strictly
// ordered by LastPlayed, newest first.
type Tracker struct {
	mu      sync.RWMutex
	storage storage.Storage
	entries []Entry
	limit   int
	now     func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now as the source of LastPlayed.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New rehydrates a tracker from st.
func New(st storage.Storage, options ...Option) *Tracker {
	t := &Tracker{
		storage: st,
		entries: []Entry{},
		limit:   constant.RecentlyPlayedLimit,
		now:     time.Now,
	}
	for _, option := range options {
		option(t)
	}

	var persisted []Entry
	storage.LoadOrDefault(st, storage.KeyRecentlyPlayed, &persisted)
	persisted = lo.UniqBy(persisted, func(e Entry) string { return e.URL })
	if len(persisted) > t.limit {
		persisted = persisted[:t.limit]
	}
	t.entries = append(t.entries, persisted...)
	return t
}

// Record stamps entry as played now and moves it to the front.
func (t *Tracker) Record(entry video.Entry) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	stamp := t.now().UTC()
	if len(t.entries) > 0 && !stamp.After(t.entries[0].LastPlayed) {
		stamp = t.entries[0].LastPlayed.Add(time.Millisecond)
	}

	row := Entry{Entry: entry, LastPlayed: stamp}
	row.OriginalType = ""

	rest := lo.Reject(t.entries, func(e Entry, _ int) bool {
		return e.URL == entry.URL
	})
	t.entries = append([]Entry{row}, rest...)
	if len(t.entries) > t.limit {
		t.entries = t.entries[:t.limit]
	}

	storage.SaveOrLog(t.storage, storage.KeyRecentlyPlayed, t.entries)
	return row
}

// List returns up to limit rows, most recent first. A non-positive limit returns all rows.
func (t *Tracker) List(limit int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := len(t.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, t.entries[:n])
	return out
}

// Clear removes every row.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = []Entry{}
	storage.SaveOrLog(t.storage, storage.KeyRecentlyPlayed, t.entries)
}
