// Package library is the authoritative, persisted collection of video entries.
//
// Entries are unique by exact URL and kept in insertion order. Every mutation is
// written through to storage; storage failures are logged and the in-memory list
// stays authoritative for the session.
package library

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidshelf/vidshelf/localfile"
	"github.com/vidshelf/vidshelf/log"
	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/util"
	"github.com/vidshelf/vidshelf/video"
)

var (
	ErrNotFound  = errors.New("video not found")
	ErrDuplicate = errors.New("video already in library")
)

// Handles creates and releases local-file handles.
type Handles interface {
	Create(path string) (localfile.Handle, error)
	Release(url string) bool
}

// Store holds the library entries and the current selection.
type Store struct {
	mu       sync.RWMutex
	storage  storage.Storage
	handles  Handles
	entries  []video.Entry
	urls     map[string]struct{}
	current  mo.Option[string]
	version  uint64
	onRemove []func(video.Entry)
	loadErr  error
}

// New rehydrates a store from st. A missing or unreadable document yields an empty library.
func New(st storage.Storage, handles Handles) *Store {
	s := &Store{
		storage: st,
		handles: handles,
		entries: []video.Entry{},
		urls:    make(map[string]struct{}),
	}

	var persisted []video.Entry
	if _, err := st.Load(storage.KeyVideos, &persisted); err != nil {
		log.Warnf("%v; starting with an empty library", err)
		s.loadErr = err
		persisted = nil
	}
	for _, entry := range persisted {
		s.insert(entry)
	}

	log.Debugf("library loaded with %s", util.Quantify(len(s.entries), "video", "videos"))
	return s
}

// Rehydrated reports whether the persisted library was read, or found absent, without error.
func (s *Store) Rehydrated() bool {
	return s.loadErr == nil
}

func (s *Store) insert(entry video.Entry) bool {
	if entry.URL == "" {
		return false
	}
	if _, exists := s.urls[entry.URL]; exists {
		return false
	}

	s.entries = append(s.entries, entry)
	s.urls[entry.URL] = struct{}{}
	return true
}

// persist must be called with the lock held.
func (s *Store) persist() {
	s.version++
	storage.SaveOrLog(s.storage, storage.KeyVideos, s.entries)
}

// Add appends entry unless an entry with the same URL exists and reports whether it was added.
func (s *Store) Add(entry video.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.insert(entry) {
		return false
	}
	s.persist()
	return true
}

// ImportMany adds entries in order, skipping duplicates of the library and of
// earlier members of entries. It returns how many were added.
func (s *Store) ImportMany(entries []video.Entry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added int
	for _, entry := range entries {
		if s.insert(entry) {
			added++
		}
	}

	if added > 0 {
		s.persist()
	}
	log.Infof("imported %d of %d videos", added, len(entries))
	return added
}

// AddLocalFile exposes the file at path through a handle and adds it to the library.
// The handle is released again when the entry cannot be added.
func (s *Store) AddLocalFile(path string) (video.Entry, error) {
	if s.handles == nil {
		return video.Entry{}, errors.New("local files are not supported by this library")
	}

	handle, err := s.handles.Create(path)
	if err != nil {
		return video.Entry{}, err
	}

	name := strings.TrimSpace(util.FileStem(path))
	if name == "" {
		name = video.DeriveName(handle.URL)
	}

	entry := video.Entry{
		Name:         name,
		URL:          handle.URL,
		IsLocalFile:  true,
		OriginalType: handle.OriginalType,
	}

	if !s.Add(entry) {
		s.handles.Release(handle.URL)
		return entry, fmt.Errorf("%w: %s", ErrDuplicate, entry.URL)
	}
	return entry, nil
}

// Remove deletes the entry with the exact url. Removing the current video clears
// the selection; local entries release their handle. It reports whether an entry was removed.
func (s *Store) Remove(url string) bool {
	s.mu.Lock()

	idx := lo.IndexOf(lo.Map(s.entries, func(e video.Entry, _ int) string { return e.URL }), url)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	removed := s.entries[idx]
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	delete(s.urls, url)

	if current, ok := s.current.Get(); ok && current == url {
		s.current = mo.None[string]()
	}
	s.persist()

	hooks := append([]func(video.Entry){}, s.onRemove...)
	s.mu.Unlock()

	if removed.IsLocalFile && s.handles != nil {
		s.handles.Release(removed.URL)
	}

	for _, hook := range hooks {
		hook(removed)
	}
	return true
}

// OnRemove registers fn to run after every removal.
func (s *Store) OnRemove(fn func(video.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRemove = append(s.onRemove, fn)
}

// List returns a snapshot of the entries in insertion order.
func (s *Store) List() []video.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]video.Entry{}, s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Version increases with every mutation. Derived views use it as a cache key.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Get looks an entry up by exact url.
func (s *Store) Get(url string) mo.Option[video.Entry] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(url)
}

func (s *Store) get(url string) mo.Option[video.Entry] {
	entry, ok := lo.Find(s.entries, func(e video.Entry) bool { return e.URL == url })
	if !ok {
		return mo.None[video.Entry]()
	}
	return mo.Some(entry)
}

// Next returns the entry following url in library order.
func (s *Store) Next(url string) mo.Option[video.Entry] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, entry := range s.entries {
		if entry.URL == url && i+1 < len(s.entries) {
			return mo.Some(s.entries[i+1])
		}
	}
	return mo.None[video.Entry]()
}

// Select makes the entry with url the current video.
func (s *Store) Select(url string) (video.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.get(url).Get()
	if !ok {
		return video.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	s.current = mo.Some(url)
	return entry, nil
}

// ClearCurrent drops the current selection.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = mo.None[string]()
}

// Current returns the selected entry, if any.
func (s *Store) Current() mo.Option[video.Entry] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	url, ok := s.current.Get()
	if !ok {
		return mo.None[video.Entry]()
	}
	return s.get(url)
}

// Resolve finds an entry by exact url, then by case-insensitive name, then by the
// closest fuzzy name match.
func (s *Store) Resolve(query string) mo.Option[video.Entry] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.TrimSpace(query)
	if query == "" {
		return mo.None[video.Entry]()
	}

	if entry, ok := s.get(query).Get(); ok {
		return mo.Some(entry)
	}

	if entry, ok := lo.Find(s.entries, func(e video.Entry) bool {
		return strings.EqualFold(strings.TrimSpace(e.Name), query)
	}); ok {
		return mo.Some(entry)
	}

	names := lo.Map(s.entries, func(e video.Entry, _ int) string { return e.Name })
	ranks := fuzzy.RankFindFold(query, names)
	if len(ranks) == 0 {
		return mo.None[video.Entry]()
	}

	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool {
		if a.Distance == b.Distance {
			return a.OriginalIndex < b.OriginalIndex
		}
		return a.Distance < b.Distance
	})
	return mo.Some(s.entries[best.OriginalIndex])
}
