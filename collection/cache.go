package collection

import (
	"sync"

	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/video"
)

// Source is the read side of the library a Cache derives from.
type Source interface {
	List() []video.Entry
	Version() uint64
}

type cacheKey struct {
	version uint64
	search  string
	mode    SortMode
}

// Cache memoizes Group results keyed by library version, search and sort mode.
// Each new library version also refreshes the non-authoritative "collections"
// document, which holds the unfiltered grouping.
type Cache struct {
	mu        sync.Mutex
	source    Source
	storage   storage.Storage
	results   map[cacheKey]Grouping
	persisted uint64
	written   bool
}

// NewCache returns a cache over source. st may be nil to skip persisting.
func NewCache(source Source, st storage.Storage) *Cache {
	return &Cache{
		source:  source,
		storage: st,
		results: make(map[cacheKey]Grouping),
	}
}

// Group returns the grouping of the current library for search and mode.
func (c *Cache) Group(search string, mode SortMode) Grouping {
	c.mu.Lock()
	defer c.mu.Unlock()

	version := c.source.Version()
	key := cacheKey{version: version, search: search, mode: mode}
	if grouping, ok := c.results[key]; ok {
		return grouping
	}

	for k := range c.results {
		if k.version != version {
			delete(c.results, k)
		}
	}

	entries := c.source.List()
	grouping := Group(entries, search, mode)
	c.results[key] = grouping

	if c.storage != nil && (!c.written || c.persisted != version) {
		storage.SaveOrLog(c.storage, storage.KeyCollections, Group(entries, "", SortNone).Collections)
		c.persisted, c.written = version, true
	}
	return grouping
}

// Size returns the number of memoized groupings.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
