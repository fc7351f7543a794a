package storage

import (
	"encoding/json"
	"sync"

	"github.com/metafates/gache"
	"github.com/vidshelf/vidshelf/filesystem"
	"github.com/vidshelf/vidshelf/where"
)

// Disk stores each key in its own gache file under the data directory.
type Disk struct {
	mu      sync.Mutex
	cachers map[Key]*gache.Cache[json.RawMessage]
	path    func(key string) string
}

// NewDisk returns a Disk rooted at where.Store.
func NewDisk() *Disk {
	return NewDiskAt(where.Store)
}

// NewDiskAt returns a Disk resolving key files with path.
func NewDiskAt(path func(key string) string) *Disk {
	return &Disk{
		cachers: make(map[Key]*gache.Cache[json.RawMessage]),
		path:    path,
	}
}

func (d *Disk) cacher(key Key) *gache.Cache[json.RawMessage] {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.cachers[key]
	if !ok {
		c = gache.New[json.RawMessage](&gache.Options{
			Path:       d.path(string(key)),
			FileSystem: &filesystem.GacheFs{},
		})
		d.cachers[key] = c
	}
	return c
}

func (d *Disk) Load(key Key, target any) (bool, error) {
	raw, expired, err := d.cacher(key).Get()
	if err != nil {
		return false, &Error{Op: "read", Key: key, Err: err}
	}
	if expired || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return false, &Error{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

func (d *Disk) Save(key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &Error{Op: "encode", Key: key, Err: err}
	}

	if err := d.cacher(key).Set(raw); err != nil {
		return &Error{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (d *Disk) Delete(key Key) error {
	if err := d.cacher(key).Set(nil); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}
