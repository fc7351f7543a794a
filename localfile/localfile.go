// Package localfile manages handles that expose local media files to the player
// through transient file:// URLs.
//
// A handle is a link (or, on backends without links, a copy) placed in the handles
// directory. It lives until Release is called, so the registry is the single owner
// of every handle it creates.
package localfile

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vidshelf/vidshelf/filesystem"
	"github.com/vidshelf/vidshelf/log"
)

// Handle is a revocable reference to a local file.
type Handle struct {
	ID           string
	URL          string
	Path         string
	Source       string
	OriginalType string
}

// Registry creates and releases handles inside one directory.
type Registry struct {
	mu   sync.Mutex
	dir  string
	live map[string]Handle
}

// NewRegistry returns a registry placing handles in dir.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir, live: make(map[string]Handle)}
}

// Create exposes the file at source through a new handle.
func (r *Registry) Create(source string) (Handle, error) {
	fs := filesystem.API()

	info, err := fs.Stat(source)
	if err != nil {
		return Handle{}, fmt.Errorf("local file: %w", err)
	}
	if info.IsDir() {
		return Handle{}, fmt.Errorf("local file: %s is a directory", source)
	}

	if err := fs.MkdirAll(r.dir, os.ModePerm); err != nil {
		return Handle{}, fmt.Errorf("handles dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(source))
	id := uuid.NewString()
	path := filepath.Join(r.dir, id+ext)

	if err := link(source, path); err != nil {
		return Handle{}, fmt.Errorf("create handle: %w", err)
	}

	handle := Handle{
		ID:           id,
		URL:          toURL(path),
		Path:         path,
		Source:       source,
		OriginalType: mediaType(ext),
	}

	r.mu.Lock()
	r.live[handle.URL] = handle
	r.mu.Unlock()

	log.Debugf("created local handle %s for %s", handle.URL, source)
	return handle, nil
}

var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".flv":  "video/x-flv",
}

func mediaType(ext string) string {
	if t, ok := mediaTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

func link(source, path string) error {
	if filesystem.CanSymlink() {
		abs, err := filepath.Abs(source)
		if err == nil {
			if err = filesystem.Symlink(abs, path); err == nil {
				return nil
			}
		}
		log.Debugf("symlink %s: %v, copying instead", source, err)
	}

	src, err := filesystem.API().Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	return filesystem.API().WriteReader(path, src)
}

func toURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// Owns reports whether rawURL points into the handles directory.
func (r *Registry) Owns(rawURL string) bool {
	_, ok := r.pathOf(rawURL)
	return ok
}

func (r *Registry) pathOf(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" {
		return "", false
	}

	path := filepath.FromSlash(u.Path)
	if filepath.Dir(path) != filepath.Clean(r.dir) {
		return "", false
	}
	return path, true
}

// Release removes the handle behind rawURL. Handles created by an earlier
// session are released too. It reports whether anything was removed.
func (r *Registry) Release(rawURL string) bool {
	path, ok := r.pathOf(rawURL)
	if !ok {
		return false
	}

	r.mu.Lock()
	delete(r.live, rawURL)
	r.mu.Unlock()

	if err := filesystem.API().Remove(path); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("release local handle %s: %v", rawURL, err)
		}
		return false
	}

	log.Debugf("released local handle %s", rawURL)
	return true
}

// Live returns the handles created and not yet released in this session.
func (r *Registry) Live() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Values(r.live)
}

// Prune releases every handle file whose URL is not in keep and returns how many were removed.
func (r *Registry) Prune(keep []string) int {
	infos, err := filesystem.API().ReadDir(r.dir)
	if err != nil {
		return 0
	}

	kept := lo.SliceToMap(keep, func(u string) (string, struct{}) { return u, struct{}{} })

	var removed int
	for _, info := range infos {
		handleURL := toURL(filepath.Join(r.dir, info.Name()))
		if _, ok := kept[handleURL]; ok {
			continue
		}
		if r.Release(handleURL) {
			removed++
		}
	}
	return removed
}
