// Package app builds the long-lived stores once and hands them to the commands.
package app

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidshelf/vidshelf/collection"
	"github.com/vidshelf/vidshelf/key"
	"github.com/vidshelf/vidshelf/library"
	"github.com/vidshelf/vidshelf/localfile"
	"github.com/vidshelf/vidshelf/log"
	"github.com/vidshelf/vidshelf/player"
	"github.com/vidshelf/vidshelf/progress"
	"github.com/vidshelf/vidshelf/recent"
	"github.com/vidshelf/vidshelf/session"
	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/theme"
	"github.com/vidshelf/vidshelf/video"
	"github.com/vidshelf/vidshelf/where"
)

// Options controls how the App is assembled.
type Options struct {
	// Incognito keeps every document in memory for the lifetime of the process.
	Incognito bool

	// Storage overrides the storage backend.
	Storage storage.Storage

	// HandlesDir overrides where local-file handles are placed.
	HandlesDir string
}

// App holds the stores shared by every command.
type App struct {
	Storage     storage.Storage
	Handles     *localfile.Registry
	Library     *library.Store
	Progress    *progress.Tracker
	Recent      *recent.Tracker
	Collections *collection.Cache
	Theme       *theme.Store
}

// New rehydrates every store from storage and activates the stored theme.
func New(options Options) *App {
	st := options.Storage
	if st == nil {
		if options.Incognito {
			st = storage.NewMemory()
		} else {
			st = storage.NewDisk()
		}
	}

	dir := options.HandlesDir
	if dir == "" {
		dir = where.Handles()
	}
	handles := localfile.NewRegistry(dir)

	a := &App{
		Storage:  st,
		Handles:  handles,
		Library:  library.New(st, handles),
		Progress: progress.New(st),
		Recent:   recent.New(st),
		Theme:    theme.NewStore(st),
	}
	a.Collections = collection.NewCache(a.Library, st)

	// Only a library read from real storage can tell which handles are orphaned.
	if !options.Incognito && a.Library.Rehydrated() {
		if pruned := a.pruneHandles(); pruned > 0 {
			log.Infof("released %d orphaned local file handles", pruned)
		}
	}

	theme.Apply(a.Theme.Get())
	return a
}

// pruneHandles releases handles no library entry refers to anymore.
func (a *App) pruneHandles() int {
	keep := lo.FilterMap(a.Library.List(), func(e video.Entry, _ int) (string, bool) {
		return e.URL, e.IsLocalFile
	})
	return a.Handles.Prune(keep)
}

// Remove deletes the video with url. With forget its saved progress goes too;
// otherwise progress and recently played rows are kept.
func (a *App) Remove(url string, forget bool) bool {
	if !a.Library.Remove(url) {
		return false
	}
	if forget {
		a.Progress.Forget(url)
	}
	return true
}

// NewSession creates a playback controller for p, configured from viper.
func (a *App) NewSession(p player.Player) *session.Controller {
	controller := session.New(p, a.Library, a.Progress, a.Recent,
		session.WithAutoResume(!viper.GetBool(key.PlayerResumePrompt)),
	)
	a.Library.OnRemove(controller.Removed)

	if err := controller.SetVolume(float64(viper.GetInt(key.PlayerVolume)) / 100); err != nil {
		log.Warnf("set volume: %v", err)
	}
	if err := controller.SetMuted(viper.GetBool(key.PlayerMuted)); err != nil {
		log.Warnf("set muted: %v", err)
	}
	return controller
}
