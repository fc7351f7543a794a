package app

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/vidshelf/vidshelf/filesystem"
	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/video"
)

func init() {
	filesystem.SetMemMapFs()
}

type unreadableStorage struct {
	*storage.Memory
}

func (unreadableStorage) Load(key storage.Key, _ any) (bool, error) {
	return false, &storage.Error{Op: "read", Key: key, Err: errors.New("permission denied")}
}

func TestApp(t *testing.T) {
	Convey("Given an app over in-memory storage", t, func() {
		st := storage.NewMemory()
		a := New(Options{Storage: st, HandlesDir: "/handles"})

		Convey("Stores share the same storage", func() {
			a.Library.Add(video.Entry{Name: "Demo", URL: "https://x.test/a.mp4"})
			a.Progress.Update("https://x.test/a.mp4", 40, 100)

			reloaded := New(Options{Storage: st, HandlesDir: "/handles"})
			So(reloaded.Library.Len(), ShouldEqual, 1)
			So(reloaded.Progress.Get("https://x.test/a.mp4").IsPresent(), ShouldBeTrue)
		})

		Convey("Remove keeps progress and recents unless asked to forget", func() {
			for _, url := range []string{"https://x.test/a.mp4", "https://x.test/b.mp4"} {
				a.Library.Add(video.Entry{Name: "Demo", URL: url})
				a.Progress.Update(url, 40, 100)
				a.Recent.Record(video.Entry{Name: "Demo", URL: url})
			}

			So(a.Remove("https://x.test/a.mp4", false), ShouldBeTrue)
			So(a.Progress.Get("https://x.test/a.mp4").IsPresent(), ShouldBeTrue)
			So(a.Recent.List(0), ShouldHaveLength, 2)

			So(a.Remove("https://x.test/b.mp4", true), ShouldBeTrue)
			So(a.Progress.Get("https://x.test/b.mp4").IsAbsent(), ShouldBeTrue)

			So(a.Remove("https://x.test/missing.mp4", true), ShouldBeFalse)
		})

		Convey("Orphaned handles are released on startup", func() {
			fs := filesystem.API()
			So(afero.WriteFile(fs, "/media/clip.mp4", []byte("data"), 0o644), ShouldBeNil)

			entry, err := a.Library.AddLocalFile("/media/clip.mp4")
			So(err, ShouldBeNil)
			So(afero.WriteFile(fs, "/handles/stale.mp4", []byte("old"), 0o644), ShouldBeNil)

			New(Options{Storage: st, HandlesDir: "/handles"})

			stale, _ := afero.Exists(fs, "/handles/stale.mp4")
			So(stale, ShouldBeFalse)
			So(a.Handles.Owns(entry.URL), ShouldBeTrue)
			infos, _ := afero.ReadDir(fs, "/handles")
			So(infos, ShouldHaveLength, 1)
		})

		Convey("The collections document follows the library", func() {
			a.Library.Add(video.Entry{Name: "Series", URL: "https://x.test/1.mp4"})
			a.Library.Add(video.Entry{Name: "Series", URL: "https://x.test/2.mp4"})
			g := a.Collections.Group("", "name-asc")
			So(g.Collections, ShouldHaveLength, 1)

			_, ok := st.Raw(storage.KeyCollections)
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Incognito apps never touch the disk", t, func() {
		a := New(Options{Incognito: true, HandlesDir: "/handles"})
		_, ok := a.Storage.(*storage.Memory)
		So(ok, ShouldBeTrue)
	})

	Convey("Given a saved local file", t, func() {
		fs := filesystem.API()
		So(afero.WriteFile(fs, "/media/keep.mp4", []byte("data"), 0o644), ShouldBeNil)

		saveIn := func(dir string) video.Entry {
			saved := New(Options{Storage: storage.NewMemory(), HandlesDir: dir})
			entry, err := saved.Library.AddLocalFile("/media/keep.mp4")
			So(err, ShouldBeNil)
			return entry
		}

		Convey("An incognito startup leaves its handle alone", func() {
			entry := saveIn("/kept-incognito")

			a := New(Options{Incognito: true, HandlesDir: "/kept-incognito"})
			So(a.Library.Len(), ShouldEqual, 0)

			infos, _ := afero.ReadDir(fs, "/kept-incognito")
			So(infos, ShouldHaveLength, 1)
			So(a.Handles.Owns(entry.URL), ShouldBeTrue)
		})

		Convey("A startup that cannot read the library leaves its handle alone", func() {
			saveIn("/kept-unreadable")

			a := New(Options{Storage: unreadableStorage{storage.NewMemory()}, HandlesDir: "/kept-unreadable"})
			So(a.Library.Rehydrated(), ShouldBeFalse)

			infos, _ := afero.ReadDir(fs, "/kept-unreadable")
			So(infos, ShouldHaveLength, 1)
		})
	})
}
