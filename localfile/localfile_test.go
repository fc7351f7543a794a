package localfile

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidshelf/vidshelf/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestRegistry(t *testing.T) {
	Convey("Given a local media file", t, func() {
		fs := filesystem.API()
		dir := "/tmp/handles-" + t.Name()
		_ = fs.RemoveAll(dir)
		So(fs.WriteFile("/home/me/Holiday.MP4", []byte("frames"), 0o644), ShouldBeNil)

		registry := NewRegistry(dir)

		Convey("Create exposes it through a file URL", func() {
			handle, err := registry.Create("/home/me/Holiday.MP4")
			So(err, ShouldBeNil)
			So(handle.URL, ShouldStartWith, "file://")
			So(handle.Source, ShouldEqual, "/home/me/Holiday.MP4")
			So(handle.OriginalType, ShouldEqual, "video/mp4")
			So(filepath.Dir(handle.Path), ShouldEqual, dir)
			So(registry.Owns(handle.URL), ShouldBeTrue)
			So(len(registry.Live()), ShouldEqual, 1)

			content, err := fs.ReadFile(handle.Path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "frames")

			Convey("Release removes it exactly once", func() {
				So(registry.Release(handle.URL), ShouldBeTrue)
				So(registry.Release(handle.URL), ShouldBeFalse)
				So(registry.Live(), ShouldBeEmpty)

				exists, _ := fs.Exists(handle.Path)
				So(exists, ShouldBeFalse)
			})

			Convey("Prune keeps referenced handles", func() {
				other, err := registry.Create("/home/me/Holiday.MP4")
				So(err, ShouldBeNil)
				So(other.URL, ShouldNotEqual, handle.URL)

				So(registry.Prune([]string{handle.URL}), ShouldEqual, 1)
				So(registry.Owns(handle.URL), ShouldBeTrue)
				exists, _ := fs.Exists(other.Path)
				So(exists, ShouldBeFalse)
			})
		})

		Convey("Foreign URLs are never released", func() {
			So(registry.Owns("https://x.test/a.mp4"), ShouldBeFalse)
			So(registry.Release("https://x.test/a.mp4"), ShouldBeFalse)
			So(registry.Release("file:///home/me/Holiday.MP4"), ShouldBeFalse)

			exists, _ := fs.Exists("/home/me/Holiday.MP4")
			So(exists, ShouldBeTrue)
		})

		Convey("Missing files and directories are refused", func() {
			_, err := registry.Create("/home/me/missing.mkv")
			So(err, ShouldNotBeNil)

			_, err = registry.Create("/home/me")
			So(err, ShouldNotBeNil)
		})
	})
}
