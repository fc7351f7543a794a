package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
			So(CanSymlink(), ShouldBeTrue)
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")

			Convey("Which refuses symlinks", func() {
				So(CanSymlink(), ShouldBeFalse)
				So(Symlink("/a", "/b"), ShouldNotBeNil)
			})

			Convey("And backs the gache adapter", func() {
				var fs GacheFs
				So(fs.MkdirAll("/data", os.ModePerm), ShouldBeNil)

				f, err := fs.OpenFile("/data/videos.json", os.O_CREATE|os.O_RDWR, 0o644)
				So(err, ShouldBeNil)
				_, err = f.Write([]byte("[]"))
				So(err, ShouldBeNil)
				So(f.Close(), ShouldBeNil)

				exists, err := API().Exists("/data/videos.json")
				So(err, ShouldBeNil)
				So(exists, ShouldBeTrue)
			})
		})
	})
}
