package color

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestUse(t *testing.T) {
	Convey("Given the default palette", t, func() {
		So(Active().Name, ShouldEqual, "dark")

		Convey("Switching to light swaps every color", func() {
			Use(Light)
			defer Use(Dark)

			So(Active().Name, ShouldEqual, "light")
			So(Red, ShouldEqual, Light.Red)
			So(Accent, ShouldEqual, Light.Accent)
			So(Text, ShouldNotEqual, Dark.Text)
		})
	})
}
