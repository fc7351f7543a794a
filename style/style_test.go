package style

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProgressBar(t *testing.T) {
	Convey("ProgressBar", t, func() {
		Convey("Has the requested printable width", func() {
			So(ansi.PrintableRuneWidth(ProgressBar(40, 10)), ShouldEqual, 10)
		})

		Convey("Clamps out of range percentages", func() {
			So(strings.Count(ProgressBar(150, 4), "█"), ShouldEqual, 4)
			So(strings.Count(ProgressBar(-3, 4), "█"), ShouldEqual, 0)
		})

		Convey("Is empty for a non-positive width", func() {
			So(ProgressBar(50, 0), ShouldBeEmpty)
		})
	})
}
