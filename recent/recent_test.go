package recent

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/video"
)

func v(name string) video.Entry {
	return video.Entry{Name: name, URL: "https://x.test/" + name + ".mp4"}
}

func TestTracker(t *testing.T) {
	Convey("Given an empty tracker", t, func() {
		st := storage.NewMemory()
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		tracker := New(st, WithClock(func() time.Time {
			now = now.Add(time.Minute)
			return now
		}))

		Convey("Selecting A, B then A again keeps one row for A in front", func() {
			first := tracker.Record(v("A"))
			tracker.Record(v("B"))
			second := tracker.Record(v("A"))

			list := tracker.List(0)
			So(list, ShouldHaveLength, 2)
			So(list[0].URL, ShouldEqual, v("A").URL)
			So(list[0].LastPlayed.Equal(second.LastPlayed), ShouldBeTrue)
			So(second.LastPlayed.After(first.LastPlayed), ShouldBeTrue)
			So(list[1].URL, ShouldEqual, v("B").URL)
		})

		Convey("The list is capped at ten rows", func() {
			for i := 0; i < 15; i++ {
				tracker.Record(v(fmt.Sprint(i)))
			}
			list := tracker.List(0)
			So(list, ShouldHaveLength, 10)
			So(list[0].Name, ShouldEqual, "14")
			So(list[9].Name, ShouldEqual, "5")
		})

		Convey("A limit truncates the view without touching stored rows", func() {
			tracker.Record(v("A"))
			tracker.Record(v("B"))
			tracker.Record(v("C"))

			So(tracker.List(2), ShouldHaveLength, 2)
			So(tracker.List(0), ShouldHaveLength, 3)
		})

		Convey("Rows survive a restart", func() {
			tracker.Record(v("A"))
			tracker.Record(v("B"))

			reloaded := New(st)
			list := reloaded.List(0)
			So(list, ShouldHaveLength, 2)
			So(list[0].Name, ShouldEqual, "B")
		})

		Convey("Rows are stored as flat entries with a timestamp", func() {
			tracker.Record(v("A"))
			raw, _ := st.Raw(storage.KeyRecentlyPlayed)
			So(string(raw), ShouldStartWith, `[{"name":"A","url":"https://x.test/A.mp4","isLocalFile":false,"lastPlayed":"`)
		})

		Convey("Clear empties the list", func() {
			tracker.Record(v("A"))
			tracker.Clear()
			So(tracker.List(0), ShouldBeEmpty)
		})
	})

	Convey("Given a clock that does not advance", t, func() {
		frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		tracker := New(storage.NewMemory(), WithClock(func() time.Time { return frozen }))

		Convey("Timestamps are still strictly descending", func() {
			tracker.Record(v("A"))
			tracker.Record(v("B"))
			list := tracker.List(0)
			So(list[0].LastPlayed.After(list[1].LastPlayed), ShouldBeTrue)
		})
	})
}

func TestTrackerProperties(t *testing.T) {
	Convey("After any sequence of selections", t, func() {
		rng := rand.New(rand.NewSource(3))
		tracker := New(storage.NewMemory())

		for i := 0; i < 300; i++ {
			tracker.Record(v(fmt.Sprint(rng.Intn(25))))

			list := tracker.List(0)
			So(len(list), ShouldBeLessThanOrEqualTo, 10)

			seen := make(map[string]bool)
			for j, row := range list {
				So(seen[row.URL], ShouldBeFalse)
				seen[row.URL] = true
				if j > 0 {
					So(list[j-1].LastPlayed.After(row.LastPlayed), ShouldBeTrue)
				}
			}
		}
	})
}
