package collection

import (
	"fmt"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/video"
)

func entry(name, url string) video.Entry {
	return video.Entry{Name: name, URL: url}
}

func flatten(g Grouping) []video.Entry {
	var out []video.Entry
	for _, c := range g.Collections {
		out = append(out, c.Videos...)
	}
	return append(out, g.Singles...)
}

func TestGroup(t *testing.T) {
	Convey("Given a library", t, func() {
		entries := []video.Entry{
			entry("Series", "https://x.test/s1.mp4"),
			entry("Movie", "https://x.test/movie.mp4"),
			entry("Series ", "https://x.test/s2.mp4"),
			entry("Alpha", "https://x.test/alpha.mp4"),
			entry("Series", "https://x.test/s3.mp4"),
		}

		Convey("Videos sharing a trimmed name form one collection", func() {
			g := Group(entries, "", SortNone)
			So(len(g.Collections), ShouldEqual, 1)
			So(g.Collections[0].Name, ShouldEqual, "Series")
			So(g.Collections[0].Count, ShouldEqual, 3)
			So(g.Collections[0].Count, ShouldEqual, len(g.Collections[0].Videos))
			So(g.Singles, ShouldResemble, []video.Entry{entries[1], entries[3]})
		})

		Convey("Collections keep member insertion order", func() {
			g := Group(entries, "", SortNameAsc)
			So(g.Collections[0].Videos, ShouldResemble, []video.Entry{entries[0], entries[2], entries[4]})
		})

		Convey("Search filters on name and url, case-insensitively", func() {
			g := Group(entries, "  MOVIE ", SortNone)
			So(g.Collections, ShouldBeEmpty)
			So(g.Singles, ShouldResemble, []video.Entry{entries[1]})

			g = Group(entries, "s2.mp4", SortNone)
			So(g.Singles, ShouldResemble, []video.Entry{entries[2]})
		})

		Convey("A search can split a collection into a single", func() {
			g := Group(entries, "s1", SortNone)
			So(g.Collections, ShouldBeEmpty)
			So(len(g.Singles), ShouldEqual, 1)
		})

		Convey("Sorting applies to both halves independently", func() {
			asc := Group(entries, "", SortNameAsc)
			So(asc.Singles[0].Name, ShouldEqual, "Alpha")
			So(asc.Singles[1].Name, ShouldEqual, "Movie")

			desc := Group(entries, "", SortNameDesc)
			So(desc.Singles[0].Name, ShouldEqual, "Movie")
			So(desc.Singles[1].Name, ShouldEqual, "Alpha")
		})

		Convey("Unknown sort modes keep first-seen order", func() {
			g := Group(entries, "", SortMode("by-date"))
			So(g.Singles[0].Name, ShouldEqual, "Movie")
		})

		Convey("Names compare by locale rather than byte order", func() {
			g := Group([]video.Entry{
				entry("zebra", "https://x.test/z.mp4"),
				entry("Éclair", "https://x.test/e.mp4"),
				entry("apple", "https://x.test/a.mp4"),
			}, "", SortNameAsc)
			So(g.Singles[0].Name, ShouldEqual, "apple")
			So(g.Singles[1].Name, ShouldEqual, "Éclair")
			So(g.Singles[2].Name, ShouldEqual, "zebra")
		})

		Convey("Singles sort by their trimmed names", func() {
			g := Group([]video.Entry{
				entry("  zulu", "https://x.test/z.mp4"),
				entry("beta", "https://x.test/b.mp4"),
			}, "", SortNameAsc)
			So(g.Singles[0].Name, ShouldEqual, "beta")
			So(g.Singles[1].Name, ShouldEqual, "  zulu")
		})

		Convey("An empty library groups to empty, non-nil halves", func() {
			g := Group(nil, "", SortNameAsc)
			So(g.Collections, ShouldNotBeNil)
			So(g.Singles, ShouldNotBeNil)
			So(g.Len(), ShouldEqual, 0)
		})
	})
}

func TestGroupPartition(t *testing.T) {
	Convey("For random libraries the grouping partitions the filtered input", t, func() {
		rng := rand.New(rand.NewSource(7))
		names := []string{"A", "B", "C", "D", "E", " A"}

		for round := 0; round < 50; round++ {
			var entries []video.Entry
			n := rng.Intn(12)
			for i := 0; i < n; i++ {
				entries = append(entries, entry(names[rng.Intn(len(names))], fmt.Sprintf("https://x.test/%d/%d.mp4", round, i)))
			}
			search := []string{"", "a", "1.mp4"}[rng.Intn(3)]
			mode := SortModes()[rng.Intn(3)]

			g := Group(entries, search, mode)

			var filtered []video.Entry
			for _, e := range entries {
				if Matches(e, search) {
					filtered = append(filtered, e)
				}
			}

			So(g.Len(), ShouldEqual, len(filtered))
			So(flatten(g), ShouldHaveLength, len(filtered))
			for _, e := range filtered {
				So(flatten(g), ShouldContain, e)
			}

			singleNames := make(map[string]bool)
			for _, s := range g.Singles {
				singleNames[s.Name] = true
			}
			for _, c := range g.Collections {
				So(c.Count, ShouldBeGreaterThan, 1)
				So(singleNames[c.Name], ShouldBeFalse)
			}

			So(Group(entries, search, mode), ShouldResemble, g)
		}
	})
}

func TestParseSortMode(t *testing.T) {
	Convey("ParseSortMode", t, func() {
		mode, err := ParseSortMode(" Name-Desc ")
		So(err, ShouldBeNil)
		So(mode, ShouldEqual, SortNameDesc)

		_, err = ParseSortMode("newest")
		So(err, ShouldNotBeNil)
	})
}

type fakeSource struct {
	entries []video.Entry
	version uint64
	lists   int
}

func (f *fakeSource) List() []video.Entry { f.lists++; return f.entries }
func (f *fakeSource) Version() uint64     { return f.version }

func TestCache(t *testing.T) {
	Convey("Given a cache over a library", t, func() {
		source := &fakeSource{entries: []video.Entry{
			entry("Series", "https://x.test/1.mp4"),
			entry("Series", "https://x.test/2.mp4"),
		}}
		st := storage.NewMemory()
		cache := NewCache(source, st)

		Convey("Repeated queries are served from memory", func() {
			first := cache.Group("", SortNameAsc)
			second := cache.Group("", SortNameAsc)
			So(second, ShouldResemble, first)
			So(source.lists, ShouldEqual, 1)
		})

		Convey("The collections document is refreshed per version", func() {
			cache.Group("series", SortNameAsc)

			var stored []Collection
			found, err := st.Load(storage.KeyCollections, &stored)
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(stored[0].Count, ShouldEqual, 2)
		})

		Convey("A new version invalidates older results", func() {
			cache.Group("", SortNameAsc)
			cache.Group("x", SortNameAsc)
			So(cache.Size(), ShouldEqual, 2)

			source.entries = append(source.entries, entry("Series", "https://x.test/3.mp4"))
			source.version++

			g := cache.Group("", SortNameAsc)
			So(g.Collections[0].Count, ShouldEqual, 3)
			So(cache.Size(), ShouldEqual, 1)
		})
	})
}
