package session

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidshelf/vidshelf/library"
	"github.com/vidshelf/vidshelf/player"
	"github.com/vidshelf/vidshelf/progress"
	"github.com/vidshelf/vidshelf/recent"
	"github.com/vidshelf/vidshelf/storage"
	"github.com/vidshelf/vidshelf/video"
)

type fakePlayer struct {
	player.Emitter

	loaded    []string
	seeks     []float64
	playing   bool
	duration  float64
	volume    float64
	muted     bool
	destroyed bool
	loadErr   error
}

func (f *fakePlayer) Load(url, _ string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = append(f.loaded, url)
	f.playing = false
	return nil
}

func (f *fakePlayer) Play() error                     { f.playing = true; return nil }
func (f *fakePlayer) Pause() error                    { f.playing = false; return nil }
func (f *fakePlayer) SeekTo(seconds float64) error    { f.seeks = append(f.seeks, seconds); return nil }
func (f *fakePlayer) SetVolume(level float64) error   { f.volume = level; return nil }
func (f *fakePlayer) SetMuted(muted bool) error       { f.muted = muted; return nil }
func (f *fakePlayer) GetDuration() (float64, error)   { return f.duration, nil }
func (f *fakePlayer) Restart() error                  { f.seeks = append(f.seeks, 0); f.playing = true; return nil }
func (f *fakePlayer) Destroy() error                  { f.destroyed = true; return nil }
func (f *fakePlayer) Wait() <-chan struct{}           { return make(chan struct{}) }

type countingProgress struct {
	*progress.Tracker
	updates int
}

func (c *countingProgress) Update(url string, t, d float64) progress.Outcome {
	c.updates++
	return c.Tracker.Update(url, t, d)
}

const (
	urlA = "https://x.test/a.mp4"
	urlB = "https://x.test/b.mp4"
	urlC = "https://x.test/c.mp4"
)

func TestController(t *testing.T) {
	Convey("Given a library of three videos and an idle controller", t, func() {
		st := storage.NewMemory()
		lib := library.New(st, nil)
		lib.ImportMany([]video.Entry{
			{Name: "A", URL: urlA},
			{Name: "B", URL: urlB},
			{Name: "C", URL: urlC},
		})
		tracker := &countingProgress{Tracker: progress.New(st)}
		recents := recent.New(st)
		fake := &fakePlayer{duration: 100}

		c := New(fake, lib, tracker, recents)
		lib.OnRemove(c.Removed)

		var seen []State
		c.Subscribe(func(s Status) { seen = append(seen, s.State) })

		So(c.Status().State, ShouldEqual, Idle)

		Convey("Selecting a video loads it and records it as played", func() {
			So(c.Select(urlA), ShouldBeNil)

			status := c.Status()
			So(status.State, ShouldEqual, Loading)
			So(status.Video.MustGet().URL, ShouldEqual, urlA)
			So(fake.loaded, ShouldResemble, []string{urlA})
			So(recents.List(0)[0].URL, ShouldEqual, urlA)
			So(lib.Current().MustGet().URL, ShouldEqual, urlA)

			Convey("Ready without saved progress starts playback", func() {
				fake.Emit(player.Event{Kind: player.EventReady})

				So(c.Status().State, ShouldEqual, Playing)
				So(c.Status().Duration, ShouldEqual, 100)
				So(fake.playing, ShouldBeTrue)
				So(fake.seeks, ShouldBeEmpty)
				So(seen, ShouldResemble, []State{Loading, Playing})
			})
		})

		Convey("Selecting an unknown url fails without a transition", func() {
			err := c.Select("https://x.test/missing.mp4")
			So(errors.Is(err, library.ErrNotFound), ShouldBeTrue)
			So(c.Status().State, ShouldEqual, Idle)
		})

		Convey("Selecting A, B then A again leaves one row for A in front", func() {
			So(c.Select(urlA), ShouldBeNil)
			So(c.Select(urlB), ShouldBeNil)
			So(c.Select(urlA), ShouldBeNil)

			list := recents.List(0)
			So(list, ShouldHaveLength, 2)
			So(list[0].URL, ShouldEqual, urlA)
			So(list[1].URL, ShouldEqual, urlB)
		})

		Convey("With saved progress past thirty seconds", func() {
			tracker.Tracker.Update(urlA, 40, 100)
			c.Select(urlA)
			c.HandleEvent(player.Event{Kind: player.EventReady})

			Convey("The controller waits for a resume decision", func() {
				status := c.Status()
				So(status.State, ShouldEqual, PendingResume)
				So(status.Saved.MustGet().CurrentTime, ShouldEqual, 40)
				So(fake.playing, ShouldBeFalse)
			})

			Convey("Resume seeks to the saved position", func() {
				So(c.Resume(), ShouldBeNil)
				So(c.Status().State, ShouldEqual, Playing)
				So(c.Status().Time, ShouldEqual, 40)
				So(fake.seeks, ShouldResemble, []float64{40})
				So(fake.playing, ShouldBeTrue)
			})

			Convey("Start over seeks to zero and keeps the saved record", func() {
				So(c.StartOver(), ShouldBeNil)
				So(c.Status().State, ShouldEqual, Playing)
				So(fake.seeks, ShouldResemble, []float64{0})
				So(tracker.Get(urlA).IsPresent(), ShouldBeTrue)
			})

			Convey("Resume is refused outside the decision", func() {
				c.Resume()
				So(c.Resume(), ShouldEqual, ErrInvalidTransition)
				So(c.StartOver(), ShouldEqual, ErrInvalidTransition)
			})
		})

		Convey("With auto resume enabled there is no decision", func() {
			c := New(fake, lib, tracker, recents, WithAutoResume(true))
			tracker.Tracker.Update(urlA, 40, 100)
			c.Select(urlA)
			c.HandleEvent(player.Event{Kind: player.EventReady})

			So(c.Status().State, ShouldEqual, Playing)
			So(c.Status().Time, ShouldEqual, 40)
		})

		Convey("With saved progress below thirty seconds playback starts from zero", func() {
			tracker.Tracker.Update(urlA, 20, 100)
			c.Select(urlA)
			c.HandleEvent(player.Event{Kind: player.EventReady})

			So(c.Status().State, ShouldEqual, Playing)
			So(fake.seeks, ShouldResemble, []float64{0})
		})

		Convey("While playing", func() {
			c.Select(urlA)
			c.HandleEvent(player.Event{Kind: player.EventReady})
			tracker.updates = 0

			Convey("Time updates are saved at most once per five seconds of media time", func() {
				for second := 1; second <= 12; second++ {
					c.HandleEvent(player.Event{Kind: player.EventTimeUpdate, Time: float64(second), Duration: 100})
				}
				So(tracker.updates, ShouldEqual, 2)
				So(c.Status().Time, ShouldEqual, 12)
				So(tracker.Get(urlA).MustGet().CurrentTime, ShouldEqual, 10)
			})

			Convey("An explicit seek is saved immediately", func() {
				c.HandleEvent(player.Event{Kind: player.EventTimeUpdate, Time: 1, Duration: 100})
				So(c.Seek(50), ShouldBeNil)
				So(tracker.updates, ShouldEqual, 1)
				So(tracker.Get(urlA).MustGet().CurrentTime, ShouldEqual, 50)
			})

			Convey("Flush saves the latest position between intervals", func() {
				c.HandleEvent(player.Event{Kind: player.EventTimeUpdate, Time: 33, Duration: 100})
				c.HandleEvent(player.Event{Kind: player.EventTimeUpdate, Time: 36, Duration: 100})
				updates := tracker.updates

				c.Flush()
				So(tracker.updates, ShouldEqual, updates+1)
				So(tracker.Get(urlA).MustGet().CurrentTime, ShouldEqual, 36)
			})

			Convey("Pause and play toggle the state", func() {
				So(c.Pause(), ShouldBeNil)
				So(c.Status().State, ShouldEqual, Paused)
				So(c.Pause(), ShouldEqual, ErrInvalidTransition)
				So(c.Play(), ShouldBeNil)
				So(c.Status().State, ShouldEqual, Playing)
			})

			Convey("Ending clears progress and advances to the next video", func() {
				c.Seek(50)
				c.HandleEvent(player.Event{Kind: player.EventEnded})

				So(tracker.Get(urlA).IsAbsent(), ShouldBeTrue)
				So(seen, ShouldContain, Ended)
				status := c.Status()
				So(status.State, ShouldEqual, Loading)
				So(status.Video.MustGet().URL, ShouldEqual, urlB)
				So(recents.List(0)[0].URL, ShouldEqual, urlB)
			})

			Convey("Fullscreen events are tracked", func() {
				c.HandleEvent(player.Event{Kind: player.EventEnterFullscreen})
				So(c.Status().Fullscreen, ShouldBeTrue)
				c.HandleEvent(player.Event{Kind: player.EventExitFullscreen})
				So(c.Status().Fullscreen, ShouldBeFalse)
			})

			Convey("Removing the current video returns to idle", func() {
				So(lib.Remove(urlA), ShouldBeTrue)
				So(c.Status().State, ShouldEqual, Idle)
				So(c.Status().Video.IsAbsent(), ShouldBeTrue)
			})

			Convey("Removing another video changes nothing", func() {
				lib.Remove(urlC)
				So(c.Status().State, ShouldEqual, Playing)
			})
		})

		Convey("Ending the last video returns to idle", func() {
			c.Select(urlC)
			c.HandleEvent(player.Event{Kind: player.EventReady})
			c.HandleEvent(player.Event{Kind: player.EventEnded})

			So(c.Status().State, ShouldEqual, Idle)
			So(lib.Current().IsAbsent(), ShouldBeTrue)
		})

		Convey("A player error is recoverable", func() {
			c.Select(urlA)
			recorded := len(recents.List(0))
			c.HandleEvent(player.Event{Kind: player.EventError, Code: player.ErrorNetwork, Detail: "connection refused"})

			status := c.Status()
			So(status.State, ShouldEqual, Failed)
			So(status.Err.Code, ShouldEqual, player.ErrorNetwork)
			So(status.Err.Error(), ShouldContainSubstring, "connection refused")
			So(tracker.updates, ShouldEqual, 0)

			Convey("Retry reloads without recording again", func() {
				So(c.Retry(), ShouldBeNil)
				So(c.Status().State, ShouldEqual, Loading)
				So(fake.loaded, ShouldResemble, []string{urlA, urlA})
				So(recents.List(0), ShouldHaveLength, recorded)
			})

			Convey("Skip moves to the next video", func() {
				So(c.Skip(), ShouldBeNil)
				So(c.Status().Video.MustGet().URL, ShouldEqual, urlB)
			})

			Convey("Late time updates are ignored", func() {
				c.HandleEvent(player.Event{Kind: player.EventTimeUpdate, Time: 30, Duration: 100})
				So(c.Status().State, ShouldEqual, Failed)
			})
		})

		Convey("A load failure surfaces as an error state", func() {
			fake.loadErr = errors.New("mpv not found")
			c.Select(urlA)
			So(c.Status().State, ShouldEqual, Failed)
			So(c.Status().Err.Detail, ShouldEqual, "mpv not found")
		})

		Convey("Commands without a video are refused", func() {
			So(c.Seek(10), ShouldEqual, ErrNoVideo)
			So(c.Skip(), ShouldEqual, ErrNoVideo)
			So(c.Retry(), ShouldEqual, ErrInvalidTransition)
		})

		Convey("Volume and mute pass through", func() {
			So(c.SetVolume(0.3), ShouldBeNil)
			So(c.SetMuted(true), ShouldBeNil)
			So(fake.volume, ShouldEqual, 0.3)
			So(fake.muted, ShouldBeTrue)
		})

		Convey("Close destroys the player and stops listening", func() {
			So(c.Close(), ShouldBeNil)
			So(fake.destroyed, ShouldBeTrue)
			c.Select(urlA)
			fake.Emit(player.Event{Kind: player.EventReady})
			So(c.Status().State, ShouldEqual, Loading)
		})
	})
}
