package log

import (
	"testing"

	logrus "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidshelf/vidshelf/filesystem"
	"github.com/vidshelf/vidshelf/key"
	"github.com/vidshelf/vidshelf/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeFalse)

		Convey("Structured entries are silent", func() {
			entry := WithFields(logrus.Fields{"url": "https://x.test/a.mp4"})
			So(entry.Logger.IsLevelEnabled(logrus.ErrorLevel), ShouldBeFalse)
		})
	})

	Convey("Given logging enabled", t, func() {
		t.Setenv(where.EnvConfigPath, "/cfg")
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeTrue)
		So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)

		Info("library opened")
		files, err := filesystem.API().ReadDir(where.Logs())
		So(err, ShouldBeNil)
		So(len(files), ShouldEqual, 1)
	})
}
