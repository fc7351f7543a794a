package config

import (
	"encoding/json"
	"testing"

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
	Convey("Config Setup", t, func() {
		t.Setenv(where.EnvConfigPath, "/cfg")

		Convey("Should initialize without a config file", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should populate defaults", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetString(key.LibrarySort), ShouldEqual, "name-asc")
			So(viper.GetString(key.PlayerBinary), ShouldEqual, "mpv")
		})

		Convey("Should read an existing config file", func() {
			So(filesystem.API().WriteFile("/cfg/vidshelf.toml", []byte("[player]\nvolume = 40\n"), 0o644), ShouldBeNil)
			defer func() { _ = filesystem.API().Remove("/cfg/vidshelf.toml") }()

			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.PlayerVolume), ShouldEqual, 40)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.resume_prompt"), ShouldEqual, "player_resume_prompt")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.PlayerVolume]

		Convey("Env is prefixed with the app name", func() {
			So(field.Env(), ShouldEqual, "VIDSHELF_PLAYER_VOLUME")
		})

		Convey("JSON carries type and default", func() {
			raw, err := json.Marshal(&field)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded["type"], ShouldEqual, "int")
			So(decoded["default"], ShouldEqual, 100.0)
		})
	})
}
