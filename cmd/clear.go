package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vidshelf/vidshelf/icon"
	"github.com/vidshelf/vidshelf/query"
	"github.com/vidshelf/vidshelf/util"
	"github.com/vidshelf/vidshelf/where"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func(cmd *cobra.Command) error
}

var clearTargets = []clearTarget{
	{"saved positions", "progress", mo.Some("p"), func(cmd *cobra.Command) error {
		application(cmd).Progress.Clear()
		return nil
	}},
	{"recently played", "recent", mo.Some("r"), func(cmd *cobra.Command) error {
		application(cmd).Recent.Clear()
		return nil
	}},
	{"search history", "queries", mo.Some("q"), func(*cobra.Command) error {
		return query.Clear()
	}},
	{"temp directory", "temp", mo.Some("t"), func(*cobra.Command) error {
		return util.Delete(where.Temp())
	}},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear history and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.clear(cmd)
			e()
			handleErr(err)
			success(cmd, "%s cleared", util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
