package cmd

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/constant"
	"github.com/vidshelf/vidshelf/style"
)

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntP("limit", "n", 0, fmt.Sprintf("Show at most this many rows (the list keeps %d)", constant.RecentlyPlayedLimit))
	recentCmd.Flags().BoolP("json", "j", false, "Print as JSON")
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently played videos, most recent first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := application(cmd)
		rows := a.Recent.List(lo.Must(cmd.Flags().GetInt("limit")))

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(printJSON(cmd.OutOrStdout(), rows))
			return
		}

		if len(rows) == 0 {
			cmd.Println(style.Faint("Nothing played yet."))
			return
		}

		for i, row := range rows {
			name := style.Bold(row.Name)
			if a.Library.Get(row.URL).IsAbsent() {
				name = style.Faint(row.Name + " (removed)")
			}
			cmd.Printf("%s %s %s\n",
				style.Fg(color.Faint)(fmt.Sprintf("%2d.", i+1)),
				name,
				style.Faint(row.LastPlayed.Local().Format(time.DateTime)),
			)
		}
	},
}
