package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/icon"
	"github.com/vidshelf/vidshelf/progress"
	"github.com/vidshelf/vidshelf/style"
	"github.com/vidshelf/vidshelf/util"
)

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.Flags().BoolP("json", "j", false, "Print as JSON")

	progressCmd.AddCommand(progressClearCmd)
	progressClearCmd.Flags().BoolP("all", "a", false, "Clear every saved position")
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show videos with a saved playback position",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := application(cmd)
		entries := a.Progress.List()

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(printJSON(cmd.OutOrStdout(), lo.SliceToMap(entries, func(e progress.Entry) (string, progress.Record) {
				return e.URL, e.Record
			})))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No videos in progress."))
			return
		}

		width := util.TerminalWidth(80)
		for _, e := range entries {
			name := e.URL
			if entry, ok := a.Library.Get(e.URL).Get(); ok {
				name = entry.Name
			}

			marker := " "
			if e.Resumable() {
				marker = icon.Get(icon.Resume)
			}

			cmd.Println(fit(fmt.Sprintf("%s %s %s %s",
				style.Fg(color.Accent)(marker),
				style.ProgressBar(e.ProgressPercent, barWidth),
				style.Bold(name),
				style.Faint(fmt.Sprintf("%.0f%% · %s", e.ProgressPercent, util.FormatSeconds(e.CurrentTime))),
			), width))
		}
	},
}

var progressClearCmd = &cobra.Command{
	Use:   "clear [url|name]",
	Short: "Forget the saved position of a video",
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("all")) {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		a := application(cmd)

		if lo.Must(cmd.Flags().GetBool("all")) {
			n := a.Progress.Clear()
			success(cmd, "cleared %s", util.Quantify(n, "saved position", "saved positions"))
			return
		}

		target := strings.Join(args, " ")
		if entry, ok := a.Library.Resolve(target).Get(); ok {
			target = entry.URL
		}

		if !a.Progress.Forget(target) {
			warn(cmd, "no saved position for %s", target)
			return
		}
		success(cmd, "cleared the saved position of %s", style.Fg(color.Purple)(target))
	},
}
