package cmd

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/library"
	"github.com/vidshelf/vidshelf/style"
	"github.com/vidshelf/vidshelf/video"
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("file", "f", "", "Add a local video file instead of a URL")
}

var addCmd = &cobra.Command{
	Use:   "add <url> [name...]",
	Short: "Add a video by URL, or a local file with --file",
	Long: `Add a video by URL. Without a name one is derived from the URL path.
A URL already in the library is not added twice.`,
	Example: `  vidshelf add https://example.com/media/big-buck-bunny.mp4
  vidshelf add rtsp://camera.local/stream Front door
  vidshelf add --file ~/Movies/holiday.mkv`,
	Args: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("file") {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		lib := application(cmd).Library

		if path := lo.Must(cmd.Flags().GetString("file")); path != "" {
			entry, err := lib.AddLocalFile(path)
			handleErr(err)
			success(cmd, "added %s", style.Fg(color.Purple)(entry.Name))
			return
		}

		entry, err := video.BuildEntry(strings.Join(args[1:], " "), args[0])
		handleErr(err)

		if !lib.Add(entry) {
			existing := lib.Get(entry.URL).OrElse(entry)
			warn(cmd, "%v: already saved as %s", library.ErrDuplicate, style.Fg(color.Purple)(existing.Name))
			return
		}
		success(cmd, "added %s", style.Fg(color.Purple)(entry.Name))
	},
}
