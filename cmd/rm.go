package cmd

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/library"
	"github.com/vidshelf/vidshelf/style"
	"github.com/vidshelf/vidshelf/video"
)

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().Bool("forget", false, "Also delete the saved playback position")
	rmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation on inexact matches")
}

// resolveVideo finds a library entry by url, name or fuzzy name.
func resolveVideo(lib *library.Store, query string) (video.Entry, error) {
	entry, ok := lib.Resolve(query).Get()
	if !ok {
		return video.Entry{}, fmt.Errorf("%w: %s", library.ErrNotFound, query)
	}
	return entry, nil
}

func exactMatch(entry video.Entry, query string) bool {
	query = strings.TrimSpace(query)
	return entry.URL == query || strings.EqualFold(strings.TrimSpace(entry.Name), query)
}

var rmCmd = &cobra.Command{
	Use:     "rm <url|name>",
	Short:   "Remove a video from the library",
	Aliases: []string{"remove"},
	Long: `Remove a video from the library.
Its saved playback position and recently played row are kept unless --forget is given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := application(cmd)
		query := strings.Join(args, " ")

		entry, err := resolveVideo(a.Library, query)
		handleErr(err)

		if !exactMatch(entry, query) && !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirm bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Remove %s (%s)?", entry.Name, entry.URL),
			}, &confirm))
			if !confirm {
				return
			}
		}

		if a.Remove(entry.URL, lo.Must(cmd.Flags().GetBool("forget"))) {
			success(cmd, "removed %s", style.Fg(color.Purple)(entry.Name))
		}
	},
}
