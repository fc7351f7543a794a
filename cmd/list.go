package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidshelf/vidshelf/collection"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/icon"
	"github.com/vidshelf/vidshelf/key"
	"github.com/vidshelf/vidshelf/log"
	"github.com/vidshelf/vidshelf/query"
	"github.com/vidshelf/vidshelf/style"
	"github.com/vidshelf/vidshelf/util"
	"github.com/vidshelf/vidshelf/video"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("search", "s", "", "Only show videos whose name or url contains this")
	listCmd.Flags().String("sort", "", "Sort by name: name-asc, name-desc or none")
	listCmd.Flags().BoolP("json", "j", false, "Print the grouping as JSON")

	lo.Must0(listCmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(collection.SortModes(), func(m collection.SortMode, _ int) string { return string(m) }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(listCmd.RegisterFlagCompletionFunc("search", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the library, grouping videos that share a name",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := application(cmd)

		sortFlag := lo.Must(cmd.Flags().GetString("sort"))
		if sortFlag == "" {
			sortFlag = viper.GetString(key.LibrarySort)
		}
		mode, err := collection.ParseSortMode(sortFlag)
		handleErr(err)

		search := lo.Must(cmd.Flags().GetString("search"))
		grouping := a.Collections.Group(search, mode)

		if search != "" && grouping.Len() > 0 {
			if err := query.Remember(search, 1); err != nil {
				log.Warnf("remember search: %v", err)
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(printJSON(cmd.OutOrStdout(), grouping))
			return
		}

		if grouping.Len() == 0 {
			if search == "" {
				cmd.Println(style.Faint("The library is empty. Add a video with `vidshelf add <url>`."))
				return
			}
			cmd.Println(style.Faint(fmt.Sprintf("Nothing matches %q.", search)))
			if suggestion, ok := query.Suggest(search).Get(); ok && suggestion != search {
				cmd.Printf("Did you mean %s?\n", style.Fg(color.Yellow)(suggestion))
			}
			return
		}

		var (
			width   = util.TerminalWidth(80)
			showURL = viper.GetBool(key.LibraryShowURLs)
			lines   []string
		)

		render := func(entry video.Entry, indent string) {
			lines = append(lines, entryLines(entry, a.Progress.Get(entry.URL), indent, showURL, width)...)
		}

		for _, c := range grouping.Collections {
			lines = append(lines, fit(fmt.Sprintf("%s %s %s",
				style.Fg(color.Accent)(icon.Get(icon.Collection)),
				style.Title(c.Name),
				style.Faint(util.Quantify(c.Count, "video", "videos")),
			), width))
			for _, entry := range c.Videos {
				render(entry, "  ")
			}
		}
		for _, entry := range grouping.Singles {
			render(entry, "")
		}

		printLines(cmd.OutOrStdout(), lines)
	},
}
