package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/style"
	"github.com/vidshelf/vidshelf/theme"
)

func init() {
	rootCmd.AddCommand(themeCmd)
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|system]",
	Short:     "Show or set the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.System)},
	Run: func(cmd *cobra.Command, args []string) {
		store := application(cmd).Theme

		if len(args) == 0 {
			current := store.Get()
			cmd.Printf("%s %s\n", style.Fg(color.Accent)(string(current)), style.Faint("("+color.Active().Name+" palette)"))
			return
		}

		preference, err := theme.Parse(args[0])
		handleErr(err)
		handleErr(store.Set(preference))

		palette := theme.Apply(preference)
		success(cmd, "theme set to %s (%s palette)", style.Fg(color.Accent)(string(preference)), palette.Name)
	},
}
