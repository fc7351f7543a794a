package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidshelf/vidshelf/importer"
	"github.com/vidshelf/vidshelf/util"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("schema", false, "Print the JSON schema of the import format and exit")
}

var importCmd = &cobra.Command{
	Use:   "import <file.json|file.txt>",
	Short: "Import videos from a JSON or text file",
	Long: `Import videos from a file.

JSON files hold an array of {"name": "...", "url": "..."} objects.
Text files hold one video per line, either "name,url" or a bare url.
Invalid records are skipped and URLs already in the library are not added again.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			schema, err := importer.Schema()
			handleErr(err)
			cmd.Println(string(schema))
			return
		}

		batch, err := importer.ParseFile(args[0])
		handleErr(err)

		added := application(cmd).Library.ImportMany(batch.Entries)
		duplicates := len(batch.Entries) - added

		success(cmd, "imported %s", util.Quantify(added, "video", "videos"))
		if duplicates > 0 {
			warn(cmd, "skipped %s already in the library", util.Quantify(duplicates, "video", "videos"))
		}
		if batch.Rejected > 0 {
			warn(cmd, "skipped %s without a valid url", util.Quantify(batch.Rejected, "record", "records"))
		}
	},
}
