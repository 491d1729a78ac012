package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opendataregistry/regsite/internal/presentation"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print the tag index as JSON",
	Long: `Print every tag in index order with the datasets carrying it.

Examples:
  regsite tags | jq '.[] | select(.count > 1) | .tag'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, _, err := openCollection()
		if err != nil {
			return err
		}
		idx, err := collection.Index(commandContext(cmd))
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatTags(presentation.FromTagIndex(idx))
	},
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Print the date index as JSON, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, _, err := openCollection()
		if err != nil {
			return err
		}
		idx, err := collection.Index(commandContext(cmd))
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatDates(presentation.FromDateIndex(idx))
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(datesCmd)
}
