package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/infrastructure/sqlite"
	"github.com/opendataregistry/regsite/internal/presentation"
)

var (
	listTags         []string
	listAlphabetical bool
	listDB           string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets as JSON",
	Long: `List the canonical datasets as JSON, in ranked order by default.

Use --tag to filter by tag (repeatable, AND logic).
Use --alphabetical for the name-ordered view used by usage example pages.
Use --db to read a previously exported datasets.db instead of the sources.

Examples:
  # List all datasets
  regsite list

  # Filter by multiple tags (AND logic - must match ALL)
  regsite list --tag aws-pds --tag "satellite imagery"

  # Parse specific fields with jq
  regsite list | jq '.[].slug'

  # Query the last export
  regsite list --db dist/datasets.db --tag climate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter := presentation.NewFormatter(cmd.OutOrStdout())

		if listDB != "" {
			return listFromDB(cmd, formatter)
		}

		collection, _, err := openCollection()
		if err != nil {
			return err
		}
		records, err := collection.Get(commandContext(cmd), listAlphabetical)
		if err != nil {
			return err
		}
		return formatter.FormatDatasets(presentation.FromRecords(filterByTags(records, listTags)))
	},
}

func init() {
	listCmd.Flags().StringArrayVarP(&listTags, "tag", "t", nil, "Filter by tag (can be repeated)")
	listCmd.Flags().BoolVarP(&listAlphabetical, "alphabetical", "a", false, "Order by name instead of rank")
	listCmd.Flags().StringVar(&listDB, "db", "", "Read from an exported datasets.db")
	rootCmd.AddCommand(listCmd)
}

func listFromDB(cmd *cobra.Command, formatter *presentation.Formatter) error {
	// NewDB would create a missing file.
	if _, err := os.Stat(listDB); err != nil {
		return fmt.Errorf("export database: %w", err)
	}
	db, err := sqlite.NewDB(listDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := commandContext(cmd)
	var tag string
	if len(listTags) > 0 {
		tag = listTags[0]
	}
	models, err := db.Reader().Datasets(ctx, tag)
	if err != nil {
		return err
	}

	// The first tag is filtered in SQL, the rest here.
	filtered := models[:0]
	for _, m := range models {
		if hasAllTags(m.Tags, listTags) {
			filtered = append(filtered, m)
		}
	}
	return formatter.FormatDatasets(presentation.FromModels(filtered))
}

// filterByTags keeps records carrying every tag (AND logic)
func filterByTags(records []*dataset.Record, tags []string) []*dataset.Record {
	if len(tags) == 0 {
		return records
	}
	result := make([]*dataset.Record, 0)
	for _, r := range records {
		if hasAllTags(r.Tags, tags) {
			result = append(result, r)
		}
	}
	return result
}

// hasAllTags checks if have contains all of want
func hasAllTags(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, target := range want {
		if !set[target] {
			return false
		}
	}
	return true
}
