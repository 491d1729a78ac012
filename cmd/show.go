package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendataregistry/regsite/internal/markdown"
	"github.com/opendataregistry/regsite/internal/site"
)

var (
	showWidth int
	showStyle string
)

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one dataset in the terminal",
	Long: `Render a dataset's description, resources and usage examples as styled
markdown. The style comes from ui.markdown_style unless --style is given.

Examples:
  regsite show landsat-8
  regsite show landsat-8 --style notty | less`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 80, "word wrap width")
	showCmd.Flags().StringVar(&showStyle, "style", "", "glamour style (dark, light, notty)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	slug := args[0]

	collection, _, err := openCollection()
	if err != nil {
		return err
	}
	records, err := collection.Get(commandContext(cmd), false)
	if err != nil {
		return err
	}

	for _, r := range records {
		if r.Slug != slug {
			continue
		}

		style := cfg.UI.MarkdownStyle
		if showStyle != "" {
			style = showStyle
		}
		renderer, err := markdown.New(showWidth, style)
		if err != nil {
			return err
		}
		body, err := renderer.RenderRecord(r)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", slug, err)
		}

		var tags []string
		for _, t := range r.Tags {
			tags = append(tags, tagStyle.Render(t))
		}
		header := titleStyle.Render(r.Name) + "\n" + subtleStyle.Render(r.Slug)
		if r.ManagedBy != "" {
			header += subtleStyle.Render(" · managed by " + site.ManagedByName(r.ManagedBy))
		}
		if len(tags) > 0 {
			header += "\n" + strings.Join(tags, " ")
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, headerStyle.Render(header))
		_, _ = fmt.Fprint(out, body)
		return nil
	}
	return fmt.Errorf("dataset %q not found", slug)
}
