// Package markdown renders dataset records as styled terminal markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/opendataregistry/regsite/internal/dataset"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with regsite-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width and style.
// style is a glamour standard style name ("dark", "light", "notty", ...).
// Defaults to "dark" if empty. A fixed style avoids terminal background
// queries.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// RenderRecord renders the body of a dataset's detail view.
func (r *Renderer) RenderRecord(rec *dataset.Record) (string, error) {
	return r.Render(Document(rec))
}

// Document builds the markdown source for a dataset's detail view. Sections
// with no content are left out.
func Document(rec *dataset.Record) string {
	var b strings.Builder

	if rec.Description != "" {
		b.WriteString(rec.Description)
		b.WriteString("\n\n")
	}

	section := func(title, body string) {
		if body == "" {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", title, body)
	}
	section("Update Frequency", rec.UpdateFrequency)
	section("License", rec.License)
	section("Documentation", rec.Documentation)
	section("Managed By", rec.ManagedBy)
	section("Contact", rec.Contact)
	section("How to Cite", rec.Citation)

	if len(rec.Resources) > 0 {
		b.WriteString("## Resources on AWS\n\n")
		b.WriteString("| Type | ARN | Region |\n|---|---|---|\n")
		for _, res := range rec.Resources {
			fmt.Fprintf(&b, "| %s | `%s` | %s |\n", cell(res.Type), res.ARN, cell(res.Region))
		}
		b.WriteString("\n")
	}

	for _, cat := range rec.DataAtWork {
		if len(cat.Entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", cat.Name)
		for _, e := range cat.Entries {
			if e.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s)", e.Title, e.URL)
			} else {
				fmt.Fprintf(&b, "- %s", e.Title)
			}
			if e.AuthorName != "" {
				fmt.Fprintf(&b, " by %s", e.AuthorName)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
