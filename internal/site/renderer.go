package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	texttemplate "text/template"

	"github.com/opendataregistry/regsite/internal/aggregate"
	"github.com/opendataregistry/regsite/internal/dataset"
)

// Page template names.
const (
	pageIndex     = "index.html.tmpl"
	pageDetail    = "detail.html.tmpl"
	pageTag       = "tag.html.tmpl"
	pageUsage     = "usage.html.tmpl"
	pageChangeLog = "change-log.html.tmpl"
	pageCollab    = "collab.html.tmpl"

	layoutFile  = "layout.html.tmpl"
	sitemapFile = "sitemap.txt.tmpl"
)

var htmlPages = []string{pageIndex, pageDetail, pageTag, pageUsage, pageChangeLog, pageCollab}

// SiteInfo is available to every page as .Site.
type SiteInfo struct {
	Title       string
	Description string
	BaseURL     string
	BuildID     string
}

type indexData struct {
	Site     SiteInfo
	Title    string
	Datasets []*dataset.Record
	Tags     []string
}

type detailData struct {
	Site    SiteInfo
	Title   string
	Dataset *dataset.Record
}

type tagData struct {
	Site     SiteInfo
	Title    string
	Tag      string
	Datasets []*dataset.Record
}

type usageData struct {
	Site    SiteInfo
	Title   string
	Heading string
	Views   []UsageView
}

type changeLogData struct {
	Site   SiteInfo
	Title  string
	Groups []DateGroup
}

type collabData struct {
	Site     SiteInfo
	Title    string
	Collab   aggregate.Collab
	Datasets []*dataset.Record
}

// Renderer executes the page templates.
type Renderer struct {
	pages   map[string]*template.Template
	sitemap *texttemplate.Template
}

// NewRenderer parses every page template in fsys together with the shared
// layout.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(htmlPages))}

	for _, name := range htmlPages {
		t, err := template.New(name).Funcs(funcMap()).ParseFS(fsys, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t.Option("missingkey=error")
	}

	sm, err := texttemplate.New(sitemapFile).ParseFS(fsys, sitemapFile)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", sitemapFile, err)
	}
	r.sitemap = sm

	return r, nil
}

func (r *Renderer) render(name string, data any) ([]byte, error) {
	t, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page template %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Sitemap renders one URL per line.
func (r *Renderer) Sitemap(urls []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.sitemap.Execute(&buf, urls); err != nil {
		return nil, fmt.Errorf("render sitemap: %w", err)
	}
	return buf.Bytes(), nil
}
