// Package templates embeds the page templates used to render the site.
package templates

import (
	"embed"
	"io/fs"
)

// siteTemplates embeds the site page templates.
// The structure is:
//   - site/layout.html.tmpl (shared "head", "header" and "footer" blocks)
//   - site/<page>.html.tmpl (one per page kind)
//   - site/sitemap.txt.tmpl
//
//go:embed site
var siteTemplates embed.FS

// SiteFS returns the embedded filesystem rooted at the site template directory.
func SiteFS() fs.FS {
	sub, err := fs.Sub(siteTemplates, "site")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "site" is constant.
		panic(err)
	}
	return sub
}
