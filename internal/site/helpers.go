package site

import (
	"bytes"
	"encoding/json"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/log"
)

// awsURLPrefixes are link targets treated as first-party (no rel=nofollow).
var awsURLPrefixes = []string{
	"https://aws.amazon.com/",
	"https://docs.aws.amazon.com/",
	"https://docs.opendata.aws/",
	"https://registry.opendata.aws/",
	"https://github.com/awslabs/",
	"https://github.com/aws-samples/",
	"https://github.com/aws/",
}

// IsAWSURL reports whether u points at an AWS-owned site or repository.
func IsAWSURL(u string) bool {
	for _, p := range awsURLPrefixes {
		if strings.HasPrefix(u, p) {
			return true
		}
	}
	return false
}

// ToType turns a display string into a URL segment: "TEST CASE" -> "test-case".
func ToType(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// TagURL turns a tag into its URL segment. Case is preserved.
func TagURL(tag string) string {
	return strings.ReplaceAll(tag, " ", "-")
}

var managedByLinkRE = regexp.MustCompile(`^\s*\[([^\]]+)\]\(([^)\s]+)\)\s*$`)

// ManagedByName returns the display name of a ManagedBy value, which may be
// a markdown link like "[NASA](https://www.nasa.gov/)".
func ManagedByName(s string) string {
	if m := managedByLinkRE.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}

// ManagedByLink returns the link target of a ManagedBy value, or "".
func ManagedByLink(s string) string {
	if m := managedByLinkRE.FindStringSubmatch(s); m != nil {
		return m[2]
	}
	return ""
}

// PrettyDate renders an ISO date as "January 2, 2006". Values that do not
// parse are returned unchanged.
func PrettyDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown converts markdown to HTML. Raw HTML in the source is not passed
// through.
func Markdown(s string) template.HTML {
	if s == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		log.ErrorErr(log.CatRender, "markdown conversion failed", err)
		return template.HTML(template.HTMLEscapeString(s)) //nolint:gosec // escaped above
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark omits raw HTML by default
}

// searchEntry is the per-dataset object the overview search script reads.
type searchEntry struct {
	Slug        string   `json:"Slug"`
	Name        string   `json:"Name"`
	Description string   `json:"Description,omitempty"`
	ManagedBy   string   `json:"ManagedBy,omitempty"`
	Tags        []string `json:"Tags"`
}

// toJSON serializes the search index for the overview page. json.Marshal
// escapes <, > and & so the result is safe inside a script element.
func toJSON(records []*dataset.Record) (template.JS, error) {
	entries := make([]searchEntry, len(records))
	for i, r := range records {
		entries[i] = searchEntry{
			Slug:        r.Slug,
			Name:        r.Name,
			Description: r.Description,
			ManagedBy:   r.ManagedBy,
			Tags:        r.Tags,
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return template.JS(data), nil //nolint:gosec // json.Marshal output with HTML escaping
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"isAWSURL":      IsAWSURL,
		"toType":        ToType,
		"tagURL":        TagURL,
		"managedByName": ManagedByName,
		"managedByLink": ManagedByLink,
		"markdown":      Markdown,
		"prettyDate":    PrettyDate,
		"join":          func(sep string, s []string) string { return strings.Join(s, sep) },
		"toJSON":        toJSON,
	}
}
