package site

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opendataregistry/regsite/internal/dataset"
)

// MaxFeedItems caps the number of datasets in rss.xml.
const MaxFeedItems = 50

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RSS renders an RSS 2.0 feed of the newest datasets by RegistryEntryAdded.
// Datasets without a date are left out. Equal dates keep collection order.
func RSS(info SiteInfo, records []*dataset.Record) ([]byte, error) {
	dated := make([]*dataset.Record, 0, len(records))
	for _, r := range records {
		if r.RegistryEntryAdded != "" {
			dated = append(dated, r)
		}
	}
	slices.SortStableFunc(dated, func(a, b *dataset.Record) int {
		switch {
		case a.RegistryEntryAdded > b.RegistryEntryAdded:
			return -1
		case a.RegistryEntryAdded < b.RegistryEntryAdded:
			return 1
		default:
			return 0
		}
	})
	if len(dated) > MaxFeedItems {
		dated = dated[:MaxFeedItems]
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       info.Title,
			Link:        info.BaseURL + "/",
			Description: info.Description,
		},
	}
	if len(dated) > 0 {
		feed.Channel.LastBuildDate = rssDate(dated[0].RegistryEntryAdded)
	}
	for _, r := range dated {
		link := info.BaseURL + "/" + r.Slug + "/"
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       r.Name,
			Link:        link,
			Description: r.Description,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			PubDate:     rssDate(r.RegistryEntryAdded),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func rssDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return ""
	}
	return t.Format(time.RFC1123Z)
}

// NDJSON renders one JSON object per record, in collection order.
func NDJSON(records []*dataset.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(r.Fields()); err != nil {
			return nil, fmt.Errorf("encode %s: %w", r.Slug, err)
		}
	}
	return buf.Bytes(), nil
}

// DatasetsYAML renders the full collection as a YAML sequence.
func DatasetsYAML(records []*dataset.Record) ([]byte, error) {
	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = r.Fields()
	}
	return marshalYAML(out)
}

// digestEntry is one dataset in index.yaml.
type digestEntry struct {
	Name               string   `yaml:"Name"`
	Slug               string   `yaml:"Slug"`
	Description        string   `yaml:"Description,omitempty"`
	ManagedBy          string   `yaml:"ManagedBy,omitempty"`
	Tags               []string `yaml:"Tags"`
	Sources            []string `yaml:"Sources"`
	RegistryEntryAdded string   `yaml:"RegistryEntryAdded,omitempty"`
	UsageExamples      int      `yaml:"UsageExamples"`
}

type digest struct {
	Datasets []digestEntry `yaml:"Datasets"`
	Tags     []string      `yaml:"Tags"`
	Dates    []string      `yaml:"Dates"`
}

// IndexYAML renders a compact digest of the collection and its indexes.
func IndexYAML(records []*dataset.Record, idx *dataset.Index) ([]byte, error) {
	d := digest{
		Datasets: make([]digestEntry, len(records)),
		Tags:     nonNil(idx.Tags),
		Dates:    nonNil(idx.Dates),
	}
	for i, r := range records {
		d.Datasets[i] = digestEntry{
			Name:               r.Name,
			Slug:               r.Slug,
			Description:        r.Description,
			ManagedBy:          r.ManagedBy,
			Tags:               nonNil(r.Tags),
			Sources:            nonNil(r.Sources),
			RegistryEntryAdded: r.RegistryEntryAdded,
			UsageExamples:      r.DataAtWork.Count(),
		}
	}
	return marshalYAML(d)
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
