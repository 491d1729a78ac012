// Package dataset holds the dataset record model and the pure transforms the
// build runs over it: slug derivation, normalization, ranking and ordering,
// and the secondary tag/date indexes consumed by page renderers.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// RankedTag is the tag that boosts a record to the top of the overview.
const RankedTag = "aws-pds"

// Record is one dataset descriptor. It is the decoded form of a YAML source
// document and, after merging, the canonical record for a slug.
//
// Missing keys and empty values both decode to the zero value. Tags is the
// exception: a nil Tags means the key was absent, which Validate rejects.
type Record struct {
	Name                      string         `yaml:"Name"`
	Description               string         `yaml:"Description,omitempty"`
	Documentation             string         `yaml:"Documentation,omitempty"`
	Contact                   string         `yaml:"Contact,omitempty"`
	ManagedBy                 string         `yaml:"ManagedBy,omitempty"`
	UpdateFrequency           string         `yaml:"UpdateFrequency,omitempty"`
	License                   string         `yaml:"License,omitempty"`
	Citation                  string         `yaml:"Citation,omitempty"`
	Tags                      []string       `yaml:"Tags"`
	Resources                 []Resource     `yaml:"Resources,omitempty"`
	DataAtWork                DataAtWork     `yaml:"DataAtWork,omitempty"`
	Metadata                  map[string]any `yaml:"Metadata,omitempty"`
	RegistryEntryAdded        string         `yaml:"RegistryEntryAdded,omitempty"`
	RegistryEntryLastModified string         `yaml:"RegistryEntryLastModified,omitempty"`
	Deprecated                bool           `yaml:"Deprecated,omitempty"`
	DeprecatedNotice          string         `yaml:"DeprecatedNotice,omitempty"`
	Extra                     map[string]any `yaml:",inline"`

	// Slug and Sources are assigned by the merge step, never read from YAML.
	Slug    string   `yaml:"-"`
	Sources []string `yaml:"-"`
}

// Resource is one access point for a dataset (bucket, topic, API...).
type Resource struct {
	Description      string         `yaml:"Description,omitempty" json:"Description,omitempty"`
	ARN              string         `yaml:"ARN,omitempty" json:"ARN,omitempty"`
	Region           string         `yaml:"Region,omitempty" json:"Region,omitempty"`
	Type             string         `yaml:"Type,omitempty" json:"Type,omitempty"`
	Explore          []string       `yaml:"Explore,omitempty" json:"Explore,omitempty"`
	Host             string         `yaml:"Host,omitempty" json:"Host,omitempty"`
	AccountRequired  bool           `yaml:"AccountRequired,omitempty" json:"AccountRequired,omitempty"`
	RequesterPays    bool           `yaml:"RequesterPays,omitempty" json:"RequesterPays,omitempty"`
	ControlledAccess string         `yaml:"ControlledAccess,omitempty" json:"ControlledAccess,omitempty"`
	Extra            map[string]any `yaml:",inline" json:"-"`
}

// Entry is one "data at work" usage example.
type Entry struct {
	Title      string         `yaml:"Title" json:"Title"`
	URL        string         `yaml:"URL,omitempty" json:"URL,omitempty"`
	AuthorName string         `yaml:"AuthorName,omitempty" json:"AuthorName,omitempty"`
	AuthorURL  string         `yaml:"AuthorURL,omitempty" json:"AuthorURL,omitempty"`
	Services   StringList     `yaml:"Services,omitempty" json:"Services,omitempty"`
	Extra      map[string]any `yaml:",inline" json:"-"`
}

// Category is a named group of usage examples, e.g. "Tutorials".
type Category struct {
	Name    string
	Entries []Entry
}

// DataAtWork is the ordered set of usage-example categories of a record.
// Category order follows the source YAML.
type DataAtWork []Category

// StringList decodes either a YAML scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || value.Value == "" {
			*s = nil
			return nil
		}
		*s = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = items
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping category order.
func (d *DataAtWork) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*d = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: DataAtWork must be a mapping of category to entries", value.Line)
	}

	out := make(DataAtWork, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]

		var entries []Entry
		if !(val.Kind == yaml.ScalarNode && val.Tag == "!!null") {
			if err := val.Decode(&entries); err != nil {
				return fmt.Errorf("DataAtWork category %q: %w", key.Value, err)
			}
		}
		out = append(out, Category{Name: key.Value, Entries: entries})
	}
	*d = out
	return nil
}

// MarshalYAML implements yaml.Marshaler, keeping category order.
func (d DataAtWork) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range d {
		var val yaml.Node
		if err := val.Encode(c.Entries); err != nil {
			return nil, fmt.Errorf("encode category %q: %w", c.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Name},
			&val,
		)
	}
	return node, nil
}

// MarshalJSON implements json.Marshaler, keeping category order.
func (d DataAtWork) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		entries := c.Entries
		if entries == nil {
			entries = []Entry{}
		}
		val, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Category returns the category with the given name.
func (d DataAtWork) Category(name string) (Category, bool) {
	for _, c := range d {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Count returns the number of entries across every category.
func (d DataAtWork) Count() int {
	n := 0
	for _, c := range d {
		n += len(c.Entries)
	}
	return n
}

// UnmarshalYAML implements yaml.Unmarshaler. Nested values under Metadata
// and unknown keys are decoded as plain data, so scalar mapping keys and
// untagged timestamps are read as their source text. That keeps every nested
// map keyed by string and dates byte-identical in the JSON outputs.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	stringifyScalars(value)
	type plain Record
	return value.Decode((*plain)(r))
}

// stringifyScalars rewrites n in place: scalar mapping keys and untagged
// timestamps become strings. Merge keys and binary scalars are left alone.
func stringifyScalars(n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			stringifyScalars(c)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind == yaml.AliasNode && key.Alias != nil && key.Alias.Kind == yaml.ScalarNode {
				key = &yaml.Node{Kind: yaml.ScalarNode, Value: key.Alias.Value, Line: key.Line, Column: key.Column}
				n.Content[i] = key
			}
			if key.Kind == yaml.ScalarNode {
				switch key.ShortTag() {
				case "!!merge", "!!binary", "!!str":
				default:
					asString(key)
				}
			}
			stringifyScalars(n.Content[i+1])
		}
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" && n.Style&yaml.TaggedStyle == 0 {
			asString(n)
		}
	}
}

func asString(n *yaml.Node) {
	n.Tag = "!!str"
	n.Style &^= yaml.TaggedStyle
}

// ErrMissingField is returned by Validate for records missing a required key.
var ErrMissingField = errors.New("missing required field")

// Validate checks the fields every downstream stage relies on.
func Validate(r *Record) error {
	if r.Name == "" {
		return fmt.Errorf("%s: Name: %w", r.Slug, ErrMissingField)
	}
	if r.Tags == nil {
		return fmt.Errorf("%s: Tags: %w", r.Slug, ErrMissingField)
	}
	return nil
}

// HasTag reports whether the record carries tag.
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or top-level maps with r.
// Nested values inside Metadata and Extra are shared.
func (r *Record) Clone() *Record {
	c := *r
	c.Tags = cloneSlice(r.Tags)
	c.Sources = cloneSlice(r.Sources)
	c.Resources = cloneSlice(r.Resources)
	c.Metadata = cloneMap(r.Metadata)
	c.Extra = cloneMap(r.Extra)
	if r.DataAtWork != nil {
		c.DataAtWork = make(DataAtWork, len(r.DataAtWork))
		for i, cat := range r.DataAtWork {
			c.DataAtWork[i] = Category{Name: cat.Name, Entries: cloneSlice(cat.Entries)}
		}
	}
	return &c
}

// Fields flattens the record into a key/value map for machine-readable
// output. Empty optional fields are omitted. encoding/json and yaml.v3 both
// emit map keys sorted, so the serialization is deterministic.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.Extra)+16)
	maps.Copy(out, r.Extra)

	put := func(key, val string) {
		if val != "" {
			out[key] = val
		}
	}
	out["Name"] = r.Name
	out["Slug"] = r.Slug
	out["Tags"] = nonNil(r.Tags)
	out["Sources"] = nonNil(r.Sources)
	put("Description", r.Description)
	put("Documentation", r.Documentation)
	put("Contact", r.Contact)
	put("ManagedBy", r.ManagedBy)
	put("UpdateFrequency", r.UpdateFrequency)
	put("License", r.License)
	put("Citation", r.Citation)
	put("RegistryEntryAdded", r.RegistryEntryAdded)
	put("RegistryEntryLastModified", r.RegistryEntryLastModified)
	put("DeprecatedNotice", r.DeprecatedNotice)
	if len(r.Resources) > 0 {
		out["Resources"] = r.Resources
	}
	if len(r.DataAtWork) > 0 {
		out["DataAtWork"] = r.DataAtWork
	}
	if len(r.Metadata) > 0 {
		out["Metadata"] = r.Metadata
	}
	if r.Deprecated {
		out["Deprecated"] = true
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
