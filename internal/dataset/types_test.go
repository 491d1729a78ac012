package dataset

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const landsatYAML = `
Name: Landsat 8
Description: Imagery of the Earth.
ManagedBy: "[NASA](https://www.nasa.gov/)"
Tags:
  - satellite imagery
  - aws-pds
Resources:
  - Description: Scenes
    ARN: arn:aws:s3:::landsat-pds
    Region: us-west-2
    Type: S3 Bucket
    Explore:
      - '[Browse](https://landsat.example.com)'
DataAtWork:
  Tutorials:
    - Title: Zonal statistics
      URL: https://example.com/zonal
      Services: Amazon EC2
  Tools & Applications:
    - Title: Viewer
      URL: https://example.com/viewer
      Services:
        - AWS Lambda
        - Amazon S3
  Publications:
Metadata:
  Collabs:
    ASDI: true
RegistryEntryAdded: 2019-01-03
ADXCategories:
  - Environmental Data
`

func TestRecord_DecodeYAML(t *testing.T) {
	var r Record
	require.NoError(t, yaml.Unmarshal([]byte(landsatYAML), &r))

	require.Equal(t, "Landsat 8", r.Name)
	require.Equal(t, []string{"satellite imagery", "aws-pds"}, r.Tags)
	require.Equal(t, "2019-01-03", r.RegistryEntryAdded)
	require.Len(t, r.Resources, 1)
	require.Equal(t, "us-west-2", r.Resources[0].Region)

	require.Equal(t, []string{"Tutorials", "Tools & Applications", "Publications"}, []string{
		r.DataAtWork[0].Name, r.DataAtWork[1].Name, r.DataAtWork[2].Name,
	})
	require.Equal(t, StringList{"Amazon EC2"}, r.DataAtWork[0].Entries[0].Services)
	require.Equal(t, StringList{"AWS Lambda", "Amazon S3"}, r.DataAtWork[1].Entries[0].Services)
	require.Empty(t, r.DataAtWork[2].Entries)
	require.Equal(t, 2, r.DataAtWork.Count())

	require.Equal(t, map[string]any{"Collabs": map[string]any{"ASDI": true}}, r.Metadata)
	require.Contains(t, r.Extra, "ADXCategories")
	require.Empty(t, r.Slug, "slug is never read from YAML")
}

func TestRecord_DecodeYAML_NestedValuesKeepSourceText(t *testing.T) {
	var r Record
	require.NoError(t, yaml.Unmarshal([]byte(`
Name: Keys
Tags: []
RegistryEntryAdded: 2020-06-15
Launched: 2013-02-11
Explicit: !!timestamp 2001-12-14
Metadata:
  Nested:
    1: one
    2.5: two and a half
    ~: nothing
  Released: 2019-02-03
  Regions: &regions
    us-west-2: 2019-02-03
  Copy:
    <<: *regions
    eu-west-1: true
`), &r))

	require.Equal(t, "2020-06-15", r.RegistryEntryAdded)
	require.Equal(t, "2013-02-11", r.Extra["Launched"])
	require.IsType(t, time.Time{}, r.Extra["Explicit"], "explicit tags are kept")

	require.Equal(t, map[string]any{"1": "one", "2.5": "two and a half", "~": "nothing"}, r.Metadata["Nested"])
	require.Equal(t, "2019-02-03", r.Metadata["Released"])
	require.Equal(t, map[string]any{"us-west-2": "2019-02-03", "eu-west-1": true}, r.Metadata["Copy"])

	_, err := json.Marshal(r.Fields())
	require.NoError(t, err)
}

func TestRecord_DecodeYAML_EmptyTagsVersusMissing(t *testing.T) {
	var empty, missing Record
	require.NoError(t, yaml.Unmarshal([]byte("Name: a\nTags: []\n"), &empty))
	require.NoError(t, yaml.Unmarshal([]byte("Name: b\n"), &missing))

	require.NotNil(t, empty.Tags)
	require.Nil(t, missing.Tags)
}

func TestDataAtWork_RejectsNonMapping(t *testing.T) {
	var r Record
	err := yaml.Unmarshal([]byte("Name: a\nTags: []\nDataAtWork: [1, 2]\n"), &r)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DataAtWork must be a mapping")
}

func TestDataAtWork_MarshalKeepsCategoryOrder(t *testing.T) {
	d := DataAtWork{
		{Name: "Tutorials", Entries: []Entry{{Title: "t"}}},
		{Name: "Tools", Entries: []Entry{{Title: "a", URL: "https://a"}}},
	}

	js, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `{"Tutorials":[{"Title":"t"}],"Tools":[{"Title":"a","URL":"https://a"}]}`, string(js))
	require.Less(t, indexOf(string(js), "Tutorials"), indexOf(string(js), "Tools"))

	y, err := yaml.Marshal(d)
	require.NoError(t, err)

	var back DataAtWork
	require.NoError(t, yaml.Unmarshal(y, &back))
	require.Len(t, back, 2)
	require.Equal(t, "Tutorials", back[0].Name)
	require.Equal(t, "Tools", back[1].Name)
	require.Equal(t, "https://a", back[1].Entries[0].URL)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(&Record{Name: "ok", Tags: []string{}}))

	err := Validate(&Record{Slug: "nameless", Tags: []string{"a"}})
	require.True(t, errors.Is(err, ErrMissingField))
	require.Contains(t, err.Error(), "nameless: Name")

	err = Validate(&Record{Slug: "untagged", Name: "x"})
	require.ErrorIs(t, err, ErrMissingField)
	require.Contains(t, err.Error(), "untagged: Tags")
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	orig := &Record{
		Name:       "orig",
		Tags:       []string{"a"},
		Sources:    []string{"s1"},
		Metadata:   map[string]any{"k": 1},
		DataAtWork: DataAtWork{{Name: "Tools", Entries: []Entry{{Title: "x"}}}},
	}

	c := orig.Clone()
	c.Tags[0] = "changed"
	c.Sources = append(c.Sources, "s2")
	c.Metadata["k"] = 2
	c.DataAtWork[0].Entries[0].Title = "y"

	require.Equal(t, []string{"a"}, orig.Tags)
	require.Equal(t, []string{"s1"}, orig.Sources)
	require.Equal(t, 1, orig.Metadata["k"])
	require.Equal(t, "x", orig.DataAtWork[0].Entries[0].Title)
}

func TestRecord_Fields(t *testing.T) {
	r := &Record{
		Name:     "Landsat 8",
		Slug:     "landsat-8",
		Tags:     []string{"aws-pds"},
		Sources:  []string{"open-data-registry"},
		License:  "CC0",
		Extra:    map[string]any{"ADXCategories": []any{"Environmental Data"}},
		Metadata: map[string]any{},
	}

	f := r.Fields()

	require.Equal(t, "landsat-8", f["Slug"])
	require.Equal(t, "CC0", f["License"])
	require.Equal(t, []any{"Environmental Data"}, f["ADXCategories"])
	require.NotContains(t, f, "Description")
	require.NotContains(t, f, "Metadata")
	require.NotContains(t, f, "Deprecated")
}

func TestRecord_HasTag(t *testing.T) {
	r := &Record{Tags: []string{"aws-pds", "climate"}}
	require.True(t, r.HasTag("climate"))
	require.False(t, r.HasTag("Climate"))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
