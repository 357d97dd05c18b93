package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMap(t *testing.T, s string) Map {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return Map(m)
}

func TestMapGet(t *testing.T) {
	m := decodeMap(t, `{
		"name": "Iris",
		"uci_id": 53,
		"repository_url": "https://archive.ics.uci.edu/dataset/53/iris",
		"has_missing_values": "no",
		"additional_info": {"summary": "Famous", "purpose": null}
	}`)

	assert.Equal(t, "Iris", m.Get("name"))
	assert.Equal(t, "https://archive.ics.uci.edu/dataset/53/iris", m.Get("RepositoryURL"))
	assert.Equal(t, "https://archive.ics.uci.edu/dataset/53/iris", m.Get("repositoryUrl"))
	assert.Nil(t, m.Get("missing"))
	assert.Equal(t, 53, m.Int("uci_id"))
	assert.Equal(t, 53, m.Int("UciID"))
	assert.Equal(t, "53", m.String("uci_id"))
	assert.Equal(t, 53.0, m.Float("uci_id"))
	assert.Equal(t, "no", m.String("has_missing_values"))

	info := m.Nested("additional_info")
	require.NotNil(t, info)
	assert.Equal(t, "Famous", info.String("summary"))
	assert.True(t, info.Has("purpose"))
	assert.Nil(t, info.Get("purpose"))
	assert.Nil(t, m.Nested("name"))
}

func TestMapNilSafe(t *testing.T) {
	var m Map
	assert.Nil(t, m.Get("anything"))
	assert.False(t, m.Has("anything"))
	assert.Equal(t, "", m.String("anything"))
	assert.Equal(t, 0, m.Int("anything"))
	assert.False(t, m.Bool("anything"))
	assert.Nil(t, m.Nested("anything"))
	assert.Nil(t, m.Lookup("a.b.c"))
	assert.Empty(t, m.Keys())
}

func TestMapLookup(t *testing.T) {
	m := decodeMap(t, `{"intro_paper": {"title": "A study", "meta": {"year": 1988}}}`)

	assert.Equal(t, "A study", m.Lookup("intro_paper.title"))
	assert.Equal(t, json.Number("1988"), m.Lookup("IntroPaper.meta.year"))
	assert.Nil(t, m.Lookup("intro_paper.title.more"))
	assert.Nil(t, m.Lookup("nope.title"))
}

func TestMapScalars(t *testing.T) {
	m := Map{
		"flag":  true,
		"sflag": "true",
		"float": 2.5,
		"whole": 3.0,
		"str":   "12",
		"list":  []any{"a", json.Number("1")},
	}
	assert.True(t, m.Bool("flag"))
	assert.True(t, m.Bool("sflag"))
	assert.Equal(t, 2.5, m.Float("float"))
	assert.Equal(t, 0, m.Int("float"))
	assert.Equal(t, 3, m.Int("whole"))
	assert.Equal(t, 12, m.Int("str"))
	assert.Equal(t, "2.5", m.String("float"))
	assert.Equal(t, `["a",1]`, m.String("list"))
}

func TestMapKeys(t *testing.T) {
	m := Map{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
}
