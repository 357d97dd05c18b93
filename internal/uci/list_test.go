package uci

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-pkgs/ucimlrepo/internal/core"
)

func listCatalog(rows ...map[string]any) *fakeCatalog {
	fc := newFakeCatalog()
	data := make([]any, len(rows))
	for i, r := range rows {
		data[i] = r
	}
	fc.list = map[string]any{"status": 200, "data": data}
	return fc
}

func newListRepository(t *testing.T, fc *fakeCatalog) (*Repository, *bytes.Buffer) {
	t.Helper()
	r, _ := newTestRepository(t, fc)
	var out bytes.Buffer
	r.cfg.Output = &out
	return r, &out
}

func lastQuery(t *testing.T, fc *fakeCatalog) url.Values {
	t.Helper()
	raw, _ := fc.lastQuery.Load().(string)
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return q
}

func TestListRender(t *testing.T) {
	fc := listCatalog(
		map[string]any{"id": 53, "name": "Iris"},
		map[string]any{"id": 45, "name": "Heart Disease"},
	)
	r, out := newListRepository(t, fc)

	require.NoError(t, r.List(context.Background(), core.ListOptions{}))

	expected := strings.Repeat("-", 37) + "\n" +
		"The following datasets are available:\n" +
		strings.Repeat("-", 37) + "\n" +
		"Dataset Name     ID    \n" +
		"------------     --    \n" +
		"Iris             53    \n" +
		"Heart Disease    45    \n" +
		"\n"
	assert.Equal(t, expected, out.String())
	assert.Equal(t, "python", lastQuery(t, fc).Get("filter"))
}

func TestListRenderWithFilterSearchAndDescriptions(t *testing.T) {
	fc := listCatalog(
		map[string]any{"id": 17, "name": "Breast Cancer Wisconsin (Diagnostic)", "description": "Classification"},
		map[string]any{"id": 14, "name": "Breast Cancer", "description": "Classification"},
	)
	r, out := newListRepository(t, fc)

	err := r.List(context.Background(), core.ListOptions{Filter: "Python", Search: "Breast", Area: "Health and Medicine"})
	require.NoError(t, err)

	title := `The following python datasets are available for search query "breast":`
	rule := strings.Repeat("-", len(title))

	pad := func(s string, n int) string {
		return s + strings.Repeat(" ", n-len(s))
	}
	width := len("Breast Cancer Wisconsin (Diagnostic)") + 3
	expected := rule + "\n" + title + "\n" + rule + "\n" +
		pad("Dataset Name", width) + " " + pad("ID", 6) + " " + pad("Prediction Task", 100) + "\n" +
		pad("------------", width) + " " + pad("--", 6) + " " + pad("---------------", 100) + "\n" +
		pad("Breast Cancer Wisconsin (Diagnostic)", width) + " " + pad("17", 6) + " " + pad("Classification", 100) + "\n" +
		pad("Breast Cancer", width) + " " + pad("14", 6) + " " + pad("Classification", 100) + "\n" +
		"\n"
	assert.Equal(t, expected, out.String())

	q := lastQuery(t, fc)
	assert.Equal(t, "python", q.Get("filter"))
	assert.Equal(t, "breast", q.Get("search"))
	assert.Equal(t, "Health and Medicine", q.Get("area"))
}

func TestListRenderNullDescription(t *testing.T) {
	fc := listCatalog(
		map[string]any{"id": 53, "name": "Iris", "description": nil},
		map[string]any{"id": 45, "name": "Heart Disease", "description": "Classification"},
	)
	r, out := newListRepository(t, fc)

	require.NoError(t, r.List(context.Background(), core.ListOptions{}))

	pad := func(s string, n int) string {
		return s + strings.Repeat(" ", n-len(s))
	}
	lines := strings.Split(out.String(), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, pad("Dataset Name", 16)+" "+pad("ID", 6)+" "+pad("Prediction Task", 100), lines[3])
	assert.Equal(t, pad("Iris", 16)+" "+pad("53", 6)+" "+pad("None", 100), lines[5])
	assert.Equal(t, pad("Heart Disease", 16)+" "+pad("45", 6)+" "+pad("Classification", 100), lines[6])
}

func TestListEmpty(t *testing.T) {
	fc := listCatalog()
	r, out := newListRepository(t, fc)

	require.NoError(t, r.List(context.Background(), core.ListOptions{Search: "zzz"}))
	assert.Equal(t, "No datasets found\n", out.String())
}

func TestListForwardsUnknownFilter(t *testing.T) {
	fc := listCatalog(map[string]any{"id": 53, "name": "Iris"})
	r, out := newListRepository(t, fc)

	require.NoError(t, r.List(context.Background(), core.ListOptions{Filter: "Beginner"}))
	assert.Equal(t, "beginner", lastQuery(t, fc).Get("filter"))
	assert.Contains(t, out.String(), "The following beginner datasets are available:")
	assert.Contains(t, out.String(), "Iris")
}

func TestListValidFiltersOptIn(t *testing.T) {
	fc := listCatalog(map[string]any{"id": 53, "name": "Iris"})
	r, out := newListRepository(t, fc)
	r.cfg.ValidFilters = []string{"python", "aim-ahead"}

	err := r.List(context.Background(), core.ListOptions{Filter: "rust"})
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, out.String())
	assert.Nil(t, fc.lastQuery.Load())

	require.NoError(t, r.List(context.Background(), core.ListOptions{Filter: "AIM-AHEAD"}))
	assert.Equal(t, "aim-ahead", lastQuery(t, fc).Get("filter"))
}

func TestDefaultConfigAcceptsAnyFilter(t *testing.T) {
	assert.Empty(t, DefaultConfig().ValidFilters)
	assert.Empty(t, Config{}.withDefaults().ValidFilters)
}

func TestListCatalogError(t *testing.T) {
	fc := newFakeCatalog()
	fc.list = map[string]any{"status": 500}
	r, out := newListRepository(t, fc)

	err := r.List(context.Background(), core.ListOptions{})
	var ce *core.CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 500, ce.Status)
	assert.Equal(t, "Internal Server Error", ce.Message)
	assert.Empty(t, out.String())
}

func TestSearch(t *testing.T) {
	fc := listCatalog(
		map[string]any{"id": 53, "name": "Iris", "description": "Classification"},
		map[string]any{"id": 186, "name": "Wine Quality"},
	)
	r, _ := newTestRepository(t, fc)

	rows, err := r.Search(context.Background(), core.ListOptions{Filter: "aim-ahead"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 53, rows[0].ID)
	assert.Equal(t, "Iris", rows[0].Name)
	require.NotNil(t, rows[0].Description)
	assert.Equal(t, "Classification", *rows[0].Description)
	assert.Nil(t, rows[1].Description)
	assert.Equal(t, "aim-ahead", lastQuery(t, fc).Get("filter"))
}

func TestListTitle(t *testing.T) {
	tests := []struct {
		opts core.ListOptions
		want string
	}{
		{core.ListOptions{}, "The following datasets are available:"},
		{core.ListOptions{Filter: "python"}, "The following python datasets are available:"},
		{core.ListOptions{Search: "iris"}, `The following datasets are available for search query "iris":`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, listTitle(tt.opts))
	}
}
