package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const variablesJSON = `[
	{"name": "age", "role": "Feature", "type": "Integer", "demographic": "Age",
	 "description": null, "units": "years", "missing_values": "no"},
	{"name": "num", "role": "Target", "type": "Integer", "demographic": null,
	 "description": "diagnosis of heart disease", "units": null, "missing_values": "no"},
	{"name": "row", "role": "ID", "type": "Integer", "source": "index"}
]`

func decodeAny(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestParseVariables(t *testing.T) {
	vs, err := ParseVariables(decodeAny(t, variablesJSON))
	require.NoError(t, err)
	require.Len(t, vs, 3)

	assert.Equal(t, "age", vs[0].Name)
	assert.Equal(t, RoleFeature, vs[0].Role)
	assert.Equal(t, "Age", vs[0].Demographic)
	assert.Equal(t, "years", vs[0].Units)
	assert.Equal(t, "", vs[0].Description)

	assert.Equal(t, RoleTarget, vs[1].Role)
	assert.Equal(t, "diagnosis of heart disease", vs[1].Description)

	assert.Equal(t, RoleID, vs[2].Role)
	assert.Equal(t, "index", vs[2].Attrs.String("source"))
}

func TestParseVariablesNil(t *testing.T) {
	vs, err := ParseVariables(nil)
	require.ErrorIs(t, err, ErrNoVariables)
	assert.Nil(t, vs)
}

func TestParseVariablesEmptyList(t *testing.T) {
	vs, err := ParseVariables([]any{})
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestParseVariablesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not a list", `{"name": "age"}`},
		{"not an object", `["age"]`},
		{"missing name", `[{"role": "Feature"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVariables(decodeAny(t, tt.in))
			assert.Error(t, err)
		})
	}
}

func TestParseVariablesBadRole(t *testing.T) {
	_, err := ParseVariables(decodeAny(t, `[{"name": "age", "role": "feature"}]`))
	require.ErrorIs(t, err, ErrInvalidRole)

	var re *RoleError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "feature", re.Role)
	assert.Contains(t, err.Error(), `"age"`)
}

func TestVariablesFrame(t *testing.T) {
	vs, err := ParseVariables(decodeAny(t, variablesJSON))
	require.NoError(t, err)

	f, err := VariablesFrame(vs)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"name", "role", "type", "demographic", "description", "units", "missing_values", "source",
	}, f.Columns())

	rows, _ := f.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, []string{"age", "Feature", "Integer", "Age", "", "years", "no", ""}, f.Row(0))

	src, ok := f.Value(2, "source")
	require.True(t, ok)
	assert.Equal(t, "index", src)
}

func TestVariablesFrameEmpty(t *testing.T) {
	f, err := VariablesFrame(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
	assert.Len(t, f.Columns(), 7)
}
