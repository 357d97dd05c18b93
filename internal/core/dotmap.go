package core

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Map is a JSON object whose entries can also be read by attribute-style
// names. Reading a missing key yields nil instead of panicking, and a nil Map
// is safe to read.
//
// Nested objects are not wrapped automatically; call Nested to get a Map for
// a sub-object.
type Map map[string]any

// Get returns the value stored under key. If key is absent, its snake_case
// form is tried, so Get("RepositoryURL") finds "repository_url".
func (m Map) Get(key string) any {
	if m == nil {
		return nil
	}
	if v, ok := m[key]; ok {
		return v
	}
	if snake := strcase.ToSnake(key); snake != key {
		return m[snake]
	}
	return nil
}

// Has reports whether key (or its snake_case form) is present, even with a nil value.
func (m Map) Has(key string) bool {
	if m == nil {
		return false
	}
	if _, ok := m[key]; ok {
		return true
	}
	_, ok := m[strcase.ToSnake(key)]
	return ok
}

// String returns the value under key as a string. Non-string scalars are
// formatted; nil and missing keys give "".
func (m Map) String(key string) string {
	return stringify(m.Get(key))
}

// Int returns the value under key as an int, or 0.
func (m Map) Int(key string) int {
	switch v := m.Get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// Float returns the value under key as a float64, or 0.
func (m Map) Float(key string) float64 {
	switch v := m.Get(key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// Bool returns the value under key as a bool, or false.
func (m Map) Bool(key string) bool {
	switch v := m.Get(key).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// Nested returns the object stored under key as a Map, or nil when the value
// is missing, null or not an object.
func (m Map) Nested(key string) Map {
	return asMap(m.Get(key))
}

// Lookup walks a dotted path through nested objects.
func (m Map) Lookup(path string) any {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		next := asMap(cur)
		if next == nil {
			return nil
		}
		cur = next.Get(part)
	}
	return cur
}

// Keys returns the keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asMap(v any) Map {
	switch t := v.(type) {
	case Map:
		return t
	case map[string]any:
		return Map(t)
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any, map[string]any, Map:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
