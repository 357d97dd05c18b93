package core

import (
	"fmt"
	"sort"

	"github.com/git-pkgs/ucimlrepo/internal/frame"
)

// variableColumns is the column order of the tabular variables view. Keys the
// catalog adds beyond these follow in sorted order.
var variableColumns = []string{
	"name", "role", "type", "demographic", "description", "units", "missing_values",
}

// ParseVariables converts the catalog's raw variable list into descriptors,
// keeping the catalog's order. A nil list is ErrNoVariables.
func ParseVariables(raw any) ([]Variable, error) {
	if raw == nil {
		return nil, ErrNoVariables
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("variables: expected a list, got %T", raw)
	}

	vars := make([]Variable, 0, len(list))
	for i, item := range list {
		attrs := asMap(item)
		if attrs == nil {
			return nil, fmt.Errorf("variables[%d]: expected an object, got %T", i, item)
		}
		name := attrs.String("name")
		if name == "" {
			return nil, fmt.Errorf("variables[%d]: missing name", i)
		}
		label := attrs.String("role")
		role, ok := ParseRole(label)
		if !ok {
			return nil, &RoleError{Variable: name, Role: label}
		}
		vars = append(vars, Variable{
			Name:          name,
			Role:          role,
			Type:          attrs.String("type"),
			Demographic:   attrs.String("demographic"),
			Description:   attrs.String("description"),
			Units:         attrs.String("units"),
			MissingValues: attrs.String("missing_values"),
			Attrs:         attrs,
		})
	}
	return vars, nil
}

// VariablesFrame lays the descriptors out as a table, one row per variable.
func VariablesFrame(vars []Variable) (*Frame, error) {
	present := make(map[string]bool)
	for _, v := range vars {
		for k := range v.Attrs {
			present[k] = true
		}
	}

	columns := make([]string, 0, len(present)+len(variableColumns))
	for _, c := range variableColumns {
		columns = append(columns, c)
		delete(present, c)
	}
	extra := make([]string, 0, len(present))
	for k := range present {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	rows := make([][]string, len(vars))
	for i, v := range vars {
		row := make([]string, len(columns))
		for j, c := range columns {
			switch c {
			case "name":
				row[j] = v.Name
			case "role":
				row[j] = string(v.Role)
			default:
				row[j] = stringify(v.Attrs[c])
			}
		}
		rows[i] = row
	}
	return frame.New(columns, rows)
}
