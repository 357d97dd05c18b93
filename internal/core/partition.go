package core

// Role is a variable's declared function in a dataset.
type Role string

const (
	RoleID      Role = "ID"
	RoleFeature Role = "Feature"
	RoleTarget  Role = "Target"
	RoleOther   Role = "Other"
)

// ParseRole maps a catalog role label onto Role. Labels are case-sensitive.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleID, RoleFeature, RoleTarget, RoleOther:
		return Role(s), true
	}
	return "", false
}

// RoleColumns lists column names by role, each in declaration order.
type RoleColumns struct {
	ID      []string
	Feature []string
	Target  []string
	Other   []string
}

// GroupByRole sorts variable names into their role groups.
func GroupByRole(vars []Variable) (RoleColumns, error) {
	var rc RoleColumns
	for _, v := range vars {
		switch v.Role {
		case RoleID:
			rc.ID = append(rc.ID, v.Name)
		case RoleFeature:
			rc.Feature = append(rc.Feature, v.Name)
		case RoleTarget:
			rc.Target = append(rc.Target, v.Name)
		case RoleOther:
			rc.Other = append(rc.Other, v.Name)
		default:
			return RoleColumns{}, &RoleError{Variable: v.Name, Role: string(v.Role)}
		}
	}
	return rc, nil
}

// Partition splits table into ID, Feature and Target sub-tables according to
// vars. It does not modify table, so repeated calls give identical results.
func Partition(table *Frame, vars []Variable) (*Data, error) {
	rc, err := GroupByRole(vars)
	if err != nil {
		return nil, err
	}

	ids, err := selectRole(table, RoleID, rc.ID)
	if err != nil {
		return nil, err
	}
	features, err := selectRole(table, RoleFeature, rc.Feature)
	if err != nil {
		return nil, err
	}
	targets, err := selectRole(table, RoleTarget, rc.Target)
	if err != nil {
		return nil, err
	}
	// Other columns are not exposed, but must still exist.
	for _, c := range rc.Other {
		if !table.HasColumn(c) {
			return nil, &ColumnError{Column: c, Role: RoleOther}
		}
	}

	return &Data{
		IDs:      ids,
		Features: features,
		Targets:  targets,
		Original: table,
		Headers:  table.Columns(),
	}, nil
}

func selectRole(table *Frame, role Role, columns []string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	for _, c := range columns {
		if !table.HasColumn(c) {
			return nil, &ColumnError{Column: c, Role: role}
		}
	}
	return table.Select(columns...)
}
