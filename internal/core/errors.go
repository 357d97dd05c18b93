package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for a malformed request, before any network call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when the catalog has no importable dataset for a query.
	ErrNotFound = errors.New("dataset not found")

	// ErrInvalidRole is returned when a variable declares an unknown role.
	ErrInvalidRole = errors.New("invalid variable role")

	// ErrMissingColumn is returned when a declared variable has no column in the data file.
	ErrMissingColumn = errors.New("variable missing from data file")

	// ErrNoVariables is returned when dataset metadata carries no variable list.
	ErrNoVariables = errors.New("metadata has no variables list")
)

// InputError describes a rejected argument.
type InputError struct {
	Param   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundReason says why a dataset could not be imported.
type NotFoundReason string

const (
	// ReasonMissing: the catalog reported a failure status for the query.
	ReasonMissing NotFoundReason = "missing"
	// ReasonUnavailable: the dataset exists but has no data file.
	ReasonUnavailable NotFoundReason = "unavailable"
	// ReasonUnreadable: the data file could not be downloaded or parsed, or had no rows.
	ReasonUnreadable NotFoundReason = "unreadable"
)

// DatasetNotFoundError wraps ErrNotFound with the dataset identity and, for
// unreadable data files, the underlying cause.
type DatasetNotFoundError struct {
	Reason  NotFoundReason
	Name    string
	ID      int
	Message string
	Err     error
}

func (e *DatasetNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DatasetNotFoundError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNotFound, e.Err}
	}
	return []error{ErrNotFound}
}

// RoleError reports a variable whose role is not one of the known roles.
type RoleError struct {
	Variable string
	Role     string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("variable %q has role %q: role must be one of %q, %q, %q or %q",
		e.Variable, e.Role, RoleID, RoleFeature, RoleTarget, RoleOther)
}

func (e *RoleError) Unwrap() error {
	return ErrInvalidRole
}

// ColumnError reports a variable whose column is absent from the data file.
type ColumnError struct {
	Column string
	Role   Role
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s variable %q has no column in the data file", e.Role, e.Column)
}

func (e *ColumnError) Unwrap() error {
	return ErrMissingColumn
}

// CatalogError is a failure status reported by the catalog for a non-dataset request.
type CatalogError struct {
	Status  int
	Message string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog status %d: %s", e.Status, e.Message)
}
