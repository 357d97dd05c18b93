// Package core provides the shared dataset types, the role partitioning and
// the error taxonomy used by catalog implementations.
package core

import (
	"encoding/json"
	"strings"

	"github.com/git-pkgs/ucimlrepo/internal/frame"
)

// Frame is a column-addressable table of string cells.
type Frame = frame.Frame

// Query identifies a dataset by name or by numeric ID. Exactly one of the two
// must be set: an empty Name and a zero ID both mean "not supplied".
type Query struct {
	Name string
	ID   int
}

// Validate checks the query shape without touching the network.
func (q Query) Validate() error {
	if q.Name != "" && q.ID != 0 {
		return &InputError{Param: "name, id", Message: "only specify either dataset name or ID, not both"}
	}
	if q.ID < 0 {
		return &InputError{Param: "id", Message: "ID must be a positive integer"}
	}
	if q.Name != "" && strings.TrimSpace(q.Name) == "" {
		return &InputError{Param: "name", Message: "name must be a non-empty string"}
	}
	if q.Name == "" && q.ID == 0 {
		return &InputError{Param: "name, id", Message: "must provide a dataset name or ID"}
	}
	return nil
}

// Metadata is the dataset-level record returned by the catalog, with the
// variable list removed. Fields are read through the embedded Map; the
// accessors cover the ones every dataset carries.
type Metadata struct {
	Map
}

// ID returns the catalog's dataset ID (uci_id).
func (m *Metadata) ID() int { return m.Int("uci_id") }

// Name returns the dataset name.
func (m *Metadata) Name() string { return m.String("name") }

// RepositoryURL returns the dataset's landing page in the catalog.
func (m *Metadata) RepositoryURL() string { return m.String("repository_url") }

// DataURL returns the location of the dataset's data file, or "".
func (m *Metadata) DataURL() string { return m.String("data_url") }

// Abstract returns the short dataset description.
func (m *Metadata) Abstract() string { return m.String("abstract") }

// AdditionalInfo returns the nested additional_info record, or nil.
func (m *Metadata) AdditionalInfo() Map { return m.Nested("additional_info") }

// IntroPaper returns the nested intro_paper record, or nil.
func (m *Metadata) IntroPaper() Map { return m.Nested("intro_paper") }

// Variable describes one column of a dataset's data file.
type Variable struct {
	Name          string
	Role          Role
	Type          string
	Demographic   string
	Description   string
	Units         string
	MissingValues string

	// Attrs holds the descriptor exactly as the catalog returned it.
	Attrs Map
}

// Data holds the downloaded table and the role sub-tables derived from it.
// A sub-table is nil when no variable declares that role.
type Data struct {
	IDs      *Frame
	Features *Frame
	Targets  *Frame
	Original *Frame
	Headers  []string
}

// Result is everything fetched for one dataset.
type Result struct {
	Metadata *Metadata
	Data     *Data

	// Variables is the tabular view of Descriptors, one row per variable.
	Variables   *Frame
	Descriptors []Variable
}

// Get returns a top-level member ("metadata", "data", "variables") or nil.
func (r *Result) Get(key string) any {
	return r.view().Get(key)
}

// Lookup resolves a dotted path such as "metadata.additional_info.summary"
// or "data.targets". Missing segments yield nil.
func (r *Result) Lookup(path string) any {
	return r.view().Lookup(path)
}

func (r *Result) view() Map {
	v := Map{}
	if r.Metadata != nil {
		v["metadata"] = r.Metadata.Map
	}
	if r.Data != nil {
		v["data"] = Map{
			"ids":      frameOrNil(r.Data.IDs),
			"features": frameOrNil(r.Data.Features),
			"targets":  frameOrNil(r.Data.Targets),
			"original": frameOrNil(r.Data.Original),
			"headers":  r.Data.Headers,
		}
	}
	v["variables"] = frameOrNil(r.Variables)
	return v
}

// frameOrNil keeps a nil *Frame from turning into a non-nil interface value.
func frameOrNil(f *Frame) any {
	if f == nil {
		return nil
	}
	return f
}

// ListOptions narrows a dataset listing.
type ListOptions struct {
	Filter string
	Search string
	Area   string
}

// DatasetSummary is one row of a dataset listing.
type DatasetSummary struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	// HasDescription reports whether the catalog sent a description key,
	// including an explicit null.
	HasDescription bool `json:"-"`
}

// UnmarshalJSON decodes a listing row and records whether it carried a
// description key.
func (d *DatasetSummary) UnmarshalJSON(b []byte) error {
	type summary DatasetSummary
	var s summary
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	_, s.HasDescription = keys["description"]
	*d = DatasetSummary(s)
	return nil
}

// Described reports whether the row has a description column, null or not.
func (d DatasetSummary) Described() bool {
	return d.HasDescription || d.Description != nil
}
