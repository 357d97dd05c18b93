package core

import (
	"context"
)

// Catalog is the interface implemented by dataset catalog clients.
type Catalog interface {
	// Fetch resolves a dataset, downloads its data file and partitions it by role.
	Fetch(ctx context.Context, q Query) (*Result, error)

	// Search returns the datasets matching opts.
	Search(ctx context.Context, opts ListOptions) ([]DatasetSummary, error)

	// List renders the datasets matching opts to the catalog's output.
	List(ctx context.Context, opts ListOptions) error
}
