// Package ucimlrepo fetches datasets from the UCI Machine Learning Repository.
//
// A dataset is identified by its name or its numeric ID. Fetching resolves the
// dataset's metadata, downloads its data file and splits the columns into ID,
// feature and target tables according to the declared variable roles.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/ucimlrepo"
//	)
//
//	res, err := ucimlrepo.FetchByID(context.Background(), 45)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Metadata.Name(), res.Data.Features.Columns())
//	fmt.Println(res.Lookup("metadata.additional_info.summary"))
//
// To list the datasets available for import:
//
//	err := ucimlrepo.ListAvailableDatasets(ctx, ucimlrepo.ListOptions{Search: "heart"})
//
// Package-level functions use the public repository with default settings.
// Use New to point at another catalog, add logging or enable retries.
package ucimlrepo

import (
	"context"
	"sync"

	"github.com/git-pkgs/ucimlrepo/client"
	"github.com/git-pkgs/ucimlrepo/fetch"
	"github.com/git-pkgs/ucimlrepo/internal/core"
	"github.com/git-pkgs/ucimlrepo/internal/uci"
)

// Re-export types from internal/core
type (
	// Catalog is the interface implemented by dataset catalog clients.
	Catalog = core.Catalog

	// Query identifies a dataset by name or ID.
	Query = core.Query

	// Result is everything fetched for one dataset.
	Result = core.Result

	// Metadata is the dataset-level record, without the variable list.
	Metadata = core.Metadata

	// Variable describes one column of a dataset.
	Variable = core.Variable

	// Data holds the data file and its role sub-tables.
	Data = core.Data

	// Frame is a table of string cells with named columns.
	Frame = core.Frame

	// Map is a JSON object with attribute-style and dotted-path access.
	Map = core.Map

	// Role is a variable's declared function.
	Role = core.Role

	// ListOptions narrows a dataset listing.
	ListOptions = core.ListOptions

	// DatasetSummary is one row of a dataset listing.
	DatasetSummary = core.DatasetSummary
)

// Re-export the repository and its configuration
type (
	Repository = uci.Repository
	Config     = uci.Config
	Option     = uci.Option
)

// Re-export constants
const (
	RoleID      = core.RoleID
	RoleFeature = core.RoleFeature
	RoleTarget  = core.RoleTarget
	RoleOther   = core.RoleOther

	ReasonMissing     = core.ReasonMissing
	ReasonUnavailable = core.ReasonUnavailable
	ReasonUnreadable  = core.ReasonUnreadable
)

// Re-export errors
var (
	ErrInvalidInput  = core.ErrInvalidInput
	ErrNotFound      = core.ErrNotFound
	ErrInvalidRole   = core.ErrInvalidRole
	ErrMissingColumn = core.ErrMissingColumn
	ErrConnection    = client.ErrConnection
)

// Error types
type (
	InputError           = core.InputError
	DatasetNotFoundError = core.DatasetNotFoundError
	RoleError            = core.RoleError
	ColumnError          = core.ColumnError
	CatalogError         = core.CatalogError
	HTTPError            = client.HTTPError
	ConnectionError      = client.ConnectionError
)

// New creates a repository client. Zero fields of cfg take the values of DefaultConfig.
func New(cfg Config, opts ...Option) (*Repository, error) {
	return uci.New(cfg, opts...)
}

// DefaultConfig returns the configuration for the public UCI repository.
func DefaultConfig() Config {
	return uci.DefaultConfig()
}

// WithLogger sets the repository's logger.
var WithLogger = uci.WithLogger

// WithClient sets the HTTP client used for catalog API calls.
var WithClient = uci.WithClient

// WithFetcher sets the downloader used for data files.
var WithFetcher = uci.WithFetcher

// Client is the HTTP client for the catalog API.
type Client = client.Client

// ClientOption configures a Client.
type ClientOption = client.Option

// NewClient creates a catalog API client with the given options.
func NewClient(opts ...ClientOption) *Client {
	return client.NewClient(opts...)
}

// NewFetcher creates a data file downloader with the given options.
func NewFetcher(opts ...fetch.Option) *fetch.Fetcher {
	return fetch.NewFetcher(opts...)
}

var defaultRepository = sync.OnceValues(func() (*Repository, error) {
	return uci.New(uci.DefaultConfig())
})

// Fetch fetches a dataset from the public repository.
func Fetch(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	repo, err := defaultRepository()
	if err != nil {
		return nil, err
	}
	return repo.Fetch(ctx, q)
}

// FetchByID fetches a dataset by its numeric ID.
func FetchByID(ctx context.Context, id int) (*Result, error) {
	if id == 0 {
		return nil, &InputError{Param: "id", Message: "ID must be a positive integer"}
	}
	return Fetch(ctx, Query{ID: id})
}

// FetchByName fetches a dataset by its name.
func FetchByName(ctx context.Context, name string) (*Result, error) {
	if name == "" {
		return nil, &InputError{Param: "name", Message: "name must be a non-empty string"}
	}
	return Fetch(ctx, Query{Name: name})
}

// ListAvailableDatasets prints the importable datasets of the public repository to stdout.
func ListAvailableDatasets(ctx context.Context, opts ListOptions) error {
	repo, err := defaultRepository()
	if err != nil {
		return err
	}
	return repo.List(ctx, opts)
}

// SearchDatasets returns the importable datasets of the public repository matching opts.
func SearchDatasets(ctx context.Context, opts ListOptions) ([]DatasetSummary, error) {
	repo, err := defaultRepository()
	if err != nil {
		return nil, err
	}
	return repo.Search(ctx, opts)
}

// BulkFetch fetches several datasets from c in parallel.
// Each query appears in exactly one of the returned maps.
func BulkFetch(ctx context.Context, c Catalog, queries []Query) (map[Query]*Result, map[Query]error) {
	return core.BulkFetch(ctx, c, queries)
}

// BulkFetchWithConcurrency fetches datasets with a custom concurrency limit.
func BulkFetchWithConcurrency(ctx context.Context, c Catalog, queries []Query, concurrency int) (map[Query]*Result, map[Query]error) {
	return core.BulkFetchWithConcurrency(ctx, c, queries, concurrency)
}
