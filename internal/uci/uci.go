// Package uci provides a catalog client for the UCI Machine Learning Repository.
package uci

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/git-pkgs/ucimlrepo/client"
	"github.com/git-pkgs/ucimlrepo/fetch"
	"github.com/git-pkgs/ucimlrepo/internal/core"
	"github.com/git-pkgs/ucimlrepo/internal/frame"
)

const defaultNotFoundMessage = "Dataset not found in repository"

var errNoRows = errors.New("data file has no rows")

// nested metadata records that are exposed as core.Map.
var nestedFields = []string{"additional_info", "intro_paper"}

// Repository fetches and lists datasets from a UCI-style catalog.
type Repository struct {
	cfg      Config
	client   *client.Client
	files    fetch.FetcherInterface
	resolver *fetch.Resolver
	urls     client.URLBuilder
	logger   *zap.Logger
}

var _ core.Catalog = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithClient sets the client used for catalog API calls.
func WithClient(c *client.Client) Option {
	return func(r *Repository) {
		r.client = c
	}
}

// WithFetcher sets the fetcher used to download data files.
func WithFetcher(f fetch.FetcherInterface) Option {
	return func(r *Repository) {
		r.files = f
	}
}

// WithLogger sets the logger. It is also given to the default client.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Repository. Zero fields of cfg take their DefaultConfig values.
func New(cfg Config, opts ...Option) (*Repository, error) {
	cfg = cfg.withDefaults()

	resolver, err := fetch.NewResolver(cfg.FileBaseURL)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		cfg:      cfg,
		resolver: resolver,
		urls:     client.NewCatalogURLs(cfg.BaseURL),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = client.NewClient(client.WithLogger(r.logger))
	}
	if r.files == nil {
		r.files = fetch.NewFetcher()
	}
	if cfg.CircuitBreaker {
		if _, wrapped := r.files.(*fetch.CircuitBreakerFetcher); !wrapped {
			r.files = fetch.NewCircuitBreakerFetcher(r.files)
		}
	}
	return r, nil
}

// URLs returns the URL builder for this catalog.
func (r *Repository) URLs() client.URLBuilder {
	return r.urls
}

// envelope is the response wrapper used by every catalog endpoint.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// getEnvelope fetches url and decodes the envelope. Error responses whose body
// is itself an envelope are returned as envelopes, not errors.
func (r *Repository) getEnvelope(ctx context.Context, url string) (*envelope, error) {
	var env envelope
	err := r.client.GetJSON(ctx, url, &env)
	if err == nil {
		return &env, nil
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		var fromBody envelope
		if client.DecodeJSON([]byte(httpErr.Body), &fromBody) == nil && fromBody.Status != 0 {
			return &fromBody, nil
		}
	}
	return nil, err
}

// Fetch resolves q against the catalog, downloads the dataset's data file and
// partitions its columns by variable role.
func (r *Repository) Fetch(ctx context.Context, q core.Query) (*core.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	metaURL := r.urls.Dataset(q.Name, q.ID)
	r.logger.Debug("fetching dataset metadata", zap.String("url", metaURL))

	env, err := r.getEnvelope(ctx, metaURL)
	if err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, notFound(q, defaultNotFoundMessage)
		}
		return nil, err
	}
	if env.Status != http.StatusOK {
		msg := env.Message
		if msg == "" {
			msg = defaultNotFoundMessage
		}
		return nil, notFound(q, msg)
	}

	var raw map[string]any
	if err := client.DecodeJSON(env.Data, &raw); err != nil || raw == nil {
		return nil, notFound(q, defaultNotFoundMessage)
	}
	meta := &core.Metadata{Map: core.Map(raw)}

	name, id := q.Name, q.ID
	if id == 0 {
		id = meta.ID()
	}
	if name == "" {
		name = meta.Name()
	}

	info, err := r.resolver.Resolve(meta.DataURL())
	if errors.Is(err, fetch.ErrNoDownloadURL) {
		return nil, &core.DatasetNotFoundError{
			Reason: core.ReasonUnavailable,
			Name:   name,
			ID:     id,
			Message: fmt.Sprintf(`"%s" dataset (id=%d) exists in the repository, but is not available for import. Please select a dataset from this list: %s`,
				name, id, r.urls.Browse()),
		}
	}
	if err != nil {
		return nil, unreadable(name, id, err)
	}

	table, err := r.readTable(ctx, info.URL)
	if err != nil {
		return nil, unreadable(name, id, err)
	}

	rawVars := meta.Map["variables"]
	delete(meta.Map, "variables")

	vars, err := core.ParseVariables(rawVars)
	if errors.Is(err, core.ErrNoVariables) {
		return nil, &core.DatasetNotFoundError{
			Reason:  core.ReasonUnreadable,
			Name:    name,
			ID:      id,
			Message: fmt.Sprintf(`Metadata for "%s" dataset (id=%d) has no variables list.`, name, id),
			Err:     err,
		}
	}
	if err != nil {
		return nil, err
	}
	data, err := core.Partition(table, vars)
	if err != nil {
		return nil, err
	}
	variables, err := core.VariablesFrame(vars)
	if err != nil {
		return nil, err
	}

	for _, key := range nestedFields {
		if nested := meta.Nested(key); len(nested) > 0 {
			meta.Map[key] = nested
		} else if _, ok := meta.Map[key]; ok {
			meta.Map[key] = nil
		}
	}

	rows, cols := table.Shape()
	r.logger.Info("fetched dataset",
		zap.Int("id", id),
		zap.String("name", name),
		zap.Int("rows", rows),
		zap.Int("columns", cols),
		zap.Int("variables", len(vars)),
	)

	return &core.Result{
		Metadata:    meta,
		Data:        data,
		Variables:   variables,
		Descriptors: vars,
	}, nil
}

func (r *Repository) readTable(ctx context.Context, url string) (*frame.Frame, error) {
	r.logger.Debug("downloading data file", zap.String("url", url))

	file, err := r.files.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Body.Close() }()

	table, err := frame.ReadCSV(file.Body)
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, errNoRows
	}
	return table, nil
}

func notFound(q core.Query, msg string) error {
	return &core.DatasetNotFoundError{
		Reason:  core.ReasonMissing,
		Name:    q.Name,
		ID:      q.ID,
		Message: msg,
	}
}

func unreadable(name string, id int, err error) error {
	return &core.DatasetNotFoundError{
		Reason:  core.ReasonUnreadable,
		Name:    name,
		ID:      id,
		Message: fmt.Sprintf(`Error reading data csv file for "%s" dataset (id=%d).`, name, id),
		Err:     err,
	}
}
