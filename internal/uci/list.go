package uci

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/git-pkgs/ucimlrepo/client"
	"github.com/git-pkgs/ucimlrepo/internal/core"
)

const (
	minNameWidth     = 15
	descriptionWidth = 100
	defaultListError = "Internal Server Error"
	noDescription    = "None"
)

// Search returns the datasets matching opts.
func (r *Repository) Search(ctx context.Context, opts core.ListOptions) ([]core.DatasetSummary, error) {
	opts, err := r.normalizeList(opts)
	if err != nil {
		return nil, err
	}
	return r.search(ctx, opts)
}

// List writes a table of the datasets matching opts to the configured output.
func (r *Repository) List(ctx context.Context, opts core.ListOptions) error {
	opts, err := r.normalizeList(opts)
	if err != nil {
		return err
	}
	rows, err := r.search(ctx, opts)
	if err != nil {
		return err
	}
	return renderList(r.cfg.Output, opts, rows, r.cfg.NoColor)
}

func (r *Repository) normalizeList(opts core.ListOptions) (core.ListOptions, error) {
	if opts.Filter != "" {
		opts.Filter = strings.ToLower(opts.Filter)
		if len(r.cfg.ValidFilters) > 0 && !slices.Contains(r.cfg.ValidFilters, opts.Filter) {
			return opts, &core.InputError{
				Param:   "filter",
				Message: fmt.Sprintf("filter must be one of %s", strings.Join(r.cfg.ValidFilters, ", ")),
			}
		}
	}
	opts.Search = strings.ToLower(opts.Search)
	return opts, nil
}

func (r *Repository) search(ctx context.Context, opts core.ListOptions) ([]core.DatasetSummary, error) {
	params := url.Values{}
	if opts.Filter != "" {
		params.Set("filter", opts.Filter)
	} else {
		params.Set("filter", r.cfg.DefaultFilter)
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.Area != "" {
		params.Set("area", opts.Area)
	}

	listURL := r.urls.List(params)
	r.logger.Debug("listing datasets", zap.String("url", listURL))

	env, err := r.getEnvelope(ctx, listURL)
	if err != nil {
		return nil, err
	}
	if env.Status != 200 {
		msg := env.Message
		if msg == "" {
			msg = defaultListError
		}
		return nil, &core.CatalogError{Status: env.Status, Message: msg}
	}

	var rows []core.DatasetSummary
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := client.DecodeJSON(env.Data, &rows); err != nil {
			return nil, fmt.Errorf("decoding dataset list: %w", err)
		}
	}
	r.logger.Debug("listed datasets", zap.Int("count", len(rows)))
	return rows, nil
}

func renderList(w io.Writer, opts core.ListOptions, rows []core.DatasetSummary, noColor bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No datasets found")
		return err
	}

	width := minNameWidth
	for _, d := range rows {
		width = max(width, utf8.RuneCountInString(d.Name)+3)
	}

	title := listTitle(opts)
	rule := strings.Repeat("-", utf8.RuneCountInString(title))

	header := fmt.Sprintf("%-*s %-6s", width, "Dataset Name", "ID")
	underline := fmt.Sprintf("%-*s %-6s", width, "------------", "--")
	if rows[0].Described() {
		header += fmt.Sprintf(" %-*s", descriptionWidth, "Prediction Task")
		underline += fmt.Sprintf(" %-*s", descriptionWidth, "---------------")
	}

	bold := color.New(color.Bold)
	if noColor {
		bold.DisableColor()
	}

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, rule)
	_, _ = bold.Fprintln(&b, header)
	fmt.Fprintln(&b, underline)
	for _, d := range rows {
		line := fmt.Sprintf("%-*s %-6d", width, d.Name, d.ID)
		if d.Described() {
			desc := noDescription
			if d.Description != nil {
				desc = *d.Description
			}
			line += fmt.Sprintf(" %-*s", descriptionWidth, desc)
		}
		fmt.Fprintln(&b, line)
	}
	fmt.Fprintln(&b)

	_, err := io.WriteString(w, b.String())
	return err
}

func listTitle(opts core.ListOptions) string {
	var filter, query string
	if opts.Filter != "" {
		filter = opts.Filter + " "
	}
	if opts.Search != "" {
		query = fmt.Sprintf(` for search query "%s"`, opts.Search)
	}
	return "The following " + filter + "datasets are available" + query + ":"
}
