package uci

import (
	"io"
	"os"

	"github.com/git-pkgs/ucimlrepo/client"
	"github.com/git-pkgs/ucimlrepo/fetch"
)

// Config holds the catalog endpoints and listing behaviour.
type Config struct {
	// BaseURL is the catalog API root (default: https://archive.ics.uci.edu)
	BaseURL string

	// FileBaseURL is joined with relative data_url values (default: .../static/public)
	FileBaseURL string

	// DefaultFilter is sent when a listing does not name a filter (default: python)
	DefaultFilter string

	// ValidFilters restricts the filter labels a caller may request.
	// Empty forwards any filter and lets the catalog decide.
	ValidFilters []string

	// Output receives rendered listings (default: os.Stdout)
	Output io.Writer

	// NoColor disables ANSI styling of listings
	NoColor bool

	// CircuitBreaker wraps data file downloads in a per-host circuit breaker
	CircuitBreaker bool
}

// DefaultConfig returns the configuration for the public UCI repository.
func DefaultConfig() Config {
	return Config{
		BaseURL:       client.DefaultBaseURL,
		FileBaseURL:   fetch.DefaultFileBaseURL,
		DefaultFilter: "python",
		Output:        os.Stdout,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.FileBaseURL == "" {
		c.FileBaseURL = d.FileBaseURL
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = d.DefaultFilter
	}
	if c.Output == nil {
		c.Output = d.Output
	}
	return c
}
