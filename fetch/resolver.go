package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultFileBaseURL is where the UCI repository serves data files.
const DefaultFileBaseURL = "https://archive.ics.uci.edu/static/public"

var ErrNoDownloadURL = errors.New("no data file URL available")

// Resolver turns the data_url of a dataset's metadata into a download location.
type Resolver struct {
	base *url.URL
}

// NewResolver creates a resolver that joins relative data URLs onto fileBaseURL
// (DefaultFileBaseURL if empty).
func NewResolver(fileBaseURL string) (*Resolver, error) {
	if fileBaseURL == "" {
		fileBaseURL = DefaultFileBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(fileBaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing file base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("file base URL %q must be absolute", fileBaseURL)
	}
	return &Resolver{base: base}, nil
}

// FileInfo describes a resolved data file.
type FileInfo struct {
	URL      string
	Filename string
}

// Resolve returns the absolute download URL for dataURL. Absolute http(s)
// URLs are used as-is; anything else is taken relative to the file base URL.
func (r *Resolver) Resolve(dataURL string) (*FileInfo, error) {
	dataURL = strings.TrimSpace(dataURL)
	if dataURL == "" {
		return nil, ErrNoDownloadURL
	}

	u, err := url.Parse(dataURL)
	if err != nil {
		return nil, fmt.Errorf("parsing data URL %q: %w", dataURL, err)
	}
	if !u.IsAbs() {
		u = r.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(u.Path, "/"), RawQuery: u.RawQuery})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported data URL scheme %q", u.Scheme)
	}

	resolved := u.String()
	return &FileInfo{
		URL:      resolved,
		Filename: filenameFromPath(u.Path),
	}, nil
}

func filenameFromPath(p string) string {
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}
