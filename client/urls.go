package client

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the UCI Machine Learning Repository.
	DefaultBaseURL = "https://archive.ics.uci.edu"

	datasetPath = "/api/dataset"
	listPath    = "/api/datasets/list"
)

// URLBuilder constructs URLs for a catalog.
type URLBuilder interface {
	// Dataset is the metadata endpoint for a dataset, by name or ID.
	Dataset(name string, id int) string
	// List is the listing endpoint with the given query parameters.
	List(params url.Values) string
	// Browse is the human-facing page of datasets that have importable data files.
	Browse() string
}

// CatalogURLs is the URLBuilder for catalogs served under a single base URL.
type CatalogURLs struct {
	BaseURL string
}

// NewCatalogURLs returns a builder for baseURL, or DefaultBaseURL if empty.
func NewCatalogURLs(baseURL string) *CatalogURLs {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CatalogURLs{BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Dataset prefers the name when both are given; callers validate beforehand.
func (u *CatalogURLs) Dataset(name string, id int) string {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	} else {
		q.Set("id", strconv.Itoa(id))
	}
	return u.BaseURL + datasetPath + "?" + q.Encode()
}

func (u *CatalogURLs) List(params url.Values) string {
	if len(params) == 0 {
		return u.BaseURL + listPath
	}
	return u.BaseURL + listPath + "?" + params.Encode()
}

func (u *CatalogURLs) Browse() string {
	return u.BaseURL + "/datasets?skip=0&take=10&sort=desc&orderBy=NumHits&search=&Python=true"
}
