// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup fetches bibliographic metadata from academic APIs:
// CrossRef by DOI or free-text query, and the arXiv API by identifier.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/pdf-rename/internal/httputil"
	"github.com/pdiddy/pdf-rename/pkg/types"
)

// API base URLs. Declared as vars so tests can substitute httptest servers.
var (
	crossrefWorksBase  = "https://api.crossref.org/works/"
	crossrefSearchBase = "https://api.crossref.org/works"
)

// ErrNotFound marks lookups that completed but matched nothing.
var ErrNotFound = errors.New("no matching record")

// Client queries the metadata APIs. The zero value is not usable; build
// one with New.
type Client struct {
	http *http.Client
	cfg  types.LookupConfig
}

// New returns a Client using the given HTTP client and settings.
func New(httpClient *http.Client, cfg types.LookupConfig) *Client {
	return &Client{http: httpClient, cfg: cfg}
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefSearchResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI     string           `json:"DOI"`
	Title   []string         `json:"title"`
	Author  []crossrefAuthor `json:"author"`
	Issued  crossrefDate     `json:"issued"`
	Created crossrefDate     `json:"created"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// ByDOI fetches the CrossRef work record for a DOI.
func (c *Client) ByDOI(ctx context.Context, doi string) (types.Metadata, error) {
	apiURL := crossrefWorksBase + url.PathEscape(doi)
	if c.cfg.Mailto != "" {
		apiURL += "?mailto=" + url.QueryEscape(c.cfg.Mailto)
	}

	var cr crossrefResponse
	if err := c.getJSON(ctx, apiURL, &cr); err != nil {
		return types.Metadata{}, fmt.Errorf("CrossRef DOI lookup: %w", err)
	}

	md := fromCrossrefWork(cr.Message)
	if md.DOI == "" {
		md.DOI = doi
	}
	if !md.Usable() {
		return types.Metadata{}, fmt.Errorf("CrossRef DOI lookup %s: %w", doi, ErrNotFound)
	}
	return md, nil
}

// Bibliographic searches CrossRef with a free-text query (title words,
// author names) and returns the best match. This is the online search
// fallback; --no-search prevents it from ever being called.
func (c *Client) Bibliographic(ctx context.Context, query string) (types.Metadata, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.Metadata{}, fmt.Errorf("bibliographic search: empty query")
	}

	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {"1"},
	}
	if c.cfg.Mailto != "" {
		params.Set("mailto", c.cfg.Mailto)
	}

	var cr crossrefSearchResponse
	if err := c.getJSON(ctx, crossrefSearchBase+"?"+params.Encode(), &cr); err != nil {
		return types.Metadata{}, fmt.Errorf("bibliographic search: %w", err)
	}

	if len(cr.Message.Items) == 0 {
		return types.Metadata{}, fmt.Errorf("bibliographic search %q: %w", query, ErrNotFound)
	}

	md := fromCrossrefWork(cr.Message.Items[0])
	if !md.Usable() {
		return types.Metadata{}, fmt.Errorf("bibliographic search %q: %w", query, ErrNotFound)
	}
	return md, nil
}

// getJSON performs a GET with User-Agent and 429 retry, decoding the body
// into out.
func (c *Client) getJSON(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (c *Client) userAgent() string {
	ua := c.cfg.UserAgent
	if ua == "" {
		ua = "pdf-rename/0.1"
	}
	if c.cfg.Mailto != "" {
		ua += " (mailto:" + c.cfg.Mailto + ")"
	}
	return ua
}

// fromCrossrefWork converts a CrossRef work record to a Metadata candidate.
func fromCrossrefWork(w crossrefWork) types.Metadata {
	md := types.Metadata{DOI: w.DOI}

	if len(w.Title) > 0 {
		md.Title = strings.TrimSpace(w.Title[0])
	}

	for _, a := range w.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			md.Authors = append(md.Authors, name)
		}
	}

	md.Year = firstYear(w.Issued)
	if md.Year == 0 {
		md.Year = firstYear(w.Created)
	}
	return md
}

func firstYear(d crossrefDate) int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}
