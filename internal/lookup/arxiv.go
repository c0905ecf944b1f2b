// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/pdf-rename/internal/httputil"
	"github.com/pdiddy/pdf-rename/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivIDPattern matches "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivIDPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// NormalizeArxivID strips the optional "arXiv:" prefix and version suffix.
// The second return value reports whether the input is an arXiv ID at all.
func NormalizeArxivID(id string) (string, bool) {
	if m := arxivIDPattern.FindStringSubmatch(strings.TrimSpace(id)); m != nil {
		return m[1], true
	}
	return "", false
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Published string        `xml:"published"`
	DOI       string        `xml:"doi"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// ByArxivID fetches metadata for an arXiv ID. When the feed carries no
// publisher DOI, the arXiv-minted one (10.48550/arXiv.<id>) is derived so
// every resolved arXiv paper still has an identifier.
func (c *Client) ByArxivID(ctx context.Context, id string) (types.Metadata, error) {
	normalized, ok := NormalizeArxivID(id)
	if !ok {
		return types.Metadata{}, fmt.Errorf("not an arXiv ID: %q", id)
	}

	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, normalized)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return types.Metadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return types.Metadata{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Metadata{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return types.Metadata{}, fmt.Errorf("parsing arXiv response: %w", err)
	}

	// The API answers unknown IDs with a feed whose single entry has an
	// empty title rather than with an error status.
	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].Title) == "" {
		return types.Metadata{}, fmt.Errorf("arXiv ID %s: %w", normalized, ErrNotFound)
	}

	entry := feed.Entries[0]
	md := types.Metadata{
		Title:   strings.Join(strings.Fields(entry.Title), " "),
		ArxivID: normalized,
		DOI:     strings.TrimSpace(entry.DOI),
	}
	if md.DOI == "" {
		md.DOI = "10.48550/arXiv." + normalized
	}

	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			md.Authors = append(md.Authors, name)
		}
	}

	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		md.Year = t.Year()
	}
	return md, nil
}
