// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve decides what a PDF should be called. It walks metadata
// sources in priority order — explicit overrides, a user-supplied arXiv ID,
// embedded PDF metadata, then an online bibliographic search — and merges
// candidates so that a field filled by a higher-priority source is never
// overwritten by a lower one.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/pdf-rename/internal/logging"
	"github.com/pdiddy/pdf-rename/internal/lookup"
	"github.com/pdiddy/pdf-rename/internal/meta"
	"github.com/pdiddy/pdf-rename/pkg/types"
)

// ErrNoMetadata means every enabled source came up empty.
var ErrNoMetadata = errors.New("no usable metadata found")

// Extraction entry points. Declared as vars so tests can substitute fakes
// without real PDF fixtures.
var (
	validatePDF  = meta.Validate
	readInfoDict = meta.ExtractInfoDict
	scanPages    = meta.ScanText
)

// Overrides carries the user-supplied identifier flags.
type Overrides struct {
	Title   string
	DOI     string
	ArxivID string
}

// MetadataAPI is the slice of the lookup client the resolver needs.
// *lookup.Client satisfies it; tests substitute an in-memory fake.
type MetadataAPI interface {
	ByDOI(ctx context.Context, doi string) (types.Metadata, error)
	ByArxivID(ctx context.Context, id string) (types.Metadata, error)
	Bibliographic(ctx context.Context, query string) (types.Metadata, error)
}

var _ MetadataAPI = (*lookup.Client)(nil)

// Resolver resolves one PDF at a time to a metadata record.
type Resolver struct {
	Lookup       MetadataAPI
	Log          *logging.Logger
	NoSearch     bool
	MaxScanPages int
}

// Resolve produces the metadata record used to build the target filename.
// The file must be a readable PDF unless the overrides alone fully
// determine the result. Resolution is deterministic for identical inputs
// and unchanged service data.
func (r *Resolver) Resolve(ctx context.Context, path string, ov Overrides) (types.Metadata, error) {
	var result types.Metadata

	// 1. Explicit overrides always win.
	if ov.Title != "" {
		result.Title = ov.Title
		result.Source = types.SourceOverride
	}
	if ov.DOI != "" {
		result.DOI = meta.CleanDOI(ov.DOI)
		if result.Source == types.SourceNone {
			result.Source = types.SourceOverride
		}
		md, err := r.Lookup.ByDOI(ctx, result.DOI)
		if err != nil {
			r.Log.Warnf("%s: DOI override lookup failed: %v", path, err)
		} else {
			merge(&result, md)
		}
	}
	if done(result) {
		return result, nil
	}

	// 2. User-supplied arXiv ID.
	if ov.ArxivID != "" {
		md, err := r.Lookup.ByArxivID(ctx, ov.ArxivID)
		if err != nil {
			r.Log.Warnf("%s: arXiv lookup failed: %v", path, err)
		} else {
			md.Source = types.SourceArxivFlag
			merge(&result, md)
		}
		if done(result) {
			return result, nil
		}
	}

	// The remaining sources read the file itself.
	if _, err := validatePDF(path); err != nil {
		return types.Metadata{}, err
	}

	// 3. Embedded metadata: info dictionary, then identifiers scanned out
	// of the leading pages. A found DOI or arXiv ID is confirmed through
	// the lookup APIs so the filename fields come from the registry, not
	// from whatever tool produced the PDF.
	info, err := readInfoDict(path)
	if err != nil {
		r.Log.Debugf("%s: info dictionary unreadable: %v", path, err)
	}
	scan, err := scanPages(path, r.MaxScanPages)
	if err != nil {
		r.Log.Debugf("%s: text scan failed: %v", path, err)
	}

	if doi := firstNonEmpty(info.DOI, scan.DOI); doi != "" && result.DOI == "" {
		r.Log.Debugf("%s: embedded DOI %s", path, doi)
		md, lookupErr := r.Lookup.ByDOI(ctx, doi)
		if lookupErr != nil {
			r.Log.Warnf("%s: embedded DOI lookup failed: %v", path, lookupErr)
			merge(&result, types.Metadata{DOI: doi, Source: types.SourceEmbedded})
		} else {
			md.Source = types.SourceEmbedded
			merge(&result, md)
		}
	}
	if scan.ArxivID != "" && !done(result) {
		r.Log.Debugf("%s: embedded arXiv ID %s", path, scan.ArxivID)
		md, lookupErr := r.Lookup.ByArxivID(ctx, scan.ArxivID)
		if lookupErr != nil {
			r.Log.Warnf("%s: embedded arXiv lookup failed: %v", path, lookupErr)
		} else {
			md.Source = types.SourceEmbedded
			merge(&result, md)
		}
	}
	info.Source = types.SourceEmbedded
	merge(&result, info)
	if done(result) {
		return result, nil
	}

	// 4. Online bibliographic search, seeded from the best title we have.
	if r.NoSearch {
		if result.Usable() {
			return result, nil
		}
		return types.Metadata{}, fmt.Errorf("%s: %w (online search disabled)", path, ErrNoMetadata)
	}

	query := firstNonEmpty(result.Title, scan.TitleGuess)
	if query == "" {
		return types.Metadata{}, fmt.Errorf("%s: %w (nothing to search for)", path, ErrNoMetadata)
	}

	md, err := r.Lookup.Bibliographic(ctx, query)
	if err != nil {
		r.Log.Warnf("%s: bibliographic search failed: %v", path, err)
	} else {
		md.Source = types.SourceSearch
		merge(&result, md)
	}

	if !result.Usable() {
		return types.Metadata{}, fmt.Errorf("%s: %w", path, ErrNoMetadata)
	}
	return result, nil
}

// merge fills empty fields of dst from src. Populated fields are kept, so
// source priority is enforced purely by call order.
func merge(dst *types.Metadata, src types.Metadata) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 {
		dst.Authors = src.Authors
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if dst.ArxivID == "" {
		dst.ArxivID = src.ArxivID
	}
	if dst.Source == types.SourceNone {
		dst.Source = src.Source
	}
}

// done reports whether lower-priority sources have anything left to add.
func done(md types.Metadata) bool {
	return md.Complete()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
