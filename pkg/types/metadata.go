// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for pdf-rename.
package types

import (
	"strings"
	"time"
)

// MetadataSource identifies the strategy that produced a metadata candidate.
// Sources are ordered by trust: fields filled from a higher source are never
// overwritten by a lower one.
type MetadataSource int

const (
	SourceNone MetadataSource = iota

	// SourceSearch is an online bibliographic search seeded from the
	// document text. Lowest priority; skippable via --no-search.
	SourceSearch

	// SourceEmbedded covers the PDF info dictionary and identifiers
	// scanned out of the first pages of text.
	SourceEmbedded

	// SourceArxivFlag is a user-supplied arXiv ID (-a).
	SourceArxivFlag

	// SourceOverride is an explicit --title or --doi flag. Always wins.
	SourceOverride
)

func (s MetadataSource) String() string {
	switch s {
	case SourceSearch:
		return "search"
	case SourceEmbedded:
		return "embedded"
	case SourceArxivFlag:
		return "arxiv-flag"
	case SourceOverride:
		return "override"
	default:
		return "none"
	}
}

// Metadata is a candidate bibliographic record for one PDF. Candidates are
// produced by extraction strategies and merged in priority order; they are
// never persisted except as optional sidecar files.
type Metadata struct {
	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// Authors lists authors as "Given Family" strings in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year (0 when unknown).
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// DOI is the Digital Object Identifier, bare form (no doi.org prefix).
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ArxivID is the arXiv identifier without version suffix.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Source names the strategy that first yielded a usable title.
	Source MetadataSource `json:"-" yaml:"-"`
}

// Usable reports whether the record carries enough to build a filename.
func (m Metadata) Usable() bool {
	return strings.TrimSpace(m.Title) != ""
}

// Complete reports whether every field a filename uses is populated.
func (m Metadata) Complete() bool {
	return m.Usable() && m.Year != 0 && len(m.Authors) > 0
}

// FirstAuthor returns the first author, or "" when none are known.
func (m Metadata) FirstAuthor() string {
	if len(m.Authors) == 0 {
		return ""
	}
	return m.Authors[0]
}

// RenameRecord is one row of the rename history ledger.
type RenameRecord struct {
	ID         int64     `json:"id" yaml:"id"`
	SourcePath string    `json:"source_path" yaml:"source_path"`
	NewPath    string    `json:"new_path" yaml:"new_path"`
	DOI        string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	Title      string    `json:"title" yaml:"title"`
	Source     string    `json:"source" yaml:"source"`
	RenamedAt  time.Time `json:"renamed_at" yaml:"renamed_at"`
}
