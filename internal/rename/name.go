// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rename turns resolved metadata into filenames and applies the
// results to the filesystem: move or copy, collision suffixes, dry runs,
// failed-file quarantine, and optional metadata sidecars.
package rename

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/pdf-rename/pkg/types"
)

// maxTitleRunes caps the title component so the final name stays within
// common filesystem limits.
const maxTitleRunes = 150

// Filename builds the canonical name for a resolved record:
//
//	2023 - J. Smith - Title Of The Paper.pdf
//
// Missing components are omitted along with their separator: no year gives
// "J. Smith - Title.pdf", no author "2023 - Title.pdf", and a bare title
// "Title.pdf". Deterministic for identical metadata.
func Filename(md types.Metadata) string {
	var parts []string

	if md.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", md.Year))
	}
	if author := authorTag(md.FirstAuthor()); author != "" {
		parts = append(parts, author)
	}
	parts = append(parts, truncateRunes(Sanitize(md.Title), maxTitleRunes))

	return strings.Join(parts, " - ") + ".pdf"
}

// authorTag formats the first author as "J. Smith". Works with both
// "Given Family" and "Family, Given" name orders.
func authorTag(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var given, family string
	if before, after, found := strings.Cut(name, ","); found {
		family = strings.TrimSpace(before)
		given = strings.TrimSpace(after)
	} else {
		fields := strings.Fields(name)
		if len(fields) == 1 {
			return Sanitize(capitalize(fields[0]))
		}
		given = fields[0]
		family = fields[len(fields)-1]
	}

	if given == "" {
		return Sanitize(capitalize(family))
	}
	initial := unicode.ToUpper([]rune(given)[0])
	return Sanitize(fmt.Sprintf("%c. %s", initial, capitalize(family)))
}

// Sanitize strips filesystem-hostile runes, collapses whitespace, and
// trims leading/trailing dots and spaces.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	return strings.Trim(out, ". ")
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " .")
}
