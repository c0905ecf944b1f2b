// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package meta extracts metadata candidates from PDF files: the info
// dictionary, and identifiers (DOI, arXiv ID) scanned out of the leading
// pages of text.
package meta

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdf-rename/pkg/types"
)

// ErrUnreadable marks files that cannot be opened or parsed as PDF.
var ErrUnreadable = errors.New("unreadable PDF")

// DefaultScanPages bounds the text scan; identifiers sit on the first page
// of almost every published paper.
const DefaultScanPages = 3

// doiPattern matches DOIs embedded in running text: "10.1145/1234567.89".
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// arxivTextPattern matches "arXiv:2301.07041v2" as printed in arXiv margins.
var arxivTextPattern = regexp.MustCompile(`(?i)arxiv:\s?(\d{4}\.\d{4,5})(?:v\d+)?`)

// yearPattern picks the year out of an info-dict date like "D:20230117185828Z".
var yearPattern = regexp.MustCompile(`D:(\d{4})`)

// TextScan holds identifiers and a title guess recovered from page text.
type TextScan struct {
	DOI        string
	ArxivID    string
	TitleGuess string
}

// ExtractInfoDict reads the PDF info dictionary. A missing dictionary is
// not an error; the returned record is simply empty. Parser panics on
// malformed files are recovered into ErrUnreadable.
func ExtractInfoDict(path string) (md types.Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrUnreadable, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return md, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return md, nil
	}

	md.Title = cleanInfoString(info.Key("Title").Text())
	md.Authors = SplitAuthors(cleanInfoString(info.Key("Author").Text()))

	if m := yearPattern.FindStringSubmatch(info.Key("CreationDate").Text()); m != nil {
		md.Year, _ = strconv.Atoi(m[1])
	}

	// Some publishers stash the DOI in nonstandard keys or in Subject.
	for _, key := range []string{"doi", "DOI"} {
		if v := strings.TrimSpace(info.Key(key).Text()); v != "" {
			md.DOI = CleanDOI(v)
			break
		}
	}
	if md.DOI == "" {
		for _, key := range []string{"Subject", "Keywords"} {
			if doi := FindDOI(info.Key(key).Text()); doi != "" {
				md.DOI = doi
				break
			}
		}
	}

	md.Source = types.SourceEmbedded
	return md, nil
}

// ScanText extracts plain text from the first maxPages pages and searches
// it for a DOI, an arXiv ID, and a title guess. Pages that fail text
// extraction are skipped; a scan that finds nothing is not an error.
func ScanText(path string, maxPages int) (scan TextScan, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrUnreadable, path, r)
		}
	}()

	if maxPages <= 0 {
		maxPages = DefaultScanPages
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return scan, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			continue
		}

		if scan.DOI == "" {
			scan.DOI = FindDOI(text)
		}
		if scan.ArxivID == "" {
			scan.ArxivID = FindArxivID(text)
		}
		if scan.TitleGuess == "" && i == 1 {
			scan.TitleGuess = TitleGuess(text)
		}
	}
	return scan, nil
}

// FindDOI returns the first valid DOI in text, with trailing punctuation
// trimmed, or "" when none is present.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		doi := CleanDOI(match)
		if validDOI(doi) {
			return doi
		}
	}
	return ""
}

// FindArxivID returns the first arXiv ID in text, version stripped.
func FindArxivID(text string) string {
	if m := arxivTextPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// CleanDOI strips URL prefixes, a "doi:" scheme, and trailing punctuation
// that regex matching drags in from surrounding prose.
func CleanDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.TrimRight(doi, ".,;:)")
}

func validDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}

// TitleGuess returns the first substantial line of first-page text, which
// is the title for most papers once headers and footers are skipped.
func TitleGuess(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if len(line) > 20 && !headerLine(line) {
			return line
		}
	}
	return ""
}

// headerLine reports lines that look like journal headers or copyright
// boilerplate rather than a title.
func headerLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "copyright"):
		return true
	case strings.Contains(lower, "journal") && strings.Contains(lower, "vol"):
		return true
	case strings.Contains(lower, "volume") && strings.Contains(lower, "issue"):
		return true
	case strings.Contains(lower, "proceedings of"):
		return true
	case strings.HasPrefix(lower, "arxiv:"):
		return true
	}
	return false
}

// SplitAuthors breaks an info-dict author string into individual names.
// Publishers separate authors with ";", " and ", or ", ".
func SplitAuthors(author string) []string {
	if strings.TrimSpace(author) == "" {
		return nil
	}

	sep := ";"
	switch {
	case strings.Contains(author, ";"):
		sep = ";"
	case strings.Contains(author, " and "):
		sep = " and "
	case strings.Contains(author, ","):
		sep = ","
	default:
		return []string{strings.TrimSpace(author)}
	}

	var names []string
	for _, part := range strings.Split(author, sep) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// cleanInfoString collapses whitespace and drops placeholder values some
// tools write into the info dictionary.
func cleanInfoString(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	switch strings.ToLower(s) {
	case "untitled", "unknown", "title", "author", "no title":
		return ""
	}
	return s
}
