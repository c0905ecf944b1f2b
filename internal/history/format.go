// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf-rename/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.RenameRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No renames recorded.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-50s  %-30s  %-10s\n",
		"When", "New Name", "DOI", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 116))

	for _, rec := range records {
		name := filepath.Base(rec.NewPath)
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		doi := rec.DOI
		if len(doi) > 30 {
			doi = doi[:27] + "..."
		}
		when := ""
		if !rec.RenamedAt.IsZero() {
			when = rec.RenamedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-20s  %-50s  %-30s  %-10s\n", when, name, doi, rec.Source)
	}

	fmt.Fprintf(w, "\n%d rename(s)\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.RenameRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
