// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rename

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover expands input into the list of PDFs to process. A file is
// returned as-is (it must have a .pdf extension); a directory yields its
// immediate .pdf children, or every .pdf beneath it when recursive is set.
// Results are sorted lexicographically for deterministic processing order.
func Discover(input string, recursive bool) ([]string, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("reading input %s: %w", input, err)
	}

	if !fi.IsDir() {
		if !isPDF(input) {
			return nil, fmt.Errorf("%s is not a PDF file", input)
		}
		return []string{input}, nil
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPDF(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", input, err)
		}
	} else {
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", input, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isPDF(entry.Name()) {
				files = append(files, filepath.Join(input, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
