// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validate checks that path is a readable, structurally valid PDF and
// returns its page count. Corrupt or non-PDF files come back wrapped in
// ErrUnreadable so callers can quarantine them without a lookup attempt.
func Validate(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return ctx.PageCount, nil
}
