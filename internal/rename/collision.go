// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rename

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CollisionResolver tracks output paths claimed within a batch run and
// resolves duplicates by appending " - dupN" suffixes. An exists func
// (normally an os.Stat wrapper) extends the check to paths already on
// disk. Files are processed sequentially, so no locking is needed.
type CollisionResolver struct {
	owners map[string]string // output path → input path that owns it
	exists func(string) bool
}

// NewCollisionResolver creates a resolver. exists may be nil, in which
// case only paths claimed during this run count as taken.
func NewCollisionResolver(exists func(string) bool) *CollisionResolver {
	if exists == nil {
		exists = func(string) bool { return false }
	}
	return &CollisionResolver{
		owners: make(map[string]string),
		exists: exists,
	}
}

// Resolve returns the final output path for input. If requestedOutput is
// unclaimed and absent from disk (or already owned by this input, or is
// the input itself), it is returned as-is; otherwise " - dupN" variants
// are tried in order.
func (cr *CollisionResolver) Resolve(input, requestedOutput string) string {
	if cr.free(input, requestedOutput) {
		cr.owners[requestedOutput] = input
		return requestedOutput
	}

	dir := filepath.Dir(requestedOutput)
	base := filepath.Base(requestedOutput)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		if cr.free(input, candidate) {
			cr.owners[candidate] = input
			return candidate
		}
	}
}

func (cr *CollisionResolver) free(input, path string) bool {
	if owner, claimed := cr.owners[path]; claimed {
		return owner == input
	}
	// A file may already be named correctly; renaming onto itself is fine.
	if path == input {
		return true
	}
	return !cr.exists(path)
}
