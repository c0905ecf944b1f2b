// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rename

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-rename/internal/logging"
	"github.com/pdiddy/pdf-rename/pkg/types"
)

// ResolveFunc produces the metadata record for one PDF. The rename batch
// is agnostic about how resolution happens; the CLI wires in the resolver.
type ResolveFunc func(ctx context.Context, path string) (types.Metadata, error)

// SkipFunc reports files the batch should leave alone (e.g. files a
// previous run already renamed). May be nil.
type SkipFunc func(path string) bool

// Outcome records what happened to one input file.
type Outcome struct {
	Source      string
	Target      string
	Metadata    types.Metadata
	Renamed     bool
	Skipped     bool
	Quarantined bool
	Err         error
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Renamed     int
	Skipped     int
	Failed      int
	Quarantined int
	Outcomes    []Outcome
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Renamed + r.Skipped + r.Failed + r.Quarantined
}

// HasFailures reports whether any file neither renamed, skipped, nor
// landed in the failed directory.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Target computes the destination path for src given resolved metadata.
// An empty OutputDir means the file stays in its own directory.
func Target(src string, md types.Metadata, cfg types.RenameConfig, cr *CollisionResolver) string {
	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return cr.Resolve(src, filepath.Join(dir, Filename(md)))
}

// Apply moves (or copies) src to target and optionally writes a YAML
// sidecar. In dry-run mode nothing on the filesystem changes.
func Apply(src, target string, md types.Metadata, cfg types.RenameConfig) error {
	if cfg.DryRun {
		return nil
	}
	if target == src {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if cfg.Copy {
		if err := copyFile(src, target); err != nil {
			return fmt.Errorf("copying %s: %w", src, err)
		}
	} else {
		if err := moveFile(src, target); err != nil {
			return fmt.Errorf("renaming %s: %w", src, err)
		}
	}

	if cfg.Sidecar {
		if err := writeSidecar(target, md); err != nil {
			return fmt.Errorf("writing sidecar for %s: %w", target, err)
		}
	}
	return nil
}

// Quarantine moves src into failedDir under its original basename so a
// batch can continue past unresolvable files.
func Quarantine(src, failedDir string) error {
	if err := os.MkdirAll(failedDir, 0o755); err != nil {
		return fmt.Errorf("creating failed directory: %w", err)
	}
	dest := filepath.Join(failedDir, filepath.Base(src))
	if err := moveFile(src, dest); err != nil {
		return fmt.Errorf("quarantining %s: %w", src, err)
	}
	return nil
}

// Batch processes paths sequentially: resolve, compute target, apply.
// Failures are logged and the batch continues; when a failed directory is
// configured the offending file is quarantined instead of counted as a
// failure. A delay between files keeps lookups polite.
func Batch(ctx context.Context, paths []string, resolveFn ResolveFunc, skipFn SkipFunc, cfg types.RenameConfig, log *logging.Logger, w io.Writer) BatchResult {
	cr := NewCollisionResolver(fileExists)
	var result BatchResult

	for i, src := range paths {
		if i > 0 && cfg.LookupDelay > 0 {
			time.Sleep(cfg.LookupDelay)
		}

		outcome := Outcome{Source: src}
		log.Infof("renaming %s", src)

		if skipFn != nil && skipFn(src) {
			log.Infof("skipped %s (already renamed)", src)
			fmt.Fprintf(w, "skipped: %s (already renamed)\n", src)
			outcome.Skipped = true
			result.Skipped++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		md, err := resolveFn(ctx, src)
		if err == nil {
			outcome.Metadata = md
			outcome.Target = Target(src, md, cfg, cr)
			err = Apply(src, outcome.Target, md, cfg)
		}

		switch {
		case err == nil && cfg.DryRun:
			fmt.Fprintf(w, "dry-run: %s -> %s\n", src, outcome.Target)
			outcome.Skipped = true
			result.Skipped++
		case err == nil:
			fmt.Fprintf(w, "renamed: %s -> %s\n", src, outcome.Target)
			outcome.Renamed = true
			result.Renamed++
		case cfg.FailedDir != "" && !cfg.DryRun:
			log.Errorf("cannot rename %q: %v", src, err)
			if qErr := Quarantine(src, cfg.FailedDir); qErr != nil {
				log.Errorf("quarantine failed for %q: %v", src, qErr)
				outcome.Err = qErr
				result.Failed++
				fmt.Fprintf(w, "failed:  %s (%v)\n", src, qErr)
				break
			}
			fmt.Fprintf(w, "moved to failed: %s (%v)\n", src, err)
			outcome.Err = err
			outcome.Quarantined = true
			result.Quarantined++
		default:
			log.Errorf("cannot rename %q: %v", src, err)
			fmt.Fprintf(w, "failed:  %s (%v)\n", src, err)
			outcome.Err = err
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	fmt.Fprintf(w, "\nBatch summary: %d renamed, %d skipped, %d quarantined, %d failed (total: %d)\n",
		result.Renamed, result.Skipped, result.Quarantined, result.Failed, result.Total())
	return result
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile writes dest via a temp file renamed into place, so a partial
// copy never shadows a real output.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".rename-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return copyErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// writeSidecar stores the resolved metadata next to the renamed file.
func writeSidecar(target string, md types.Metadata) error {
	data, err := yaml.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	path := strings.TrimSuffix(target, filepath.Ext(target)) + ".yaml"
	return os.WriteFile(path, data, 0o644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
