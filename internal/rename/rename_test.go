// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rename

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-rename/internal/logging"
	"github.com/pdiddy/pdf-rename/pkg/types"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(logging.LevelWarn, "")
	require.NoError(t, err)
	log.SetOutput(nil)
	t.Cleanup(func() { log.Close() })
	return log
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver(nil)

	first := cr.Resolve("a.pdf", "/out/Paper.pdf")
	assert.Equal(t, "/out/Paper.pdf", first)

	// Same input asking again keeps its claim.
	again := cr.Resolve("a.pdf", "/out/Paper.pdf")
	assert.Equal(t, "/out/Paper.pdf", again)

	// A different input gets a dup suffix.
	second := cr.Resolve("b.pdf", "/out/Paper.pdf")
	assert.Equal(t, "/out/Paper - dup1.pdf", second)

	third := cr.Resolve("c.pdf", "/out/Paper.pdf")
	assert.Equal(t, "/out/Paper - dup2.pdf", third)
}

func TestCollisionResolverChecksDisk(t *testing.T) {
	onDisk := map[string]bool{"/out/Paper.pdf": true}
	cr := NewCollisionResolver(func(p string) bool { return onDisk[p] })

	got := cr.Resolve("a.pdf", "/out/Paper.pdf")
	assert.Equal(t, "/out/Paper - dup1.pdf", got)

	// The next claimant skips both the on-disk file and a.pdf's claim.
	next := cr.Resolve("b.pdf", "/out/Paper.pdf")
	assert.Equal(t, "/out/Paper - dup2.pdf", next)
}

func TestCollisionResolverSelfRename(t *testing.T) {
	onDisk := map[string]bool{"/out/Paper.pdf": true}
	cr := NewCollisionResolver(func(p string) bool { return onDisk[p] })

	got := cr.Resolve("/out/Paper.pdf", "/out/Paper.pdf")
	assert.Equal(t, "/out/Paper.pdf", got)
}

func TestDiscoverSingleFile(t *testing.T) {
	dir := t.TempDir()
	pdf := writePDF(t, dir, "one.pdf")

	got, err := Discover(pdf, false)
	require.NoError(t, err)
	assert.Equal(t, []string{pdf}, got)
}

func TestDiscoverRejectsNonPDFFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Discover(path, false)
	assert.Error(t, err)
}

func TestDiscoverFlatDirectory(t *testing.T) {
	dir := t.TempDir()
	b := writePDF(t, dir, "b.pdf")
	a := writePDF(t, dir, "a.PDF")
	writePDF(t, filepath.Join(dir), "ignore.txt")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writePDF(t, sub, "nested.pdf")

	got, err := Discover(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, got, "sorted, case-insensitive extension, no recursion")
}

func TestDiscoverRecursive(t *testing.T) {
	dir := t.TempDir()
	top := writePDF(t, dir, "top.pdf")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	nested := writePDF(t, sub, "nested.pdf")

	got, err := Discover(dir, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{top, nested}, got)
}

func TestDiscoverMissingInput(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), false)
	assert.Error(t, err)
}

func TestApplyDryRunMutatesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "orig.pdf")
	md := types.Metadata{Title: "New Name", Year: 2023}
	cfg := types.RenameConfig{DryRun: true, OutputDir: filepath.Join(dir, "out")}

	target := Target(src, md, cfg, NewCollisionResolver(fileExists))
	require.NoError(t, Apply(src, target, md, cfg))

	assert.FileExists(t, src)
	assert.NoFileExists(t, target)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestApplyMove(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "orig.pdf")
	md := types.Metadata{Title: "A Study", Authors: []string{"Jane Doe"}, Year: 2023}
	cfg := types.RenameConfig{OutputDir: filepath.Join(dir, "out")}

	target := Target(src, md, cfg, NewCollisionResolver(fileExists))
	require.NoError(t, Apply(src, target, md, cfg))

	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(dir, "out", "2023 - J. Doe - A Study.pdf"))
}

func TestApplyCopyKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "orig.pdf")
	md := types.Metadata{Title: "A Study", Year: 2023}
	cfg := types.RenameConfig{OutputDir: filepath.Join(dir, "out"), Copy: true}

	target := Target(src, md, cfg, NewCollisionResolver(fileExists))
	require.NoError(t, Apply(src, target, md, cfg))

	assert.FileExists(t, src)
	assert.FileExists(t, target)
}

func TestApplyInPlaceDefault(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "orig.pdf")
	md := types.Metadata{Title: "A Study", Year: 2023}
	cfg := types.RenameConfig{}

	target := Target(src, md, cfg, NewCollisionResolver(fileExists))
	assert.Equal(t, filepath.Join(dir, "2023 - A Study.pdf"), target)
	require.NoError(t, Apply(src, target, md, cfg))
	assert.FileExists(t, target)
}

func TestApplySidecar(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "orig.pdf")
	md := types.Metadata{Title: "A Study", DOI: "10.1000/xyz123", Year: 2023}
	cfg := types.RenameConfig{OutputDir: dir, Sidecar: true}

	target := Target(src, md, cfg, NewCollisionResolver(fileExists))
	require.NoError(t, Apply(src, target, md, cfg))

	sidecar := filepath.Join(dir, "2023 - A Study.yaml")
	data, err := os.ReadFile(sidecar)
	require.NoError(t, err)
	assert.Contains(t, string(data), "10.1000/xyz123")
}

func TestQuarantine(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "bad.pdf")
	failed := filepath.Join(dir, "failed")

	require.NoError(t, Quarantine(src, failed))
	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(failed, "bad.pdf"))
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := writePDF(t, dir, "good.pdf")
	bad := writePDF(t, dir, "bad.pdf")

	resolveFn := func(_ context.Context, path string) (types.Metadata, error) {
		if path == bad {
			return types.Metadata{}, errors.New("no usable metadata")
		}
		return types.Metadata{Title: "Resolved Paper", Authors: []string{"Jane Doe"}, Year: 2023}, nil
	}

	var out bytes.Buffer
	cfg := types.RenameConfig{OutputDir: filepath.Join(dir, "out")}
	result := Batch(context.Background(), []string{good, bad}, resolveFn, nil, cfg, testLogger(t), &out)

	assert.Equal(t, 1, result.Renamed)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 2, result.Total())
	assert.FileExists(t, filepath.Join(dir, "out", "2023 - J. Doe - Resolved Paper.pdf"))
	assert.FileExists(t, bad, "failed file stays put without a failed dir")
	assert.Contains(t, out.String(), "Batch summary: 1 renamed, 0 skipped, 0 quarantined, 1 failed")
}

func TestBatchQuarantinesWithFailedDir(t *testing.T) {
	dir := t.TempDir()
	bad := writePDF(t, dir, "bad.pdf")

	resolveFn := func(context.Context, string) (types.Metadata, error) {
		return types.Metadata{}, errors.New("no usable metadata")
	}

	var out bytes.Buffer
	cfg := types.RenameConfig{
		OutputDir: filepath.Join(dir, "out"),
		FailedDir: filepath.Join(dir, "failed"),
	}
	result := Batch(context.Background(), []string{bad}, resolveFn, nil, cfg, testLogger(t), &out)

	assert.Equal(t, 1, result.Quarantined)
	assert.Equal(t, 0, result.Failed)
	assert.False(t, result.HasFailures())
	assert.FileExists(t, filepath.Join(dir, "failed", "bad.pdf"))
}

func TestBatchDryRunCountsAsSkipped(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "a.pdf")

	resolveFn := func(context.Context, string) (types.Metadata, error) {
		return types.Metadata{Title: "A Paper", Year: 2023}, nil
	}

	var out bytes.Buffer
	cfg := types.RenameConfig{DryRun: true}
	result := Batch(context.Background(), []string{src}, resolveFn, nil, cfg, testLogger(t), &out)

	assert.Equal(t, 1, result.Skipped)
	assert.FileExists(t, src)
	assert.Contains(t, out.String(), "dry-run: ")
}

func TestBatchSkipFunc(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "2023 - J. Doe - Done.pdf")

	resolveFn := func(context.Context, string) (types.Metadata, error) {
		t.Fatal("resolve should not be called for skipped files")
		return types.Metadata{}, nil
	}
	skipFn := func(path string) bool { return path == src }

	var out bytes.Buffer
	result := Batch(context.Background(), []string{src}, resolveFn, skipFn, types.RenameConfig{}, testLogger(t), &out)

	assert.Equal(t, 1, result.Skipped)
	assert.FileExists(t, src)
}

func TestBatchCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	a := writePDF(t, dir, "a.pdf")
	b := writePDF(t, dir, "b.pdf")

	// Both resolve to the same metadata, so the second gets a dup suffix.
	resolveFn := func(context.Context, string) (types.Metadata, error) {
		return types.Metadata{Title: "Same Paper", Year: 2023}, nil
	}

	var out bytes.Buffer
	cfg := types.RenameConfig{OutputDir: filepath.Join(dir, "out")}
	result := Batch(context.Background(), []string{a, b}, resolveFn, nil, cfg, testLogger(t), &out)

	assert.Equal(t, 2, result.Renamed)
	assert.FileExists(t, filepath.Join(dir, "out", "2023 - Same Paper.pdf"))
	assert.FileExists(t, filepath.Join(dir, "out", "2023 - Same Paper - dup1.pdf"))
}
