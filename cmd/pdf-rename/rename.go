// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-rename/internal/history"
	"github.com/pdiddy/pdf-rename/internal/lookup"
	"github.com/pdiddy/pdf-rename/internal/rename"
	"github.com/pdiddy/pdf-rename/internal/resolve"
	"github.com/pdiddy/pdf-rename/internal/secrets"
	"github.com/pdiddy/pdf-rename/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "pdf-rename/0.1"
)

var renameCmd = &cobra.Command{
	Use:   "rename [flags] INPUT [OUTPUT_DIR]",
	Short: "Rename a PDF file or a directory of PDFs",
	Long: `Rename resolves each input PDF to bibliographic metadata and moves it
to "YEAR - F. Family - Title.pdf". INPUT is a PDF file or a directory;
OUTPUT_DIR defaults to each file's own directory.

Sources are tried in priority order: explicit --title/--doi overrides, a
user-supplied --arxiv ID, metadata embedded in the PDF, and finally an
online bibliographic search (disable with --no-search). Files that cannot
be resolved abort the run, or land in --failed-dir when one is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRename,
}

func init() {
	renameCmd.Flags().StringP("title", "t", "", "explicit title override")
	renameCmd.Flags().StringP("doi", "d", "", "explicit DOI override")
	renameCmd.Flags().StringP("arxiv", "a", "", "arXiv ID to derive metadata from")
	renameCmd.Flags().BoolP("dry-run", "n", false, "report intended names without renaming")
	renameCmd.Flags().BoolP("no-search", "N", false, "never fall back to the online bibliographic search")
	renameCmd.Flags().StringP("failed-dir", "f", "", "move unresolvable files here instead of failing the run")
	renameCmd.Flags().BoolP("recursive", "r", false, "walk INPUT recursively when it is a directory")
	renameCmd.Flags().Bool("copy", false, "copy instead of move, leaving the source in place")
	renameCmd.Flags().Bool("sidecar", false, "write a YAML metadata sidecar next to each renamed file")
	renameCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	renameCmd.Flags().Duration("delay", 0, "delay between consecutive files in batch mode (default 1s)")
	renameCmd.Flags().Bool("no-history", false, "do not record renames in the history ledger")

	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	input := args[0]
	outputDir := ""
	if len(args) == 2 {
		outputDir = args[1]
	}

	title, _ := cmd.Flags().GetString("title")
	doi, _ := cmd.Flags().GetString("doi")
	arxivID, _ := cmd.Flags().GetString("arxiv")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noSearch, _ := cmd.Flags().GetBool("no-search")
	failedDir, _ := cmd.Flags().GetString("failed-dir")
	recursive, _ := cmd.Flags().GetBool("recursive")
	copyMode, _ := cmd.Flags().GetBool("copy")
	sidecar, _ := cmd.Flags().GetBool("sidecar")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	// Overrides only make sense for a single file; a directory batch
	// would stamp every file with the same title.
	if fi, err := os.Stat(input); err == nil && fi.IsDir() && (title != "" || doi != "" || arxivID != "") {
		return fmt.Errorf("--title, --doi, and --arxiv apply to a single file, not a directory")
	}

	lookupCfg := types.LookupConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Mailto:       crossrefMailto(),
		MaxScanPages: viper.GetInt("max_scan_pages"),
	}
	renameCfg := types.RenameConfig{
		OutputDir:   outputDir,
		FailedDir:   failedDir,
		Recursive:   recursive,
		DryRun:      dryRun,
		Copy:        copyMode,
		Sidecar:     sidecar,
		NoSearch:    noSearch,
		LookupDelay: delay,
		HistoryPath: historyPath(noHistory),
	}

	resolver := &resolve.Resolver{
		Lookup:       lookup.New(&http.Client{Timeout: timeout}, lookupCfg),
		Log:          log,
		NoSearch:     noSearch,
		MaxScanPages: lookupCfg.MaxScanPages,
	}
	overrides := resolve.Overrides{Title: title, DOI: doi, ArxivID: arxivID}

	paths, err := rename.Discover(input, recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found under %s", input)
	}

	ctx := cmd.Context()

	var store *history.Store
	if renameCfg.HistoryPath != "" {
		store, err = history.Open(renameCfg.HistoryPath)
		if err != nil {
			log.Warnf("history disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	resolveFn := func(ctx context.Context, path string) (types.Metadata, error) {
		return resolver.Resolve(ctx, path, overrides)
	}
	var skipFn rename.SkipFunc
	if store != nil {
		skipFn = func(path string) bool {
			abs, absErr := filepath.Abs(path)
			if absErr != nil {
				return false
			}
			produced, histErr := store.HasProduced(ctx, abs)
			return histErr == nil && produced
		}
	}

	result := rename.Batch(ctx, paths, resolveFn, skipFn, renameCfg, log, os.Stdout)

	if store != nil && !dryRun {
		for _, o := range result.Outcomes {
			if !o.Renamed {
				continue
			}
			recordRename(ctx, store, o)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) could not be renamed", result.Failed)
	}
	return nil
}

func recordRename(ctx context.Context, store *history.Store, o rename.Outcome) {
	srcAbs, err := filepath.Abs(o.Source)
	if err != nil {
		srcAbs = o.Source
	}
	targetAbs, err := filepath.Abs(o.Target)
	if err != nil {
		targetAbs = o.Target
	}
	rec := types.RenameRecord{
		SourcePath: srcAbs,
		NewPath:    targetAbs,
		DOI:        o.Metadata.DOI,
		Title:      o.Metadata.Title,
		Source:     o.Metadata.Source.String(),
	}
	if err := store.Record(ctx, rec); err != nil {
		log.Warnf("could not record rename of %s: %v", o.Source, err)
	}
}

// crossrefMailto returns the polite-pool contact email: the secrets file
// wins, then the config key crossref_mailto.
func crossrefMailto() string {
	if m, ok := loadedSecrets[secrets.KeyCrossrefMailto]; ok {
		return m
	}
	return viper.GetString("crossref_mailto")
}

// historyPath locates the rename ledger: config key history_path, then
// ~/.pdf-rename/history.db. Empty disables recording.
func historyPath(disabled bool) string {
	if disabled {
		return ""
	}
	if p := viper.GetString("history_path"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pdf-rename", "history.db")
}
