package types

import "time"

// HTTPConfig holds shared HTTP settings for components that hit the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every request
	// (e.g. "pdf-rename/0.1"). CrossRef and arXiv both expect one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LookupConfig holds settings for the online metadata lookup clients.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is an optional contact email appended to CrossRef requests.
	// Requests carrying one are routed to CrossRef's polite pool.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// MaxScanPages bounds how many leading pages are searched for
	// identifiers and a title guess (default 3).
	MaxScanPages int `json:"max_scan_pages" yaml:"max_scan_pages"`
}

// RenameConfig holds settings for the rename run.
type RenameConfig struct {
	// OutputDir receives renamed files. Empty means rename in place,
	// next to the source file.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// FailedDir receives files that could not be resolved. When empty,
	// unresolvable files are left alone and counted as failures.
	FailedDir string `json:"failed_dir,omitempty" yaml:"failed_dir,omitempty"`

	// Recursive walks directories instead of globbing one level.
	Recursive bool `json:"recursive" yaml:"recursive"`

	// DryRun reports intended names without touching the filesystem.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Copy leaves the source file in place instead of moving it.
	Copy bool `json:"copy" yaml:"copy"`

	// Sidecar writes a YAML metadata record next to each renamed file.
	Sidecar bool `json:"sidecar" yaml:"sidecar"`

	// NoSearch disables the online bibliographic search fallback.
	NoSearch bool `json:"no_search" yaml:"no_search"`

	// LookupDelay is the pause between consecutive files in batch mode,
	// keeping the run polite toward the metadata APIs (default 1s).
	LookupDelay time.Duration `json:"lookup_delay" yaml:"lookup_delay"`

	// HistoryPath locates the SQLite rename ledger. Empty disables it.
	HistoryPath string `json:"history_path,omitempty" yaml:"history_path,omitempty"`
}
