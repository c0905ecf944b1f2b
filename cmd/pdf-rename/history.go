// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-rename/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently performed renames",
	Long: `History lists the renames recorded in the local ledger, newest
first. Dry runs are never recorded.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries to show")
	historyCmd.Flags().Bool("json", false, "emit entries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	path := historyPath(false)
	if path == "" {
		return fmt.Errorf("no history database configured")
	}
	if _, err := os.Stat(path); err != nil {
		history.FormatTable(nil, os.Stdout)
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if asJSON {
		return history.FormatJSON(records, os.Stdout)
	}
	history.FormatTable(records, os.Stdout)
	return nil
}
