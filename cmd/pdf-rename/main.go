// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-rename CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-rename/internal/logging"
	"github.com/pdiddy/pdf-rename/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the shared logger, built in the root PersistentPreRunE.
var log *logging.Logger

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the pdf-rename CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf-rename",
	Short: "Rename PDF papers after their bibliographic metadata",
	Long: `pdf-rename renames academic PDF files into a consistent
"YEAR - F. Family - Title.pdf" scheme. Metadata comes from the document
itself (info dictionary, DOI or arXiv ID in the text) or, failing that,
from an online lookup against CrossRef and the arXiv API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		verbosity, _ := cmd.Flags().GetCount("verbose")
		logFile, _ := cmd.Flags().GetString("log-file")
		if logFile == "" {
			logFile = viper.GetString("log_file")
		}
		log, err = logging.New(logging.FromVerbosity(verbosity), logFile)
		if err != nil {
			return err
		}

		for k := range s {
			log.Debugf("loaded secret %s", k)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Close()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf-rename.yaml or ~/.config/pdf-rename/config.yaml)")
	rootCmd.PersistentFlags().StringP("log-file", "l", "", "mirror log output into this file")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase output verbosity (-v info, -vv debug)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf-rename")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf-rename"))
		}
	}

	viper.SetEnvPrefix("PDF_RENAME")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
