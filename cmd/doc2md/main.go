// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2md CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the doc2md CLI.
var rootCmd = &cobra.Command{
	Use:   "doc2md",
	Short: "Convert folders of Word and Excel files to Markdown",
	Long: `doc2md converts every .docx, .xls and .xlsx file below a folder into
Markdown. Each run writes into a new sibling folder named <folder>_md,
mirroring the input tree, together with a conversion log and a manifest.

Workbook output is normalized to one "## <sheet>" heading per worksheet.
Embedded images and formulas without cached results are reported as
warnings.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc2md.yaml or ~/.config/doc2md/doc2md.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2md"))
		}
	}

	viper.SetDefault("backend", string(types.BackendAuto))
	viper.SetDefault("log_file", types.DefaultLogFile)
	viper.SetDefault("manifest_file", types.DefaultManifestFile)
	viper.SetDefault("history_db", defaultHistoryDB())
	viper.SetDefault("max_collisions", types.DefaultMaxCollisions)
	viper.SetDefault("markitdown_image", types.DefaultMarkitdownImage)

	viper.SetEnvPrefix("DOC2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// defaultHistoryDB returns ~/.local/share/doc2md/history.db, or "" when the
// home directory is unknown, which disables history.
func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "doc2md", "history.db")
}

// loadConfig materializes the viper settings into a types.Config.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading config: %w", err)
	}
	if cfg.Backend != "" && !cfg.Backend.Valid() {
		return types.Config{}, fmt.Errorf("unknown backend %q (want auto, native or markitdown)", cfg.Backend)
	}
	return cfg.WithDefaults(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
