// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion runs",
	Long: `History lists runs recorded in the history database (history_db in the
config), newest first. With --run, it lists the files of one run instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "list the files of this run ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return errors.New("history is disabled (history_db is empty)")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetInt64("run")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if runID > 0 {
		files, err := store.Files(ctx, runID)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(os.Stdout, files)
		}
		for _, f := range files {
			fmt.Printf("%-9s %s", f.Status, f.Source)
			if f.Output != "" {
				fmt.Printf(" -> %s", f.Output)
			}
			fmt.Println()
			for _, w := range f.Warnings {
				fmt.Printf("          warning: %s\n", w)
			}
			if f.Error != "" {
				fmt.Printf("          error: %s\n", f.Error)
			}
		}
		return nil
	}

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(os.Stdout, runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("#%d  %s  %s -> %s  total=%d success=%d failure=%d warnings=%d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.InputDir, r.OutputDir,
			r.Total, r.SuccessCount, r.FailureCount, r.WarningCount)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
