// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wordhoard/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversion runs",
	Long: `History lists recorded conversion runs, newest first. Runs are recorded in
the SQLite database at history.db_path unless history.disabled is set.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded conversion run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRuns(cmd.OutOrStdout(), runs, jsonOutput)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()
	if jsonOutput {
		return encodeJSON(w, run)
	}

	backup := run.BackupPath
	if backup == "" {
		backup = "(none)"
	}
	fmt.Fprintf(w, "Run:      %s\n", run.ID)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Status:   %s\n", run.Status)
	fmt.Fprintf(w, "Input:    %s\n", run.InputPath)
	if run.Sheet != "" {
		fmt.Fprintf(w, "Sheet:    %s\n", run.Sheet)
	}
	fmt.Fprintf(w, "Output:   %s\n", run.OutputPath)
	fmt.Fprintf(w, "Backup:   %s\n", backup)
	fmt.Fprintf(w, "Rows:     %d (%d columns)\n", run.Rows, run.Columns)
	fmt.Fprintf(w, "Records:  %d\n", run.Records)
	fmt.Fprintf(w, "Duration: %s\n", run.Duration)
	if run.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", run.Error)
	}
	return nil
}

func formatRuns(w io.Writer, runs []history.Run, jsonOutput bool) error {
	if jsonOutput {
		return encodeJSON(w, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-8s  %7s  %s\n", "ID", "Started", "Status", "Records", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %-8s  %7d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status, r.Records, filepath.Base(r.InputPath))
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.PersistentFlags().Bool("json", false, "output as JSON")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
