// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wordhoard/internal/convert"
	"github.com/pdiddy/wordhoard/internal/history"
	"github.com/pdiddy/wordhoard/internal/report"
	"github.com/pdiddy/wordhoard/internal/sheet"
	"github.com/pdiddy/wordhoard/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input.xlsx]",
	Short: "Convert the word list spreadsheet to JSON",
	Long: `Convert reads the first sheet (or --sheet) of the workbook, takes the header
row as field names, and writes one JSON object per data row. Empty cells are
written as "". Accented and other non-ASCII characters are written as is.

If the output file already exists it is copied to
<name>_backup_YYYY-MM-DD_HH-MM-SS<ext> in the backup directory first. A
backup is never overwritten; a numeric suffix is added when the name is taken.

Use --dry-run to load and transform without writing anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	reportPath, _ := cmd.Flags().GetString("report")

	runID := uuid.NewString()
	log := logger.With("run_id", runID)
	started := time.Now()

	rec := &report.Recorder{}
	pipeline := convert.NewPipeline(sheet.ExcelLoader{}, report.Multi{
		report.NewConsole(cmd.OutOrStdout()),
		report.NewSlog(log),
		rec,
	})

	res, runErr := pipeline.Run(cmd.Context(), cfg.Convert, dryRun)

	status := report.StatusOK
	switch {
	case runErr != nil:
		status = report.StatusFailed
		log.Error("conversion failed", "error", runErr)
	case dryRun:
		status = report.StatusDryRun
	}

	if reportPath != "" {
		rr := report.RunReport{
			RunID:     runID,
			StartedAt: started,
			Duration:  time.Since(started),
			Status:    status,
			Config:    cfg.Convert,
			Events:    rec.Events,
		}
		if runErr != nil {
			rr.Error = runErr.Error()
		}
		if err := report.WriteRunReport(reportPath, rr); err != nil {
			log.Warn("could not write run report", "path", reportPath, "error", err)
		} else {
			log.Info("wrote run report", "path", reportPath)
		}
	}

	if !cfg.History.Disabled {
		run := history.Run{
			ID:         runID,
			StartedAt:  started,
			InputPath:  cfg.Convert.InputPath,
			Sheet:      res.Sheet,
			OutputPath: cfg.Convert.OutputPath,
			BackupPath: res.BackupPath,
			Rows:       res.Rows,
			Columns:    len(res.Columns),
			Records:    res.Records,
			Duration:   time.Since(started),
			Status:     status,
		}
		if runErr != nil {
			run.Error = runErr.Error()
		}
		// A cancelled run is still recorded.
		if err := recordRun(context.WithoutCancel(cmd.Context()), cfg.History, run); err != nil {
			log.Warn("could not record run history", "error", err)
		}
	}

	return runErr
}

func recordRun(ctx context.Context, cfg types.HistoryConfig, run history.Run) error {
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, run)
}

// defineConvertFlags registers the conversion flags on cmd.
func defineConvertFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "JSON file to write (default: data/words.json)")
	f.String("backup-dir", "", "directory for backups of the previous output (default: output directory)")
	f.String("sheet", "", "worksheet to read (default: first sheet)")
	f.Int("header-row", 1, "1-based row holding the column names")
	f.StringArray("rename", nil, "rename a column, FROM=TO (repeatable)")
	f.String("require", "", "drop rows whose value in this column is empty")
	f.Bool("raw-strings", false, "write every value as its displayed text")
	f.Bool("keep-blank-rows", false, "keep rows where every cell is empty")
	f.Bool("nfc", false, "normalize keys and text to Unicode NFC")
	f.Int("preview-fields", 10, "number of fields shown from the first record")
	f.Bool("no-verify", false, "skip reading the output back after writing")
	f.String("report", "", "write a YAML run report to this path")
	f.Bool("dry-run", false, "load and transform without backing up or writing")
}

func init() {
	defineConvertFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}
