// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the spreadsheet-to-JSON pipeline: load the sheet,
// back up the previous output, transform rows to records, write and verify
// the new output, and report each stage.
package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/wordhoard/internal/backup"
	"github.com/pdiddy/wordhoard/internal/report"
	"github.com/pdiddy/wordhoard/internal/sheet"
	"github.com/pdiddy/wordhoard/pkg/types"
)

// Loader reads a spreadsheet into a table. sheet.ExcelLoader is the
// production implementation.
type Loader interface {
	Load(path string, opts sheet.Options) (*sheet.Table, error)
}

// Result holds the outcome of a conversion run.
type Result struct {
	Sheet      string
	Columns    []string
	Rows       int
	Records    int
	Dropped    int
	BackupPath string
	OutputPath string
	Bytes      int
	Preview    report.Preview
	DryRun     bool
	Duration   time.Duration
}

// Pipeline runs conversions. Reporter receives one event per completed
// stage; Now supplies the backup timestamp.
type Pipeline struct {
	Loader   Loader
	Reporter report.Reporter
	Now      func() time.Time
}

// NewPipeline returns a Pipeline using the local clock.
func NewPipeline(l Loader, r report.Reporter) *Pipeline {
	if r == nil {
		r = report.Discard
	}
	return &Pipeline{Loader: l, Reporter: r, Now: time.Now}
}

// Run converts cfg.InputPath into cfg.OutputPath. With dryRun set the sheet
// is loaded and transformed but the backup and write stages are skipped.
// The first failing stage stops the run and its error is returned.
func (p *Pipeline) Run(ctx context.Context, cfg types.ConvertConfig, dryRun bool) (Result, error) {
	start := time.Now()
	res := Result{OutputPath: cfg.OutputPath, DryRun: dryRun}
	backupDir := cfg.ResolvedBackupDir()

	p.emit(report.Event{
		Stage: report.StageLocate,
		Attrs: map[string]string{
			report.AttrInput:     cfg.InputPath,
			report.AttrOutput:    cfg.OutputPath,
			report.AttrBackupDir: backupDir,
		},
	})

	// Load.
	if err := ctx.Err(); err != nil {
		return res, err
	}
	stageStart := time.Now()
	table, err := p.Loader.Load(cfg.InputPath, sheet.Options{
		Sheet:         cfg.Sheet,
		HeaderRow:     cfg.HeaderRow,
		TypedValues:   cfg.TypedValues,
		KeepBlankRows: cfg.KeepBlankRows,
	})
	if err != nil {
		return res, fmt.Errorf("loading spreadsheet: %w", err)
	}
	res.Sheet = table.Sheet
	res.Columns = table.Headers
	res.Rows = table.NumRows()
	p.emit(report.Event{
		Stage:    report.StageLoad,
		Path:     cfg.InputPath,
		Counts:   map[string]int{report.CountRows: table.NumRows(), report.CountColumns: table.NumColumns()},
		Attrs:    map[string]string{report.AttrSheet: table.Sheet},
		Duration: time.Since(stageStart),
	})
	p.emit(report.Event{Stage: report.StageSchema, Columns: table.Headers})

	// Backup.
	if err := ctx.Err(); err != nil {
		return res, err
	}
	stageStart = time.Now()
	if dryRun {
		p.emit(report.Event{Stage: report.StageBackup, Skipped: true, Attrs: map[string]string{report.AttrReason: "dry run"}})
	} else {
		path, err := backup.Backup(cfg.OutputPath, backupDir, p.Now())
		if err != nil {
			return res, fmt.Errorf("backing up previous output: %w", err)
		}
		res.BackupPath = path
		p.emit(report.Event{
			Stage:    report.StageBackup,
			Path:     path,
			Skipped:  path == "",
			Duration: time.Since(stageStart),
		})
	}

	// Transform.
	stageStart = time.Now()
	ds, dropped, err := Transform(table, TransformOptions{
		Rename:        cfg.Rename,
		RequireColumn: cfg.RequireColumn,
		UnicodeNFC:    cfg.UnicodeNFC,
	})
	if err != nil {
		return res, fmt.Errorf("transforming rows: %w", err)
	}
	res.Records = len(ds)
	res.Dropped = dropped
	p.emit(report.Event{
		Stage:    report.StageTransform,
		Counts:   map[string]int{report.CountRecords: len(ds), report.CountDropped: dropped},
		Duration: time.Since(stageStart),
	})

	// Persist and verify.
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if dryRun {
		p.emit(report.Event{
			Stage:   report.StagePersist,
			Path:    cfg.OutputPath,
			Skipped: true,
			Attrs:   map[string]string{report.AttrReason: "dry run"},
		})
	} else {
		stageStart = time.Now()
		n, err := WriteJSON(cfg.OutputPath, ds)
		if err != nil {
			return res, err
		}
		res.Bytes = n
		p.emit(report.Event{
			Stage:    report.StagePersist,
			Path:     cfg.OutputPath,
			Counts:   map[string]int{report.CountBytes: n, report.CountRecords: len(ds)},
			Duration: time.Since(stageStart),
		})

		if cfg.Verify {
			stageStart = time.Now()
			if err := Verify(cfg.OutputPath, len(ds), table.NumColumns()); err != nil {
				return res, fmt.Errorf("verifying output: %w", err)
			}
			p.emit(report.Event{
				Stage:    report.StageVerify,
				Path:     cfg.OutputPath,
				Counts:   map[string]int{report.CountRecords: len(ds)},
				Duration: time.Since(stageStart),
			})
		}
	}

	// Summary.
	summary := report.Event{
		Stage:  report.StageSummary,
		Counts: map[string]int{report.CountRecords: len(ds)},
		Attrs: map[string]string{
			report.AttrOutput: cfg.OutputPath,
			report.AttrBackup: res.BackupPath,
		},
	}
	if len(ds) > 0 {
		pv := BuildPreview(ds[0], cfg.PreviewFields)
		res.Preview = pv
		summary.Preview = &pv
	}
	res.Duration = time.Since(start)
	summary.Duration = res.Duration
	p.emit(summary)

	return res, nil
}

func (p *Pipeline) emit(e report.Event) {
	p.Reporter.Report(e)
}
