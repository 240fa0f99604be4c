// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"path/filepath"
)

// Console prints human-readable progress for each stage.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Report implements Reporter.
func (c *Console) Report(e Event) {
	switch e.Stage {
	case StageLocate:
		fmt.Fprintf(c.w, "Reading spreadsheet: %s\n", e.Attrs[AttrInput])

	case StageLoad:
		fmt.Fprintf(c.w, "Loaded %d rows and %d columns from sheet %q\n",
			e.Count(CountRows), e.Count(CountColumns), e.Attrs[AttrSheet])

	case StageSchema:
		fmt.Fprintln(c.w, "\nColumns found:")
		for i, col := range e.Columns {
			fmt.Fprintf(c.w, "  %d. %s\n", i+1, col)
		}

	case StageBackup:
		switch {
		case e.Skipped && e.Attrs[AttrReason] != "":
			fmt.Fprintf(c.w, "\nBackup skipped (%s)\n", e.Attrs[AttrReason])
		case e.Skipped:
			fmt.Fprintln(c.w, "\nNo previous output to back up")
		default:
			fmt.Fprintf(c.w, "\nCreated backup: %s\n", filepath.Base(e.Path))
		}

	case StageTransform:
		fmt.Fprintf(c.w, "\nConverted %d records", e.Count(CountRecords))
		if d := e.Count(CountDropped); d > 0 {
			fmt.Fprintf(c.w, " (%d rows dropped)", d)
		}
		fmt.Fprintln(c.w)

	case StagePersist:
		if e.Skipped {
			fmt.Fprintf(c.w, "Not writing %s (%s)\n", e.Path, e.Attrs[AttrReason])
			return
		}
		fmt.Fprintf(c.w, "Wrote %s (%d bytes)\n", e.Path, e.Count(CountBytes))

	case StageVerify:
		fmt.Fprintf(c.w, "Verified %d records in %s\n", e.Count(CountRecords), filepath.Base(e.Path))

	case StageSummary:
		c.summary(e)
	}
}

func (c *Console) summary(e Event) {
	backup := "(none)"
	if b := e.Attrs[AttrBackup]; b != "" {
		backup = filepath.Base(b)
	}

	fmt.Fprintln(c.w, "\nConversion complete!")
	fmt.Fprintf(c.w, "   - Total words: %d\n", e.Count(CountRecords))
	fmt.Fprintf(c.w, "   - Backup saved: %s\n", backup)
	fmt.Fprintf(c.w, "   - New file: %s\n", filepath.Base(e.Attrs[AttrOutput]))

	if e.Preview == nil {
		return
	}
	fmt.Fprintln(c.w, "\nSample (first word):")
	for _, f := range e.Preview.Fields {
		fmt.Fprintf(c.w, "   %s: %s\n", f.Key, f.Value.String())
	}
	if e.Preview.Remaining > 0 {
		fmt.Fprintf(c.w, "   ... and %d more fields\n", e.Preview.Remaining)
	}
}
