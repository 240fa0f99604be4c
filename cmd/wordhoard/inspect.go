// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wordhoard/internal/sheet"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [input.xlsx]",
	Short: "Show raw rows, header location, or a column profile",
	Long: `Inspect looks at a worksheet before converting it.

By default it prints the first --rows rows as displayed in the workbook.
--find-header COL reports which of the first --max-scan rows holds the
column COL, for workbooks whose header is not on row 1. --profile loads the
sheet as convert would and reports, per column, how many cells are filled
and the range of numeric values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

// inspectOutput is the JSON form of an inspect run.
type inspectOutput struct {
	Sheet     string                `json:"sheet"`
	Rows      [][]string            `json:"rows,omitempty"`
	HeaderRow int                   `json:"header_row,omitempty"`
	Profile   []sheet.ColumnProfile `json:"profile,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("rows")
	column, _ := cmd.Flags().GetString("find-header")
	maxScan, _ := cmd.Flags().GetInt("max-scan")
	profile, _ := cmd.Flags().GetBool("profile")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	path := cfg.Convert.InputPath
	out := inspectOutput{}
	w := cmd.OutOrStdout()

	switch {
	case profile:
		table, err := sheet.Load(path, sheet.Options{
			Sheet:         cfg.Convert.Sheet,
			HeaderRow:     cfg.Convert.HeaderRow,
			TypedValues:   true,
			KeepBlankRows: cfg.Convert.KeepBlankRows,
		})
		if err != nil {
			return err
		}
		profiles, err := sheet.Profile(table)
		if err != nil {
			return err
		}
		out.Sheet, out.Profile = table.Sheet, profiles
		if !jsonOutput {
			printProfile(w, table.Sheet, table.NumRows(), profiles)
		}

	case column != "":
		rows, name, err := sheet.RawRows(path, cfg.Convert.Sheet, maxScan)
		if err != nil {
			return err
		}
		row, ok := sheet.FindHeaderRow(rows, column, maxScan)
		if !ok {
			return fmt.Errorf("column %q not found in the first %d rows of sheet %q", column, len(rows), name)
		}
		out.Sheet, out.HeaderRow = name, row
		if !jsonOutput {
			fmt.Fprintf(w, "Header %q found on row %d of sheet %q (use --header-row %d)\n", column, row, name, row)
		}

	default:
		rows, name, err := sheet.RawRows(path, cfg.Convert.Sheet, limit)
		if err != nil {
			return err
		}
		out.Sheet, out.Rows = name, rows
		if !jsonOutput {
			printRows(w, name, rows)
		}
	}

	if jsonOutput {
		return encodeJSON(w, out)
	}
	return nil
}

func printRows(w io.Writer, sheetName string, rows [][]string) {
	fmt.Fprintf(w, "Sheet %q, first %d rows:\n", sheetName, len(rows))
	for i, row := range rows {
		fmt.Fprintf(w, "  Row %d: %s\n", i+1, strings.Join(row, " | "))
	}
}

func printProfile(w io.Writer, sheetName string, rows int, profiles []sheet.ColumnProfile) {
	fmt.Fprintf(w, "Sheet %q: %d rows, %d columns\n\n", sheetName, rows, len(profiles))
	fmt.Fprintf(w, "%-30s  %6s  %7s  %8s  %s\n", "Column", "Filled", "Missing", "Distinct", "Numeric range")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, p := range profiles {
		name := p.Name
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:27]) + "..."
		}
		rng := ""
		if p.Summary != nil {
			rng = fmt.Sprintf("%g .. %g (mean %.2f, median %g)", p.Summary.Min, p.Summary.Max, p.Summary.Mean, p.Summary.Median)
		}
		fmt.Fprintf(w, "%-30s  %6d  %7d  %8d  %s\n", name, p.Filled, p.Missing, p.Distinct, rng)
	}
}

func init() {
	inspectCmd.Flags().String("sheet", "", "worksheet to inspect (default: first sheet)")
	inspectCmd.Flags().Int("header-row", 1, "1-based header row used by --profile")
	inspectCmd.Flags().Int("rows", 10, "number of raw rows to print (0 = all)")
	inspectCmd.Flags().String("find-header", "", "report the row holding this column name")
	inspectCmd.Flags().Int("max-scan", 20, "rows scanned by --find-header (0 = all)")
	inspectCmd.Flags().Bool("profile", false, "report fill counts and numeric ranges per column")
	inspectCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(inspectCmd)
}
