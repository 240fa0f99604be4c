// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetInfo describes one worksheet of a workbook.
type SheetInfo struct {
	Index     int    `json:"index" yaml:"index"`
	Name      string `json:"name" yaml:"name"`
	Dimension string `json:"dimension" yaml:"dimension"`
	Visible   bool   `json:"visible" yaml:"visible"`
}

// ListSheets returns the worksheets of the workbook at path in tab order.
func ListSheets(path string) ([]SheetInfo, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	infos := make([]SheetInfo, 0, len(names))
	for i, n := range names {
		dim, err := f.GetSheetDimension(n)
		if err != nil {
			return nil, fmt.Errorf("reading dimension of sheet %q: %w", n, err)
		}
		visible, err := f.GetSheetVisible(n)
		if err != nil {
			return nil, fmt.Errorf("reading visibility of sheet %q: %w", n, err)
		}
		infos = append(infos, SheetInfo{Index: i, Name: n, Dimension: dim, Visible: visible})
	}
	return infos, nil
}

// RawRows returns the displayed text of up to limit rows of a sheet, starting
// at row 1. A limit of 0 or less returns every row. The resolved sheet name
// is returned alongside.
func RawRows(path, sheet string, limit int) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	name, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	rows, err := f.Rows(name)
	if err != nil {
		return nil, "", fmt.Errorf("reading sheet %q of %s: %w", name, path, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, "", fmt.Errorf("reading row %d of sheet %q: %w", len(out)+1, name, err)
		}
		out = append(out, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, "", fmt.Errorf("reading sheet %q of %s: %w", name, path, err)
	}
	return out, name, nil
}

// FindHeaderRow returns the 1-based index of the first of the leading maxScan
// rows holding a cell equal to column, ignoring case and surrounding space.
// A maxScan of 0 or less scans every row.
func FindHeaderRow(rows [][]string, column string, maxScan int) (int, bool) {
	want := strings.TrimSpace(column)
	for i, row := range rows {
		if maxScan > 0 && i >= maxScan {
			break
		}
		for _, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), want) {
				return i + 1, true
			}
		}
	}
	return 0, false
}
