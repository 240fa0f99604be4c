// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet reads worksheets from Excel workbooks into tables of typed
// cells. Absent values are kept as explicit missing cells; callers decide
// how to serialize them.
package sheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/wordhoard/pkg/types"
)

var (
	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")
	// ErrSheetNotFound is returned when a named sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrNoHeader is returned when the sheet has fewer rows than the header row.
	ErrNoHeader = errors.New("header row not found")
)

// Options controls how a worksheet is turned into a Table.
type Options struct {
	// Sheet is the worksheet name; empty selects the first sheet.
	Sheet string
	// HeaderRow is the 1-based row used for column names. Values below 1 mean 1.
	HeaderRow int
	// TypedValues keeps numeric and boolean cells as numbers and booleans.
	TypedValues bool
	// KeepBlankRows keeps data rows whose cells are all missing.
	KeepBlankRows bool
}

// Table is a loaded worksheet: unique column names and the data rows below
// the header. Every row has exactly len(Headers) cells.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]types.Cell
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.Headers) }

// ExcelLoader loads workbooks from disk with excelize.
type ExcelLoader struct{}

// Load implements the loader used by the conversion pipeline.
func (ExcelLoader) Load(path string, opts Options) (*Table, error) {
	return Load(path, opts)
}

// Load opens the workbook at path and reads one worksheet into a Table.
func Load(path string, opts Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	name, err := resolveSheet(f, opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", name, path, err)
	}
	var raw [][]string
	if opts.TypedValues {
		raw, err = f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading raw values of sheet %q of %s: %w", name, path, err)
		}
	}

	headerIdx := opts.HeaderRow - 1
	if headerIdx < 0 {
		headerIdx = 0
	}
	if len(rows) <= headerIdx {
		return nil, fmt.Errorf("%s sheet %q: %w (row %d, sheet has %d rows)",
			path, name, ErrNoHeader, headerIdx+1, len(rows))
	}

	width := 0
	for _, r := range rows[headerIdx:] {
		width = max(width, len(r))
	}
	header := make([]string, width)
	copy(header, rows[headerIdx])

	t := &Table{
		Sheet:   name,
		Headers: UniqueNames(header),
	}

	r := &rowReader{file: f, sheet: name, rows: rows, raw: raw, typed: opts.TypedValues}
	for i := headerIdx + 1; i < len(rows); i++ {
		cells, err := r.read(i, width)
		if err != nil {
			return nil, fmt.Errorf("reading row %d of sheet %q: %w", i+1, name, err)
		}
		if !opts.KeepBlankRows && allMissing(cells) {
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

func resolveSheet(f *excelize.File, want string) (string, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return "", ErrNoSheets
	}
	if want == "" {
		return names[0], nil
	}
	for _, n := range names {
		if n == want {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, want, strings.Join(names, ", "))
}

// rowReader turns GetRows output into typed cells. rows holds the formatted
// text, raw the unformatted values (only when typed).
type rowReader struct {
	file  *excelize.File
	sheet string
	rows  [][]string
	raw   [][]string
	typed bool
}

func (r *rowReader) read(rowIdx, width int) ([]types.Cell, error) {
	cells := make([]types.Cell, width)
	for col := 0; col < width; col++ {
		c, err := r.cell(rowIdx, col)
		if err != nil {
			return nil, err
		}
		cells[col] = c
	}
	return cells, nil
}

func (r *rowReader) cell(rowIdx, col int) (types.Cell, error) {
	formatted := at(r.rows, rowIdx, col)
	if !r.typed {
		if formatted == "" {
			return types.MissingCell(), nil
		}
		return types.StringCell(formatted), nil
	}

	rawValue := at(r.raw, rowIdx, col)
	if formatted == "" && rawValue == "" && col >= len(r.rows[rowIdx]) {
		return types.MissingCell(), nil
	}

	ref, err := excelize.CoordinatesToCellName(col+1, rowIdx+1)
	if err != nil {
		return types.Cell{}, err
	}
	ct, err := r.file.GetCellType(r.sheet, ref)
	if err != nil {
		return types.Cell{}, fmt.Errorf("cell %s: %w", ref, err)
	}
	return classify(ct, formatted, rawValue), nil
}

// classify maps an OOXML cell type and its values to a Cell. Cells written
// without a type attribute are numeric in OOXML, so CellTypeUnset is treated
// like CellTypeNumber.
func classify(ct excelize.CellType, formatted, raw string) types.Cell {
	switch ct {
	case excelize.CellTypeError:
		return types.MissingCell()
	case excelize.CellTypeBool:
		return types.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if raw == "" && formatted == "" {
			return types.MissingCell()
		}
		if looksLikeDate(formatted) {
			return types.StringCell(formatted)
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return types.NumberCell(f)
		}
		if formatted == "" {
			return types.StringCell(raw)
		}
		return types.StringCell(formatted)
	}
	return types.StringCell(formatted)
}

// looksLikeDate reports whether a numeric cell is displayed as a date or
// time. Those keep their displayed text; a serial day number is useless
// in the output.
func looksLikeDate(formatted string) bool {
	if formatted == "" {
		return false
	}
	if _, err := strconv.ParseFloat(formatted, 64); err == nil {
		return false
	}
	return strings.ContainsAny(formatted, "/:") ||
		(strings.Count(formatted, "-") >= 2 && !strings.HasPrefix(formatted, "-"))
}

func at(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

func allMissing(cells []types.Cell) bool {
	for _, c := range cells {
		if !c.IsMissing() {
			return false
		}
	}
	return true
}
