// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/wordhoard/pkg/types"
)

// --- test helpers ---

type fixtureSheet struct {
	name string
	rows [][]any
}

// writeWorkbook saves the given sheets, in order, to a temporary xlsx file.
// nil values leave the cell unset.
func writeWorkbook(t *testing.T, sheets ...fixtureSheet) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(s.name, ref, v))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func typed() Options { return Options{HeaderRow: 1, TypedValues: true} }

// --- Load ---

func TestLoadMissingCellsArePlaceholders(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{
		{"word", "type"},
		{"café", "noun"},
		{"eau", nil},
	}})

	table, err := Load(path, typed())
	require.NoError(t, err)

	assert.Equal(t, "liste", table.Sheet)
	assert.Equal(t, []string{"word", "type"}, table.Headers)
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, 2, table.NumColumns())
	assert.Equal(t, types.StringCell("café"), table.Rows[0][0])
	assert.Equal(t, types.StringCell("noun"), table.Rows[0][1])
	assert.Equal(t, types.StringCell("eau"), table.Rows[1][0])
	assert.True(t, table.Rows[1][1].IsMissing())
}

func TestLoadTypedValues(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{
		{"MOTS", "NBSYLL", "irregular", "freq"},
		{"chat", 1, false, 12.75},
		{"maison", 2, true, nil},
	}})

	table, err := Load(path, typed())
	require.NoError(t, err)
	require.Equal(t, 2, table.NumRows())

	assert.Equal(t, types.NumberCell(1), table.Rows[0][1])
	assert.Equal(t, types.BoolCell(false), table.Rows[0][2])
	assert.Equal(t, types.NumberCell(12.75), table.Rows[0][3])
	assert.Equal(t, types.NumberCell(2), table.Rows[1][1])
	assert.Equal(t, types.BoolCell(true), table.Rows[1][2])
	assert.True(t, table.Rows[1][3].IsMissing())
}

func TestLoadUntypedKeepsDisplayedText(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{
		{"MOTS", "NBSYLL"},
		{"chat", 1},
		{"eau", nil},
	}})

	table, err := Load(path, Options{HeaderRow: 1})
	require.NoError(t, err)

	assert.Equal(t, types.StringCell("1"), table.Rows[0][1])
	assert.True(t, table.Rows[1][1].IsMissing())
}

func TestLoadDateCellsKeepDisplayedText(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{
		{"MOTS", "added"},
		{"chat", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}})

	table, err := Load(path, typed())
	require.NoError(t, err)

	c := table.Rows[0][1]
	assert.Equal(t, types.CellString, c.Kind)
	assert.NotEmpty(t, c.Text)
}

func TestLoadBlankRows(t *testing.T) {
	rows := [][]any{
		{"MOTS", "SYNT"},
		{"chat", "NOM"},
		{nil, nil},
		{"courir", "VER"},
	}
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: rows})

	table, err := Load(path, typed())
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows(), "blank row should be skipped")

	opts := typed()
	opts.KeepBlankRows = true
	table, err = Load(path, opts)
	require.NoError(t, err)
	require.Equal(t, 3, table.NumRows())
	assert.True(t, table.Rows[1][0].IsMissing())
	assert.True(t, table.Rows[1][1].IsMissing())
}

func TestLoadEveryRowHasEveryColumn(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{
		{"a", "", "a"},
		{"x"},
		{"x", "y", "z", "extra"},
	}})

	table, err := Load(path, typed())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "Unnamed: 3"}, table.Headers)
	for i, row := range table.Rows {
		assert.Len(t, row, 4, "row %d", i)
	}
	assert.Equal(t, types.StringCell("extra"), table.Rows[1][3])
}

func TestLoadHeaderRow(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{
		{"Liste refaite"},
		{nil},
		{"MOTS", "SYNT"},
		{"chat", "NOM"},
	}})

	opts := typed()
	opts.HeaderRow = 3
	table, err := Load(path, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"MOTS", "SYNT"}, table.Headers)
	require.Equal(t, 1, table.NumRows())
	assert.Equal(t, types.StringCell("chat"), table.Rows[0][0])

	opts.HeaderRow = 9
	_, err = Load(path, opts)
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestLoadSheetSelection(t *testing.T) {
	path := writeWorkbook(t,
		fixtureSheet{name: "liste", rows: [][]any{{"MOTS"}, {"chat"}}},
		fixtureSheet{name: "tokens CGP", rows: [][]any{{"phoneme", "token"}, {"/f/", ".f"}}},
	)

	table, err := Load(path, typed())
	require.NoError(t, err)
	assert.Equal(t, "liste", table.Sheet, "first sheet is the default")

	opts := typed()
	opts.Sheet = "tokens CGP"
	table, err = Load(path, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"phoneme", "token"}, table.Headers)

	opts.Sheet = "absent"
	_, err = Load(path, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
	assert.Contains(t, err.Error(), "tokens CGP")
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	notXLSX := filepath.Join(dir, "words.xlsx")
	require.NoError(t, os.WriteFile(notXLSX, []byte("MOTS,SYNT\nchat,NOM\n"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "absent.xlsx")},
		{name: "not a spreadsheet", path: notXLSX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, typed())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestExcelLoader(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{{"MOTS"}, {"chat"}}})
	table, err := ExcelLoader{}.Load(path, typed())
	require.NoError(t, err)
	assert.Equal(t, 1, table.NumRows())
}

// --- classify ---

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		ct        excelize.CellType
		formatted string
		raw       string
		want      types.Cell
	}{
		{name: "unset numeric", ct: excelize.CellTypeUnset, formatted: "3", raw: "3", want: types.NumberCell(3)},
		{name: "percent keeps raw number", ct: excelize.CellTypeUnset, formatted: "50%", raw: "0.5", want: types.NumberCell(0.5)},
		{name: "date keeps text", ct: excelize.CellTypeUnset, formatted: "3/15/24", raw: "45366", want: types.StringCell("3/15/24")},
		{name: "iso date keeps text", ct: excelize.CellTypeUnset, formatted: "2024-03-15", raw: "45366", want: types.StringCell("2024-03-15")},
		{name: "negative number", ct: excelize.CellTypeNumber, formatted: "-4", raw: "-4", want: types.NumberCell(-4)},
		{name: "empty unset", ct: excelize.CellTypeUnset, want: types.MissingCell()},
		{name: "error cell", ct: excelize.CellTypeError, formatted: "#N/A", raw: "#N/A", want: types.MissingCell()},
		{name: "bool", ct: excelize.CellTypeBool, formatted: "TRUE", raw: "1", want: types.BoolCell(true)},
		{name: "shared string", ct: excelize.CellTypeSharedString, formatted: "12", raw: "12", want: types.StringCell("12")},
		{name: "explicit empty string", ct: excelize.CellTypeSharedString, want: types.StringCell("")},
		{name: "formula string", ct: excelize.CellTypeFormula, formatted: "chat", raw: "chat", want: types.StringCell("chat")},
		{name: "nan text is not a number", ct: excelize.CellTypeUnset, formatted: "NaN", raw: "NaN", want: types.StringCell("NaN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.ct, tt.formatted, tt.raw))
		})
	}
}

// --- UniqueNames ---

func TestUniqueNames(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "already unique", in: []string{"MOTS", "SYNT"}, want: []string{"MOTS", "SYNT"}},
		{name: "empty names", in: []string{"MOTS", "", "SYNT", ""}, want: []string{"MOTS", "Unnamed: 1", "SYNT", "Unnamed: 3"}},
		{name: "whitespace names are kept", in: []string{"MOTS", " ", "  "}, want: []string{"MOTS", " ", "  "}},
		{name: "duplicates", in: []string{"a", "a", "a"}, want: []string{"a", "a.1", "a.2"}},
		{name: "suffix already taken", in: []string{"a", "a", "a.1"}, want: []string{"a", "a.2", "a.1"}},
		{name: "empty", in: []string{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueNames(tt.in))
		})
	}
}

// --- inspection ---

func TestListSheets(t *testing.T) {
	path := writeWorkbook(t,
		fixtureSheet{name: "liste", rows: [][]any{{"MOTS", "SYNT"}, {"chat", "NOM"}, {"eau", "NOM"}}},
		fixtureSheet{name: "tokens CGP", rows: [][]any{{"phoneme"}}},
	)

	infos, err := ListSheets(path)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, 0, infos[0].Index)
	assert.Equal(t, "liste", infos[0].Name)
	assert.True(t, infos[0].Visible)
	assert.Equal(t, "tokens CGP", infos[1].Name)
	assert.Equal(t, 1, infos[1].Index)
}

func TestListSheetsMissingFile(t *testing.T) {
	_, err := ListSheets(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
}

func TestRawRows(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{name: "liste", rows: [][]any{
		{"MOTS", "NBSYLL"},
		{"chat", 1},
		{"maison", 2},
	}})

	rows, name, err := RawRows(path, "", 2)
	require.NoError(t, err)
	assert.Equal(t, "liste", name)
	assert.Equal(t, [][]string{{"MOTS", "NBSYLL"}, {"chat", "1"}}, rows)

	rows, _, err = RawRows(path, "", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, _, err = RawRows(path, "absent", 0)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestFindHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Liste refaite v7"},
		{},
		{"", " ortho ", "SYNT"},
		{"chat", "NOM"},
	}

	row, ok := FindHeaderRow(rows, "ORTHO", 10)
	require.True(t, ok)
	assert.Equal(t, 3, row)

	_, ok = FindHeaderRow(rows, "ORTHO", 2)
	assert.False(t, ok, "header beyond the scan window")

	_, ok = FindHeaderRow(rows, "PHON", 0)
	assert.False(t, ok)
}

// --- Profile ---

func TestProfile(t *testing.T) {
	table := &Table{
		Headers: []string{"MOTS", "NBSYLL", "note"},
		Rows: [][]types.Cell{
			{types.StringCell("chat"), types.NumberCell(1), types.MissingCell()},
			{types.StringCell("maison"), types.NumberCell(2), types.StringCell("")},
			{types.StringCell("chat"), types.NumberCell(6), types.StringCell("rare")},
		},
	}

	profiles, err := Profile(table)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	mots := profiles[0]
	assert.Equal(t, "MOTS", mots.Name)
	assert.Equal(t, 3, mots.Filled)
	assert.Equal(t, 2, mots.Distinct)
	assert.Nil(t, mots.Summary)

	nb := profiles[1]
	require.NotNil(t, nb.Summary)
	assert.Equal(t, 3, nb.Numeric)
	assert.Equal(t, NumericSummary{Min: 1, Max: 6, Mean: 3, Median: 2}, *nb.Summary)

	note := profiles[2]
	assert.Equal(t, 1, note.Filled)
	assert.Equal(t, 2, note.Missing)
	assert.InDelta(t, 1.0/3.0, note.FillRate(), 1e-9)
}

func TestProfileEmptyTable(t *testing.T) {
	profiles, err := Profile(&Table{Headers: []string{"MOTS"}})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, 0.0, profiles[0].FillRate())
}
