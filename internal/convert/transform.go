// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/wordhoard/internal/sheet"
	"github.com/pdiddy/wordhoard/pkg/types"
)

// TransformOptions controls how table rows become records.
type TransformOptions struct {
	Rename        []types.ColumnRename
	RequireColumn string
	UnicodeNFC    bool
}

// Keys returns the output keys for headers: renamed, optionally NFC
// normalized, and made unique again so every record keeps one key per column.
func Keys(headers []string, opts TransformOptions) []string {
	renames := make(map[string]string, len(opts.Rename))
	for _, r := range opts.Rename {
		renames[r.From] = r.To
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		k := h
		if to, ok := renames[h]; ok {
			k = to
		}
		if opts.UnicodeNFC {
			k = norm.NFC.String(k)
		}
		keys[i] = k
	}
	return sheet.UniqueNames(keys)
}

// Transform converts table rows to records in row order. Rows whose
// RequireColumn value is empty are dropped; the number dropped is returned.
// The dataset is never nil so an empty sheet serializes as [].
func Transform(t *sheet.Table, opts TransformOptions) (types.Dataset, int, error) {
	keys := Keys(t.Headers, opts)

	required := -1
	if opts.RequireColumn != "" {
		for i, k := range keys {
			if k == opts.RequireColumn {
				required = i
				break
			}
		}
		if required < 0 {
			return nil, 0, fmt.Errorf("required column %q not found (columns: %s)",
				opts.RequireColumn, strings.Join(keys, ", "))
		}
	}

	ds := make(types.Dataset, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		if required >= 0 && blank(row[required]) {
			dropped++
			continue
		}

		rec := make(types.Record, len(keys))
		for i, k := range keys {
			c := row[i]
			if opts.UnicodeNFC && c.Kind == types.CellString {
				c.Text = norm.NFC.String(c.Text)
			}
			rec[i] = types.Field{Key: k, Value: c}
		}
		ds = append(ds, rec)
	}
	return ds, dropped, nil
}

func blank(c types.Cell) bool {
	if c.Kind == types.CellString {
		return strings.TrimSpace(c.Text) == ""
	}
	return c.IsMissing()
}
