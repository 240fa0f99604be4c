// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/wordhoard/pkg/types"
)

const indent = "  "

// Encode writes ds to w as a JSON array with two-space indentation.
// Non-ASCII characters, U+2028 and U+2029 included, and <, >, & are
// written literally.
func Encode(w io.Writer, ds types.Dataset) error {
	if ds == nil {
		ds = types.Dataset{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(ds); err != nil {
		return err
	}
	_, err := w.Write(unescapeSeparators(buf.Bytes()))
	return err
}

// json.Encoder escapes these two separators regardless of SetEscapeHTML.
var (
	escapedLS = []byte(`\u2028`)
	escapedPS = []byte(`\u2029`)
)

// unescapeSeparators replaces the \u2028 and \u2029 escapes in encoded JSON
// with the literal characters. An escape preceded by an odd run of
// backslashes is text ("\\u2028") and is left alone.
func unescapeSeparators(b []byte) []byte {
	if !bytes.Contains(b, escapedLS) && !bytes.Contains(b, escapedPS) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		if b[i] == '\\' && i+len(escapedLS) <= len(b) && backslashesBefore(b, i)%2 == 0 {
			switch {
			case bytes.Equal(b[i:i+len(escapedLS)], escapedLS):
				out = append(out, "\u2028"...)
				i += len(escapedLS)
				continue
			case bytes.Equal(b[i:i+len(escapedPS)], escapedPS):
				out = append(out, "\u2029"...)
				i += len(escapedPS)
				continue
			}
		}
		out = append(out, b[i])
		i++
	}
	return out
}

// backslashesBefore counts the consecutive backslashes ending just before b[i].
func backslashesBefore(b []byte, i int) int {
	n := 0
	for j := i - 1; j >= 0 && b[j] == '\\'; j-- {
		n++
	}
	return n
}

// WriteJSON overwrites path with the encoded dataset and returns the number
// of bytes written.
func WriteJSON(path string, ds types.Dataset) (int, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return 0, fmt.Errorf("encoding %d records: %w", len(ds), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return buf.Len(), nil
}

// Verify reads path back and checks that it holds a JSON array of
// wantRecords objects, each with wantKeys keys and no null values.
func Verify(path string, wantRecords, wantKeys int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s for verification: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s is not valid JSON", path)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return fmt.Errorf("%s: top-level value is not an array", path)
	}
	items := doc.Array()
	if len(items) != wantRecords {
		return fmt.Errorf("%s: found %d records, want %d", path, len(items), wantRecords)
	}

	for i, item := range items {
		if !item.IsObject() {
			return fmt.Errorf("%s: record %d is not an object", path, i)
		}
		keys := 0
		var nullKey string
		item.ForEach(func(k, v gjson.Result) bool {
			keys++
			if v.Type == gjson.Null && nullKey == "" {
				nullKey = k.String()
			}
			return true
		})
		if nullKey != "" {
			return fmt.Errorf("%s: record %d has null value for %q", path, i, nullKey)
		}
		if keys != wantKeys {
			return fmt.Errorf("%s: record %d has %d keys, want %d", path, i, keys, wantKeys)
		}
	}
	return nil
}
