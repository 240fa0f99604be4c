// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CellKind tags the value held by a Cell.
type CellKind uint8

const (
	// CellMissing marks a cell that was absent or empty in the spreadsheet.
	// It is written as "" only when a Record is serialized.
	CellMissing CellKind = iota
	CellString
	CellNumber
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellMissing:
		return "missing"
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	}
	return fmt.Sprintf("CellKind(%d)", uint8(k))
}

// Cell is one spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
}

// MissingCell returns the placeholder for an absent value.
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// StringCell returns a text cell. An empty string is kept as present.
func StringCell(s string) Cell { return Cell{Kind: CellString, Text: s} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// IsMissing reports whether the cell is the missing placeholder.
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// IsEmpty reports whether the cell serializes as an empty string.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellMissing || (c.Kind == CellString && c.Text == "")
}

// String returns the cell as display text. Missing cells are "".
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	}
	return ""
}

// MarshalJSON writes missing cells as "". The returned bytes leave <, > and &
// unescaped; json.Marshal escapes them again unless it runs through an
// encoder with SetEscapeHTML(false).
func (c Cell) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Cell) appendJSON(buf *bytes.Buffer) error {
	switch c.Kind {
	case CellMissing:
		buf.WriteString(`""`)
	case CellString:
		return appendJSONString(buf, c.Text)
	case CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return fmt.Errorf("cell number %v has no JSON representation", c.Number)
		}
		b, err := json.Marshal(c.Number)
		if err != nil {
			return err
		}
		buf.Write(b)
	case CellBool:
		buf.WriteString(strconv.FormatBool(c.Bool))
	default:
		return fmt.Errorf("unknown cell kind %v", c.Kind)
	}
	return nil
}

// UnmarshalJSON accepts the scalars MarshalJSON produces. null decodes to a
// missing cell.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty cell value")
	}
	switch data[0] {
	case 'n':
		*c = MissingCell()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*c = BoolCell(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = StringCell(s)
	case '{', '[':
		return fmt.Errorf("cell value must be a scalar, got %s", data)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("parsing cell number %s: %w", data, err)
		}
		*c = NumberCell(f)
	}
	return nil
}

// MarshalYAML lets run reports show cells as plain scalars.
func (c Cell) MarshalYAML() (interface{}, error) {
	switch c.Kind {
	case CellNumber:
		return c.Number, nil
	case CellBool:
		return c.Bool, nil
	}
	return c.String(), nil
}

// Field is one key/value pair of a Record.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value Cell   `json:"value" yaml:"value"`
}

// Record is one converted spreadsheet row. Field order follows the
// spreadsheet's column order and is kept when the record is serialized.
type Record []Field

// Get returns the value stored under key.
func (r Record) Get(key string) (Cell, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Cell{}, false
}

// Keys returns the record keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendJSONString(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := f.Value.appendJSON(&buf); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping its key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	rec := Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record key must be a string, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		var c Cell
		if err := c.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		rec = append(rec, Field{Key: key, Value: c})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = rec
	return nil
}

// Dataset is the ordered list of records produced from one spreadsheet.
type Dataset []Record

// appendJSONString writes s as a JSON string without escaping <, > and &.
// Non-ASCII characters are written literally.
func appendJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
