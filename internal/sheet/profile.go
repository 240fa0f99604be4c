// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/pdiddy/wordhoard/pkg/types"
)

// NumericSummary holds summary statistics of a column's numeric cells.
type NumericSummary struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
}

// ColumnProfile describes how a column is populated.
type ColumnProfile struct {
	Name     string          `json:"name" yaml:"name"`
	Filled   int             `json:"filled" yaml:"filled"`
	Missing  int             `json:"missing" yaml:"missing"`
	Distinct int             `json:"distinct" yaml:"distinct"`
	Numeric  int             `json:"numeric" yaml:"numeric"`
	Summary  *NumericSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// FillRate returns the share of rows with a non-empty value.
func (p ColumnProfile) FillRate() float64 {
	total := p.Filled + p.Missing
	if total == 0 {
		return 0
	}
	return float64(p.Filled) / float64(total)
}

// Profile computes one ColumnProfile per column of t, in column order.
func Profile(t *Table) ([]ColumnProfile, error) {
	profiles := make([]ColumnProfile, len(t.Headers))
	for col, name := range t.Headers {
		p := ColumnProfile{Name: name}
		distinct := make(map[string]struct{})
		var numbers []float64

		for _, row := range t.Rows {
			c := row[col]
			if c.IsEmpty() {
				p.Missing++
				continue
			}
			p.Filled++
			distinct[c.String()] = struct{}{}
			if c.Kind == types.CellNumber {
				numbers = append(numbers, c.Number)
			}
		}
		p.Distinct = len(distinct)
		p.Numeric = len(numbers)

		if len(numbers) > 0 {
			s, err := summarize(numbers)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			p.Summary = s
		}
		profiles[col] = p
	}
	return profiles, nil
}

func summarize(data stats.Float64Data) (*NumericSummary, error) {
	lo, err := data.Min()
	if err != nil {
		return nil, err
	}
	hi, err := data.Max()
	if err != nil {
		return nil, err
	}
	mean, err := data.Mean()
	if err != nil {
		return nil, err
	}
	median, err := data.Median()
	if err != nil {
		return nil, err
	}
	return &NumericSummary{Min: lo, Max: hi, Mean: mean, Median: median}, nil
}
