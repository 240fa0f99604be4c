// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"github.com/pdiddy/wordhoard/internal/report"
	"github.com/pdiddy/wordhoard/pkg/types"
)

// BuildPreview returns the first limit fields of rec and how many were left out.
func BuildPreview(rec types.Record, limit int) report.Preview {
	n := min(limit, len(rec))
	if n < 0 {
		n = 0
	}
	fields := make([]types.Field, n)
	copy(fields, rec[:n])
	return report.Preview{Fields: fields, Remaining: len(rec) - n}
}
