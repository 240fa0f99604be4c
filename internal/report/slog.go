// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"log/slog"
	"sort"
)

// SlogReporter logs one record per event at Info level.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlog returns a reporter writing to logger.
func NewSlog(logger *slog.Logger) *SlogReporter {
	return &SlogReporter{logger: logger}
}

// Report implements Reporter.
func (s *SlogReporter) Report(e Event) {
	attrs := []slog.Attr{
		slog.String("stage", string(e.Stage)),
		slog.Duration("duration", e.Duration),
	}
	if e.Path != "" {
		attrs = append(attrs, slog.String("path", e.Path))
	}
	if e.Skipped {
		attrs = append(attrs, slog.Bool("skipped", true))
	}
	if len(e.Counts) > 0 {
		attrs = append(attrs, slog.Attr{Key: "counts", Value: slog.GroupValue(intAttrs(e.Counts)...)})
	}
	if len(e.Attrs) > 0 {
		attrs = append(attrs, slog.Attr{Key: "attrs", Value: slog.GroupValue(stringAttrs(e.Attrs)...)})
	}
	if len(e.Columns) > 0 {
		attrs = append(attrs, slog.Any("columns", e.Columns))
	}
	if e.Preview != nil {
		attrs = append(attrs, slog.Int("preview_fields", len(e.Preview.Fields)))
	}

	s.logger.LogAttrs(context.Background(), slog.LevelInfo, "stage complete", attrs...)
}

func intAttrs(m map[string]int) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(m))
	for _, k := range sortedKeys(m) {
		attrs = append(attrs, slog.Int(k, m[k]))
	}
	return attrs
}

func stringAttrs(m map[string]string) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(m))
	for _, k := range sortedKeys(m) {
		attrs = append(attrs, slog.String(k, m[k]))
	}
	return attrs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
