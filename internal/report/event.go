// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report carries the structured events a conversion run emits and
// the sinks that consume them: console text, slog records, and in-memory
// collection for run reports.
package report

import (
	"time"

	"github.com/pdiddy/wordhoard/pkg/types"
)

// Stage names one step of a conversion run.
type Stage string

const (
	StageLocate    Stage = "locate"
	StageLoad      Stage = "load"
	StageSchema    Stage = "schema"
	StageBackup    Stage = "backup"
	StageTransform Stage = "transform"
	StagePersist   Stage = "persist"
	StageVerify    Stage = "verify"
	StageSummary   Stage = "summary"
)

// Count keys used in Event.Counts.
const (
	CountRows    = "rows"
	CountColumns = "columns"
	CountRecords = "records"
	CountDropped = "dropped"
	CountBytes   = "bytes"
)

// Attribute keys used in Event.Attrs.
const (
	AttrInput     = "input"
	AttrOutput    = "output"
	AttrBackupDir = "backup_dir"
	AttrBackup    = "backup"
	AttrSheet     = "sheet"
	AttrReason    = "reason"
)

// Preview is the leading fields of the first record.
type Preview struct {
	Fields    []types.Field `json:"fields" yaml:"fields"`
	Remaining int           `json:"remaining" yaml:"remaining"`
}

// Event is emitted once per completed stage.
type Event struct {
	Stage    Stage             `json:"stage" yaml:"stage"`
	Path     string            `json:"path,omitempty" yaml:"path,omitempty"`
	Counts   map[string]int    `json:"counts,omitempty" yaml:"counts,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Columns  []string          `json:"columns,omitempty" yaml:"columns,omitempty"`
	Skipped  bool              `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Preview  *Preview          `json:"preview,omitempty" yaml:"preview,omitempty"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
}

// Count returns Counts[key], or 0.
func (e Event) Count(key string) int {
	return e.Counts[key]
}

// Reporter consumes stage events.
type Reporter interface {
	Report(Event)
}

// Multi fans each event out to every reporter in order.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(e Event) {
	for _, r := range m {
		if r != nil {
			r.Report(e)
		}
	}
}

// Discard drops every event.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Event) {}

// Recorder keeps every event it receives, in order.
type Recorder struct {
	Events []Event
}

// Report implements Reporter.
func (r *Recorder) Report(e Event) {
	r.Events = append(r.Events, e)
}

// Find returns the last recorded event for stage.
func (r *Recorder) Find(stage Stage) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Stage == stage {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

// Stages returns the recorded stage names in order.
func (r *Recorder) Stages() []Stage {
	stages := make([]Stage, len(r.Events))
	for i, e := range r.Events {
		stages[i] = e.Stage
	}
	return stages
}
