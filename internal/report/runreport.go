// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wordhoard/pkg/types"
)

// Run status values shared by run reports and the history store.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusDryRun = "dry-run"
)

// RunReport is the on-disk record of one conversion run.
type RunReport struct {
	RunID     string              `yaml:"run_id"`
	StartedAt time.Time           `yaml:"started_at"`
	Duration  time.Duration       `yaml:"duration"`
	Status    string              `yaml:"status"`
	Error     string              `yaml:"error,omitempty"`
	Config    types.ConvertConfig `yaml:"config"`
	Events    []Event             `yaml:"events"`
}

// WriteRunReport saves r as YAML at path, creating parent directories.
func WriteRunReport(path string, r RunReport) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory %s: %w", dir, err)
		}
	}

	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run report %s: %w", path, err)
	}
	return nil
}
