// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// ColumnRename maps a spreadsheet header to the key written in the output.
type ColumnRename struct {
	From string `json:"from" yaml:"from" mapstructure:"from"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// ConvertConfig holds settings for one spreadsheet-to-JSON conversion run.
type ConvertConfig struct {
	// InputPath is the spreadsheet to read.
	InputPath string `json:"input_path" yaml:"input_path" mapstructure:"input_path"`

	// OutputPath is the JSON file to write. An existing file is backed up first.
	OutputPath string `json:"output_path" yaml:"output_path" mapstructure:"output_path"`

	// BackupDir receives timestamped copies of the previous output.
	// Empty means the directory of OutputPath.
	BackupDir string `json:"backup_dir" yaml:"backup_dir" mapstructure:"backup_dir"`

	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty" mapstructure:"sheet"`

	// HeaderRow is the 1-based row holding column names (default 1).
	HeaderRow int `json:"header_row" yaml:"header_row" mapstructure:"header_row"`

	// Rename maps spreadsheet headers to output keys, applied in order.
	Rename []ColumnRename `json:"rename,omitempty" yaml:"rename,omitempty" mapstructure:"rename"`

	// RequireColumn drops rows whose value in this column (after renaming) is empty.
	RequireColumn string `json:"require_column,omitempty" yaml:"require_column,omitempty" mapstructure:"require_column"`

	// TypedValues writes numeric and boolean cells as JSON numbers and booleans
	// instead of their displayed text.
	TypedValues bool `json:"typed_values" yaml:"typed_values" mapstructure:"typed_values"`

	// KeepBlankRows keeps rows where every cell is missing.
	KeepBlankRows bool `json:"keep_blank_rows" yaml:"keep_blank_rows" mapstructure:"keep_blank_rows"`

	// UnicodeNFC normalizes keys and string values to Unicode NFC.
	UnicodeNFC bool `json:"unicode_nfc" yaml:"unicode_nfc" mapstructure:"unicode_nfc"`

	// PreviewFields limits the first-record preview (default 10).
	PreviewFields int `json:"preview_fields" yaml:"preview_fields" mapstructure:"preview_fields"`

	// Verify reads the written file back and checks record and key counts.
	Verify bool `json:"verify" yaml:"verify" mapstructure:"verify"`
}

// ResolvedBackupDir returns BackupDir, or the output directory when unset.
func (c ConvertConfig) ResolvedBackupDir() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return filepath.Dir(c.OutputPath)
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// LogConfig holds structured logging settings. When File is set, log lines
// are also written to a size-rotated file.
type LogConfig struct {
	Level      string    `json:"level" yaml:"level" mapstructure:"level"`
	Format     LogFormat `json:"format" yaml:"format" mapstructure:"format"`
	File       string    `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	MaxSizeMB  int       `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int       `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int       `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool      `json:"compress" yaml:"compress" mapstructure:"compress"`
}

// HistoryConfig holds settings for the conversion history database.
type HistoryConfig struct {
	// DBPath is the SQLite file recording conversion runs.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// Disabled turns history recording off.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// Config groups all wordhoard settings.
type Config struct {
	Convert ConvertConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}

// DefaultConfig returns the settings used when no file, environment variable
// or flag overrides them.
func DefaultConfig() Config {
	return Config{
		Convert: ConvertConfig{
			InputPath:     filepath.Join("data", "words.xlsx"),
			OutputPath:    filepath.Join("data", "words.json"),
			HeaderRow:     1,
			TypedValues:   true,
			PreviewFields: 10,
			Verify:        true,
		},
		Log: LogConfig{
			Level:      "warn",
			Format:     LogText,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		History: HistoryConfig{
			DBPath: filepath.Join(".wordhoard", "history.db"),
		},
	}
}

// Validate reports the first setting that cannot produce a run.
func (c Config) Validate() error {
	switch {
	case c.Convert.InputPath == "":
		return fmt.Errorf("%w: input_path is empty", ErrInvalidConfig)
	case c.Convert.OutputPath == "":
		return fmt.Errorf("%w: output_path is empty", ErrInvalidConfig)
	case c.Convert.HeaderRow < 1:
		return fmt.Errorf("%w: header_row must be at least 1, got %d", ErrInvalidConfig, c.Convert.HeaderRow)
	case c.Convert.PreviewFields < 0:
		return fmt.Errorf("%w: preview_fields must not be negative, got %d", ErrInvalidConfig, c.Convert.PreviewFields)
	}

	for i, r := range c.Convert.Rename {
		if r.From == "" || r.To == "" {
			return fmt.Errorf("%w: rename[%d] needs both from and to", ErrInvalidConfig, i)
		}
	}

	switch c.Log.Format {
	case LogText, LogJSON, "":
	default:
		return fmt.Errorf("%w: unknown log format %q (use text or json)", ErrInvalidConfig, c.Log.Format)
	}

	if !c.History.Disabled && c.History.DBPath == "" {
		return fmt.Errorf("%w: history.db_path is empty", ErrInvalidConfig)
	}
	return nil
}
