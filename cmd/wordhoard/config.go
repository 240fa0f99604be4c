// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordhoard/pkg/types"
)

// setDefaults registers every config key so that environment variables
// reach viper.Unmarshal even when the config file does not mention them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("convert.input_path", d.Convert.InputPath)
	v.SetDefault("convert.output_path", d.Convert.OutputPath)
	v.SetDefault("convert.backup_dir", d.Convert.BackupDir)
	v.SetDefault("convert.sheet", d.Convert.Sheet)
	v.SetDefault("convert.header_row", d.Convert.HeaderRow)
	v.SetDefault("convert.require_column", d.Convert.RequireColumn)
	v.SetDefault("convert.typed_values", d.Convert.TypedValues)
	v.SetDefault("convert.keep_blank_rows", d.Convert.KeepBlankRows)
	v.SetDefault("convert.unicode_nfc", d.Convert.UnicodeNFC)
	v.SetDefault("convert.preview_fields", d.Convert.PreviewFields)
	v.SetDefault("convert.verify", d.Convert.Verify)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", string(d.Log.Format))
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("history.db_path", d.History.DBPath)
	v.SetDefault("history.disabled", d.History.Disabled)
}

// resolveConfig merges defaults, the config file and the environment.
func resolveConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// loadLogConfig resolves the log settings and applies the global log flags.
func loadLogConfig(cmd *cobra.Command) (types.LogConfig, error) {
	cfg, err := resolveConfig(viper.GetViper())
	if err != nil {
		return types.LogConfig{}, err
	}
	applyLogFlags(cmd, &cfg.Log)
	return cfg.Log, nil
}

// loadConfig resolves the full configuration for cmd. Flags the user set
// override the environment and config file; args[0], when given, is the
// input spreadsheet.
func loadConfig(cmd *cobra.Command, args []string) (types.Config, error) {
	cfg, err := resolveConfig(viper.GetViper())
	if err != nil {
		return types.Config{}, err
	}
	applyLogFlags(cmd, &cfg.Log)
	if err := applyConvertFlags(cmd, &cfg.Convert); err != nil {
		return types.Config{}, err
	}
	if len(args) > 0 {
		cfg.Convert.InputPath = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func applyLogFlags(cmd *cobra.Command, c *types.LogConfig) {
	if flagChanged(cmd, "log-level") {
		c.Level, _ = cmd.Flags().GetString("log-level")
	}
	if flagChanged(cmd, "log-format") {
		f, _ := cmd.Flags().GetString("log-format")
		c.Format = types.LogFormat(f)
	}
	if flagChanged(cmd, "log-file") {
		c.File, _ = cmd.Flags().GetString("log-file")
	}
}

// applyConvertFlags copies the conversion flags defined on cmd, if set.
// Commands that define only some of them get only those applied.
func applyConvertFlags(cmd *cobra.Command, c *types.ConvertConfig) error {
	f := cmd.Flags()
	if flagChanged(cmd, "output") {
		c.OutputPath, _ = f.GetString("output")
	}
	if flagChanged(cmd, "backup-dir") {
		c.BackupDir, _ = f.GetString("backup-dir")
	}
	if flagChanged(cmd, "sheet") {
		c.Sheet, _ = f.GetString("sheet")
	}
	if flagChanged(cmd, "header-row") {
		c.HeaderRow, _ = f.GetInt("header-row")
	}
	if flagChanged(cmd, "rename") {
		pairs, _ := f.GetStringArray("rename")
		renames, err := parseRenames(pairs)
		if err != nil {
			return err
		}
		c.Rename = renames
	}
	if flagChanged(cmd, "require") {
		c.RequireColumn, _ = f.GetString("require")
	}
	if flagChanged(cmd, "raw-strings") {
		raw, _ := f.GetBool("raw-strings")
		c.TypedValues = !raw
	}
	if flagChanged(cmd, "keep-blank-rows") {
		c.KeepBlankRows, _ = f.GetBool("keep-blank-rows")
	}
	if flagChanged(cmd, "nfc") {
		c.UnicodeNFC, _ = f.GetBool("nfc")
	}
	if flagChanged(cmd, "preview-fields") {
		c.PreviewFields, _ = f.GetInt("preview-fields")
	}
	if flagChanged(cmd, "no-verify") {
		noVerify, _ := f.GetBool("no-verify")
		c.Verify = !noVerify
	}
	return nil
}

// parseRenames turns "FROM=TO" pairs into column renames, in order.
func parseRenames(pairs []string) ([]types.ColumnRename, error) {
	renames := make([]types.ColumnRename, 0, len(pairs))
	for _, p := range pairs {
		from, to, ok := strings.Cut(p, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid --rename %q: want FROM=TO", p)
		}
		renames = append(renames, types.ColumnRename{From: from, To: to})
	}
	return renames, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	fl := cmd.Flags().Lookup(name)
	return fl != nil && fl.Changed
}
