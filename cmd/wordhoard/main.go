// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wordhoard CLI, which converts the
// word list spreadsheet into the JSON file the application reads.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordhoard/internal/envfile"
	"github.com/pdiddy/wordhoard/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the resolved log settings before any command runs.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// logCloser releases the rotating log file, if one is open.
var logCloser io.Closer

// rootCmd is the base command for the wordhoard CLI.
var rootCmd = &cobra.Command{
	Use:   "wordhoard",
	Short: "Convert the word list spreadsheet to JSON",
	Long: `wordhoard reads the first sheet of the word list workbook, uses its header
row as field names, and writes every data row as a JSON object. The previous
output is copied to a timestamped backup before it is overwritten.

Settings come from flags, WORDHOARD_* environment variables (a .env file in
the working directory is loaded first), and wordhoard.yaml, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applied, err := envfile.Load(".env")
		if err != nil {
			return err
		}

		logCfg, err := loadLogConfig(cmd)
		if err != nil {
			return err
		}
		l, closer, err := logging.New(logCfg, os.Stderr)
		if err != nil {
			return err
		}
		logger, logCloser = l, closer

		if len(applied) > 0 {
			keys := make([]string, 0, len(applied))
			for k := range applied {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded .env", "keys", keys)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Info("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	defineGlobalFlags(rootCmd)
}

// defineGlobalFlags registers the flags every command inherits.
func defineGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "config file (default: ./wordhoard.yaml or ~/.config/wordhoard/wordhoard.yaml)")
	f.String("log-level", "", "log level: debug, info, warn, or error")
	f.String("log-format", "", "log format: text or json")
	f.String("log-file", "", "also write logs to this file, rotated by size")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wordhoard")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wordhoard"))
		}
	}

	viper.SetEnvPrefix("WORDHOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		logger.Warn("could not read config file", "path", cfgFile, "error", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
