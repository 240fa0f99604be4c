// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wordhoard/internal/sheet"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets [input.xlsx]",
	Short: "List the worksheets of a workbook",
	Long: `Sheets prints every worksheet of the workbook in tab order with its used
range. Convert reads the first one unless --sheet names another.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSheets,
}

func runSheets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	infos, err := sheet.ListSheets(cfg.Convert.InputPath)
	if err != nil {
		return err
	}
	logger.Debug("listed sheets", "path", cfg.Convert.InputPath, "count", len(infos))

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSheets(cmd.OutOrStdout(), cfg.Convert.InputPath, infos, jsonOutput)
}

func formatSheets(w io.Writer, path string, infos []sheet.SheetInfo, jsonOutput bool) error {
	if jsonOutput {
		return encodeJSON(w, infos)
	}

	fmt.Fprintf(w, "Sheets in %s:\n", path)
	for _, s := range infos {
		hidden := ""
		if !s.Visible {
			hidden = " (hidden)"
		}
		fmt.Fprintf(w, "  %d. %s [%s]%s\n", s.Index+1, s.Name, s.Dimension, hidden)
	}
	return nil
}

func init() {
	sheetsCmd.Flags().Bool("json", false, "output sheets as JSON")

	rootCmd.AddCommand(sheetsCmd)
}
