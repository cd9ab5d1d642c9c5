package main

import (
	"github.com/spf13/cobra"

	"github.com/langbridge/langbridge/internal/cliout"
	"github.com/langbridge/langbridge/internal/docext"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input document formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cliout.Output(map[string]any{
			"formats": docext.SupportedFormats(),
		})
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
