package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sofmeright/lintrc/src/config"
	"github.com/sofmeright/lintrc/src/output"
)

var printConfigOutput string

var printConfigCmd = &cobra.Command{
	Use:   "print-config [file]",
	Short: "Print the configuration resolved for a file",
	Long: `Print the baseline merged with the configuration that applies to file.

A directory argument resolves the configuration of files directly inside it.
Without an argument the current directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := config.LocalConfigFilename
		if len(args) > 0 {
			target = args[0]
			if fi, err := os.Stat(target); err == nil && fi.IsDir() {
				target = filepath.Join(target, config.LocalConfigFilename)
			}
		}

		cfg, err := resolver.GetConfig(target)
		if err != nil {
			return fmt.Errorf("resolving config for %s: %w", target, err)
		}
		return output.RenderConfig(cmd.OutOrStdout(), cfg, printConfigOutput)
	},
}

func init() {
	printConfigCmd.Flags().StringVarP(&printConfigOutput, "output", "o", output.ConfigJSON, "output format: json, yaml or toml")

	rootCmd.AddCommand(printConfigCmd)
}
