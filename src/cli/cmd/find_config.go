package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sofmeright/lintrc/src/config"
)

var findConfigCmd = &cobra.Command{
	Use:   "find-config [dir]",
	Short: "Print the nearest " + config.LocalConfigFilename + " for a directory",
	Long: `Walk from dir (default: the current directory) towards the filesystem
root and print the first ` + config.LocalConfigFilename + ` found. Exits non-zero when there is none.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) > 0 {
			dir = args[0]
		}

		path, found, err := resolver.FindLocalConfigFile(dir)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no %s found", config.LocalConfigFilename)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findConfigCmd)
}
