package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/lintrc/src/config"
	"github.com/sofmeright/lintrc/src/log"
)

var (
	cfgFile   string
	outFormat string
	verbose   bool
	logLevel  string
	resolver  *config.Resolver
)

var rootCmd = &cobra.Command{
	Use:   "lintrc",
	Short: "Configuration-driven file linter",
	Long: `lintrc lints a source tree with per-directory configuration.

Every file is checked against the built-in baseline merged with the nearest
.lintrc above it, or with the file given by --config.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if level == "" && verbose {
			level = "debug"
		}
		log.Configure(log.Config{Level: level, Output: os.Stderr, Console: true})

		// validate reports a broken --config per file instead of failing here.
		switch cmd.Name() {
		case "version", "validate":
			return nil
		}
		var err error
		resolver, err = config.New(config.Options{Config: cfgFile, Format: outFormat})
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file to use instead of discovering "+config.LocalConfigFilename)
	rootCmd.PersistentFlags().StringVar(&outFormat, "format", "", "findings output format: stylish, compact, json or junit")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default: warn, or LOG_LEVEL)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
