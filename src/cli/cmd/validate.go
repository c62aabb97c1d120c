package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/lintrc/src/config"
	"github.com/sofmeright/lintrc/src/lint"
	"github.com/sofmeright/lintrc/src/log"
	"github.com/sofmeright/lintrc/src/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check configuration files for errors",
	Long: `Load each configuration file and check its keys, rule levels and output
format. Without arguments the --config file is checked, or else the nearest
` + config.LocalConfigFilename + ` above the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			path, err := defaultConfigPath()
			if err != nil {
				return err
			}
			paths = []string{path}
		}

		logger := log.WithComponent("validate")
		failed := 0
		for _, path := range paths {
			warnings, err := validateFile(path)
			for _, w := range warnings {
				logger.Warn().Str("path", path).Msg(w)
			}
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d config files invalid", failed, len(paths))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func defaultConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	path, found, err := config.FindLocalConfigFile(config.OSFileSystem{}, cwd)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("no %s found", config.LocalConfigFilename)
	}
	return path, nil
}

func validateFile(path string) ([]string, error) {
	cfg, err := config.LoadFile(config.OSFileSystem{}, path)
	if err != nil {
		return nil, err
	}

	warnings, err := config.Validate(cfg)
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	if _, err := lint.RulesFromConfig(cfg); err != nil {
		errs = append(errs, err)
	}
	if f := cfg.Format(); f != "" {
		if _, err := output.NewPrinter(f); err != nil {
			errs = append(errs, err)
		}
	}
	return warnings, errors.Join(errs...)
}
