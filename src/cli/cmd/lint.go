package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/lintrc/src/config"
	"github.com/sofmeright/lintrc/src/lint"
	"github.com/sofmeright/lintrc/src/lint/modules"
	"github.com/sofmeright/lintrc/src/log"
	"github.com/sofmeright/lintrc/src/output"
)

var (
	lintModules      []string
	lintNoModule     []string
	lintChanged      bool
	lintTargetBranch string
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run code quality checks",
	Long: `Run the lint modules enabled by each file's resolved configuration.

Modules are enabled and levelled by the "rules" key, blacklisted paths are
skipped, and the "format" key (or --format) selects the output.
With --changed only files changed against the target branch are scanned.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringSliceVar(&lintModules, "module", nil, "run only these modules (comma-separated)")
	lintCmd.Flags().StringSliceVar(&lintNoModule, "no-module", nil, "skip these modules (comma-separated)")
	lintCmd.Flags().BoolVar(&lintChanged, "changed", false, "scan only files changed against the target branch")
	lintCmd.Flags().StringVar(&lintTargetBranch, "target-branch", "", "branch to diff against with --changed (default: LINTRC_TARGET_BRANCH, CI variables, target_branch, then the remote default)")

	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.WithComponent("cli")

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	engine, err := lint.NewEngine(resolver, rootDir, lintModules, lintNoModule)
	if err != nil {
		return err
	}

	files, err := engine.CollectFiles(args...)
	if err != nil {
		return fmt.Errorf("collecting files: %w", err)
	}

	if lintChanged {
		delta := &lint.Delta{RootDir: rootDir, TargetBranch: lintTargetBranch, Source: resolver}
		changedSet, err := delta.ChangedFiles(ctx)
		if err != nil {
			return fmt.Errorf("detecting changed files: %w", err)
		}
		if changedSet != nil {
			all := len(files)
			files = lint.FilterByDelta(files, changedSet)
			logger.Debug().Int("changed", len(files)).Int("total", all).Msg("delta filter applied")
		}
	}

	logger.Debug().Int("files", len(files)).Msg("scanning")

	start := time.Now()
	findings, stats, runErr := engine.RunWithStats(ctx, files)
	if runErr != nil && stats == nil {
		return fmt.Errorf("resolving configuration: %w", runErr)
	}

	// Cross-file checks (filename collisions)
	findings = append(findings, modules.CheckFilenameCollisions(files)...)
	lint.SortFindings(findings)
	elapsed := time.Since(start)

	format, err := findingsFormat(args, rootDir)
	if err != nil {
		return err
	}
	printer, err := output.NewPrinter(format)
	if err != nil {
		return err
	}
	printer.Writer = cmd.OutOrStdout()

	report := output.Report{Findings: findings, Files: files, Stats: stats, Elapsed: elapsed}
	if err := printer.Print(report); err != nil {
		return fmt.Errorf("writing findings: %w", err)
	}
	if verbose {
		output.StatsTable(cmd.ErrOrStderr(), stats, elapsed, output.UseColor())
	}

	if runErr != nil {
		return fmt.Errorf("lint: %w", runErr)
	}
	if critical, _, _ := report.Tally(); critical > 0 {
		return fmt.Errorf("lint failed: %d critical findings", critical)
	}
	return nil
}

// findingsFormat returns --format when set, otherwise the "format" key of the
// configuration resolved for the first path being linted.
func findingsFormat(args []string, rootDir string) (string, error) {
	if outFormat != "" {
		return outFormat, nil
	}

	target := rootDir
	if len(args) > 0 {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(rootDir, target)
		}
	}
	if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		target = filepath.Join(target, config.LocalConfigFilename)
	}

	cfg, err := resolver.GetConfig(target)
	if err != nil {
		return "", fmt.Errorf("resolving output format: %w", err)
	}
	return cfg.Format(), nil
}
