// Package commands implements the git-size cobra command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KurtWeston/git-size/pkg/config"
	"github.com/KurtWeston/git-size/pkg/gitlib"
	"github.com/KurtWeston/git-size/pkg/observability"
	"github.com/KurtWeston/git-size/pkg/report"
	"github.com/KurtWeston/git-size/pkg/sizes"
	"github.com/KurtWeston/git-size/pkg/version"
)

// modeAnnotation marks commands that run in a non-CLI observability mode.
const modeAnnotation = "gitsize.mode"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose    bool
	quiet      bool
	configPath string
	repoPath   string
	format     string
	json       bool
	noColor    bool
	workers    int
}

// app is the state resolved once per invocation by the root pre-run hook.
type app struct {
	opts        rootOptions
	cfg         *config.Config
	format      report.Format
	providers   observability.Providers
	walkMetrics *observability.WalkMetrics
}

// NewRootCommand builds the git-size command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "git-size",
		Short: "Find what makes a Git repository large",
		Long: `git-size walks every commit reachable from any branch, tag or HEAD and
reports which files and directories take the most space across history.

Commands:
  top       Largest files ever committed
  dirs      Directories ranked by the summed size of their files across history
  deleted   Large files removed from HEAD but still in history
  lfs       Candidates for Git LFS
  stats     Pack, working tree, commit and branch totals
  mcp       Serve the reports as MCP tools over stdio`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.BoolVarP(&a.opts.quiet, "quiet", "q", false, "suppress log output below errors")
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default .git-size.yaml in the working directory or $HOME)")
	flags.StringVarP(&a.opts.repoPath, "path", "p", ".", "path to the repository")
	flags.StringVarP(&a.opts.format, "format", "f", config.DefaultOutputFormat, "output format: table, json, yaml or plot")
	flags.BoolVar(&a.opts.json, "json", false, "shorthand for --format json")
	flags.BoolVar(&a.opts.noColor, "no-color", false, "disable colored output")
	flags.IntVar(&a.opts.workers, "workers", config.DefaultWalkWorkers, "goroutines resolving commit snapshots")

	rootCmd.AddCommand(
		newTopCommand(a),
		newDirsCommand(a),
		newDeletedCommand(a),
		newLFSCommand(a),
		newStatsCommand(a),
		newMCPCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// setup loads configuration, applies flag overrides and starts telemetry.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.opts.noColor {
		color.NoColor = true
	}

	cfg, err := config.LoadConfig(a.opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("workers") {
		if a.opts.workers < 0 {
			return config.ErrInvalidWorkers
		}

		cfg.Walk.Workers = a.opts.workers
	}

	formatName := cfg.Output.Format

	switch {
	case a.opts.json:
		formatName = string(report.FormatJSON)
	case flags.Changed("format"):
		formatName = a.opts.format
	}

	a.format, err = report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	a.cfg = cfg

	return a.startTelemetry(cmd)
}

func (a *app) startTelemetry(cmd *cobra.Command) error {
	mode := observability.ModeCLI
	if cmd.Annotations[modeAnnotation] == string(observability.ModeMCP) {
		mode = observability.ModeMCP
	}

	obsCfg := a.cfg.Observability(mode, version.Version)

	switch {
	case a.opts.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case a.opts.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	walkMetrics, err := observability.NewWalkMetrics(providers.Meter)
	if err != nil {
		return errors.Join(err, providers.Shutdown(context.Background()))
	}

	a.providers = providers
	a.walkMetrics = walkMetrics

	return nil
}

func (a *app) teardown() error {
	if a.providers.Shutdown == nil {
		return nil
	}

	err := a.providers.Shutdown(context.Background())
	if err != nil {
		a.providers.Logger.Warn("observability shutdown failed", "error", err)
	}

	return nil
}

// analyzerOptions builds engine options from the resolved configuration.
func (a *app) analyzerOptions() sizes.Options {
	return sizes.Options{
		Workers: a.cfg.Walk.Workers,
		Logger:  a.providers.Logger,
		Tracer:  a.providers.Tracer,
		Metrics: a.walkMetrics,
	}
}

// run opens the repository named by --path and hands an analyzer and a
// renderer bound to the command's output to fn.
func (a *app) run(cmd *cobra.Command, fn func(context.Context, *sizes.Analyzer, *report.Renderer) error) error {
	repo, err := gitlib.Discover(a.opts.repoPath)
	if err != nil {
		return err
	}
	defer repo.Free()

	a.providers.Logger.Debug("repository opened", "path", repo.Path(), "workdir", repo.Workdir())

	analyzer := sizes.New(repo, a.analyzerOptions())
	renderer := report.NewRenderer(cmd.OutOrStdout(), a.format)

	return fn(cmd.Context(), analyzer, renderer)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// The version command needs no configuration or telemetry.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
