package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KurtWeston/git-size/pkg/config"
	"github.com/KurtWeston/git-size/pkg/report"
	"github.com/KurtWeston/git-size/pkg/sizes"
	"github.com/KurtWeston/git-size/pkg/units"
)

// limitFlag registers -n/--limit and returns a resolver that prefers the flag
// over the configured value when the flag was given.
func limitFlag(cmd *cobra.Command, def int) func(configured int) (int, error) {
	var limit int

	cmd.Flags().IntVarP(&limit, "limit", "n", def, "maximum number of entries (0 for no limit)")

	return func(configured int) (int, error) {
		if !cmd.Flags().Changed("limit") {
			return configured, nil
		}

		if limit < 0 {
			return 0, fmt.Errorf("--limit %d: %w", limit, config.ErrInvalidLimit)
		}

		return limit, nil
	}
}

// thresholdFlag registers -t/--threshold and returns a resolver that parses
// the flag, or the configured value when the flag was not given.
func thresholdFlag(cmd *cobra.Command, def, usage string) func(configured string) (int64, error) {
	var threshold string

	cmd.Flags().StringVarP(&threshold, "threshold", "t", def, usage)

	return func(configured string) (int64, error) {
		value := configured
		if cmd.Flags().Changed("threshold") {
			value = threshold
		}

		size, err := units.ParseSize(value)
		if err != nil {
			return 0, fmt.Errorf("--threshold: %w", err)
		}

		return size, nil
	}
}

func newTopCommand(a *app) *cobra.Command {
	var extensions []string

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the largest files in repository history",
		Long: `Show the largest files ever committed, ranked by the biggest version of
each path seen in any commit reachable from a branch, tag or HEAD.

Threshold values are MiB when given as a bare number (-t 5) or any
humanized size (-t 500KB).`,
		Args: cobra.NoArgs,
	}

	resolveLimit := limitFlag(cmd, config.DefaultTopLimit)
	resolveMinSize := thresholdFlag(cmd, config.DefaultTopMinSize, "minimum file size")

	cmd.Flags().StringArrayVarP(&extensions, "extension", "e", nil, "only show paths with this suffix (repeatable)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		limit, err := resolveLimit(a.cfg.Top.Limit)
		if err != nil {
			return err
		}

		minSize, err := resolveMinSize(a.cfg.Top.MinSize)
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("extension") {
			extensions = a.cfg.Top.Extensions
		}

		return a.run(cmd, func(ctx context.Context, analyzer *sizes.Analyzer, r *report.Renderer) error {
			files, err := analyzer.LargestFiles(ctx, limit, minSize, extensions)
			if err != nil {
				return err
			}

			return r.Files(report.TitleLargestFiles, files)
		})
	}

	return cmd
}

func newDirsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirs",
		Short: "Show directories ranked by the size of their files",
		Long: `Show directories ranked by the summed size of every historical observation
of the files directly inside them. A file is counted once per commit that
contains it, so a directory grows with both file size and history length.
Files at the top level are grouped as (root).`,
		Args: cobra.NoArgs,
	}

	resolveLimit := limitFlag(cmd, config.DefaultDirsLimit)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		limit, err := resolveLimit(a.cfg.Dirs.Limit)
		if err != nil {
			return err
		}

		return a.run(cmd, func(ctx context.Context, analyzer *sizes.Analyzer, r *report.Renderer) error {
			dirs, err := analyzer.LargestDirectories(ctx, limit)
			if err != nil {
				return err
			}

			return r.Directories(report.TitleLargestDirectories, dirs)
		})
	}

	return cmd
}

func newDeletedCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deleted",
		Short: "Show files deleted from HEAD that remain in history",
		Args:  cobra.NoArgs,
	}

	resolveLimit := limitFlag(cmd, config.DefaultDeletedLimit)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		limit, err := resolveLimit(a.cfg.Deleted.Limit)
		if err != nil {
			return err
		}

		return a.run(cmd, func(ctx context.Context, analyzer *sizes.Analyzer, r *report.Renderer) error {
			files, err := analyzer.DeletedFiles(ctx, limit)
			if err != nil {
				return err
			}

			return r.Files(report.TitleDeletedFiles, files)
		})
	}

	return cmd
}

func newLFSCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lfs",
		Short: "Suggest files for Git LFS",
		Long: `List every path whose size reached the threshold in any commit, as
candidates for Git LFS. The list is not truncated.`,
		Args: cobra.NoArgs,
	}

	resolveThreshold := thresholdFlag(cmd, config.DefaultLFSThreshold, "minimum file size (bare numbers are MiB)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		threshold, err := resolveThreshold(a.cfg.LFS.Threshold)
		if err != nil {
			return err
		}

		return a.run(cmd, func(ctx context.Context, analyzer *sizes.Analyzer, r *report.Renderer) error {
			files, err := analyzer.LargeFileCandidates(ctx, threshold)
			if err != nil {
				return err
			}

			return r.Files(report.LFSTitle(threshold), files)
		})
	}

	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show repository size statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, analyzer *sizes.Analyzer, r *report.Renderer) error {
				stats, err := analyzer.CollectStats(ctx)
				if err != nil {
					return err
				}

				return r.Stats(stats)
			})
		},
	}
}
