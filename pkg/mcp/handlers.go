package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KurtWeston/git-size/pkg/gitlib"
	"github.com/KurtWeston/git-size/pkg/report"
	"github.com/KurtWeston/git-size/pkg/sizes"
	"github.com/KurtWeston/git-size/pkg/units"
)

// resolveLimit maps a tool limit argument onto an analyzer limit: zero
// selects the configured default and negative values disable the limit.
func resolveLimit(requested, configured int) int {
	switch {
	case requested == 0:
		return configured
	case requested < 0:
		return 0
	default:
		return requested
	}
}

// resolveSize parses a size argument, falling back to the configured value
// when the argument is empty.
func resolveSize(requested, configured string) (int64, error) {
	if requested == "" {
		requested = configured
	}

	return units.ParseSize(requested)
}

// withAnalyzer opens the repository at repoPath, runs fn against it and
// encodes the returned value.
func (s *Server) withAnalyzer(
	ctx context.Context,
	repoPath string,
	fn func(context.Context, *sizes.Analyzer) (any, error),
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateRepoPath(repoPath)
	if err != nil {
		return errorResult(err)
	}

	repo, err := gitlib.Discover(repoPath)
	if err != nil {
		return errorResult(fmt.Errorf("%w: %w", ErrNotGitRepo, err))
	}
	defer repo.Free()

	analyzer := sizes.New(repo, sizes.Options{
		Workers: s.cfg.Walk.Workers,
		Logger:  s.logger,
		Tracer:  s.tracer,
		Metrics: s.walkMetrics,
	})

	value, err := fn(ctx, analyzer)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(value)
}

func (s *Server) handleTop(ctx context.Context, _ *mcpsdk.CallToolRequest, input TopInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	minSize, err := resolveSize(input.MinSize, s.cfg.Top.MinSize)
	if err != nil {
		return errorResult(fmt.Errorf("min_size: %w", err))
	}

	// An absent list falls back to the configured filter; an empty one disables it.
	extensions := s.cfg.Top.Extensions
	if input.Extensions != nil {
		extensions = *input.Extensions
	}

	limit := resolveLimit(input.Limit, s.cfg.Top.Limit)

	return s.withAnalyzer(ctx, input.RepoPath, func(ctx context.Context, a *sizes.Analyzer) (any, error) {
		files, err := a.LargestFiles(ctx, limit, minSize, extensions)
		if err != nil {
			return nil, err
		}

		return report.NewFileRecords(files), nil
	})
}

func (s *Server) handleDirs(ctx context.Context, _ *mcpsdk.CallToolRequest, input LimitInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	limit := resolveLimit(input.Limit, s.cfg.Dirs.Limit)

	return s.withAnalyzer(ctx, input.RepoPath, func(ctx context.Context, a *sizes.Analyzer) (any, error) {
		dirs, err := a.LargestDirectories(ctx, limit)
		if err != nil {
			return nil, err
		}

		return report.NewDirectoryRecords(dirs), nil
	})
}

func (s *Server) handleDeleted(ctx context.Context, _ *mcpsdk.CallToolRequest, input LimitInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	limit := resolveLimit(input.Limit, s.cfg.Deleted.Limit)

	return s.withAnalyzer(ctx, input.RepoPath, func(ctx context.Context, a *sizes.Analyzer) (any, error) {
		files, err := a.DeletedFiles(ctx, limit)
		if err != nil {
			return nil, err
		}

		return report.NewFileRecords(files), nil
	})
}

func (s *Server) handleLFS(ctx context.Context, _ *mcpsdk.CallToolRequest, input LFSInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	threshold, err := resolveSize(input.Threshold, s.cfg.LFS.Threshold)
	if err != nil {
		return errorResult(fmt.Errorf("threshold: %w", err))
	}

	return s.withAnalyzer(ctx, input.RepoPath, func(ctx context.Context, a *sizes.Analyzer) (any, error) {
		files, err := a.LargeFileCandidates(ctx, threshold)
		if err != nil {
			return nil, err
		}

		return report.NewFileRecords(files), nil
	})
}

func (s *Server) handleStats(ctx context.Context, _ *mcpsdk.CallToolRequest, input StatsInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.withAnalyzer(ctx, input.RepoPath, func(ctx context.Context, a *sizes.Analyzer) (any, error) {
		stats, err := a.CollectStats(ctx)
		if err != nil {
			return nil, err
		}

		return report.NewStatsRecord(stats), nil
	})
}
