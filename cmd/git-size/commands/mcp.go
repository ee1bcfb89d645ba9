package commands

import (
	"github.com/spf13/cobra"

	"github.com/KurtWeston/git-size/pkg/mcp"
	"github.com/KurtWeston/git-size/pkg/observability"
	"github.com/KurtWeston/git-size/pkg/version"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes the git-size reports as tools that AI agents can discover
and invoke:
  - gitsize_top: largest files in history
  - gitsize_dirs: directories ranked by file size
  - gitsize_deleted: files deleted from HEAD
  - gitsize_lfs: Git LFS candidates
  - gitsize_stats: repository statistics

Omitted tool arguments fall back to the loaded configuration.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{modeAnnotation: string(observability.ModeMCP)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			red, err := observability.NewREDMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:      a.providers.Logger,
				Metrics:     red,
				WalkMetrics: a.walkMetrics,
				Tracer:      a.providers.Tracer,
				Config:      a.cfg,
				Version:     version.Version,
			})

			return srv.Run(cmd.Context())
		},
	}
}
