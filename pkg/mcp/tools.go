package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameTop     = "gitsize_top"
	ToolNameDirs    = "gitsize_dirs"
	ToolNameDeleted = "gitsize_deleted"
	ToolNameLFS     = "gitsize_lfs"
	ToolNameStats   = "gitsize_stats"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrRepoPathNotAbsolute indicates the repo_path is not an absolute path.
	ErrRepoPathNotAbsolute = errors.New("repo_path must be an absolute path")
	// ErrRepoNotFound indicates the repository path does not exist.
	ErrRepoNotFound = errors.New("repository path does not exist")
	// ErrRepoNotDirectory indicates the repository path is a regular file.
	ErrRepoNotDirectory = errors.New("repository path is not a directory")
	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("path is not a git repository")
)

// Input types (auto-generate JSON schemas via struct tags).

// TopInput is the input schema for the gitsize_top tool.
type TopInput struct {
	Extensions *[]string `json:"extensions,omitempty" jsonschema:"only report paths ending with one of these suffixes (e.g. .zip); omit to use the configured extensions, pass [] for no filter"`
	Limit      int       `json:"limit,omitempty"      jsonschema:"maximum number of files (default 20, negative for no limit)"`
	MinSize    string    `json:"min_size,omitempty"   jsonschema:"minimum blob size; a bare number is MiB, or e.g. 500KB"`
	RepoPath   string    `json:"repo_path"            jsonschema:"absolute path to a Git repository"`
}

// LimitInput is the input schema for the gitsize_dirs and gitsize_deleted tools.
type LimitInput struct {
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of entries (negative for no limit)"`
	RepoPath string `json:"repo_path"       jsonschema:"absolute path to a Git repository"`
}

// LFSInput is the input schema for the gitsize_lfs tool.
type LFSInput struct {
	RepoPath  string `json:"repo_path"           jsonschema:"absolute path to a Git repository"`
	Threshold string `json:"threshold,omitempty" jsonschema:"minimum blob size (default 100MiB); a bare number is MiB"`
}

// StatsInput is the input schema for the gitsize_stats tool.
type StatsInput struct {
	RepoPath string `json:"repo_path" jsonschema:"absolute path to a Git repository"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateRepoPath checks that repoPath names an existing directory.
func validateRepoPath(repoPath string) error {
	if repoPath == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(repoPath) {
		return fmt.Errorf("%w: %s", ErrRepoPathNotAbsolute, repoPath)
	}

	info, err := os.Stat(repoPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRepoNotFound, repoPath)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRepoNotDirectory, repoPath)
	}

	return nil
}

// Tool description constants.
const (
	topToolDescription = "List the largest files ever committed to a Git repository, " +
		"by the biggest version of each path across all branches and tags."

	dirsToolDescription = "List directories ranked by the summed size of every historical " +
		"observation of the files directly inside them, counted once per commit that contains each file."

	deletedToolDescription = "List files present somewhere in history but absent from HEAD, " +
		"ranked by size."

	lfsToolDescription = "List files whose size ever reached a threshold, as candidates " +
		"for Git LFS migration."

	statsToolDescription = "Report pack file count and size, working tree size, " +
		"commit count and branch count of a Git repository."
)
