// Package finalize removes the initializer from the template and records the
// initialized tree as the first commit of a new repository.
package finalize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/pkginit/internal/gitx"
	"github.com/agentx-labs/pkginit/internal/logging"
)

// SelfAction describes what happened to the initializer file.
type SelfAction string

const (
	SelfRemoved SelfAction = "removed"
	SelfKept    SelfAction = "kept"
	SelfMissing SelfAction = "missing"
	SelfNone    SelfAction = "none"
)

// RepoAction describes what happened to version control.
type RepoAction string

const (
	RepoCreated  RepoAction = "created"
	RepoExisting RepoAction = "existing"
	RepoSkipped  RepoAction = "skipped"
)

// Options configures finalization.
type Options struct {
	Root     string
	SelfPath string
	KeepSelf bool
	NoGit    bool
	Branch   string
	Message  string
	DryRun   bool
	Git      *gitx.Client // defaults to the git binary on PATH
}

// Result reports the actions taken.
type Result struct {
	Self     SelfAction `json:"self" yaml:"self"`
	Repo     RepoAction `json:"repository" yaml:"repository"`
	Branch   string     `json:"branch,omitempty" yaml:"branch,omitempty"`
	Warnings []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Run deletes the self path and, when root is not yet a repository, runs
// git init, stages everything and commits. Git failures are returned; the
// changes made by earlier stages stay in place.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("finalize")
	result := &Result{Self: SelfNone}

	switch {
	case opts.SelfPath == "":
	case opts.KeepSelf:
		result.Self = SelfKept
	case opts.DryRun:
		result.Self = SelfRemoved
	default:
		err := os.Remove(opts.SelfPath)
		switch {
		case err == nil:
			result.Self = SelfRemoved
			logger.Info().Str("path", opts.SelfPath).Msg("Removed initializer")
		case errors.Is(err, fs.ErrNotExist):
			result.Self = SelfMissing
			result.Warnings = append(result.Warnings, fmt.Sprintf("initializer %s not found", filepath.Base(opts.SelfPath)))
			logger.Warn().Str("path", opts.SelfPath).Msg("Initializer already gone")
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not remove %s: %v", opts.SelfPath, err))
			logger.Warn().Err(err).Str("path", opts.SelfPath).Msg("Failed to remove initializer")
		}
	}

	switch {
	case opts.NoGit:
		result.Repo = RepoSkipped
		return result, nil
	case gitx.IsRepository(opts.Root):
		result.Repo = RepoExisting
		logger.Info().Str("root", opts.Root).Msg("Repository exists, leaving it alone")
		return result, nil
	}

	result.Repo = RepoCreated
	result.Branch = opts.Branch
	if opts.DryRun {
		return result, nil
	}

	client := opts.Git
	if client == nil {
		client = gitx.New(opts.Root)
	}

	done := logging.LogOperationStart(logger, "git-init")
	defer done()

	if err := client.Init(ctx, opts.Branch); err != nil {
		return result, fmt.Errorf("initializing repository: %w", err)
	}
	if err := client.AddAll(ctx); err != nil {
		return result, fmt.Errorf("staging files: %w", err)
	}
	if err := client.Commit(ctx, opts.Message); err != nil {
		return result, fmt.Errorf("creating initial commit: %w", err)
	}

	return result, nil
}
