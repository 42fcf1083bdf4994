// Package initializer runs the template initialization pipeline: build the
// placeholder mapping, rewrite contents, rename paths, audit the result and
// finalize the repository.
package initializer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentx-labs/pkginit/internal/audit"
	"github.com/agentx-labs/pkginit/internal/finalize"
	"github.com/agentx-labs/pkginit/internal/gitx"
	"github.com/agentx-labs/pkginit/internal/ignore"
	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/agentx-labs/pkginit/internal/params"
	"github.com/agentx-labs/pkginit/internal/placeholder"
	"github.com/agentx-labs/pkginit/internal/rename"
	"github.com/agentx-labs/pkginit/internal/rewrite"
)

// Options configures one initialization.
type Options struct {
	Root          string
	Params        params.Params
	SelfPath      string
	KeepSelf      bool
	NoGit         bool
	NoIgnore      bool
	IgnoreFile    string
	Branch        string
	CommitMessage string
	DryRun        bool

	Now func() time.Time // defaults to time.Now
	Git *gitx.Client     // defaults to the git binary on PATH
}

// IgnoreInfo describes the ignore file that was applied.
type IgnoreInfo struct {
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Patterns int    `json:"patterns" yaml:"patterns"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Summary is everything a run did, in stage order.
type Summary struct {
	Root       string              `json:"root" yaml:"root"`
	DryRun     bool                `json:"dry_run" yaml:"dry_run"`
	Params     params.Params       `json:"params" yaml:"params"`
	Mapping    []placeholder.Pair  `json:"mapping" yaml:"mapping"`
	Ignore     IgnoreInfo          `json:"ignore" yaml:"ignore"`
	Files      []rewrite.Outcome   `json:"files" yaml:"files"`
	Ignored    int                 `json:"ignored" yaml:"ignored"`
	Moves      []rename.Move       `json:"moves" yaml:"moves"`
	Self       finalize.SelfAction `json:"self" yaml:"self"`
	Repository finalize.RepoAction `json:"repository" yaml:"repository"`
	Branch     string              `json:"branch,omitempty" yaml:"branch,omitempty"`
	Leftovers  []audit.Finding     `json:"leftovers,omitempty" yaml:"leftovers,omitempty"`
	Warnings   []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FileCount returns the number of rewrite outcomes with status s.
func (s *Summary) FileCount(status rewrite.Status) int {
	n := 0
	for _, o := range s.Files {
		if o.Status == status {
			n++
		}
	}
	return n
}

// MoveCount returns the number of rename outcomes with status s.
func (s *Summary) MoveCount(status rename.Status) int {
	n := 0
	for _, m := range s.Moves {
		if m.Status == status {
			n++
		}
	}
	return n
}

// Mapping builds the replacement set a run with these options applies.
func (o Options) Mapping() *placeholder.Mapping {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return placeholder.Build(o.Params.Values(), now())
}

// Run executes every stage in order. Per-file problems end up in the
// summary; the returned error is either a usage error raised before anything
// was touched or a git failure during finalization. The summary is returned
// in both cases when a stage had already started.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := logging.GetLogger("initializer")

	if opts.Params.Name.Value == "" {
		return nil, params.ErrNameRequired
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", root)
	}

	done := logging.LogOperationStart(logger, "initialize")
	defer done()

	mapping := opts.Mapping()
	summary := &Summary{
		Root:    root,
		DryRun:  opts.DryRun,
		Params:  opts.Params,
		Mapping: mapping.Pairs(),
	}

	var matcher *ignore.Matcher
	if opts.NoIgnore {
		summary.Ignore.Disabled = true
	} else {
		summary.Ignore.File = opts.IgnoreFile
		matcher, err = ignore.Load(root, opts.IgnoreFile)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("ignore file not applied: %v", err))
			logger.Warn().Err(err).Msg("Ignore file not applied")
			matcher = nil
		}
		summary.Ignore.Patterns = matcher.Len()
	}
	filter := ignore.NewFilter(root, opts.SelfPath, matcher)

	rewritten, err := rewrite.Run(rewrite.Options{Root: root, Mapping: mapping, Filter: filter, DryRun: opts.DryRun})
	if err != nil {
		return summary, err
	}
	summary.Files = rewritten.Outcomes
	summary.Ignored = rewritten.Ignored
	if n := rewritten.Count(rewrite.StatusFailed); n > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%d file(s) could not be rewritten", n))
	}

	renamed, err := rename.Run(rename.Options{Root: root, Mapping: mapping, Filter: filter, DryRun: opts.DryRun})
	if err != nil {
		return summary, err
	}
	summary.Moves = renamed.Moves
	if n := renamed.Count(rename.StatusCollision); n > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%d path(s) not renamed because the destination exists", n))
	}
	if n := renamed.Count(rename.StatusFailed); n > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%d path(s) could not be renamed", n))
	}

	// A dry run leaves every token in place, so there is nothing to audit.
	if !opts.DryRun {
		report, err := audit.Scan(audit.Options{Root: root, Filter: filter, AfterRun: true})
		if err != nil {
			return summary, err
		}
		summary.Leftovers = report.Findings
		summary.Warnings = append(summary.Warnings, report.Warnings...)
		if !report.Clean() {
			logger.Warn().Int("count", len(report.Findings)).Msg("Placeholders remain after substitution")
		}
	}

	finalized, err := finalize.Run(ctx, finalize.Options{
		Root:     root,
		SelfPath: opts.SelfPath,
		KeepSelf: opts.KeepSelf,
		NoGit:    opts.NoGit,
		Branch:   opts.Branch,
		Message:  opts.CommitMessage,
		DryRun:   opts.DryRun,
		Git:      opts.Git,
	})
	if finalized != nil {
		summary.Self = finalized.Self
		summary.Repository = finalized.Repo
		summary.Branch = finalized.Branch
		summary.Warnings = append(summary.Warnings, finalized.Warnings...)
	}
	if err != nil {
		return summary, err
	}

	return summary, nil
}
