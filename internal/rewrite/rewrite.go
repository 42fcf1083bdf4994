// Package rewrite substitutes placeholder tokens inside every text file of a
// template, in place.
package rewrite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/agentx-labs/pkginit/internal/ignore"
	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/agentx-labs/pkginit/internal/placeholder"
)

// Status is the per-file result of a rewrite pass.
type Status string

const (
	StatusRewritten     Status = "rewritten"
	StatusUnchanged     Status = "unchanged"
	StatusSkippedBinary Status = "skipped-binary"
	StatusFailed        Status = "failed"
)

// Outcome records what happened to one file.
type Outcome struct {
	Path         string `json:"path" yaml:"path"`
	Status       Status `json:"status" yaml:"status"`
	Replacements int    `json:"replacements,omitempty" yaml:"replacements,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Skipper decides whether a path is left out of the pass.
type Skipper interface {
	Skip(path string, isDir bool) ignore.Reason
}

// Options configures a rewrite pass.
type Options struct {
	Root    string
	Mapping *placeholder.Mapping
	Filter  Skipper // nil processes everything
	DryRun  bool
}

// Result aggregates the outcomes of a pass in walk order.
type Result struct {
	Outcomes []Outcome `json:"files" yaml:"files"`
	Ignored  int       `json:"ignored" yaml:"ignored"`
}

// Count returns the number of outcomes with status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Run rewrites every regular text file under opts.Root. Problems with single
// files are recorded as outcomes and never stop the pass; the returned error
// is reserved for an unusable root.
func Run(opts Options) (*Result, error) {
	if opts.Mapping == nil {
		return nil, fmt.Errorf("rewrite: mapping is required")
	}
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rewrite: %s is not a directory", opts.Root)
	}

	logger := logging.GetLogger("rewrite")
	done := logging.LogOperationStart(logger, "rewrite")
	defer done()

	result := &Result{}

	walkErr := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if path == opts.Root {
			return err
		}
		rel := relPath(opts.Root, path)

		if err != nil {
			logger.Error().Err(err).Str("path", rel).Msg("Cannot read entry")
			result.Outcomes = append(result.Outcomes, Outcome{Path: rel, Status: StatusFailed, Error: err.Error()})
			return nil
		}

		if opts.Filter != nil {
			if reason := opts.Filter.Skip(path, d.IsDir()); reason != ignore.ReasonNone {
				logger.Debug().Str("path", rel).Str("reason", string(reason)).Msg("Skipping")
				if reason == ignore.ReasonPattern {
					result.Ignored++
				}
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		outcome := rewriteFile(path, rel, opts.Mapping, opts.DryRun)
		switch outcome.Status {
		case StatusSkippedBinary:
			logger.Info().Str("path", rel).Msg("Skipping non-text file")
		case StatusFailed:
			logger.Error().Str("path", rel).Str("err", outcome.Error).Msg("Failed to rewrite file")
		case StatusRewritten:
			logger.Debug().Str("path", rel).Int("replacements", outcome.Replacements).Msg("Rewrote file")
		}
		result.Outcomes = append(result.Outcomes, outcome)
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("walking %s: %w", opts.Root, walkErr)
	}

	return result, nil
}

func rewriteFile(path, rel string, m *placeholder.Mapping, dryRun bool) Outcome {
	data, err := os.ReadFile(path)
	if err != nil {
		return Outcome{Path: rel, Status: StatusFailed, Error: err.Error()}
	}
	if !utf8.Valid(data) {
		return Outcome{Path: rel, Status: StatusSkippedBinary}
	}

	content := string(data)
	n := m.Count(content)
	if n == 0 {
		return Outcome{Path: rel, Status: StatusUnchanged}
	}

	updated := m.Apply(content)
	if updated == content {
		return Outcome{Path: rel, Status: StatusUnchanged}
	}

	if !dryRun {
		info, err := os.Stat(path)
		if err != nil {
			return Outcome{Path: rel, Status: StatusFailed, Error: err.Error()}
		}
		if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
			return Outcome{Path: rel, Status: StatusFailed, Error: err.Error()}
		}
	}

	return Outcome{Path: rel, Status: StatusRewritten, Replacements: n}
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
