// Package rename moves files and directories whose names carry placeholder
// tokens to their substituted names, deepest entries first.
package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/pkginit/internal/ignore"
	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/agentx-labs/pkginit/internal/placeholder"
	"github.com/rs/zerolog"
)

// Status is the result of one attempted move.
type Status string

const (
	StatusRenamed   Status = "renamed"
	StatusCollision Status = "collision"
	StatusFailed    Status = "failed"
)

// Move describes one renamed (or not renamed) entry. Paths are slash
// separated and relative to the root.
type Move struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	IsDir  bool   `json:"dir,omitempty" yaml:"dir,omitempty"`
	Status Status `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Skipper decides whether a path is left out of the pass.
type Skipper interface {
	Skip(path string, isDir bool) ignore.Reason
}

// Options configures a rename pass.
type Options struct {
	Root    string
	Mapping *placeholder.Mapping
	Filter  Skipper
	DryRun  bool
}

// Result lists the moves in the order they were attempted.
type Result struct {
	Moves []Move `json:"moves" yaml:"moves"`
}

// Count returns the number of moves with status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, m := range r.Moves {
		if m.Status == s {
			n++
		}
	}
	return n
}

type renamer struct {
	opts    Options
	logger  zerolog.Logger
	result  *Result
	planned map[string]bool // destinations claimed during a dry run
}

// Run renames every token-bearing entry under opts.Root. Within each
// directory the subdirectories are processed first, then the directory's
// files are renamed, then the subdirectories themselves, so no path is ever
// invalidated by a rename of one of its ancestors.
func Run(opts Options) (*Result, error) {
	if opts.Mapping == nil {
		return nil, fmt.Errorf("rename: mapping is required")
	}
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("rename: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rename: %s is not a directory", opts.Root)
	}

	r := &renamer{
		opts:    opts,
		logger:  logging.GetLogger("rename"),
		result:  &Result{},
		planned: map[string]bool{},
	}
	done := logging.LogOperationStart(r.logger, "rename")
	defer done()

	if err := r.dir(opts.Root); err != nil {
		return r.result, err
	}
	return r.result, nil
}

func (r *renamer) dir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == r.opts.Root {
			return fmt.Errorf("reading %s: %w", dir, err)
		}
		r.record(Move{From: r.rel(dir), To: r.rel(dir), IsDir: true, Status: StatusFailed, Error: err.Error()})
		return nil
	}

	var files, dirs []fs.DirEntry
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if r.skipped(path, e.IsDir()) {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	for _, d := range dirs {
		if err := r.dir(filepath.Join(dir, d.Name())); err != nil {
			return err
		}
	}
	for _, f := range files {
		r.move(dir, f.Name(), false)
	}
	for _, d := range dirs {
		r.move(dir, d.Name(), true)
	}
	return nil
}

func (r *renamer) skipped(path string, isDir bool) bool {
	if r.opts.Filter == nil {
		return ignore.Fixed(filepath.Base(path)) != ignore.ReasonNone
	}
	reason := r.opts.Filter.Skip(path, isDir)
	if reason != ignore.ReasonNone {
		r.logger.Debug().Str("path", r.rel(path)).Str("reason", string(reason)).Msg("Skipping")
		return true
	}
	return false
}

func (r *renamer) move(parent, name string, isDir bool) {
	if !strings.Contains(name, placeholder.Marker) {
		return
	}
	newName := r.opts.Mapping.Apply(name)
	if newName == name {
		return
	}

	from := filepath.Join(parent, name)
	to := filepath.Join(parent, newName)
	m := Move{From: r.rel(from), To: r.rel(to), IsDir: isDir}

	if invalidName(newName) {
		m.Status = StatusFailed
		m.Error = fmt.Sprintf("substituted name %q is not a valid file name", newName)
		r.record(m)
		return
	}

	if r.exists(to) {
		m.Status = StatusCollision
		m.Error = "destination already exists"
		r.record(m)
		return
	}

	if r.opts.DryRun {
		r.planned[to] = true
	} else if err := os.Rename(from, to); err != nil {
		m.Status = StatusFailed
		m.Error = err.Error()
		r.record(m)
		return
	}

	m.Status = StatusRenamed
	r.record(m)
}

func (r *renamer) exists(path string) bool {
	if r.planned[path] {
		return true
	}
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

func (r *renamer) record(m Move) {
	switch m.Status {
	case StatusRenamed:
		r.logger.Debug().Str("from", m.From).Str("to", m.To).Msg("Renamed")
	case StatusCollision:
		r.logger.Warn().Str("from", m.From).Str("to", m.To).Msg("Destination exists, not renaming")
	case StatusFailed:
		r.logger.Error().Str("from", m.From).Str("err", m.Error).Msg("Failed to rename")
	}
	r.result.Moves = append(r.result.Moves, m)
}

func (r *renamer) rel(path string) string {
	rel, err := filepath.Rel(r.opts.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// invalidName rejects substitutions that would move an entry out of its
// directory or leave it without a name.
func invalidName(name string) bool {
	return name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`)
}
