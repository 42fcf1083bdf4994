// Package audit reports placeholder tokens that are present in a tree, either
// to show what a template uses or to catch leftovers after initialization.
package audit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/agentx-labs/pkginit/internal/ignore"
	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/agentx-labs/pkginit/internal/placeholder"
	toml "github.com/pelletier/go-toml/v2"
)

// ProjectFile is the Python project metadata file inspected at the root.
const ProjectFile = "pyproject.toml"

// Finding is one token found in a file's content or in its name.
type Finding struct {
	Path   string `json:"path" yaml:"path"`
	Token  string `json:"token" yaml:"token"`
	InName bool   `json:"in_name,omitempty" yaml:"in_name,omitempty"`
}

// Project holds the fields of pyproject.toml the audit looks at.
type Project struct {
	Name        string `toml:"name" json:"name" yaml:"name"`
	Version     string `toml:"version" json:"version,omitempty" yaml:"version,omitempty"`
	Description string `toml:"description" json:"description,omitempty" yaml:"description,omitempty"`
}

type pyproject struct {
	Project Project `toml:"project"`
}

// Skipper decides whether a path is left out of the scan.
type Skipper interface {
	Skip(path string, isDir bool) ignore.Reason
}

// Options configures a scan.
type Options struct {
	Root   string
	Filter Skipper
	// AfterRun turns a token left in project.name into a warning.
	AfterRun bool
}

// Report is the outcome of a scan.
type Report struct {
	Findings []Finding `json:"findings" yaml:"findings"`
	Scanned  int       `json:"scanned" yaml:"scanned"`
	Project  *Project  `json:"project,omitempty" yaml:"project,omitempty"`
	Warnings []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Tokens returns the distinct tokens found, in mapping order.
func (r *Report) Tokens() []string {
	seen := map[string]bool{}
	for _, f := range r.Findings {
		seen[f.Token] = true
	}
	var out []string
	for _, tok := range placeholder.Tokens() {
		if seen[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// Clean reports whether no token was found.
func (r *Report) Clean() bool {
	return len(r.Findings) == 0
}

// Scan walks opts.Root and records every known token in text file contents
// and in entry names. It never modifies the tree.
func Scan(opts Options) (*Report, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("audit: %s is not a directory", opts.Root)
	}

	logger := logging.GetLogger("audit")
	report := &Report{}

	walkErr := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if path == opts.Root {
			return err
		}
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("Cannot read entry")
			return nil
		}

		if opts.Filter != nil {
			if opts.Filter.Skip(path, d.IsDir()) != ignore.ReasonNone {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		} else if d.IsDir() && ignore.Fixed(d.Name()) != ignore.ReasonNone {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(opts.Root, path)
		rel = filepath.ToSlash(rel)

		for _, tok := range placeholder.Find(d.Name()) {
			report.Findings = append(report.Findings, Finding{Path: rel, Token: tok, InName: true})
		}

		if !d.Type().IsRegular() {
			return nil
		}
		report.Scanned++

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Debug().Err(err).Str("path", rel).Msg("Cannot read file")
			return nil
		}
		if !utf8.Valid(data) {
			return nil
		}
		for _, tok := range placeholder.Find(string(data)) {
			report.Findings = append(report.Findings, Finding{Path: rel, Token: tok})
		}
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("walking %s: %w", opts.Root, walkErr)
	}

	project, err := ReadProject(opts.Root)
	switch {
	case err != nil:
		report.Warnings = append(report.Warnings, err.Error())
	case project != nil:
		report.Project = project
		if opts.AfterRun && placeholder.Contains(project.Name) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s project.name %q still contains a placeholder", ProjectFile, project.Name))
		}
	}

	logger.Debug().Int("scanned", report.Scanned).Int("findings", len(report.Findings)).Msg("Audit complete")
	return report, nil
}

// ReadProject parses the [project] table of root/pyproject.toml. A missing
// file returns nil without error.
func ReadProject(root string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(root, ProjectFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ProjectFile, err)
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ProjectFile, err)
	}
	return &doc.Project, nil
}
