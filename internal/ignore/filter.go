package ignore

import (
	"path/filepath"
)

// Reason explains why a path is skipped. ReasonNone means it is processed.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonVCS     Reason = "vcs"
	ReasonHosting Reason = "hosting"
	ReasonSelf    Reason = "self"
	ReasonPattern Reason = "pattern"
)

// vcsDirs are never rewritten or renamed.
var vcsDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// hostingDirs hold repository-host configuration such as CI workflows.
var hostingDirs = map[string]bool{
	".github": true,
}

// IsVCSDir reports whether name is a version control metadata entry.
func IsVCSDir(name string) bool {
	return vcsDirs[name]
}

// Fixed reports why name is always excluded, regardless of patterns.
func Fixed(name string) Reason {
	switch {
	case vcsDirs[name]:
		return ReasonVCS
	case hostingDirs[name]:
		return ReasonHosting
	}
	return ReasonNone
}

// Filter combines the fixed exclusions with an optional pattern Matcher.
type Filter struct {
	root    string
	selfRel string
	matcher *Matcher
}

// NewFilter builds a Filter for root. selfPath may be empty; m may be nil.
func NewFilter(root, selfPath string, m *Matcher) *Filter {
	f := &Filter{root: canonical(root), matcher: m}
	if selfPath != "" {
		if rel, err := filepath.Rel(f.root, canonical(selfPath)); err == nil {
			f.selfRel = filepath.ToSlash(rel)
		}
	}
	return f
}

// Root returns the canonical root the filter evaluates paths against.
func (f *Filter) Root() string { return f.root }

// Matcher returns the pattern matcher, which may be nil.
func (f *Filter) Matcher() *Matcher { return f.matcher }

// Skip reports why path (absolute or relative to the working directory) should
// be left alone. The root itself is never skipped.
func (f *Filter) Skip(path string, isDir bool) Reason {
	rel, ok := f.rel(path)
	if !ok || rel == "." {
		return ReasonNone
	}
	if reason := Fixed(filepath.Base(rel)); reason != ReasonNone {
		return reason
	}
	if f.selfRel != "" && rel == f.selfRel {
		return ReasonSelf
	}
	if _, matched := f.matcher.Match(rel, isDir); matched {
		return ReasonPattern
	}
	return ReasonNone
}

func (f *Filter) rel(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(f.root, canonicalDir(abs))
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// canonical returns an absolute path with symlinks resolved where possible.
func canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// canonicalDir resolves symlinks in the parent directory only, so that a
// symlinked entry itself is still reported under its own name.
func canonicalDir(abs string) string {
	dir, base := filepath.Split(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, base)
	}
	return abs
}
