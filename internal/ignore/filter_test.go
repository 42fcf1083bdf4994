package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSkip(t *testing.T) {
	root := t.TempDir()
	self := filepath.Join(root, "init.sh")
	require.NoError(t, os.WriteFile(self, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))

	m, err := Parse([]byte("*.log\nnode_modules/\n"))
	require.NoError(t, err)
	f := NewFilter(root, self, m)

	tests := []struct {
		path  string
		isDir bool
		want  Reason
	}{
		{root, true, ReasonNone},
		{filepath.Join(root, ".git"), true, ReasonVCS},
		{filepath.Join(root, ".git"), false, ReasonVCS},
		{filepath.Join(root, "sub", ".hg"), true, ReasonVCS},
		{filepath.Join(root, ".svn"), true, ReasonVCS},
		{filepath.Join(root, ".github"), true, ReasonHosting},
		{filepath.Join(root, "sub", ".github"), true, ReasonHosting},
		{self, false, ReasonSelf},
		{filepath.Join(root, "sub", "init.sh"), false, ReasonNone},
		{filepath.Join(root, "debug.log"), false, ReasonPattern},
		{filepath.Join(root, "node_modules"), true, ReasonPattern},
		{filepath.Join(root, "README.md"), false, ReasonNone},
		{filepath.Join(root, ".gitignore"), false, ReasonNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Skip(tt.path, tt.isDir), "Skip(%s)", tt.path)
	}
}

func TestFilterWithoutSelfOrMatcher(t *testing.T) {
	root := t.TempDir()
	f := NewFilter(root, "", nil)

	assert.Equal(t, ReasonNone, f.Skip(filepath.Join(root, "a.log"), false))
	assert.Equal(t, ReasonVCS, f.Skip(filepath.Join(root, ".git"), true))
	assert.Nil(t, f.Matcher())
}

func TestFilterSelfOutsideRoot(t *testing.T) {
	root := t.TempDir()
	elsewhere := filepath.Join(t.TempDir(), "pkginit")
	f := NewFilter(root, elsewhere, nil)

	assert.Equal(t, ReasonNone, f.Skip(filepath.Join(root, "pkginit"), false))
}

func TestIsVCSDir(t *testing.T) {
	assert.True(t, IsVCSDir(".git"))
	assert.False(t, IsVCSDir(".github"))
}

func TestFixed(t *testing.T) {
	assert.Equal(t, ReasonVCS, Fixed(".git"))
	assert.Equal(t, ReasonVCS, Fixed(".hg"))
	assert.Equal(t, ReasonHosting, Fixed(".github"))
	assert.Equal(t, ReasonNone, Fixed(".gitignore"))
	assert.Equal(t, ReasonNone, Fixed("github"))
}
