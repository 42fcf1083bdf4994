package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, content string) *Matcher {
	t.Helper()
	m, err := Parse([]byte(content))
	require.NoError(t, err)
	return m
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	m := mustParse(t, "# build output\n\n  dist/  \n*.pyc\n   \n# end\n")
	assert.Equal(t, []string{"dist/", "*.pyc"}, m.Patterns())
	assert.Equal(t, 2, m.Len())
}

func TestMatch(t *testing.T) {
	m := mustParse(t, `*.pyc
__pycache__/
build/
/dist/
docs/_build
secret?.txt
data[0-9].csv
log[!a].txt
*.egg-info
`)

	tests := []struct {
		rel   string
		isDir bool
		want  bool
	}{
		{"module.pyc", false, true},
		{"pkg/sub/module.pyc", false, true}, // '*' crosses '/'
		{"module.py", false, false},
		{"__pycache__", true, true},
		{"__pycache__", false, false}, // directory-only pattern
		{"build", true, true},
		{"build-output", true, true}, // prefix-with-wildcard simplification
		{"src/build", true, false},   // not anchored anywhere else
		{"dist", true, true},         // leading slash dropped
		{"docs/_build", true, true},
		{"docs/_build", false, true},
		{"secret1.txt", false, true},
		{"secret12.txt", false, false},
		{"data7.csv", false, true},
		{"datax.csv", false, false},
		{"logb.txt", false, true},
		{"loga.txt", false, false},
		{"foo_bar.egg-info", true, true},
		{"./module.pyc", false, true},
	}

	for _, tt := range tests {
		_, got := m.Match(tt.rel, tt.isDir)
		assert.Equal(t, tt.want, got, "Match(%q, dir=%v)", tt.rel, tt.isDir)
	}
}

func TestMatchReturnsPattern(t *testing.T) {
	m := mustParse(t, "*.log\nlogs/\n")
	p, ok := m.Match("logs", true)
	require.True(t, ok)
	assert.Equal(t, "logs/", p)
}

func TestNilAndEmptyMatcher(t *testing.T) {
	var m *Matcher
	_, ok := m.Match("anything", false)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	_, ok = (&Matcher{}).Match("anything", true)
	assert.False(t, ok)
}

func TestTranslate(t *testing.T) {
	tests := map[string]string{
		"*.py":    `^(?s:.*\.py)\z`,
		"a?c":     `^(?s:a.c)\z`,
		"**/x":    `^(?s:.*/x)\z`,
		"[!ab]":   `^(?s:[^ab])\z`,
		"[]a]":    `^(?s:[\]a])\z`,
		"open[":   `^(?s:open\[)\z`,
		"a+b(c)":  `^(?s:a\+b\(c\))\z`,
		"x[a-z]y": `^(?s:x[a-z]y)\z`,
	}
	for glob, want := range tests {
		assert.Equal(t, want, translate(glob), "translate(%q)", glob)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	m, err := Load(dir, ".gitignore")
	require.NoError(t, err, "missing file is not an error")
	assert.Equal(t, 0, m.Len())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".venv/\n*.log\n"), 0644))
	m, err = Load(dir, ".gitignore")
	require.NoError(t, err)
	assert.Equal(t, []string{".venv/", "*.log"}, m.Patterns())

	m, err = Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}
