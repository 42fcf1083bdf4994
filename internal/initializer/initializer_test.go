package initializer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentx-labs/pkginit/internal/finalize"
	"github.com/agentx-labs/pkginit/internal/gitx"
	"github.com/agentx-labs/pkginit/internal/params"
	"github.com/agentx-labs/pkginit/internal/rename"
	"github.com/agentx-labs/pkginit/internal/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	calls []string
	errs  map[string]error
}

func (r *recordingRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	r.calls = append(r.calls, key)
	if err, ok := r.errs[key]; ok {
		return "", err
	}
	return "", nil
}

func fixedNow() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

func testParams() params.Params {
	return params.Params{
		Name:        params.Field{Value: "foo-bar", Source: params.SourceFlag},
		Author:      params.Field{Value: "A B", Source: params.SourceFlag},
		Email:       params.Field{Value: "a@b.com", Source: params.SourceFlag},
		Description: params.Field{Value: "desc", Source: params.SourceFlag},
		GitHub:      params.Field{Value: "a", Source: params.SourceEmail},
	}
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// template lays out a small Python package template.
func template(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write(t, root, "hello.txt", "Hello ${package_name} by ${author} <${email}>: ${description}")
	write(t, root, "pyproject.toml", "[project]\nname = \"${package_name}\"\ndescription = \"${description}\"\n")
	write(t, root, "src/${import_name}/__init__.py", "\"\"\"${package_title}.\"\"\"\n")
	write(t, root, "LICENSE", "Copyright (c) ${year} ${author}\n")
	write(t, root, ".github/FUNDING.yml", "github: ${github_username}\n")
	write(t, root, ".gitignore", "*.log\n.venv/\n")
	write(t, root, "debug.log", "${package_name}\n")
	write(t, root, "init.py", "# uses ${package_name}\n")
	return root
}

func TestRunEndToEnd(t *testing.T) {
	root := template(t)
	runner := &recordingRunner{}

	s, err := Run(context.Background(), Options{
		Root:          root,
		Params:        testParams(),
		SelfPath:      filepath.Join(root, "init.py"),
		IgnoreFile:    ".gitignore",
		CommitMessage: "Initial commit",
		Now:           fixedNow,
		Git:           gitx.NewWithRunner(root, runner),
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello foo-bar by A B <a@b.com>: desc", read(t, root, "hello.txt"))
	assert.Equal(t, "\"\"\"foo_bar.\"\"\"\n", read(t, root, "src/foo_bar/__init__.py"))
	assert.Equal(t, "Copyright (c) 2026 A B\n", read(t, root, "LICENSE"))
	assert.Equal(t, "github: ${github_username}\n", read(t, root, ".github/FUNDING.yml"), ".github is never rewritten")
	assert.Equal(t, "${package_name}\n", read(t, root, "debug.log"), "ignored file is untouched")
	assert.NoFileExists(t, filepath.Join(root, "init.py"))

	assert.Equal(t, 1, s.Ignored)
	assert.Equal(t, 2, s.Ignore.Patterns)
	assert.Equal(t, 4, s.FileCount(rewrite.StatusRewritten))
	assert.Equal(t, 1, s.MoveCount(rename.StatusRenamed))
	assert.Empty(t, s.Leftovers)
	assert.Empty(t, s.Warnings)
	assert.Equal(t, finalize.SelfRemoved, s.Self)
	assert.Equal(t, finalize.RepoCreated, s.Repository)
	assert.Equal(t, []string{"init", "add -A", "commit -m Initial commit"}, runner.calls)
	require.Len(t, s.Mapping, 8)
	assert.Equal(t, "2026", s.Mapping[7].Value)
}

func TestRunDryRunLeavesTreeUntouched(t *testing.T) {
	root := template(t)
	before := snapshot(t, root)
	runner := &recordingRunner{}

	s, err := Run(context.Background(), Options{
		Root:       root,
		Params:     testParams(),
		SelfPath:   filepath.Join(root, "init.py"),
		IgnoreFile: ".gitignore",
		DryRun:     true,
		Now:        fixedNow,
		Git:        gitx.NewWithRunner(root, runner),
	})
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(t, root))
	assert.True(t, s.DryRun)
	assert.Equal(t, 4, s.FileCount(rewrite.StatusRewritten))
	assert.Empty(t, runner.calls)
}

func TestRunNoIgnore(t *testing.T) {
	root := template(t)

	s, err := Run(context.Background(), Options{
		Root:       root,
		Params:     testParams(),
		IgnoreFile: ".gitignore",
		NoIgnore:   true,
		NoGit:      true,
		Now:        fixedNow,
	})
	require.NoError(t, err)

	assert.Equal(t, "foo-bar\n", read(t, root, "debug.log"))
	assert.Equal(t, "github: ${github_username}\n", read(t, root, ".github/FUNDING.yml"))
	assert.True(t, s.Ignore.Disabled)
	assert.Equal(t, finalize.RepoSkipped, s.Repository)
	assert.Equal(t, finalize.SelfNone, s.Self)
}

func TestRunReportsLeftoversAndCollisions(t *testing.T) {
	root := t.TempDir()
	write(t, root, "${package_name}.md", "template")
	write(t, root, "foo-bar.md", "existing")

	s, err := Run(context.Background(), Options{Root: root, Params: testParams(), NoGit: true, Now: fixedNow})
	require.NoError(t, err)

	assert.Equal(t, 1, s.MoveCount(rename.StatusCollision))
	require.Len(t, s.Leftovers, 1)
	assert.True(t, s.Leftovers[0].InName)
	assert.NotEmpty(t, s.Warnings)
	assert.Equal(t, "existing", read(t, root, "foo-bar.md"))
}

func TestRunExistingRepository(t *testing.T) {
	root := template(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	write(t, root, ".git/description", "${package_name}")
	runner := &recordingRunner{}

	s, err := Run(context.Background(), Options{Root: root, Params: testParams(), Now: fixedNow, Git: gitx.NewWithRunner(root, runner)})
	require.NoError(t, err)

	assert.Equal(t, finalize.RepoExisting, s.Repository)
	assert.Equal(t, "${package_name}", read(t, root, ".git/description"))
	assert.Empty(t, runner.calls)
}

func TestRunRequiresName(t *testing.T) {
	root := template(t)
	before := snapshot(t, root)

	_, err := Run(context.Background(), Options{Root: root})
	require.ErrorIs(t, err, params.ErrNameRequired)
	assert.Equal(t, before, snapshot(t, root))
}

func TestRunGitFailure(t *testing.T) {
	root := template(t)
	runner := &recordingRunner{errs: map[string]error{"commit -m m": errors.New("exit status 128: please tell me who you are")}}

	s, err := Run(context.Background(), Options{
		Root:          root,
		Params:        testParams(),
		CommitMessage: "m",
		Now:           fixedNow,
		Git:           gitx.NewWithRunner(root, runner),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating initial commit")
	require.NotNil(t, s)
	assert.Equal(t, "Hello foo-bar by A B <a@b.com>: desc", read(t, root, "hello.txt"), "applied changes stay")
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			out[rel] = "<dir>"
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
