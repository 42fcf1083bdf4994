//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir     string // PKGINIT_HOME, holds config.yaml
	StateDir    string // XDG_STATE_HOME, receives the log file
	TemplateDir string // the package template being initialized
}

// setupTestEnv creates isolated temp directories and points git and pkginit
// at them so nothing outside the sandbox is read or written.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	env := &testEnv{
		HomeDir:     t.TempDir(),
		StateDir:    t.TempDir(),
		TemplateDir: t.TempDir(),
	}

	gitConfig := filepath.Join(t.TempDir(), "gitconfig")
	writeFile(t, gitConfig, "[user]\n\tname = Ada Lovelace\n\temail = ada@example.com\n")

	t.Setenv("PKGINIT_HOME", env.HomeDir)
	t.Setenv("XDG_STATE_HOME", env.StateDir)
	t.Setenv("GIT_CONFIG_GLOBAL", gitConfig)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	return env
}

// setupTemplate lays out a Python package template in dir.
func setupTemplate(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "pyproject.toml"), `[project]
name = "${package_name}"
version = "0.1.0"
description = "${description}"
authors = [{ name = "${author}", email = "${email}" }]

[project.urls]
Homepage = "https://github.com/${github_username}/${package_name}"
`)
	writeFile(t, filepath.Join(dir, "README.md"), "# ${package_title}\n\n${description}\n")
	writeFile(t, filepath.Join(dir, "LICENSE"), "Copyright (c) ${year} ${author}\n")
	writeFile(t, filepath.Join(dir, "src", "${import_name}", "__init__.py"), "\"\"\"${package_title}.\"\"\"\n")
	writeFile(t, filepath.Join(dir, "tests", "test_${import_name}.py"), "import ${import_name}\n")
	writeFile(t, filepath.Join(dir, ".gitignore"), "__pycache__/\n*.pyc\n")
	writeFile(t, filepath.Join(dir, "init.sh"), "#!/bin/sh\n# initializes ${package_name}\n")

	writeFile(t, filepath.Join(dir, "docs", "logo.png"), "\x89PNG\r\n\xff${year}")
}

// git runs git in dir and returns its trimmed output.
func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
