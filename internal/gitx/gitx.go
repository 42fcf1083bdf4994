// Package gitx runs the external git binary for identity lookups and for
// creating the first commit of a freshly initialized template.
package gitx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/rs/zerolog"
)

// Runner executes git with args in dir and returns its trimmed combined output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs a real git binary.
type ExecRunner struct {
	Binary string // defaults to "git"
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		if trimmed != "" {
			return trimmed, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, trimmed)
		}
		return trimmed, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return trimmed, nil
}

// Client issues git commands against one working directory.
type Client struct {
	Dir    string
	Runner Runner
	logger zerolog.Logger
}

// New returns a Client backed by the git binary on PATH.
func New(dir string) *Client {
	return NewWithRunner(dir, ExecRunner{})
}

// NewWithRunner returns a Client that delegates to r.
func NewWithRunner(dir string, r Runner) *Client {
	return &Client{
		Dir:    dir,
		Runner: r,
		logger: logging.GetLogger("gitx"),
	}
}

// Available reports an error when git is not on PATH.
func Available() (string, error) {
	path, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("git not found on PATH: %w", err)
	}
	return path, nil
}

// IsRepository reports whether dir already holds repository metadata.
// A .git file (worktrees, submodules) counts as well as a directory.
func IsRepository(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.logger.Debug().Str("dir", c.Dir).Strs("args", args).Msg("Executing git")
	return c.Runner.Run(ctx, c.Dir, args...)
}

// ConfigValue returns `git config --get key`. An unset key is an error.
func (c *Client) ConfigValue(ctx context.Context, key string) (string, error) {
	out, err := c.run(ctx, "config", "--get", key)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("git config %s is empty", key)
	}
	return out, nil
}

// Init creates a repository in the client's directory. When branch is set
// the initial branch is named accordingly.
func (c *Client) Init(ctx context.Context, branch string) error {
	if branch == "" {
		_, err := c.run(ctx, "init")
		return err
	}

	if c.SupportsInitialBranch(ctx) {
		_, err := c.run(ctx, "init", "--initial-branch="+branch)
		return err
	}

	if _, err := c.run(ctx, "init"); err != nil {
		return err
	}
	_, err := c.run(ctx, "symbolic-ref", "HEAD", "refs/heads/"+branch)
	return err
}

// AddAll stages every file in the working tree.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", "-A")
	return err
}

// Commit records the staged changes with message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}
