package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/pkginit/internal/config"
	"github.com/agentx-labs/pkginit/internal/gitx"
	"github.com/agentx-labs/pkginit/internal/initializer"
	"github.com/agentx-labs/pkginit/internal/params"
	"github.com/spf13/cobra"
)

// initFlags holds the root command's flags.
type initFlags struct {
	params.Flags

	yes      bool
	dryRun   bool
	self     string
	keepSelf bool
	noGit    bool
	noIgnore bool
	message  string
	branch   string
}

var initOpts initFlags

func registerInitFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&initOpts.Name, "name", "n", "", "Package name (required)")
	f.StringVarP(&initOpts.Author, "author", "a", "", "Author name (default: config, then git user.name)")
	f.StringVarP(&initOpts.Email, "email", "e", "", "Author email (default: config, then git user.email)")
	f.StringVarP(&initOpts.Description, "description", "d", "", "Short package description")
	f.StringVarP(&initOpts.GitHub, "github", "g", "", "GitHub username (default: email local part, then OS user)")
	f.BoolVarP(&initOpts.yes, "yes", "y", false, "Do not ask for confirmation")
	f.BoolVar(&initOpts.dryRun, "dry-run", false, "Report what would change without touching any file")
	f.StringVar(&initOpts.self, "self", "", "Initializer file to skip and delete (default: this executable when inside the template)")
	f.BoolVar(&initOpts.keepSelf, "keep-self", false, "Do not delete the initializer file")
	f.BoolVar(&initOpts.noGit, "no-git", false, "Do not create a git repository")
	f.BoolVar(&initOpts.noIgnore, "no-ignore", false, "Process files matched by the ignore file too")
	f.StringVarP(&initOpts.message, "message", "m", "", "Initial commit message (default: config commit_message)")
	f.StringVar(&initOpts.branch, "branch", "", "Initial branch name (default: config branch, then git's default)")
}

func runInit(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	ctx := cmd.Context()
	git := gitx.New(root)

	resolver := params.NewResolver(git)
	p, err := resolver.Resolve(ctx, initOpts.Flags)
	if err != nil {
		return err
	}

	selfPath := initOpts.self
	if selfPath == "" {
		selfPath = defaultSelfPath(root)
	} else if !filepath.IsAbs(selfPath) {
		selfPath = filepath.Join(root, selfPath)
	}

	opts := initializer.Options{
		Root:          root,
		Params:        p,
		SelfPath:      selfPath,
		KeepSelf:      initOpts.keepSelf,
		NoGit:         initOpts.noGit,
		NoIgnore:      initOpts.noIgnore,
		IgnoreFile:    config.Get(config.KeyIgnoreFile),
		Branch:        firstNonEmpty(initOpts.branch, config.Get(config.KeyBranch)),
		CommitMessage: firstNonEmpty(initOpts.message, config.Get(config.KeyCommitMessage)),
		DryRun:        initOpts.dryRun,
		Git:           git,
	}

	if !initOpts.yes && !initOpts.dryRun {
		styled := colorEnabled(os.Stderr)
		showPlan(cmd.ErrOrStderr(), styled, opts)
		if err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	summary, runErr := initializer.Run(ctx, opts)
	if summary != nil {
		if err := renderSummary(cmd.OutOrStdout(), format, colorEnabled(os.Stdout), summary); err != nil {
			return err
		}
	}
	return runErr
}

// defaultSelfPath returns the running executable when it lives inside root,
// so a template that ships its own initializer binary cleans up after itself.
func defaultSelfPath(root string) string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if resolvedRoot, err := filepath.EvalSymlinks(root); err == nil {
		root = resolvedRoot
	}
	rel, err := filepath.Rel(root, exe)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return exe
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
