package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/agentx-labs/pkginit/internal/branding"
	"github.com/agentx-labs/pkginit/internal/config"
	"github.com/agentx-labs/pkginit/internal/gitx"
	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the environment can initialize templates",
	Long: `Run diagnostic checks: git availability and version, git identity used
for author defaults, and validity of the ` + branding.CLIName() + ` config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrinter(cmd.OutOrStdout(), colorEnabled(os.Stdout))
		failures := 0

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}

		p.heading("Git:")
		failures += checkGit(cmd.Context(), p, gitx.New(cwd))

		p.heading("Config:")
		failures += checkConfigFile(p)

		p.heading("Logs:")
		p.info("Log file: %s", logging.LogFilePath())

		if failures > 0 {
			return fmt.Errorf("%d check(s) failed", failures)
		}
		return nil
	},
}

// checkGit reports git availability, version and identity. It returns the
// number of failed checks.
func checkGit(ctx context.Context, p printer, client *gitx.Client) int {
	path, err := gitx.Available()
	if err != nil {
		p.fail("git not found on PATH (install git or use --no-git)")
		return 1
	}
	p.ok("git found at %s", path)

	v, err := client.Version(ctx)
	if err != nil {
		p.warn("Cannot determine git version: %v", err)
	} else if ok, _ := gitx.AtLeast(v, gitx.MinInitialBranchVersion); ok {
		p.ok("git %s supports --initial-branch", v)
	} else {
		p.warn("git %s predates %s; --branch falls back to symbolic-ref", v, gitx.MinInitialBranchVersion)
	}

	for _, key := range []string{"user.name", "user.email"} {
		value, err := client.ConfigValue(ctx, key)
		if err != nil {
			p.warn("git %s is not set (commits may fail; defaults come from config)", key)
			continue
		}
		p.ok("git %s = %s", key, value)
	}
	return 0
}

// checkConfigFile validates the user config if one exists.
func checkConfigFile(p printer) int {
	path := config.FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		p.info("No config file at %s (defaults apply)", path)
		return 0
	}

	result, err := config.ValidateFile(path)
	if err != nil {
		p.fail("Cannot validate %s: %v", path, err)
		return 1
	}
	if !result.Valid {
		p.fail("%d validation issue(s) in %s:", len(result.Issues), path)
		for _, issue := range result.Issues {
			p.line("    - " + issue.String())
		}
		return 1
	}
	p.ok("%s is valid", path)
	return 0
}
