package cli

import (
	"github.com/agentx-labs/pkginit/internal/branding"
	"github.com/agentx-labs/pkginit/internal/config"
	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbosity    int
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` turns the package template in the current directory into a
ready-to-use project.

Every ${...} placeholder in file contents and in file or directory names is
replaced with the values given on the command line, falling back to your
` + branding.CLIName() + ` config, your git identity and your OS account. The initializer then
deletes itself and, when the directory is not yet a repository, creates one
with a single initial commit.

Placeholders: ${package_name} ${import_name} ${package_title} ${author}
${email} ${description} ${github_username} ${year}`,
	Example: `  ` + branding.CLIName() + ` --name foo-bar --author "Ada Lovelace" --email ada@example.com
  ` + branding.CLIName() + ` -n foo-bar --dry-run -o json
  ` + branding.CLIName() + ` check`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(verbosity)
		config.Load()
	},
	RunE: runInit,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(FormatText), "Output format: text, json or yaml")
	registerInitFlags(rootCmd)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
