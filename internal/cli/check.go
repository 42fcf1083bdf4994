package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/pkginit/internal/audit"
	"github.com/agentx-labs/pkginit/internal/config"
	"github.com/agentx-labs/pkginit/internal/ignore"
	"github.com/spf13/cobra"
)

var checkNoIgnore bool

func init() {
	checkCmd.Flags().BoolVar(&checkNoIgnore, "no-ignore", false, "Also scan files matched by the ignore file")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "List the placeholders a template uses",
	Long: `Scan a template (the current directory by default) and list every known
placeholder found in file contents and in file or directory names. Nothing is
modified. The pyproject.toml at the root, if any, is parsed and reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		var matcher *ignore.Matcher
		if !checkNoIgnore {
			matcher, err = ignore.Load(root, config.Get(config.KeyIgnoreFile))
			if err != nil {
				return fmt.Errorf("loading ignore file: %w", err)
			}
		}

		report, err := audit.Scan(audit.Options{Root: root, Filter: ignore.NewFilter(root, "", matcher)})
		if err != nil {
			return err
		}

		if format != FormatText {
			return encode(cmd.OutOrStdout(), format, report)
		}
		renderReport(cmd.OutOrStdout(), colorEnabled(os.Stdout), report)
		return nil
	},
}

func renderReport(w io.Writer, styled bool, r *audit.Report) {
	p := newPrinter(w, styled)

	if r.Project != nil {
		p.info("%s project name: %s", audit.ProjectFile, r.Project.Name)
	}
	for _, msg := range r.Warnings {
		p.warn("%s", msg)
	}

	if r.Clean() {
		p.ok("No placeholders found in %d file(s)", r.Scanned)
		return
	}

	p.heading("Placeholders used:")
	for _, tok := range r.Tokens() {
		p.line("  " + tok)
	}

	p.heading("Locations:")
	for _, f := range r.Findings {
		suffix := ""
		if f.InName {
			suffix = " " + p.muted("(name)")
		}
		p.line(fmt.Sprintf("  %s: %s%s", f.Path, f.Token, suffix))
	}
	p.ok("%d placeholder use(s) in %d file(s) scanned", len(r.Findings), r.Scanned)
}
