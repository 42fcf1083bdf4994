package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentx-labs/pkginit/internal/finalize"
	"github.com/agentx-labs/pkginit/internal/initializer"
	"github.com/agentx-labs/pkginit/internal/rename"
	"github.com/agentx-labs/pkginit/internal/rewrite"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"go.yaml.in/yaml/v3"
)

// Format selects how command results are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses the --output flag.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// colorEnabled reports whether styled output should be written to f.
func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not a machine format", format)
	}
}

// printer writes status lines either through pterm or as plain tagged text.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer, styled bool) printer {
	return printer{w: w, styled: styled}
}

func (p printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p printer) heading(s string) {
	if p.styled {
		p.line(pterm.Bold.Sprint(s))
		return
	}
	p.line(s)
}

func (p printer) muted(s string) string {
	if p.styled {
		return pterm.FgGray.Sprint(s)
	}
	return s
}

func (p printer) ok(format string, args ...any) {
	if p.styled {
		fmt.Fprint(p.w, pterm.Success.Sprintfln(format, args...))
		return
	}
	p.line("[ OK ] " + fmt.Sprintf(format, args...))
}

func (p printer) info(format string, args ...any) {
	if p.styled {
		fmt.Fprint(p.w, pterm.Info.Sprintfln(format, args...))
		return
	}
	p.line("[INFO] " + fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	if p.styled {
		fmt.Fprint(p.w, pterm.Warning.Sprintfln(format, args...))
		return
	}
	p.line("[WARN] " + fmt.Sprintf(format, args...))
}

func (p printer) fail(format string, args ...any) {
	if p.styled {
		fmt.Fprint(p.w, pterm.Error.Sprintfln(format, args...))
		return
	}
	p.line("[FAIL] " + fmt.Sprintf(format, args...))
}

// renderSummary prints the result of an initialization run.
func renderSummary(w io.Writer, format Format, styled bool, s *initializer.Summary) error {
	if format != FormatText {
		return encode(w, format, s)
	}

	p := newPrinter(w, styled)
	verb := func(past, future string) string {
		if s.DryRun {
			return future
		}
		return past
	}

	if s.DryRun {
		p.info("Dry run: nothing was changed")
	}

	for _, o := range s.Files {
		switch o.Status {
		case rewrite.StatusRewritten:
			p.line(fmt.Sprintf("  %s %s %s", verb("rewrote", "would rewrite"), o.Path, p.muted(fmt.Sprintf("(%d)", o.Replacements))))
		case rewrite.StatusSkippedBinary:
			p.line(fmt.Sprintf("  skipped %s %s", o.Path, p.muted("(not text)")))
		case rewrite.StatusFailed:
			p.fail("%s: %s", o.Path, o.Error)
		}
	}
	for _, m := range s.Moves {
		switch m.Status {
		case rename.StatusRenamed:
			p.line(fmt.Sprintf("  %s %s -> %s", verb("renamed", "would rename"), m.From, m.To))
		case rename.StatusCollision:
			p.warn("%s not renamed: %s exists", m.From, m.To)
		case rename.StatusFailed:
			p.fail("%s: %s", m.From, m.Error)
		}
	}

	p.ok("%d file(s) %s, %d unchanged, %d skipped, %d ignored",
		s.FileCount(rewrite.StatusRewritten), verb("rewritten", "to rewrite"),
		s.FileCount(rewrite.StatusUnchanged), s.FileCount(rewrite.StatusSkippedBinary), s.Ignored)
	p.ok("%d path(s) %s", s.MoveCount(rename.StatusRenamed), verb("renamed", "to rename"))

	switch s.Self {
	case finalize.SelfRemoved:
		p.ok("Initializer %s", verb("removed", "would be removed"))
	case finalize.SelfKept:
		p.info("Initializer kept")
	}

	switch s.Repository {
	case finalize.RepoCreated:
		msg := verb("Created git repository with initial commit", "Would create git repository with initial commit")
		if s.Branch != "" {
			msg += " on " + s.Branch
		}
		p.ok("%s", msg)
	case finalize.RepoExisting:
		p.info("Existing repository left untouched")
	case finalize.RepoSkipped:
		p.info("Git repository creation skipped")
	}

	for _, f := range s.Leftovers {
		where := "content"
		if f.InName {
			where = "name"
		}
		p.warn("%s still contains %s (%s)", f.Path, f.Token, where)
	}
	for _, msg := range s.Warnings {
		p.warn("%s", msg)
	}
	return nil
}
