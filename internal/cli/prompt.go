package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/pkginit/internal/initializer"
	"github.com/agentx-labs/pkginit/internal/params"
)

// ErrCancelled is returned when the user declines the confirmation prompt.
var ErrCancelled = errors.New("cancelled")

// confirm asks the user to proceed. An empty line, "y" or "yes" proceeds;
// anything else, including end of input, cancels.
func confirm(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "\nPress Enter to continue or Ctrl+C to cancel ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(out)
		return ErrCancelled
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return nil
	default:
		return ErrCancelled
	}
}

// showPlan prints the resolved values and what the run is about to do.
func showPlan(w io.Writer, styled bool, opts initializer.Options) {
	p := newPrinter(w, styled)
	p.heading("Initializing package in " + opts.Root)

	fields := []struct {
		label string
		field params.Field
	}{
		{"Name", opts.Params.Name},
		{"Author", opts.Params.Author},
		{"Email", opts.Params.Email},
		{"Description", opts.Params.Description},
		{"GitHub", opts.Params.GitHub},
	}
	for _, f := range fields {
		p.line(fmt.Sprintf("  %-12s %s %s", f.label+":", f.field.Value, p.muted("("+string(f.field.Source)+")")))
	}

	p.heading("Replacements:")
	for _, pair := range opts.Mapping().Pairs() {
		p.line(fmt.Sprintf("  %-20s -> %s", pair.Token, pair.Value))
	}

	if opts.SelfPath != "" && !opts.KeepSelf {
		p.line(fmt.Sprintf("  %-12s %s", "Remove:", opts.SelfPath))
	}
	if opts.NoGit {
		p.line(fmt.Sprintf("  %-12s %s", "Git:", "skipped"))
	} else {
		p.line(fmt.Sprintf("  %-12s %q", "Commit:", opts.CommitMessage))
	}
}
