// Package cli defines the Cobra command tree for the pkginit CLI. The root
// command initializes the template in the working directory; check, config,
// doctor and version are registered as subcommands, one per file. Commands
// delegate to internal packages and only handle flags, prompting and output.
package cli
