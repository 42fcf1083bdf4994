package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentx-labs/pkginit/internal/branding"
	"github.com/agentx-labs/pkginit/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user defaults",
	Long: `Read and write defaults stored at ~/` + branding.HomeDir() + `/config.yaml
(or $` + branding.EnvVar("HOME") + `/config.yaml). Every key can also be set through
the environment, e.g. ` + branding.EnvVar("AUTHOR") + `.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value, or list all keys",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, key := range config.Keys() {
				fmt.Fprintf(out, "%-15s %-30s %s\n", key, config.Get(key), config.KeyHelp(key))
			}
			return nil
		}

		if !config.IsKnownKey(args[0]) {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		fmt.Fprintln(out, config.Get(args[0]))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate the config file against its schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.FilePath()
		if len(args) == 1 {
			path = args[0]
		}

		result, err := config.ValidateFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no config file at %s", path)
			}
			return err
		}

		p := newPrinter(cmd.OutOrStdout(), colorEnabled(os.Stdout))
		if result.Valid {
			p.ok("%s is valid", path)
			return nil
		}

		p.fail("%d validation issue(s) in %s:", len(result.Issues), path)
		for _, issue := range result.Issues {
			p.line("    - " + issue.String())
		}
		return fmt.Errorf("config validation failed")
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
	},
}
