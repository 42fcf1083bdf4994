// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults below cover a missing or partial file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName            string `yaml:"cli_name"`
	DisplayName        string `yaml:"display_name"`
	Description        string `yaml:"description"`
	HomeDir            string `yaml:"home_dir"`
	EnvPrefix          string `yaml:"env_prefix"`
	GoModule           string `yaml:"go_module"`
	DefaultAuthor      string `yaml:"default_author"`
	DefaultEmail       string `yaml:"default_email"`
	DefaultDescription string `yaml:"default_description"`
	CommitMessage      string `yaml:"commit_message"`
	IgnoreFile         string `yaml:"ignore_file"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:            "pkginit",
			DisplayName:        "pkginit",
			Description:        "Initialize a package template in place",
			HomeDir:            ".pkginit",
			EnvPrefix:          "PKGINIT",
			GoModule:           "github.com/agentx-labs/pkginit",
			DefaultAuthor:      "Your Name",
			DefaultEmail:       "your.email@example.com",
			DefaultDescription: "A Python package",
			CommitMessage:      "Initial commit from template",
			IgnoreFile:         ".gitignore",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "pkginit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".pkginit").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PKGINIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// DefaultAuthor is used when neither flags, config nor git supply an author.
func DefaultAuthor() string { load(); return defaults.DefaultAuthor }

// DefaultEmail is used when neither flags, config nor git supply an email.
func DefaultEmail() string { load(); return defaults.DefaultEmail }

// DefaultDescription is the package description used when none is given.
func DefaultDescription() string { load(); return defaults.DefaultDescription }

// CommitMessage is the message of the first commit in a new repository.
func CommitMessage() string { load(); return defaults.CommitMessage }

// IgnoreFile is the name of the ignore-pattern file read from the template root.
func IgnoreFile() string { load(); return defaults.IgnoreFile }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "PKGINIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
