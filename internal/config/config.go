package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentx-labs/pkginit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognised configuration keys.
const (
	KeyAuthor        = "author"
	KeyEmail         = "email"
	KeyDescription   = "description"
	KeyGitHub        = "github"
	KeyCommitMessage = "commit_message"
	KeyBranch        = "branch"
	KeyIgnoreFile    = "ignore_file"
)

var knownKeys = map[string]string{
	KeyAuthor:        "Default package author",
	KeyEmail:         "Default author email",
	KeyDescription:   "Default package description",
	KeyGitHub:        "Default GitHub username",
	KeyCommitMessage: "Message of the initial commit",
	KeyBranch:        "Initial branch name for new repositories",
	KeyIgnoreFile:    "Ignore-pattern file read from the template root",
}

// Keys returns the recognised configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeyHelp returns the one-line description of a key, or "" if unknown.
func KeyHelp(key string) string {
	return knownKeys[key]
}

// IsKnownKey reports whether key is a recognised configuration key.
func IsKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// Dir returns the config directory: $PKGINIT_HOME when set, else ~/.pkginit/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyCommitMessage, branding.CommitMessage())
	viper.SetDefault(KeyIgnoreFile, branding.IgnoreFile())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Only keys
// present in the file are written back; defaults and environment values are
// not persisted.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}
