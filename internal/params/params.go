// Package params resolves the values that fill a template's placeholders:
// explicit flags first, then user config, then git identity, then fixed
// defaults derived from branding and the OS account.
package params

import (
	"context"
	"errors"
	"os"
	"os/user"
	"strings"

	"github.com/agentx-labs/pkginit/internal/branding"
	"github.com/agentx-labs/pkginit/internal/config"
	"github.com/agentx-labs/pkginit/internal/logging"
	"github.com/agentx-labs/pkginit/internal/placeholder"
)

// ErrNameRequired is returned when no package name was supplied.
var ErrNameRequired = errors.New("package name is required (--name)")

// Source records where a resolved value came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceConfig  Source = "config"
	SourceGit     Source = "git"
	SourceEmail   Source = "email"
	SourceOS      Source = "os"
	SourceDefault Source = "default"
)

// Flags holds values given explicitly on the command line. Empty means unset.
type Flags struct {
	Name        string
	Author      string
	Email       string
	Description string
	GitHub      string
}

// Field is one resolved value with its origin.
type Field struct {
	Value  string `json:"value" yaml:"value"`
	Source Source `json:"source" yaml:"source"`
}

// Params are the resolved invocation parameters. They do not change after
// Resolve returns.
type Params struct {
	Name        Field `json:"name" yaml:"name"`
	Author      Field `json:"author" yaml:"author"`
	Email       Field `json:"email" yaml:"email"`
	Description Field `json:"description" yaml:"description"`
	GitHub      Field `json:"github" yaml:"github"`
}

// Values flattens p into the input for placeholder.Build.
func (p Params) Values() placeholder.Values {
	return placeholder.Values{
		Name:        p.Name.Value,
		Author:      p.Author.Value,
		Email:       p.Email.Value,
		Description: p.Description.Value,
		GitHub:      p.GitHub.Value,
	}
}

// GitConfig looks up a git configuration key such as user.name.
type GitConfig interface {
	ConfigValue(ctx context.Context, key string) (string, error)
}

// Resolver fills in unset flags. Nil fields disable that fallback.
type Resolver struct {
	Config      func(key string) string
	Git         GitConfig
	CurrentUser func() (string, error)
}

// NewResolver returns a Resolver wired to viper config, git and the OS account.
func NewResolver(git GitConfig) *Resolver {
	return &Resolver{
		Config:      config.Get,
		Git:         git,
		CurrentUser: CurrentUsername,
	}
}

// Resolve produces Params from f. It fails only when the name is missing.
func (r *Resolver) Resolve(ctx context.Context, f Flags) (Params, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return Params{}, ErrNameRequired
	}

	p := Params{Name: Field{Value: name, Source: SourceFlag}}
	p.Author = r.pick(ctx, f.Author, config.KeyAuthor, "user.name", branding.DefaultAuthor())
	p.Email = r.pick(ctx, f.Email, config.KeyEmail, "user.email", branding.DefaultEmail())
	p.Description = r.pick(ctx, f.Description, config.KeyDescription, "", branding.DefaultDescription())
	p.GitHub = r.handle(f.GitHub, p.Email.Value)
	return p, nil
}

func (r *Resolver) pick(ctx context.Context, flag, configKey, gitKey, fallback string) Field {
	if flag != "" {
		return Field{Value: flag, Source: SourceFlag}
	}
	if r.Config != nil {
		if v := strings.TrimSpace(r.Config(configKey)); v != "" {
			return Field{Value: v, Source: SourceConfig}
		}
	}
	if gitKey != "" && r.Git != nil {
		v, err := r.Git.ConfigValue(ctx, gitKey)
		if err == nil && strings.TrimSpace(v) != "" {
			return Field{Value: strings.TrimSpace(v), Source: SourceGit}
		}
		logger := logging.GetLogger("params")
		logger.Debug().Err(err).Str("key", gitKey).Msg("git config lookup failed, using fallback")
	}
	return Field{Value: fallback, Source: SourceDefault}
}

func (r *Resolver) handle(flag, email string) Field {
	if flag != "" {
		return Field{Value: flag, Source: SourceFlag}
	}
	if r.Config != nil {
		if v := strings.TrimSpace(r.Config(config.KeyGitHub)); v != "" {
			return Field{Value: v, Source: SourceConfig}
		}
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return Field{Value: local, Source: SourceEmail}
	}
	if r.CurrentUser != nil {
		if name, err := r.CurrentUser(); err == nil && name != "" {
			return Field{Value: name, Source: SourceOS}
		}
	}
	return Field{Value: envUsername(), Source: SourceOS}
}

// CurrentUsername returns the invoking OS account name without any
// Windows domain prefix.
func CurrentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return stripDomain(u.Username), nil
}

func stripDomain(name string) string {
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

func envUsername() string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
