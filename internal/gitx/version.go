package gitx

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinInitialBranchVersion is the first git release with `init --initial-branch`.
const MinInitialBranchVersion = "2.28.0"

// Version returns the installed git version.
func (c *Client) Version(ctx context.Context) (*semver.Version, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return nil, err
	}
	return ParseVersion(out)
}

// SupportsInitialBranch reports whether git accepts --initial-branch.
// An unparseable version is treated as unsupported.
func (c *Client) SupportsInitialBranch(ctx context.Context) bool {
	v, err := c.Version(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Could not determine git version")
		return false
	}
	ok, err := AtLeast(v, MinInitialBranchVersion)
	return err == nil && ok
}

// AtLeast reports whether v >= minimum.
func AtLeast(v *semver.Version, minimum string) (bool, error) {
	c, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", minimum, err)
	}
	return c.Check(v), nil
}

// ParseVersion extracts the semantic version from `git --version` output such
// as "git version 2.39.3 (Apple Git-145)" or "git version 2.45.1.windows.1".
func ParseVersion(out string) (*semver.Version, error) {
	fields := strings.Fields(out)
	if len(fields) < 3 || fields[0] != "git" || fields[1] != "version" {
		return nil, fmt.Errorf("unexpected git version output %q", out)
	}

	parts := strings.Split(fields[2], ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, fmt.Errorf("parsing git version %q: %w", fields[2], err)
	}
	return v, nil
}
