package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"CLIName", CLIName(), "pkginit"},
		{"HomeDir", HomeDir(), ".pkginit"},
		{"EnvPrefix", EnvPrefix(), "PKGINIT"},
		{"DefaultAuthor", DefaultAuthor(), "Your Name"},
		{"DefaultEmail", DefaultEmail(), "your.email@example.com"},
		{"DefaultDescription", DefaultDescription(), "A Python package"},
		{"CommitMessage", CommitMessage(), "Initial commit from template"},
		{"IgnoreFile", IgnoreFile(), ".gitignore"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("author"); got != "PKGINIT_AUTHOR" {
		t.Errorf("EnvVar(author) = %q, want PKGINIT_AUTHOR", got)
	}
}
