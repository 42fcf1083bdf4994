// Package placeholder builds the fixed token-to-value mapping used to
// initialize a template and applies it to text.
package placeholder

import (
	"strconv"
	"strings"
	"time"
)

// Marker opens every placeholder token. Names without it are never renamed.
const Marker = "${"

// Placeholder tokens recognised in file contents and path names.
const (
	PackageName    = "${package_name}"
	ImportName     = "${import_name}"
	PackageTitle   = "${package_title}"
	Author         = "${author}"
	Email          = "${email}"
	Description    = "${description}"
	GitHubUsername = "${github_username}"
	Year           = "${year}"
)

var tokens = []string{
	PackageName,
	ImportName,
	PackageTitle,
	Author,
	Email,
	Description,
	GitHubUsername,
	Year,
}

// Tokens returns the known tokens in mapping order.
func Tokens() []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

// Values is the input to Build.
type Values struct {
	Name        string
	Author      string
	Email       string
	Description string
	GitHub      string
}

// Pair is one token and the literal text that replaces it.
type Pair struct {
	Token string `json:"token" yaml:"token"`
	Value string `json:"value" yaml:"value"`
}

// Mapping is an ordered token-to-value list with a precompiled replacer.
type Mapping struct {
	pairs    []Pair
	replacer *strings.Replacer
}

// Build derives the mapping for v. The only derived values are the
// import-safe name, which also serves as the title, and the year from now.
func Build(v Values, now time.Time) *Mapping {
	pairs := []Pair{
		{PackageName, v.Name},
		{ImportName, ImportSafe(v.Name)},
		{PackageTitle, ImportSafe(v.Name)},
		{Author, v.Author},
		{Email, v.Email},
		{Description, v.Description},
		{GitHubUsername, v.GitHub},
		{Year, strconv.Itoa(now.Year())},
	}
	return newMapping(pairs)
}

func newMapping(pairs []Pair) *Mapping {
	oldnew := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		oldnew = append(oldnew, p.Token, p.Value)
	}
	return &Mapping{
		pairs:    pairs,
		replacer: strings.NewReplacer(oldnew...),
	}
}

// ImportSafe replaces hyphens with underscores.
func ImportSafe(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Pairs returns a copy of the mapping in order.
func (m *Mapping) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Value returns the replacement for token and whether it is known.
func (m *Mapping) Value(token string) (string, bool) {
	for _, p := range m.pairs {
		if p.Token == token {
			return p.Value, true
		}
	}
	return "", false
}

// Apply replaces every token occurrence in s in a single pass. Replaced text
// is not scanned again, so values containing token-shaped text stay literal.
func (m *Mapping) Apply(s string) string {
	return m.replacer.Replace(s)
}

// Count returns how many token occurrences Apply would replace in s.
func (m *Mapping) Count(s string) int {
	if !strings.Contains(s, Marker) {
		return 0
	}
	n := 0
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], Marker)
		if j < 0 {
			break
		}
		i += j
		if tok := tokenAt(s[i:]); tok != "" {
			n++
			i += len(tok)
			continue
		}
		i += len(Marker)
	}
	return n
}

// Contains reports whether s holds a token this mapping replaces.
func (m *Mapping) Contains(s string) bool {
	return m.Count(s) > 0
}

// Find returns the known tokens present in s, in mapping order, without duplicates.
func Find(s string) []string {
	if !strings.Contains(s, Marker) {
		return nil
	}
	var found []string
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			found = append(found, tok)
		}
	}
	return found
}

// Contains reports whether s holds any known token.
func Contains(s string) bool {
	return len(Find(s)) > 0
}

func tokenAt(s string) string {
	for _, tok := range tokens {
		if strings.HasPrefix(s, tok) {
			return tok
		}
	}
	return ""
}
