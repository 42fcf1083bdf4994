// Package ignore decides which paths of a template are left alone: version
// control metadata, the initializer's own file, and anything matched by the
// template's ignore file.
//
// Pattern semantics are a deliberate simplification of gitignore. Each
// non-empty line that does not start with '#' is a shell-style glob matched
// against the slash-separated path relative to the template root; '*' and '?'
// also match '/'. A pattern ending in '/' only matches directories: the
// directory path gets a trailing '/' and the pattern's trailing '/' becomes
// '*', so "build/" matches "build/" and, by prefix, "build-output/". A leading
// '/' is dropped since every path is already relative to the root.
package ignore

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type pattern struct {
	raw     string
	dirOnly bool
	re      *regexp.Regexp
}

// Matcher holds compiled ignore patterns. The zero value matches nothing.
type Matcher struct {
	patterns []pattern
}

// Load reads root/name. A missing file yields an empty Matcher.
func Load(root, name string) (*Matcher, error) {
	if name == "" {
		return &Matcher{}, nil
	}
	content, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return &Matcher{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return Parse(content)
}

// Parse compiles the patterns in content.
func Parse(content []byte) (*Matcher, error) {
	m := &Matcher{}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := m.add(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore patterns: %w", err)
	}
	return m, nil
}

func (m *Matcher) add(line string) error {
	p := pattern{raw: line}
	glob := strings.TrimPrefix(line, "/")
	if strings.HasSuffix(glob, "/") {
		p.dirOnly = true
		glob = strings.TrimSuffix(glob, "/") + "*"
	}
	if glob == "" {
		return nil
	}
	re, err := regexp.Compile(translate(glob))
	if err != nil {
		return fmt.Errorf("compiling ignore pattern %q: %w", line, err)
	}
	p.re = re
	m.patterns = append(m.patterns, p)
	return nil
}

// Patterns returns the raw pattern lines in file order.
func (m *Matcher) Patterns() []string {
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p.raw)
	}
	return out
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Match reports whether rel (relative to the root, any separator) is ignored.
// It returns the first matching pattern.
func (m *Matcher) Match(rel string, isDir bool) (string, bool) {
	if m == nil {
		return "", false
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	for _, p := range m.patterns {
		if p.dirOnly {
			if isDir && p.re.MatchString(rel+"/") {
				return p.raw, true
			}
			continue
		}
		if p.re.MatchString(rel) {
			return p.raw, true
		}
	}
	return "", false
}

// translate converts a shell glob into an anchored regular expression.
// '*' becomes ".*", '?' becomes ".", and bracket classes are kept with '!'
// negation mapped to '^'. An unterminated '[' is a literal.
func translate(glob string) string {
	var b strings.Builder
	b.WriteString(`^(?s:`)

	for i := 0; i < len(glob); {
		c := glob[i]
		switch c {
		case '*':
			b.WriteString(".*")
			for i < len(glob) && glob[i] == '*' {
				i++
			}
			continue
		case '?':
			b.WriteString(".")
		case '[':
			class, next, ok := bracketClass(glob, i)
			if !ok {
				b.WriteString(`\[`)
				break
			}
			b.WriteString(class)
			i = next
			continue
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
		i++
	}

	b.WriteString(`)\z`)
	return b.String()
}

// bracketClass parses the class starting at glob[start] == '['. It returns the
// regexp class, the index after the closing ']', and whether one was found.
func bracketClass(glob string, start int) (string, int, bool) {
	j := start + 1
	if j < len(glob) && (glob[j] == '!' || glob[j] == '^') {
		j++
	}
	// A ']' right after the opening bracket is a literal member.
	if j < len(glob) && glob[j] == ']' {
		j++
	}
	for j < len(glob) && glob[j] != ']' {
		j++
	}
	if j >= len(glob) {
		return "", 0, false
	}

	body := glob[start+1 : j]
	var b strings.Builder
	b.WriteByte('[')
	if strings.HasPrefix(body, "!") || strings.HasPrefix(body, "^") {
		b.WriteByte('^')
		body = body[1:]
	}
	for k := 0; k < len(body); k++ {
		switch ch := body[k]; ch {
		case '\\', '[', ']', '^':
			b.WriteByte('\\')
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte(']')
	return b.String(), j + 1, true
}
