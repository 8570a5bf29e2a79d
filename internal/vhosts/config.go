// Package vhosts reads and edits Apache style virtual hosts files as a tree
// of sections, directives, comments and blank lines.
package vhosts

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/bilgehannal/sitehost/internal/fsutil"
)

const indent = "    "

// Item is one element of a section body
type Item interface {
	render(b *strings.Builder, depth int, eol string)
}

// Blank is an empty line
type Blank struct{}

// Comment is a line starting with '#'. Text excludes the '#'.
type Comment struct {
	Text string
}

// Directive is a single "Name value" line
type Directive struct {
	Name  string
	Value string
}

// Section is a "<Name args>" block and its body
type Section struct {
	Name   string
	Args   []string
	Items  []Item
	parent *Section
}

// Config is a parsed virtual hosts file. Its embedded Section is the
// unnamed top level.
type Config struct {
	Section
	path string
	eol  string
}

// Load reads and parses the virtual hosts file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vhosts file: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vhosts file '%s': %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse reads a virtual hosts file from r. The result has no path and
// cannot be saved.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read vhosts: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	cfg := &Config{eol: "\n"}
	if bytes.Contains(data, []byte("\r\n")) {
		cfg.eol = "\r\n"
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return cfg, nil
	}

	current := &cfg.Section
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		line := strings.TrimSpace(lines[i])

		// Join continuation lines
		for strings.HasSuffix(line, "\\") && i+1 < len(lines) {
			i++
			line = strings.TrimSpace(strings.TrimSuffix(line, "\\")) + " " + strings.TrimSpace(lines[i])
		}

		switch {
		case line == "":
			current.Items = append(current.Items, Blank{})

		case strings.HasPrefix(line, "#"):
			current.Items = append(current.Items, Comment{Text: line[1:]})

		case strings.HasPrefix(line, "</"):
			name := strings.TrimSpace(strings.TrimSuffix(line[2:], ">"))
			if current.parent == nil {
				return nil, &SyntaxError{Line: lineNo, Reason: fmt.Sprintf("unexpected </%s>", name)}
			}
			if !strings.EqualFold(name, current.Name) {
				return nil, &SyntaxError{Line: lineNo, Reason: fmt.Sprintf("</%s> closes <%s>", name, current.Name)}
			}
			current = current.parent

		case strings.HasPrefix(line, "<"):
			if !strings.HasSuffix(line, ">") {
				return nil, &SyntaxError{Line: lineNo, Reason: "section header is missing '>'"}
			}
			fields := splitArgs(line[1 : len(line)-1])
			if len(fields) == 0 {
				return nil, &SyntaxError{Line: lineNo, Reason: "section without a name"}
			}
			section := &Section{Name: fields[0], Args: fields[1:], parent: current}
			current.Items = append(current.Items, section)
			current = section

		default:
			name, value := line, ""
			if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
				name, value = line[:idx], line[idx+1:]
			}
			current.Items = append(current.Items, &Directive{Name: name, Value: strings.TrimSpace(value)})
		}
	}

	if current.parent != nil {
		return nil, &SyntaxError{Line: len(lines), Reason: fmt.Sprintf("<%s> is never closed", current.Name)}
	}

	return cfg, nil
}

// splitArgs splits on whitespace but keeps double quoted arguments whole,
// quotes included.
func splitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
	)

	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case unicode.IsSpace(r) && !quoted:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// String renders the whole file
func (c *Config) String() string {
	var b strings.Builder
	for _, item := range c.Items {
		item.render(&b, 0, c.eol)
	}
	return b.String()
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("vhosts config has no path")
	}

	if err := fsutil.ReplaceFile(c.path, []byte(c.String()), 0644); err != nil {
		return fmt.Errorf("failed to save vhosts file: %w", err)
	}

	return nil
}

func (Blank) render(b *strings.Builder, _ int, eol string) {
	b.WriteString(eol)
}

func (c Comment) render(b *strings.Builder, depth int, eol string) {
	b.WriteString(strings.Repeat(indent, depth))
	b.WriteString("#")
	b.WriteString(c.Text)
	b.WriteString(eol)
}

func (d *Directive) render(b *strings.Builder, depth int, eol string) {
	b.WriteString(strings.Repeat(indent, depth))
	b.WriteString(d.Name)
	if d.Value != "" {
		b.WriteString(" ")
		b.WriteString(d.Value)
	}
	b.WriteString(eol)
}

func (s *Section) render(b *strings.Builder, depth int, eol string) {
	pad := strings.Repeat(indent, depth)

	b.WriteString(pad)
	b.WriteString("<")
	b.WriteString(strings.Join(append([]string{s.Name}, s.Args...), " "))
	b.WriteString(">")
	b.WriteString(eol)

	for _, item := range s.Items {
		item.render(b, depth+1, eol)
	}

	b.WriteString(pad)
	b.WriteString("</")
	b.WriteString(s.Name)
	b.WriteString(">")
	b.WriteString(eol)
}
