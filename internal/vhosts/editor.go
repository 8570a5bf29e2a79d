package vhosts

import (
	"slices"
	"strings"
)

const (
	// VirtualHostSection is the section type managed by this package
	VirtualHostSection = "VirtualHost"
	// ServerNameDirective identifies a VirtualHost section
	ServerNameDirective = "ServerName"
	// DefaultListen is the address argument of generated VirtualHost sections
	DefaultListen = "*:80"

	generatedWarning = "WARNING: automatically generated section, any modifications will be lost!"
)

// FindSectionByDirective returns the first top level section of the given
// type that holds a directive with the given name and value.
func (c *Config) FindSectionByDirective(sectionType, directiveName, directiveValue string) *Section {
	for _, item := range c.Items {
		section, ok := item.(*Section)
		if !ok || !strings.EqualFold(section.Name, sectionType) {
			continue
		}
		if d := section.Directive(directiveName); d != nil && d.Value == directiveValue {
			return section
		}
	}
	return nil
}

// RemoveSection detaches a section from its parent
func (c *Config) RemoveSection(section *Section) error {
	if section == nil || section.parent == nil {
		return ErrSectionNotFound
	}

	parent := section.parent
	idx := slices.IndexFunc(parent.Items, func(item Item) bool {
		s, ok := item.(*Section)
		return ok && s == section
	})
	if idx < 0 {
		return ErrSectionNotFound
	}

	parent.Items = slices.Delete(parent.Items, idx, idx+1)
	section.parent = nil
	return nil
}

// CreateBlank appends an empty line
func (s *Section) CreateBlank() {
	s.Items = append(s.Items, Blank{})
}

// CreateComment appends a "# text" comment
func (s *Section) CreateComment(text string) {
	s.Items = append(s.Items, Comment{Text: " " + text})
}

// CreateDirective appends a directive and returns it
func (s *Section) CreateDirective(name, value string) *Directive {
	d := &Directive{Name: name, Value: value}
	s.Items = append(s.Items, d)
	return d
}

// CreateSection appends a nested section and returns it
func (s *Section) CreateSection(name string, args ...string) *Section {
	section := &Section{Name: name, Args: args, parent: s}
	s.Items = append(s.Items, section)
	return section
}

// Directive returns the first direct child directive with the given name
func (s *Section) Directive(name string) *Directive {
	for _, item := range s.Items {
		if d, ok := item.(*Directive); ok && strings.EqualFold(d.Name, name) {
			return d
		}
	}
	return nil
}

// Sections returns the direct child sections of the given type
func (s *Section) Sections(name string) []*Section {
	var sections []*Section
	for _, item := range s.Items {
		if section, ok := item.(*Section); ok && strings.EqualFold(section.Name, name) {
			sections = append(sections, section)
		}
	}
	return sections
}

// FindVirtualHost returns the VirtualHost section serving serverName
func (c *Config) FindVirtualHost(serverName string) *Section {
	return c.FindSectionByDirective(VirtualHostSection, ServerNameDirective, serverName)
}

// ServerNames lists the ServerName of every top level VirtualHost
func (c *Config) ServerNames() []string {
	var names []string
	for _, section := range c.Sections(VirtualHostSection) {
		if d := section.Directive(ServerNameDirective); d != nil {
			names = append(names, d.Value)
		}
	}
	return names
}

// GeneratedServerNames lists the ServerName of every VirtualHost created by
// AddVirtualHost, in file order
func (c *Config) GeneratedServerNames() []string {
	var names []string
	for _, section := range c.Sections(VirtualHostSection) {
		if !section.isGenerated() {
			continue
		}
		if d := section.Directive(ServerNameDirective); d != nil {
			names = append(names, d.Value)
		}
	}
	return names
}

func (s *Section) isGenerated() bool {
	for _, item := range s.Items {
		if c, ok := item.(Comment); ok && strings.TrimSpace(c.Text) == generatedWarning {
			return true
		}
	}
	return false
}

// AddVirtualHost appends a generated VirtualHost section for serverName
// rooted at rootPath. describeDirectory adds a permissive <Directory> block.
func AddVirtualHost(c *Config, serverName, rootPath string, describeDirectory bool) error {
	if c.FindVirtualHost(serverName) != nil {
		return ErrVirtualHostExists
	}

	root := quote(rootPath)

	c.CreateBlank()
	vhost := c.CreateSection(VirtualHostSection, DefaultListen)
	vhost.CreateComment(generatedWarning)
	vhost.CreateDirective(ServerNameDirective, serverName)
	vhost.CreateDirective("DocumentRoot", root)
	if describeDirectory {
		dir := vhost.CreateSection("Directory", root)
		dir.CreateDirective("Options", "Indexes FollowSymLinks Includes ExecCGI")
		dir.CreateDirective("AllowOverride", "All")
		dir.CreateDirective("Require", "all granted")
	}

	return nil
}

// RemoveVirtualHost removes the VirtualHost section serving serverName,
// together with a blank line directly in front of it
func RemoveVirtualHost(c *Config, serverName string) error {
	section := c.FindVirtualHost(serverName)
	if section == nil {
		return ErrVirtualHostNotFound
	}

	parent := section.parent
	idx := slices.IndexFunc(parent.Items, func(item Item) bool {
		s, ok := item.(*Section)
		return ok && s == section
	})

	if err := c.RemoveSection(section); err != nil {
		return err
	}

	if idx > 0 {
		if _, ok := parent.Items[idx-1].(Blank); ok {
			parent.Items = slices.Delete(parent.Items, idx-1, idx)
		}
	}

	return nil
}

func quote(path string) string {
	return `"` + strings.ReplaceAll(path, `\`, `/`) + `"`
}
