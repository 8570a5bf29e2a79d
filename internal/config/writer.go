package config

import (
	"fmt"
	"slices"

	"github.com/bilgehannal/sitehost/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Writer handles safe configuration file updates
type Writer struct {
	configPath string
}

// NewWriter creates a new config writer
func NewWriter(configPath string) *Writer {
	return &Writer{
		configPath: configPath,
	}
}

// Write writes the configuration to disk safely
func (w *Writer) Write(config *Config) error {
	// Validate before writing
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fsutil.ReplaceFile(w.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Update loads the config, applies fn and writes the result back
func (w *Writer) Update(fn func(*Config) error) error {
	config, err := Load(w.configPath)
	if err != nil {
		return err
	}

	if err := fn(config); err != nil {
		return err
	}

	return w.Write(config)
}

// Set updates a single key
func (w *Writer) Set(key, value string) error {
	return w.Update(func(c *Config) error {
		return c.Set(key, value)
	})
}

// AddIgnore excludes a site directory name from registration
func (w *Writer) AddIgnore(name string) error {
	return w.Update(func(c *Config) error {
		if c.IsIgnored(name) {
			return fmt.Errorf("'%s' is already ignored", name)
		}
		c.Ignore = append(c.Ignore, name)
		return nil
	})
}

// RemoveIgnore includes a previously ignored site directory name again
func (w *Writer) RemoveIgnore(name string) error {
	return w.Update(func(c *Config) error {
		idx := slices.Index(c.Ignore, name)
		if idx < 0 {
			return fmt.Errorf("'%s' is not ignored", name)
		}
		c.Ignore = slices.Delete(c.Ignore, idx, idx+1)
		return nil
	})
}
