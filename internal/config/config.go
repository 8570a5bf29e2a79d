package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// Configuration errors
var (
	ErrMissingHostsFile  = errors.New("hostsFile is missing")
	ErrMissingAddress    = errors.New("address is missing")
	ErrMissingVhostsFile = errors.New("vhostsFile is missing")
	ErrMissingSitesDir   = errors.New("sitesDir is missing")
	ErrMissingLocalhost  = errors.New("localhostRoot is missing")
)

// ErrUnknownKey indicates a config key that cannot be set
type ErrUnknownKey struct {
	Key string
}

func (e *ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown config key '%s'", e.Key)
}

// Config represents the complete configuration structure
type Config struct {
	HostsFile     string   `yaml:"hostsFile"`
	Address       string   `yaml:"address"`
	LocalhostRoot string   `yaml:"localhostRoot"`
	SitesDir      string   `yaml:"sitesDir"`
	Ignore        []string `yaml:"ignore,omitempty"`
	VhostsFile    string   `yaml:"vhostsFile"`
	LogFile       string   `yaml:"logFile,omitempty"`
}

// DefaultHostsPath returns the platform's hosts file location
func DefaultHostsPath() string {
	if runtime.GOOS == "windows" {
		windir := os.Getenv("windir")
		if windir == "" {
			windir = `C:\Windows`
		}
		return filepath.Join(windir, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

// DefaultVhostsPath returns the XAMPP virtual hosts file location
func DefaultVhostsPath() string {
	if runtime.GOOS == "windows" {
		return `C:\xampp\apache\conf\extra\httpd-vhosts.conf`
	}
	return "/opt/lampp/etc/extra/httpd-vhosts.conf"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HostsFile == "" {
		return ErrMissingHostsFile
	}
	if c.Address == "" {
		return ErrMissingAddress
	}
	if c.VhostsFile == "" {
		return ErrMissingVhostsFile
	}
	return nil
}

// ValidateSites checks the fields needed to register websites
func (c *Config) ValidateSites() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SitesDir == "" {
		return ErrMissingSitesDir
	}
	if c.LocalhostRoot == "" {
		return ErrMissingLocalhost
	}
	return nil
}

// Set updates a single field by its YAML key
func (c *Config) Set(key, value string) error {
	switch key {
	case "hostsFile":
		c.HostsFile = value
	case "address":
		c.Address = value
	case "localhostRoot":
		c.LocalhostRoot = value
	case "sitesDir":
		c.SitesDir = value
	case "vhostsFile":
		c.VhostsFile = value
	case "logFile":
		c.LogFile = value
	default:
		return &ErrUnknownKey{Key: key}
	}
	return nil
}

// IsIgnored reports whether a site directory name is excluded
func (c *Config) IsIgnored(name string) bool {
	return slices.Contains(c.Ignore, name)
}
