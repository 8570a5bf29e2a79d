package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bilgehannal/sitehost/internal/utils"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default location for the config file
	DefaultConfigPath = "/etc/sitehost.yml"
	// DefaultAddress is the address every site is aliased to
	DefaultAddress = "127.0.0.1"
)

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		HostsFile:  DefaultHostsPath(),
		Address:    DefaultAddress,
		VhostsFile: DefaultVhostsPath(),
		LogFile:    utils.DefaultLogPath,
	}
}

// Default returns a fresh default configuration
func Default() *Config {
	return defaultConfig()
}

// Load reads and parses the configuration file. A missing file is created
// with the default configuration.
func Load(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config
		if err := createDefaultConfig(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return defaultConfig(), nil
	}

	return readConfig(path)
}

// LoadOrDefault reads the configuration file like Load, but falls back to
// the default configuration without writing anything when it is missing
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	return readConfig(path)
}

func readConfig(path string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so omitted keys keep working
	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// createDefaultConfig creates a default configuration file
func createDefaultConfig(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return NewWriter(path).Write(defaultConfig())
}

// LogConfigInfo logs detailed information about the configuration
func LogConfigInfo(cfg *Config, logger *utils.Logger) {
	if cfg == nil || logger == nil {
		return
	}

	logger.Info("Configuration:")
	logger.Info("  Hosts file:     %s", cfg.HostsFile)
	logger.Info("  Address:        %s", cfg.Address)
	logger.Info("  Localhost root: %s", cfg.LocalhostRoot)
	logger.Info("  Sites dir:      %s", cfg.SitesDir)
	logger.Info("  Vhosts file:    %s", cfg.VhostsFile)
	if len(cfg.Ignore) > 0 {
		logger.Info("  Ignored:        %v", cfg.Ignore)
	}
}
