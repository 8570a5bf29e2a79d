package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test.yml")

	testConfig := `hostsFile: /tmp/hosts
address: 127.0.0.2
localhostRoot: /srv/htdocs
sitesDir: /srv/sites
ignore:
  - tmp
  - drafts
vhostsFile: /tmp/httpd-vhosts.conf
`
	if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.HostsFile != "/tmp/hosts" {
		t.Errorf("Expected hostsFile '/tmp/hosts', got '%s'", cfg.HostsFile)
	}
	if cfg.Address != "127.0.0.2" {
		t.Errorf("Expected address '127.0.0.2', got '%s'", cfg.Address)
	}
	if !cfg.IsIgnored("drafts") || cfg.IsIgnored("blog") {
		t.Errorf("Unexpected ignore list: %v", cfg.Ignore)
	}
	if err := cfg.ValidateSites(); err != nil {
		t.Errorf("ValidateSites() = %v", err)
	}
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yml")
	if err := os.WriteFile(configPath, []byte("sitesDir: /srv/sites\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Address != DefaultAddress {
		t.Errorf("Expected default address, got '%s'", cfg.Address)
	}
	if cfg.HostsFile != DefaultHostsPath() {
		t.Errorf("Expected default hosts path, got '%s'", cfg.HostsFile)
	}
}

func TestLoadOrDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.yml")

	cfg, err := LoadOrDefault(configPath)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Address != DefaultAddress {
		t.Errorf("Expected default address, got '%s'", cfg.Address)
	}
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Errorf("Expected no config file to be created, got %v", err)
	}

	if err := os.WriteFile(configPath, []byte("address: 127.0.0.5\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	cfg, err = LoadOrDefault(configPath)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Address != "127.0.0.5" {
		t.Errorf("Expected address from file, got '%s'", cfg.Address)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HostsFile:     "/etc/hosts",
			Address:       "127.0.0.1",
			LocalhostRoot: "/srv/htdocs",
			SitesDir:      "/srv/sites",
			VhostsFile:    "/etc/vhosts.conf",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   error
		sitesOnly bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing hosts file", mutate: func(c *Config) { c.HostsFile = "" }, wantErr: ErrMissingHostsFile},
		{name: "missing address", mutate: func(c *Config) { c.Address = "" }, wantErr: ErrMissingAddress},
		{name: "missing vhosts file", mutate: func(c *Config) { c.VhostsFile = "" }, wantErr: ErrMissingVhostsFile},
		{name: "missing sites dir", mutate: func(c *Config) { c.SitesDir = "" }, wantErr: ErrMissingSitesDir, sitesOnly: true},
		{name: "missing localhost", mutate: func(c *Config) { c.LocalhostRoot = "" }, wantErr: ErrMissingLocalhost, sitesOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.ValidateSites()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSites() error = %v, want %v", err, tt.wantErr)
			}

			if tt.sitesOnly {
				if err := cfg.Validate(); err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "sitehost.yml")

	// Load config (should create default)
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load/create default config: %v", err)
	}

	if cfg.Address != DefaultAddress {
		t.Errorf("Expected address '%s', got '%s'", DefaultAddress, cfg.Address)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("Expected default config file to be created: %v", err)
	}

	reloaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to reload default config: %v", err)
	}
	if reloaded.VhostsFile != cfg.VhostsFile {
		t.Errorf("Expected vhostsFile '%s', got '%s'", cfg.VhostsFile, reloaded.VhostsFile)
	}
}

func TestWriter(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test.yml")
	writer := NewWriter(configPath)

	if err := writer.Write(Default()); err != nil {
		t.Fatalf("Failed to write initial config: %v", err)
	}

	t.Run("Set", func(t *testing.T) {
		if err := writer.Set("sitesDir", "/srv/sites"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		cfg, err := Load(configPath)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if cfg.SitesDir != "/srv/sites" {
			t.Errorf("Expected sitesDir '/srv/sites', got '%s'", cfg.SitesDir)
		}

		var unknown *ErrUnknownKey
		if err := writer.Set("bogus", "x"); !errors.As(err, &unknown) {
			t.Errorf("Expected ErrUnknownKey, got %v", err)
		}
	})

	t.Run("Set rejects invalid result", func(t *testing.T) {
		if err := writer.Set("address", ""); !errors.Is(err, ErrMissingAddress) {
			t.Errorf("Expected ErrMissingAddress, got %v", err)
		}
	})

	t.Run("Ignore", func(t *testing.T) {
		if err := writer.AddIgnore("drafts"); err != nil {
			t.Fatalf("AddIgnore failed: %v", err)
		}
		if err := writer.AddIgnore("drafts"); err == nil {
			t.Error("Expected error adding a duplicate ignore entry")
		}

		cfg, err := Load(configPath)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if !cfg.IsIgnored("drafts") {
			t.Errorf("Expected 'drafts' to be ignored, got %v", cfg.Ignore)
		}

		if err := writer.RemoveIgnore("drafts"); err != nil {
			t.Fatalf("RemoveIgnore failed: %v", err)
		}
		if err := writer.RemoveIgnore("drafts"); err == nil {
			t.Error("Expected error removing a missing ignore entry")
		}
	})
}
