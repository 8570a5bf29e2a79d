package registrar

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bilgehannal/sitehost/internal/config"
	"github.com/bilgehannal/sitehost/internal/sites"
	"github.com/bilgehannal/sitehost/internal/utils"
	"github.com/bilgehannal/sitehost/internal/vhosts"
	"github.com/bilgehannal/sitehost/pkg/hostsfile"
)

type fixture struct {
	cfg      *config.Config
	sitesDir string
}

func newFixture(t *testing.T, hosts, vh string, siteNames ...string) *fixture {
	t.Helper()

	tempDir := t.TempDir()
	cfg := &config.Config{
		HostsFile:     filepath.Join(tempDir, "hosts"),
		Address:       "127.0.0.1",
		LocalhostRoot: filepath.Join(tempDir, "htdocs"),
		SitesDir:      filepath.Join(tempDir, "sites"),
		VhostsFile:    filepath.Join(tempDir, "httpd-vhosts.conf"),
	}

	if err := os.WriteFile(cfg.HostsFile, []byte(hosts), 0644); err != nil {
		t.Fatalf("Failed to write hosts file: %v", err)
	}
	if err := os.WriteFile(cfg.VhostsFile, []byte(vh), 0644); err != nil {
		t.Fatalf("Failed to write vhosts file: %v", err)
	}
	for _, name := range siteNames {
		if err := os.MkdirAll(filepath.Join(cfg.SitesDir, name), 0755); err != nil {
			t.Fatalf("Failed to create site: %v", err)
		}
	}

	return &fixture{cfg: cfg, sitesDir: cfg.SitesDir}
}

func (f *fixture) open(t *testing.T) *Manager {
	t.Helper()

	m, err := Open(f.cfg, utils.NewConsoleLogger(io.Discard))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return m
}

func (f *fixture) discover(t *testing.T) []sites.Site {
	t.Helper()

	found, err := sites.Discover(f.sitesDir, nil)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	return found
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestInstallAndRemove(t *testing.T) {
	f := newFixture(t, "127.0.0.1\tlocalhost\r\n# note\r\n", "", "blog.test", "shop.test")

	m := f.open(t)
	report := m.Install(f.discover(t))
	if report.Failures() != 0 {
		t.Fatalf("Expected no failures, got %+v", report.Installed)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	hosts := f.read(t, f.cfg.HostsFile)
	want := "127.0.0.1\tlocalhost blog.test shop.test\r\n# note\r\n"
	if hosts != want {
		t.Errorf("Expected hosts %q, got %q", want, hosts)
	}

	vh, err := vhosts.Load(f.cfg.VhostsFile)
	if err != nil {
		t.Fatalf("Failed to load vhosts: %v", err)
	}
	if names := vh.ServerNames(); !slices.Equal(names, []string{"localhost", "blog.test", "shop.test"}) {
		t.Errorf("Unexpected server names: %v", names)
	}
	if len(vh.FindVirtualHost("localhost").Sections("Directory")) != 0 {
		t.Error("localhost VirtualHost must not describe a Directory")
	}

	// Second install reports per-site errors but changes nothing
	m = f.open(t)
	report = m.Install(f.discover(t))
	if report.Failures() != 2 {
		t.Errorf("Expected 2 failures, got %d", report.Failures())
	}
	if !errors.Is(report.Installed[0].Hosts, hostsfile.ErrAliasExists) {
		t.Errorf("Expected ErrAliasExists, got %v", report.Installed[0].Hosts)
	}
	if !errors.Is(report.Installed[0].Vhosts, vhosts.ErrVirtualHostExists) {
		t.Errorf("Expected ErrVirtualHostExists, got %v", report.Installed[0].Vhosts)
	}

	report = m.Remove(f.discover(t))
	if report.Failures() != 0 {
		t.Fatalf("Expected no failures, got %+v", report.Removed)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	hosts = f.read(t, f.cfg.HostsFile)
	if hosts != "127.0.0.1\tlocalhost\r\n# note\r\n" {
		t.Errorf("Expected original hosts content, got %q", hosts)
	}

	vh, err = vhosts.Load(f.cfg.VhostsFile)
	if err != nil {
		t.Fatalf("Failed to load vhosts: %v", err)
	}
	if names := vh.ServerNames(); !slices.Equal(names, []string{"localhost"}) {
		t.Errorf("Expected only localhost, got %v", names)
	}
}

func TestRemoveUnknownSite(t *testing.T) {
	f := newFixture(t, "", "")
	m := f.open(t)

	report := m.Remove([]sites.Site{{Domain: "ghost.test"}})
	if len(report.Removed) != 1 {
		t.Fatalf("Expected 1 outcome, got %d", len(report.Removed))
	}
	o := report.Removed[0]
	if !errors.Is(o.Hosts, hostsfile.ErrAliasNotFound) {
		t.Errorf("Expected ErrAliasNotFound, got %v", o.Hosts)
	}
	if !errors.Is(o.Vhosts, vhosts.ErrVirtualHostNotFound) {
		t.Errorf("Expected ErrVirtualHostNotFound, got %v", o.Vhosts)
	}
}

func TestSync(t *testing.T) {
	f := newFixture(t, "", "", "a.test", "b.test")

	m := f.open(t)
	report := m.Sync(f.discover(t))
	if len(report.Installed) != 2 || report.Failures() != 0 {
		t.Fatalf("Expected 2 clean installs, got %+v", report)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Nothing changed on disk: nothing to do
	report = m.Sync(f.discover(t))
	if !report.Empty() {
		t.Errorf("Expected empty report, got %+v", report)
	}

	// A site disappears while no manager is running
	if err := os.RemoveAll(filepath.Join(f.sitesDir, "a.test")); err != nil {
		t.Fatalf("Failed to remove site: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(f.sitesDir, "c.test"), 0755); err != nil {
		t.Fatalf("Failed to create site: %v", err)
	}

	m = f.open(t)
	if domains := m.ManagedDomains(); !slices.Equal(domains, []string{"a.test", "b.test"}) {
		t.Errorf("Expected managed domains from generated sections, got %v", domains)
	}

	report = m.Sync(f.discover(t))
	if len(report.Installed) != 1 || report.Installed[0].Domain != "c.test" {
		t.Errorf("Expected c.test to be installed, got %+v", report.Installed)
	}
	if len(report.Removed) != 1 || report.Removed[0].Domain != "a.test" {
		t.Errorf("Expected a.test to be removed, got %+v", report.Removed)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	hosts := f.read(t, f.cfg.HostsFile)
	if hosts != "127.0.0.1\tb.test c.test\r\n" {
		t.Errorf("Unexpected hosts content %q", hosts)
	}
}

func TestSyncCompletesHalfRegisteredSite(t *testing.T) {
	f := newFixture(t, "127.0.0.1 a.test\n", "", "a.test")

	m := f.open(t)
	report := m.Sync(f.discover(t))
	if len(report.Installed) != 1 || report.Failures() != 0 {
		t.Fatalf("Expected one clean install, got %+v", report)
	}
	if m.Vhosts().FindVirtualHost("a.test") == nil {
		t.Error("Expected missing VirtualHost to be added")
	}
	if got := string(m.Hosts().Bytes()); got != "127.0.0.1\ta.test\r\n" {
		t.Errorf("Expected hosts file untouched, got %q", got)
	}
}

func TestSyncReportsForeignAlias(t *testing.T) {
	f := newFixture(t, "10.9.9.9 a.test\n", "", "a.test")

	m := f.open(t)
	report := m.Sync(f.discover(t))
	if len(report.Installed) != 1 {
		t.Fatalf("Expected one install outcome, got %+v", report)
	}

	o := report.Installed[0]
	if !errors.Is(o.Hosts, hostsfile.ErrAliasExists) {
		t.Errorf("Expected ErrAliasExists for alias owned by another address, got %v", o.Hosts)
	}
	if report.Failures() != 1 {
		t.Errorf("Expected one failure, got %d", report.Failures())
	}
	if addr, _ := m.Hosts().Lookup("a.test"); addr != "10.9.9.9" {
		t.Errorf("Expected foreign alias to be left alone, got %q", addr)
	}
}

func TestOpenErrors(t *testing.T) {
	f := newFixture(t, "", "")
	logger := utils.NewConsoleLogger(io.Discard)

	cfg := *f.cfg
	cfg.HostsFile = filepath.Join(t.TempDir(), "missing")
	_, err := Open(&cfg, logger)
	var ioErr *hostsfile.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Expected hostsfile.IOError, got %v", err)
	}

	cfg = *f.cfg
	if err := os.WriteFile(cfg.VhostsFile, []byte("<VirtualHost *:80>\n"), 0644); err != nil {
		t.Fatalf("Failed to write vhosts file: %v", err)
	}
	_, err = Open(&cfg, logger)
	if err == nil || !strings.Contains(err.Error(), "virtual hosts file") {
		t.Errorf("Expected virtual hosts error, got %v", err)
	}
}
