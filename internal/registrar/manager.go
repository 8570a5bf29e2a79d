// Package registrar registers local websites in the hosts file and the
// virtual hosts file, and removes them again.
package registrar

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bilgehannal/sitehost/internal/config"
	"github.com/bilgehannal/sitehost/internal/sites"
	"github.com/bilgehannal/sitehost/internal/utils"
	"github.com/bilgehannal/sitehost/internal/vhosts"
	"github.com/bilgehannal/sitehost/pkg/hostsfile"
)

// LocalhostName is the server name of the localhost VirtualHost
const LocalhostName = "localhost"

// Outcome is the result of registering or unregistering one site. A nil
// error means that file was updated.
type Outcome struct {
	Domain string
	Hosts  error
	Vhosts error
}

// OK reports whether both files were updated
func (o Outcome) OK() bool {
	return o.Hosts == nil && o.Vhosts == nil
}

// Report collects the outcomes of one run
type Report struct {
	Installed []Outcome
	Removed   []Outcome
}

// Failures counts outcomes with at least one error
func (r *Report) Failures() int {
	n := 0
	for _, o := range slices.Concat(r.Installed, r.Removed) {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Empty reports whether the run touched no site
func (r *Report) Empty() bool {
	return len(r.Installed) == 0 && len(r.Removed) == 0
}

// Manager applies site registrations to a loaded hosts file and virtual
// hosts file. Nothing is written until Commit.
type Manager struct {
	logger        *utils.Logger
	cfg           *config.Config
	hosts         *hostsfile.File
	vhosts        *vhosts.Config
	managedDomain map[string]string
}

// NewManager creates a manager for already loaded files
func NewManager(cfg *config.Config, hosts *hostsfile.File, vh *vhosts.Config, logger *utils.Logger) *Manager {
	m := &Manager{
		logger:        logger,
		cfg:           cfg,
		hosts:         hosts,
		vhosts:        vh,
		managedDomain: make(map[string]string),
	}
	m.trackGenerated()
	return m
}

// Open loads the hosts file and the virtual hosts file named by cfg
func Open(cfg *config.Config, logger *utils.Logger) (*Manager, error) {
	m := NewManager(cfg, nil, nil, logger)
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload discards unsaved changes and reads both files again
func (m *Manager) Reload() error {
	hosts, err := hostsfile.Load(m.cfg.HostsFile)
	if err != nil {
		return fmt.Errorf("hosts file: %w", err)
	}
	m.logger.Debug("Hosts file: read %d line(s) from %s", hosts.Len(), m.cfg.HostsFile)

	vh, err := vhosts.Load(m.cfg.VhostsFile)
	if err != nil {
		return fmt.Errorf("virtual hosts file: %w", err)
	}
	m.logger.Debug("Virtual hosts file: read %s", m.cfg.VhostsFile)

	m.hosts = hosts
	m.vhosts = vh
	m.trackGenerated()
	return nil
}

// trackGenerated marks every previously generated site as managed so that
// Sync can remove it when its directory disappears
func (m *Manager) trackGenerated() {
	if m.vhosts == nil {
		return
	}
	for _, name := range m.vhosts.GeneratedServerNames() {
		if !strings.EqualFold(name, LocalhostName) {
			m.managedDomain[strings.ToLower(name)] = name
		}
	}
}

// Hosts returns the loaded hosts file
func (m *Manager) Hosts() *hostsfile.File {
	return m.hosts
}

// Vhosts returns the loaded virtual hosts file
func (m *Manager) Vhosts() *vhosts.Config {
	return m.vhosts
}

// Install registers every site. Per-site failures are logged and reported,
// never fatal.
func (m *Manager) Install(list []sites.Site) *Report {
	m.ensureLocalhost()

	report := &Report{}
	for _, site := range list {
		report.Installed = append(report.Installed, m.installSite(site))
	}
	return report
}

// Remove unregisters every site
func (m *Manager) Remove(list []sites.Site) *Report {
	report := &Report{}
	for _, site := range list {
		report.Removed = append(report.Removed, m.removeSite(site.Domain))
	}
	return report
}

// Sync registers sites that are missing and unregisters managed sites that
// are no longer in list. Already registered sites are left alone.
func (m *Manager) Sync(list []sites.Site) *Report {
	m.ensureLocalhost()

	report := &Report{}
	current := make(map[string]bool, len(list))

	for _, site := range list {
		key := strings.ToLower(site.Domain)
		current[key] = true

		if m.isRegistered(site.Domain) {
			m.managedDomain[key] = site.Domain
			continue
		}

		o := m.installSite(site)
		// Half registered sites only need the missing half. An alias that
		// points at another address is still a conflict.
		if errors.Is(o.Hosts, hostsfile.ErrAliasExists) && m.aliasedHere(site.Domain) {
			o.Hosts = nil
		}
		if errors.Is(o.Vhosts, vhosts.ErrVirtualHostExists) {
			o.Vhosts = nil
		}
		report.Installed = append(report.Installed, o)
	}

	for _, domain := range m.ManagedDomains() {
		if current[strings.ToLower(domain)] {
			continue
		}

		o := m.removeSite(domain)
		if errors.Is(o.Hosts, hostsfile.ErrAliasNotFound) {
			o.Hosts = nil
		}
		if errors.Is(o.Vhosts, vhosts.ErrVirtualHostNotFound) {
			o.Vhosts = nil
		}
		report.Removed = append(report.Removed, o)
	}

	return report
}

// Commit writes the hosts file, then the virtual hosts file
func (m *Manager) Commit() error {
	if err := m.hosts.Save(); err != nil {
		return fmt.Errorf("hosts file: %w", err)
	}
	m.logger.Info("Hosts file: written to %s", m.hosts.Path())

	if err := m.vhosts.Save(); err != nil {
		return fmt.Errorf("virtual hosts file: %w", err)
	}
	m.logger.Info("Virtual hosts file: written to %s", m.vhosts.Path())

	return nil
}

// ManagedDomains returns the domains registered by this tool, sorted
func (m *Manager) ManagedDomains() []string {
	domains := make([]string, 0, len(m.managedDomain))
	for _, domain := range m.managedDomain {
		domains = append(domains, domain)
	}
	slices.Sort(domains)
	return domains
}

func (m *Manager) ensureLocalhost() {
	if m.cfg.LocalhostRoot == "" {
		return
	}

	err := vhosts.AddVirtualHost(m.vhosts, LocalhostName, m.cfg.LocalhostRoot, false)
	switch {
	case err == nil:
		m.logger.Info("Added localhost entry to virtual hosts file")
	case errors.Is(err, vhosts.ErrVirtualHostExists):
		m.logger.Debug("Localhost entry already exists in virtual hosts file")
	default:
		m.logger.Warn("Failed to add localhost entry: %v", err)
	}
}

func (m *Manager) isRegistered(domain string) bool {
	return m.aliasedHere(domain) && m.vhosts.FindVirtualHost(domain) != nil
}

// aliasedHere reports whether domain already points at the configured address
func (m *Manager) aliasedHere(domain string) bool {
	addr, ok := m.hosts.Lookup(domain)
	return ok && strings.EqualFold(addr, m.cfg.Address)
}

func (m *Manager) installSite(site sites.Site) Outcome {
	o := Outcome{Domain: site.Domain}
	m.logger.Info("Registering %s", site.Domain)

	if o.Hosts = m.hosts.AddAlias(m.cfg.Address, site.Domain); o.Hosts != nil {
		m.logger.Warn("  Hosts file: %v", o.Hosts)
	} else {
		m.logger.Info("  Hosts file: done")
	}

	if o.Vhosts = vhosts.AddVirtualHost(m.vhosts, site.Domain, site.Root, true); o.Vhosts != nil {
		m.logger.Warn("  Virtual hosts file: %v", o.Vhosts)
	} else {
		m.logger.Info("  Virtual hosts file: done")
	}

	m.managedDomain[strings.ToLower(site.Domain)] = site.Domain
	return o
}

func (m *Manager) removeSite(domain string) Outcome {
	o := Outcome{Domain: domain}
	m.logger.Info("Unregistering %s", domain)

	if o.Hosts = m.hosts.RemoveAlias(domain); o.Hosts != nil {
		m.logger.Warn("  Hosts file: %v", o.Hosts)
	} else {
		m.logger.Info("  Hosts file: done")
	}

	if o.Vhosts = vhosts.RemoveVirtualHost(m.vhosts, domain); o.Vhosts != nil {
		m.logger.Warn("  Virtual hosts file: %v", o.Vhosts)
	} else {
		m.logger.Info("  Virtual hosts file: done")
	}

	delete(m.managedDomain, strings.ToLower(domain))
	return o
}
