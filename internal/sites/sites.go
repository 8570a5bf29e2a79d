// Package sites discovers local websites: every subdirectory of the sites
// directory is a website whose directory name is its domain.
package sites

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Site is one local website
type Site struct {
	Domain string
	Root   string
}

// Discover returns every subdirectory of dir whose name is not in ignore,
// sorted by domain. Hidden directories are skipped.
func Discover(dir string, ignore []string) ([]Site, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sites directory: %w", err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites directory: %w", err)
	}

	var sites []Site
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || slices.Contains(ignore, name) {
			continue
		}

		root := filepath.Join(absDir, name)

		// Follow symlinks to directories
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			root = resolved
		}

		sites = append(sites, Site{Domain: name, Root: root})
	}

	slices.SortFunc(sites, func(a, b Site) int {
		return strings.Compare(a.Domain, b.Domain)
	})

	return sites, nil
}

// Domains returns the domain of every site
func Domains(sites []Site) []string {
	domains := make([]string, len(sites))
	for i, s := range sites {
		domains[i] = s.Domain
	}
	return domains
}

// ParseIgnore splits a comma separated ignore list
func ParseIgnore(list string) []string {
	var ignore []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			ignore = append(ignore, name)
		}
	}
	return ignore
}
