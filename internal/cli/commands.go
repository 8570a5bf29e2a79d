package cli

import (
	"fmt"
	"os"

	"github.com/bilgehannal/sitehost/internal/config"
	"github.com/bilgehannal/sitehost/internal/registrar"
	"github.com/bilgehannal/sitehost/internal/sites"
	"github.com/bilgehannal/sitehost/internal/utils"
	"github.com/bilgehannal/sitehost/pkg/hostsfile"
	"github.com/spf13/cobra"
)

var (
	configPath string
	overrides  config.Config
	ignoreList string
	verbose    bool
)

// NewRootCommand creates the root command for sitehostctl
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitehostctl",
		Short: "(Un)registers local websites in the hosts and virtual hosts files",
		Long: `sitehostctl registers every directory in a sites directory as a local website.
The directory name is the domain: it is aliased to the local address in the hosts
file and gets its own VirtualHost section in the virtual hosts file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to config file")
	flags.StringVar(&overrides.HostsFile, "hosts", "", "Path to the hosts file")
	flags.StringVar(&overrides.VhostsFile, "vhosts", "", "Path to the virtual hosts config file")
	flags.StringVar(&overrides.SitesDir, "sites", "", "Directory whose subdirectories are websites")
	flags.StringVar(&overrides.LocalhostRoot, "localhost", "", "Document root of the localhost website")
	flags.StringVar(&overrides.Address, "address", "", "Address the websites are aliased to")
	flags.StringVar(&ignoreList, "ignore", "", "Comma separated directory names that are not websites")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Add subcommands
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newRemoveCommand())
	cmd.AddCommand(newSyncCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newLookupCommand())
	cmd.AddCommand(newAddAliasCommand())
	cmd.AddCommand(newRemoveAliasCommand())
	cmd.AddCommand(newConfigCommand())

	return cmd
}

// loadConfig loads the config file and applies command line overrides.
// A missing config file means defaults; only the config commands create it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	for _, o := range []struct{ flag, key, value string }{
		{"hosts", "hostsFile", overrides.HostsFile},
		{"vhosts", "vhostsFile", overrides.VhostsFile},
		{"sites", "sitesDir", overrides.SitesDir},
		{"localhost", "localhostRoot", overrides.LocalhostRoot},
		{"address", "address", overrides.Address},
	} {
		if !flags.Changed(o.flag) {
			continue
		}
		if err := cfg.Set(o.key, o.value); err != nil {
			return nil, err
		}
	}
	if flags.Changed("ignore") {
		cfg.Ignore = sites.ParseIgnore(ignoreList)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *utils.Logger {
	logger := utils.NewConsoleLogger(cmd.ErrOrStderr())
	logger.SetVerbose(verbose)
	return logger
}

// runSites loads everything a site command needs, applies fn and commits
func runSites(cmd *cobra.Command, fn func(*registrar.Manager, []sites.Site) *registrar.Report) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateSites(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	found, err := sites.Discover(cfg.SitesDir, cfg.Ignore)
	if err != nil {
		return err
	}

	m, err := registrar.Open(cfg, newLogger(cmd))
	if err != nil {
		return err
	}

	report := fn(m, found)
	PrintReport(cmd.OutOrStdout(), report)

	if err := m.Commit(); err != nil {
		return err
	}

	PrintSuccess(cmd.OutOrStdout(), "Done! Please restart httpd!")
	return nil
}

// newInstallCommand creates the install command
func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Register every website in the sites directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSites(cmd, (*registrar.Manager).Install)
		},
	}
}

// newRemoveCommand creates the remove command
func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Unregister every website in the sites directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSites(cmd, (*registrar.Manager).Remove)
		},
	}
}

// newSyncCommand creates the sync command
func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Register new websites and unregister deleted ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSites(cmd, (*registrar.Manager).Sync)
		},
	}
}

// newListCommand creates the list command
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the entries of the hosts file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			hosts, err := hostsfile.Load(cfg.HostsFile)
			if err != nil {
				return err
			}

			var size int64
			if info, err := os.Stat(cfg.HostsFile); err == nil {
				size = info.Size()
			}

			PrintHosts(cmd.OutOrStdout(), hosts, size)
			return nil
		},
	}
}

// newLookupCommand creates the lookup command
func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <hostname>",
		Short: "Show the address a hostname is aliased to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			hosts, err := hostsfile.Load(cfg.HostsFile)
			if err != nil {
				return err
			}

			addr, ok := hosts.Lookup(args[0])
			if !ok {
				return &hostsfile.AliasError{Name: args[0], Err: hostsfile.ErrAliasNotFound}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], addr)
			return nil
		},
	}
}

// newAddAliasCommand creates the add-alias command
func newAddAliasCommand() *cobra.Command {
	var ip string

	cmd := &cobra.Command{
		Use:   "add-alias <hostname>",
		Short: "Alias a hostname in the hosts file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if ip == "" {
				ip = cfg.Address
			}

			return editHosts(cfg, func(hosts *hostsfile.File) error {
				if err := hosts.AddAlias(ip, args[0]); err != nil {
					return err
				}
				PrintSuccess(cmd.OutOrStdout(), "Alias added: %s -> %s", args[0], ip)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&ip, "ip", "i", "", "IP address (defaults to the configured address)")

	return cmd
}

// newRemoveAliasCommand creates the remove-alias command
func newRemoveAliasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-alias <hostname>",
		Short: "Remove a hostname from the hosts file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return editHosts(cfg, func(hosts *hostsfile.File) error {
				if err := hosts.RemoveAlias(args[0]); err != nil {
					return err
				}
				PrintSuccess(cmd.OutOrStdout(), "Alias removed: %s", args[0])
				return nil
			})
		},
	}
}

// editHosts runs one load, edit, save cycle on the hosts file
func editHosts(cfg *config.Config, fn func(*hostsfile.File) error) error {
	hosts, err := hostsfile.Load(cfg.HostsFile)
	if err != nil {
		return err
	}

	if err := fn(hosts); err != nil {
		return err
	}

	return hosts.Save()
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
