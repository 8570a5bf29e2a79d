package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/bilgehannal/sitehost/internal/config"
	"github.com/bilgehannal/sitehost/internal/registrar"
	"github.com/bilgehannal/sitehost/internal/sites"
	"github.com/bilgehannal/sitehost/internal/utils"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to config file")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Check if running as root
	if runtime.GOOS != "windows" && os.Geteuid() != 0 {
		fmt.Fprintln(os.Stderr, "Error: sitehostd must be run as root")
		fmt.Fprintln(os.Stderr, "Please run with sudo or as root user")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = utils.DefaultLogPath
	}
	logger, err := utils.NewLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logger.SetVerbose(*verbose)

	logger.Info("=== Starting sitehostd ===")
	logger.Info("Loaded config from: %s", *configPath)
	config.LogConfigInfo(cfg, logger)

	if err := cfg.ValidateSites(); err != nil {
		logger.Error("Invalid config: %v", err)
		os.Exit(1)
	}

	m := registrar.NewManager(cfg, nil, nil, logger)

	syncSites := func(found []sites.Site) error {
		// Pick up edits made by others since the last run
		if err := m.Reload(); err != nil {
			return err
		}

		report := m.Sync(found)
		if report.Empty() {
			logger.Info("All %d site(s) are registered", len(found))
			return nil
		}

		if err := m.Commit(); err != nil {
			return err
		}

		logger.Info("✓ Registered %d, unregistered %d site(s), %d failure(s). Please restart httpd!",
			len(report.Installed), len(report.Removed), report.Failures())
		return nil
	}

	// Initial sync
	found, err := sites.Discover(cfg.SitesDir, cfg.Ignore)
	if err != nil {
		logger.Error("Failed to discover sites: %v", err)
		os.Exit(1)
	}
	if err := syncSites(found); err != nil {
		logger.Error("Initial sync failed: %v", err)
		os.Exit(1)
	}

	// Create sites watcher
	w, err := sites.NewWatcher(cfg.SitesDir, cfg.Ignore, logger, syncSites)
	if err != nil {
		logger.Error("Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Close()

	// Start watching
	w.Start()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("Received signal: %v", sig)
	logger.Info("=== sitehostd stopped ===")
}
