package cli

import (
	"fmt"
	"os"

	"github.com/bilgehannal/sitehost/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the config command group
func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sitehost configuration file",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigIgnoreCommand())

	return cmd
}

// newConfigInitCommand creates the config init command
func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file '%s' already exists (use --force to overwrite)", configPath)
			}

			if err := config.NewWriter(configPath).Write(config.Default()); err != nil {
				return err
			}

			PrintSuccess(cmd.OutOrStdout(), "Config written to %s", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

// newConfigShowCommand creates the config show command
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// newConfigSetCommand creates the config set command
func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.NewWriter(configPath).Set(args[0], args[1]); err != nil {
				return err
			}

			PrintSuccess(cmd.OutOrStdout(), "%s set to %s", args[0], args[1])
			return nil
		},
	}
}

// newConfigIgnoreCommand creates the config ignore command
func newConfigIgnoreCommand() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "ignore <directory>",
		Short: "Exclude a directory from registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			writer := config.NewWriter(configPath)

			if remove {
				if err := writer.RemoveIgnore(args[0]); err != nil {
					return err
				}
				PrintSuccess(cmd.OutOrStdout(), "'%s' is no longer ignored", args[0])
				return nil
			}

			if err := writer.AddIgnore(args[0]); err != nil {
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), "'%s' is now ignored", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&remove, "remove", "r", false, "Stop ignoring the directory")

	return cmd
}
