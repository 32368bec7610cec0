package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Kahuna configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (KAHUNA_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default user and plan) are stored in ~/.kahuna/config.json

Examples:
  kahuna config show
  kahuna config set-user alice
  kahuna config set-plan main
  kahuna config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetUserCommand())
	cmd.AddCommand(newConfigSetPlanCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			if jsonOutput {
				return printJSON(out, map[string]interface{}{
					"user":   userCfg,
					"config": cfg,
				})
			}

			fmt.Fprintln(out, "Kahuna Configuration")
			fmt.Fprintln(out, "====================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Default User:     %s\n", orNotSet(userCfg.DefaultUserID))
			fmt.Fprintf(out, "  Default Plan:     %s\n", orNotSet(userCfg.DefaultPlan))

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}
			fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.Daemon.RequestTimeout)
			fmt.Fprintf(out, "  Rate Limit:       %.1f req/s (burst: %d)\n",
				cfg.Daemon.RateLimit.Requests, cfg.Daemon.RateLimit.Burst)

			fmt.Fprintln(out, "\nIndustry:")
			fmt.Fprintf(out, "  Report Cache TTL: %s\n", cfg.Industry.ReportCacheTTL)
			fmt.Fprintf(out, "  Plan Limit:       %d\n", cfg.Industry.PlanLimit)
			fmt.Fprintf(out, "  Cost Workers:     %d\n", cfg.Industry.CostConcurrency)
			fmt.Fprintf(out, "  Void Horizon:     %s\n", cfg.Industry.VoidHorizon)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// newConfigSetUserCommand creates the config set-user subcommand
func newConfigSetUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-user <user-id>",
		Short: "Set default user",
		Long: `Set the user commands act as when --user is not given.

Example:
  kahuna config set-user alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultUser(args[0]); err != nil {
				return fmt.Errorf("failed to set default user: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default user set successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "  User: %s\n", args[0])
			return nil
		},
	}

	return cmd
}

// newConfigSetPlanCommand creates the config set-plan subcommand
func newConfigSetPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-plan <plan>",
		Short: "Set default plan",
		Long: `Set the plan that plan and report commands use when none is named.

Example:
  kahuna config set-plan main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultPlan(args[0]); err != nil {
				return fmt.Errorf("failed to set default plan: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default plan set successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "  Plan: %s\n", args[0])
			return nil
		},
	}

	return cmd
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear default user and plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Defaults cleared")
			fmt.Fprintln(cmd.OutOrStdout(), "\nYou must now pass --user and a plan name to commands.")
			return nil
		},
	}

	return cmd
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskPassword masks the password of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}
