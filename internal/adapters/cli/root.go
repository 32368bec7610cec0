package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	configPath string
	userFlag   string
	verbose    bool
	jsonOutput bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kahuna",
		Short: "Kahuna CLI - plan industry production",
		Long: `Kahuna CLI manages production plans and resolves them into material,
job and logistics reports.

Commands run in-process against the configured database unless --socket
points at a running kahuna-daemon.

Examples:
  kahuna migrate
  kahuna import seed.yaml
  kahuna matcher create bp-default --kind bp
  kahuna plan create main --bp bp-default --st st-default --pb pb-default
  kahuna plan add main "Widget" 100
  kahuna report main
  kahuna cost main "Widget=10" "Gadget=5"
  kahuna --socket /tmp/kahuna-daemon.sock report main --refresh`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket (empty runs in-process)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "",
		"User to act as (default from 'kahuna config set-user')")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewMatcherCommand())
	rootCmd.AddCommand(NewStructureCommand())
	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewCostCommand())
	rootCmd.AddCommand(NewDetailCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	return os.Getenv("KAHUNA_SOCKET")
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
