package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sbilibin2017/lms-accounts/internal/config"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/spf13/cobra"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title lms-accounts API
// @version 1.0.0
// @description User accounts for the learning-management system: signup, login, logout and password reset
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "lms-accounts",
		Short:         "User accounts service for the learning-management system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			if err := logger.Initialize(cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.env", "Path to configuration file")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newCreateSuperuserCmd(a),
		newChangePasswordCmd(a),
	)
	return root
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}
