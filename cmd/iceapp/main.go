package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hunter-sfcb/iceapp/config"
	"github.com/Hunter-sfcb/iceapp/pkg/logger"
)

var (
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:           "iceapp",
		Short:         "Social feed backend: posts, likes, comments and owner administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(loaded.Log); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			cfg = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}

	grantOwnerCmd = &cobra.Command{
		Use:   "grant-owner [username]",
		Short: "Assign the Owner rank (priority 1000) to a user",
		Args:  cobra.ExactArgs(1),
		RunE:  runGrantOwner,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, grantOwnerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
