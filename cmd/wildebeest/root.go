package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HinanoAira/wildebeest/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "wildebeest",
		Short: "Wildebeest stores and caches federated objects for an ActivityPub node",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newCreateCmd(cfg, &jsonOutput),
		newShowCmd(cfg),
		newFetchCmd(cfg, &jsonOutput),
		newPeersCmd(cfg, &jsonOutput),
		newImportCmd(cfg, &jsonOutput),
		newMigrateCmd(cfg),
	)

	return cmd
}
