package main

import (
	"github.com/spf13/cobra"

	"github.com/HinanoAira/wildebeest/internal/config"
	"github.com/HinanoAira/wildebeest/internal/store"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Show schema migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the store applies pending migrations; the plan
			// reported here is the state after that.
			return withStore(cfg, func(st *store.Store) error {
				plan, err := st.MigrationPlan()
				if err != nil {
					return err
				}
				return writeJSON(plan)
			})
		},
	}

	return cmd
}
