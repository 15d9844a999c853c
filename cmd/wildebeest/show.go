package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HinanoAira/wildebeest/internal/config"
	"github.com/HinanoAira/wildebeest/internal/models"
	"github.com/HinanoAira/wildebeest/internal/store"
)

func newShowCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an object by canonical id, origin id, or Mastodon id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				obj, err := resolveObject(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				if obj == nil {
					return fmt.Errorf("no object found for %s", args[0])
				}
				return writeJSON(obj)
			})
		},
	}

	return cmd
}

// resolveObject tries the identifier kinds in order: URIs are looked
// up as canonical ids then as origin ids, anything else as a Mastodon
// alias.
func resolveObject(ctx context.Context, st *store.Store, id string) (*models.Object, error) {
	if strings.Contains(id, "://") {
		obj, err := st.GetObjectByID(ctx, id)
		if err != nil || obj != nil {
			return obj, err
		}
		return st.GetObjectByOriginalID(ctx, id)
	}
	return st.GetObjectByMastodonID(ctx, id)
}
