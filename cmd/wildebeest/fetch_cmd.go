package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/HinanoAira/wildebeest/internal/cache"
	"github.com/HinanoAira/wildebeest/internal/config"
	"github.com/HinanoAira/wildebeest/internal/fetch"
	"github.com/HinanoAira/wildebeest/internal/store"
)

func newFetchCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <uri>",
		Short: "Fetch a remote object and cache it locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDomain(cfg); err != nil {
				return err
			}

			uri := args[0]
			client := fetch.NewClient(cfg.FetchTimeout(), cfg.UserAgent)
			doc, err := client.FetchObject(cmd.Context(), uri)
			if err != nil {
				return err
			}

			actor, _ := doc["attributedTo"].(string)

			return withStore(cfg, func(st *store.Store) error {
				coord := cache.New(st, st, cfg.Domain, slog.Default())
				obj, created, err := coord.CacheObject(cmd.Context(), doc, actor, uri)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"created": created, "object": obj})
				}
				if created {
					return writePlain("cached %s as %s\n", uri, obj.ID)
				}
				return writePlain("already cached as %s\n", obj.ID)
			})
		},
	}

	return cmd
}
