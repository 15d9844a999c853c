package main

import (
	"github.com/spf13/cobra"

	"github.com/HinanoAira/wildebeest/internal/config"
	"github.com/HinanoAira/wildebeest/internal/store"
)

func newPeersCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "List known remote peers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				peers, err := st.ListPeers(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(peers)
				}
				for _, peer := range peers {
					if err := writePlain("%s\t%s\n", peer.Domain, peer.FirstSeen.Format("2006-01-02")); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	return cmd
}
