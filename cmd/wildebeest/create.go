package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HinanoAira/wildebeest/internal/config"
	"github.com/HinanoAira/wildebeest/internal/models"
	"github.com/HinanoAira/wildebeest/internal/store"
)

type createCmdOptions struct {
	objectType string
	actor      string
	name       string
	propsJSON  string
}

func newCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &createCmdOptions{}
	cmd := &cobra.Command{
		Use:   "create <content>",
		Short: "Create a locally authored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, cfg, opts, jsonOutput, args)
		},
	}

	cmd.Flags().StringVar(&opts.objectType, "type", models.TypeNote, "object type tag")
	cmd.Flags().StringVar(&opts.actor, "actor", "", "authoring actor id (required)")
	cmd.Flags().StringVar(&opts.name, "name", "", "object name")
	cmd.Flags().StringVar(&opts.propsJSON, "properties", "", "extra properties as a JSON object")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func runCreate(cmd *cobra.Command, cfg *config.Config, opts *createCmdOptions, jsonOutput *bool, args []string) error {
	if err := requireDomain(cfg); err != nil {
		return err
	}

	props := map[string]any{"content": args[0]}
	if opts.name != "" {
		props["name"] = opts.name
	}
	if opts.propsJSON != "" {
		var extra map[string]any
		if err := json.Unmarshal([]byte(opts.propsJSON), &extra); err != nil {
			return fmt.Errorf("invalid --properties: %w", err)
		}
		for k, v := range extra {
			props[k] = v
		}
	}

	return withStore(cfg, func(st *store.Store) error {
		obj, err := st.CreateObject(cmd.Context(), cfg.Domain, opts.objectType, props, opts.actor)
		if err != nil {
			return err
		}
		if *jsonOutput {
			return writeJSON(obj)
		}
		return writePlain("%s\n", obj.ID)
	})
}
