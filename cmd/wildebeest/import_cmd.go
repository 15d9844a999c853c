package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/HinanoAira/wildebeest/internal/config"
	"github.com/HinanoAira/wildebeest/internal/models"
	"github.com/HinanoAira/wildebeest/internal/store"
)

// importEntry is one locally authored object in an import file.
type importEntry struct {
	Type       string         `yaml:"type"`
	Actor      string         `yaml:"actor"`
	Properties map[string]any `yaml:"properties"`
}

func newImportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create local objects from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDomain(cfg); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			entries, err := parseImportFile(data)
			if err != nil {
				return err
			}

			return withStore(cfg, func(st *store.Store) error {
				var ids []string
				for i, entry := range entries {
					obj, err := st.CreateObject(cmd.Context(), cfg.Domain, entry.Type, entry.Properties, entry.Actor)
					if err != nil {
						return fmt.Errorf("import entry %d: %w", i+1, err)
					}
					ids = append(ids, obj.ID)
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"imported": len(ids), "ids": ids})
				}
				return writePlain("imported %d objects\n", len(ids))
			})
		},
	}

	return cmd
}

func parseImportFile(data []byte) ([]importEntry, error) {
	var entries []importEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}
	for i := range entries {
		if entries[i].Type == "" {
			entries[i].Type = models.TypeNote
		}
		if entries[i].Actor == "" {
			return nil, fmt.Errorf("import entry %d: actor is required", i+1)
		}
		if entries[i].Properties == nil {
			return nil, fmt.Errorf("import entry %d: properties are required", i+1)
		}
	}
	return entries, nil
}
