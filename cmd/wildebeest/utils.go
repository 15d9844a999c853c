package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/HinanoAira/wildebeest/internal/config"
	"github.com/HinanoAira/wildebeest/internal/store"
)

func withStore(cfg *config.Config, fn func(*store.Store) error) error {
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("db path is required")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(st)
}

func requireDomain(cfg *config.Config) error {
	if cfg == nil || cfg.Domain == "" {
		return fmt.Errorf("domain is required; set it in %s or %s", ".wildebeest.toml", "WILDEBEEST_DOMAIN")
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}
