package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBindURL             = "http://127.0.0.1:8787"
	DefaultLogLevel            = "info"
	DefaultFetchTimeoutSeconds = 10
	DefaultUserAgent           = "wildebeest"
	DefaultDBFileName          = ".wildebeest.db"

	configFileName  = ".wildebeest.toml"
	configDirEnvKey = "WILDEBEEST_CONFIG_DIR"
	domainEnvKey    = "WILDEBEEST_DOMAIN"
	dbPathEnvKey    = "WILDEBEEST_DB_PATH"
)

// Config defines runtime configuration for the node.
type Config struct {
	// Domain is the hostname under which local object ids are minted.
	Domain              string `toml:"domain"`
	DBPath              string `toml:"db_path"`
	BindURL             string `toml:"bind_url"`
	LogLevel            string `toml:"log_level"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
	UserAgent           string `toml:"user_agent"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Domain:              "",
		DBPath:              "",
		BindURL:             DefaultBindURL,
		LogLevel:            DefaultLogLevel,
		FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
		UserAgent:           DefaultUserAgent,
	}
}

// Load builds the effective configuration: defaults, then the global
// config file, then the project config file, then env overrides.
func Load() (*Config, error) {
	cfg := Default()

	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	if _, err := loadFileIfExists(globalPath, &cfg); err != nil {
		return nil, err
	}

	projectPath, err := ProjectPath()
	if err != nil {
		return nil, err
	}
	if projectPath != globalPath {
		if _, err := loadFileIfExists(projectPath, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = filepath.Join(home, DefaultDBFileName)
	}
	if cfg.FetchTimeoutSeconds < 0 {
		return nil, fmt.Errorf("fetch_timeout_seconds must not be negative")
	}

	return &cfg, nil
}

// FetchTimeout returns the remote fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the working-directory config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func applyEnvOverrides(cfg *Config) {
	if domain := strings.TrimSpace(os.Getenv(domainEnvKey)); domain != "" {
		cfg.Domain = domain
	}
	if path := strings.TrimSpace(os.Getenv(dbPathEnvKey)); path != "" {
		cfg.DBPath = path
	}
}
