package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Backend kinds.
const (
	KindREST     = "rest"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindFile     = "file"
)

// Environment variables that override the config file.
const (
	EnvBackendURL = "NOTEDROP_BACKEND_URL"
	EnvAPIKey     = "NOTEDROP_API_KEY"
)

// Config is the resolved configuration.
type Config struct {
	Backend Backend
	Listing Listing
	Serve   Serve
	Log     Log
}

// Backend selects and addresses the record source.
type Backend struct {
	Kind              string
	URL               string
	APIKey            string
	Table             string
	DSN               string
	RequestsPerSecond float64
}

type Listing struct {
	PageSize int
	Debounce time.Duration
}

type Serve struct {
	Addr string
}

type Log struct {
	Path  string
	Level string
}

const (
	defaultConfigPath = "~/.config/notedrop/config.toml"
	defaultDSN        = "~/.local/share/notedrop/notedrop.db"
	defaultLogPath    = "~/.local/state/notedrop/notedrop.log"
	defaultTable      = "airdrop_collections"
	defaultAddr       = "127.0.0.1:8080"
	defaultLevel      = "info"
	defaultPageSize   = 20
	maxPageSize       = 100
	defaultDebounce   = 300 * time.Millisecond
	defaultRPS        = 5
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend: Backend{
			Kind:              KindREST,
			Table:             defaultTable,
			DSN:               mustExpand(defaultDSN),
			RequestsPerSecond: defaultRPS,
		},
		Listing: Listing{PageSize: defaultPageSize, Debounce: defaultDebounce},
		Serve:   Serve{Addr: defaultAddr},
		Log:     Log{Path: mustExpand(defaultLogPath), Level: defaultLevel},
	}
}

type rawConfig struct {
	Backend struct {
		Kind              string   `toml:"kind"`
		URL               string   `toml:"url"`
		APIKey            string   `toml:"api_key"`
		Table             string   `toml:"table"`
		DSN               string   `toml:"dsn"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
	} `toml:"backend"`
	Listing struct {
		PageSize   int `toml:"page_size"`
		DebounceMS int `toml:"debounce_ms"`
	} `toml:"listing"`
	Serve struct {
		Addr string `toml:"addr"`
	} `toml:"serve"`
	Log struct {
		Path  string `toml:"path"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Load locates and parses the config, falling back to defaults when missing.
// Environment overrides apply in both cases.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if kind := strings.ToLower(strings.TrimSpace(raw.Backend.Kind)); kind != "" {
		cfg.Backend.Kind = kind
	}
	cfg.Backend.URL = strings.TrimSpace(raw.Backend.URL)
	cfg.Backend.APIKey = strings.TrimSpace(raw.Backend.APIKey)
	if table := strings.TrimSpace(raw.Backend.Table); table != "" {
		cfg.Backend.Table = table
	}
	if dsn := strings.TrimSpace(raw.Backend.DSN); dsn != "" {
		cfg.Backend.DSN = dsn
	}
	if raw.Backend.RequestsPerSecond != nil {
		cfg.Backend.RequestsPerSecond = *raw.Backend.RequestsPerSecond
	}

	if raw.Listing.PageSize > 0 {
		cfg.Listing.PageSize = min(raw.Listing.PageSize, maxPageSize)
	}
	if raw.Listing.DebounceMS > 0 {
		cfg.Listing.Debounce = time.Duration(raw.Listing.DebounceMS) * time.Millisecond
	}

	if addr := strings.TrimSpace(raw.Serve.Addr); addr != "" {
		cfg.Serve.Addr = addr
	}
	if logPath := strings.TrimSpace(raw.Log.Path); logPath != "" {
		cfg.Log.Path = mustExpand(logPath)
	}
	if level := strings.ToLower(strings.TrimSpace(raw.Log.Level)); level != "" {
		cfg.Log.Level = level
	}

	applyEnv(&cfg)

	switch cfg.Backend.Kind {
	case KindREST, KindPostgres:
	case KindSQLite, KindFile:
		cfg.Backend.DSN = mustExpand(cfg.Backend.DSN)
	case "postgresql":
		cfg.Backend.Kind = KindPostgres
	default:
		return Config{}, fmt.Errorf("parse config: unknown backend kind %q", cfg.Backend.Kind)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.Backend.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.Backend.APIKey = v
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// ExpandPath resolves ~ and relative paths to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
