package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StorePostgres StoreKind = "postgres"
	StoreSQLite   StoreKind = "sqlite"
)

type Config struct {
	HTTPAddr string `env:"ROUTEGUIDE_HTTP_ADDR" envDefault:":8080"`
	PushAddr string `env:"ROUTEGUIDE_PUSH_ADDR" envDefault:":8081"`
	// PushPongWait drops highlight clients silent for longer; pings go out at 9/10 of it.
	PushPongWait time.Duration `env:"ROUTEGUIDE_PUSH_PONG_WAIT" envDefault:"60s"`

	Store      StoreKind `env:"ROUTEGUIDE_STORE"       envDefault:"memory"`
	DSN        string    `env:"ROUTEGUIDE_DB_DSN"`
	SQLitePath string    `env:"ROUTEGUIDE_SQLITE_PATH" envDefault:"routeguide.db"`

	PageDataURL  string `env:"ROUTEGUIDE_PAGE_DATA_URL"`
	PageDataFile string `env:"ROUTEGUIDE_PAGE_DATA_FILE"`

	PollInterval         time.Duration `env:"ROUTEGUIDE_POLL_INTERVAL"           envDefault:"100ms"`
	PageDataPollInterval time.Duration `env:"ROUTEGUIDE_PAGE_DATA_POLL_INTERVAL" envDefault:"1s"`
	PollMaxAttempts      uint          `env:"ROUTEGUIDE_POLL_MAX_ATTEMPTS"       envDefault:"0"`

	MaxPathCells int `env:"ROUTEGUIDE_MAX_PATH_CELLS" envDefault:"10000"`

	LogFile  string `env:"ROUTEGUIDE_LOG_FILE"`
	LogLevel string `env:"ROUTEGUIDE_LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = StoreKind(strings.ToLower(strings.TrimSpace(string(cfg.Store))))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("ROUTEGUIDE_DB_DSN is required for store %q", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.PollInterval <= 0 || c.PageDataPollInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if c.PushPongWait <= 0 {
		return fmt.Errorf("ROUTEGUIDE_PUSH_PONG_WAIT must be positive")
	}
	if c.MaxPathCells <= 0 {
		return fmt.Errorf("ROUTEGUIDE_MAX_PATH_CELLS must be positive, got %d", c.MaxPathCells)
	}
	return nil
}
