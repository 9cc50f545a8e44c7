// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted by Config.StorageBackend.
const (
	BackendMemory = "memory"
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config holds every runtime setting of the service.
type Config struct {
	Addr           string        `env:"SUPERMARKET_ADDR" envDefault:":8081"`
	StorageBackend string        `env:"SUPERMARKET_STORAGE_BACKEND" envDefault:"csv"`
	DataDir        string        `env:"SUPERMARKET_DATA_DIR" envDefault:"data"`
	SQLitePath     string        `env:"SUPERMARKET_SQLITE_PATH" envDefault:"data/supermarket.db"`
	UsersFile      string        `env:"SUPERMARKET_USERS_FILE" envDefault:"users.json"`
	JWTSecret      string        `env:"SUPERMARKET_JWT_SECRET,required"`
	TokenTTL       time.Duration `env:"SUPERMARKET_TOKEN_TTL" envDefault:"8h"`
	LowStockQty    int           `env:"SUPERMARKET_LOW_STOCK_QTY" envDefault:"5"`
	ExpiryDays     int           `env:"SUPERMARKET_EXPIRY_DAYS" envDefault:"7"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StorageBackend {
	case BackendMemory, BackendCSV, BackendSQLite:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	return cfg, nil
}
