// Package config lê a configuração do processo a partir de variáveis de ambiente
// (opcionalmente de um arquivo .env) e valida as combinações.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Drivers do tier assíncrono.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	LimitMaxPerWindow int           `env:"LIMIT_MAX_PER_WINDOW" envDefault:"15"`
	LimitWindow       time.Duration `env:"LIMIT_WINDOW" envDefault:"60s"`

	// IMPORTANTE: as estatísticas da fila vão para o Redis; sem REDIS_ADDR elas
	// ficam só em /metrics.
	LimitStatsEnabled bool          `env:"LIMIT_STATS_ENABLED" envDefault:"false"`
	LimitStatsPrefix  string        `env:"LIMIT_STATS_PREFIX" envDefault:"queue:stats"`
	LimitStatsTTL     time.Duration `env:"LIMIT_STATS_TTL" envDefault:"24h"`

	APIKey       string `env:"API_KEY"`
	ChatModel    string `env:"CHAT_MODEL"`
	ImageModel   string `env:"IMAGE_MODEL"`
	HistoryTurns int    `env:"HISTORY_TURNS" envDefault:"6"`

	SyncTierPath        string `env:"SYNC_TIER_PATH" envDefault:"planner.db"`
	AsyncTierDriver     string `env:"ASYNC_TIER_DRIVER" envDefault:"sqlite"`
	AsyncTierSQLitePath string `env:"ASYNC_TIER_SQLITE_PATH" envDefault:"planner-docs.sqlite"`
	AsyncWriteMax       int    `env:"ASYNC_WRITE_CONCURRENCY" envDefault:"4"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"planner:docs"`

	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	SeedFile    string `env:"SEED_FILE"`
}

// Load carrega dotenvPath (se existir; variáveis já definidas não são sobrescritas)
// e lê o ambiente do processo.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	return parse(env.Options{})
}

// FromMap lê a configuração de environ em vez do ambiente do processo.
func FromMap(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, err
	}
	cfg.AsyncTierDriver = strings.ToLower(strings.TrimSpace(cfg.AsyncTierDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.LimitMaxPerWindow <= 0 {
		return errors.New("LIMIT_MAX_PER_WINDOW must be > 0")
	}
	if c.LimitWindow <= 0 {
		return errors.New("LIMIT_WINDOW must be > 0")
	}
	if c.HistoryTurns <= 0 {
		return errors.New("HISTORY_TURNS must be > 0")
	}
	if c.AsyncWriteMax <= 0 {
		return errors.New("ASYNC_WRITE_CONCURRENCY must be > 0")
	}
	if strings.TrimSpace(c.SyncTierPath) == "" {
		return errors.New("SYNC_TIER_PATH is required")
	}

	switch c.AsyncTierDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.AsyncTierSQLitePath) == "" {
			return errors.New("ASYNC_TIER_SQLITE_PATH is required when ASYNC_TIER_DRIVER=sqlite")
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("REDIS_ADDR is required when ASYNC_TIER_DRIVER=redis")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("ASYNC_TIER_DRIVER must be one of sqlite, redis, memory (got %q)", c.AsyncTierDriver)
	}

	if c.LimitStatsEnabled && strings.TrimSpace(c.RedisAddr) == "" {
		return errors.New("REDIS_ADDR is required when LIMIT_STATS_ENABLED=true")
	}
	return nil
}

// NeedsRedis informa se algum componente usa o Redis.
func (c Config) NeedsRedis() bool {
	return c.AsyncTierDriver == DriverRedis || c.LimitStatsEnabled
}
