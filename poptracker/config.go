package poptracker

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/database"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// LoadConfig reads the TOML file at path, loads a .env file from the working
// directory if present, applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: slog.LevelInfo, Color: true},
		DB: database.DBConfig{
			Host:     "localhost",
			Port:     5432,
			PoolSize: 10,
		},
		Store: StoreConfig{
			Backend: StoreBackendPostgres,
			Timeout: Duration(config.DefaultQueryTimeout),
		},
		Health: HealthConfig{
			Addr:          ":8080",
			CheckInterval: Duration(config.HealthCheckInterval),
		},
	}
}

type Config struct {
	Log     LogConfig         `toml:"log" envPrefix:"POP_LOG_"`
	Bot     BotConfig         `toml:"bot"`
	DB      database.DBConfig `toml:"db" envPrefix:"POP_DB_"`
	Store   StoreConfig       `toml:"store" envPrefix:"POP_STORE_"`
	Health  HealthConfig      `toml:"health" envPrefix:"POP_HEALTH_"`
	Catalog CatalogConfig     `toml:"catalog" envPrefix:"POP_CATALOG_"`
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Store),
		validation.Field(&c.Health),
	); err != nil {
		return err
	}
	if c.Store.Backend == StoreBackendPostgres {
		return validation.ValidateStruct(&c.DB,
			validation.Field(&c.DB.Host, validation.Required),
			validation.Field(&c.DB.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			validation.Field(&c.DB.User, validation.Required),
			validation.Field(&c.DB.Database, validation.Required),
			validation.Field(&c.DB.PoolSize, validation.Min(0)),
		)
	}
	return nil
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token" env:"DISCORD_TOKEN"`
}

// Validate is only needed by commands that open the gateway.
func (c BotConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Token, validation.Required),
	)
}

type LogConfig struct {
	Level slog.Level `toml:"level" env:"LEVEL"`
	Color bool       `toml:"color" env:"COLOR"`
}

type StoreConfig struct {
	Backend string   `toml:"backend" env:"BACKEND"`
	Timeout Duration `toml:"timeout" env:"TIMEOUT"`
}

func (c StoreConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(StoreBackendPostgres, StoreBackendMemory)),
		validation.Field(&c.Timeout, validation.Required),
	)
}

type HealthConfig struct {
	// Addr is the listen address of the health server; empty disables it.
	Addr          string   `toml:"addr" env:"ADDR"`
	CheckInterval Duration `toml:"check_interval" env:"CHECK_INTERVAL"`
}

func (c HealthConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CheckInterval, validation.Required),
	)
}

type CatalogConfig struct {
	// Path of a TOML catalog; empty uses the built in Planes of Power flags.
	Path string `toml:"path" env:"PATH"`
}

// Duration is a time.Duration read from strings such as "10s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
