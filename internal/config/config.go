package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	CORS   CORSConfig   `koanf:"cors"`
	App    AppConfig    `koanf:"app"`
	Jobs   JobsConfig   `koanf:"jobs"`
	Seed   SeedConfig   `koanf:"seed"`
	MCP    MCPConfig    `koanf:"mcp"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type AppConfig struct {
	Timezone string `koanf:"timezone"` // IANA name or "Local"
}

type JobsConfig struct {
	StatsSchedule string `koanf:"stats_schedule"` // cron spec, empty disables the report
}

type SeedConfig struct {
	Count int `koanf:"count"` // fake reminders generated at startup
}

type MCPConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load builds the configuration from defaults, an optional YAML file and
// REMINDERS_* environment variables, in that order of precedence. A .env file
// in the working directory is loaded first if present. Nested keys use a
// double underscore: REMINDERS_SERVER__ADDR sets server.addr.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf(".env not loaded: %v", err)
	}

	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath == "" {
		configPath = os.Getenv(EnvPrefix + "CONFIG")
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// A comma separated env value arrives as a single string.
	if raw, ok := k.Get("cors.allowed_origins").(string); ok {
		k.Set("cors.allowed_origins", strings.Split(raw, ","))
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("server.read_header_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Jobs.StatsSchedule != "" {
		if _, err := cron.ParseStandard(c.Jobs.StatsSchedule); err != nil {
			return fmt.Errorf("jobs.stats_schedule: %w", err)
		}
	}
	if c.Seed.Count < 0 {
		return fmt.Errorf("seed.count must not be negative")
	}
	return nil
}

// Location resolves app.timezone. Reminder dates and times are interpreted in it.
func (c *Config) Location() (*time.Location, error) {
	switch c.App.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}
