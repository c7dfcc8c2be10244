package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting read from the environment (or a .env file).
type Config struct {
	Port          string
	DBDriver      string
	DatabaseURL   string
	SeedPath      string
	SeedOnStart   bool
	RedisAddr     string
	RedisPassword string
	RouteCacheTTL time.Duration
	ORSAPIKey     string
	ORSCountry    string
	Timezone      string
	LogLevel      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "data/app.db")
	v.SetDefault("SEED_PATH", "data/seeds/deliveries.json")
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("ROUTE_CACHE_TTL", "2m")
	v.SetDefault("ORS_API_KEY", "")
	v.SetDefault("ORS_COUNTRY", "CA")
	v.SetDefault("TIMEZONE", "America/Toronto")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads envFiles (missing files are ignored) and then the process
// environment, which takes precedence.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:          strings.TrimSpace(v.GetString("PORT")),
		DBDriver:      strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		SeedPath:      v.GetString("SEED_PATH"),
		SeedOnStart:   v.GetBool("SEED_ON_START"),
		RedisAddr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RouteCacheTTL: v.GetDuration("ROUTE_CACHE_TTL"),
		ORSAPIKey:     strings.TrimSpace(v.GetString("ORS_API_KEY")),
		ORSCountry:    v.GetString("ORS_COUNTRY"),
		Timezone:      v.GetString("TIMEZONE"),
		LogLevel:      v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("config: PORT is empty")
	}
	switch c.DBDriver {
	case "sqlite", "postgres", "pgx":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("config: DATABASE_URL is empty")
	}
	if c.RouteCacheTTL <= 0 {
		return fmt.Errorf("config: ROUTE_CACHE_TTL must be positive, got %s", c.RouteCacheTTL)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) CacheEnabled() bool     { return c.RedisAddr != "" }
func (c *Config) GeocodingEnabled() bool { return c.ORSAPIKey != "" }
