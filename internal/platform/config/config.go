package config

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// Persistence
	DataBackend  string
	DatabaseURL  string
	SQLiteDBPath string

	// Exchange rates
	RateAPIBaseURL      string
	RateFetchTimeout    time.Duration
	RateRefreshInterval time.Duration
	ResetCheckInterval  time.Duration
	RateCacheTTL        time.Duration
	RedisAddr           string
	RedisPassword       string

	// Events
	AMQPURL       string
	AMQPExchange  string
	PosthogAPIKey string

	// Calendar dates (billing reset, month filter) are computed in this zone.
	Timezone string
	Location *time.Location

	CORSAllowedOrigins []string
	RateLimit          string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DATA_BACKEND", BackendPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_DB_PATH", "./data/budget.db")
	v.SetDefault("RATE_API_BASE_URL", "https://api.exchangerate-api.com/v4")
	v.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	v.SetDefault("RATE_REFRESH_INTERVAL", "1h")
	v.SetDefault("RESET_CHECK_INTERVAL", "1h")
	v.SetDefault("RATE_CACHE_TTL", "30m")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "budget_tracker")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "100-M")

	// Environment variables override the defaults above.
	v.AutomaticEnv()

	cfg := &Config{
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		EnableDBCheck: v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		DataBackend:   strings.ToLower(v.GetString("DATA_BACKEND")),
		DatabaseURL:   v.GetString("PGSQL_URL"),
		SQLiteDBPath:  v.GetString("SQLITE_DB_PATH"),

		RateAPIBaseURL:      v.GetString("RATE_API_BASE_URL"),
		RateFetchTimeout:    durationOrDefault(v, "RATE_FETCH_TIMEOUT", 10*time.Second),
		RateRefreshInterval: durationOrDefault(v, "RATE_REFRESH_INTERVAL", time.Hour),
		ResetCheckInterval:  durationOrDefault(v, "RESET_CHECK_INTERVAL", time.Hour),
		RateCacheTTL:        durationOrDefault(v, "RATE_CACHE_TTL", 30*time.Minute),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),

		AMQPURL:       v.GetString("AMQP_URL"),
		AMQPExchange:  v.GetString("AMQP_EXCHANGE"),
		PosthogAPIKey: v.GetString("POSTHOG_API_KEY"),

		Timezone:  v.GetString("TIMEZONE"),
		RateLimit: v.GetString("RATE_LIMIT"),
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: Invalid value for TIMEZONE ('%s'). Defaulting to UTC.\n", cfg.Timezone)
		cfg.Timezone = "UTC"
		loc = time.UTC
	}
	cfg.Location = loc

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.DataBackend == BackendPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	return cfg, nil
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "PGSQL_URL is required when using the postgres backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendPostgres, BackendSQLite))
	}

	if c.RateAPIBaseURL != "" {
		if u, err := url.Parse(c.RateAPIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid RATE_API_BASE_URL '%s': must be an http(s) URL", c.RateAPIBaseURL))
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateRefreshInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid rate refresh interval %v: must be at least 1 minute", c.RateRefreshInterval))
	}
	if c.ResetCheckInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid reset check interval %v: must be at least 1 minute", c.ResetCheckInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
