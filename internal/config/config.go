package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string   `mapstructure:"env"`      // current application environment (local, dev, production etc)
	HTTP     HTTP     `mapstructure:"http"`     // HTTP API section
	DB       DB       `mapstructure:"database"` // database configuration section
	Auth     Auth     `mapstructure:"auth"`     // bearer token verification
	Telegram Telegram `mapstructure:"telegram"` // companion bot section
	Game     Game     `mapstructure:"game"`     // gameplay rules
	Log      Log      `mapstructure:"log"`      // logger sinks
}

type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       float64       `mapstructure:"rate_limit"` // write requests per second per user, 0 disables
	RateBurst       int           `mapstructure:"rate_burst"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL              string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections   int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime  time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}
	return db.URL, nil
}

type Auth struct {
	JWTSecret string `mapstructure:"-"` // HMAC key loaded from environment
	Issuer    string `mapstructure:"issuer"`
}

type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIToken string `mapstructure:"-"` // Telegram API token loaded from environment
	Debug    bool   `mapstructure:"debug"`
}

type Game struct {
	AllowedTypes     []string `mapstructure:"allowed_types"`      // empty accepts any game type
	MistakesPageSize int      `mapstructure:"mistakes_page_size"` // 0 lists the whole queue
}

type Log struct {
	File       string `mapstructure:"file"` // empty disables the file sink
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads configuration from config files and environment variables.
// A .env file in the working directory, if present, is loaded first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return load(viper.New(), "./config")
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	// Initialize base config options.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.shutdown_timeout", "15s")
	v.SetDefault("http.rate_limit", 5)
	v.SetDefault("http.rate_burst", 10)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("database.statement_timeout", "5s")
	v.SetDefault("auth.issuer", "vocab-quest")
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("game.allowed_types", []string{})
	v.SetDefault("game.mistakes_page_size", 0)
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.DB.URL = v.GetString("database_url")
	cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	cfg.Telegram.APIToken = v.GetString("telegram_api_token")
	if cfg.Telegram.Enabled && cfg.Telegram.APIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	return &cfg, nil
}

// RequireJWTSecret fails when the HTTP API is about to start without a signing key.
func (c *Config) RequireJWTSecret() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingEnvironmentVariables)
	}
	return nil
}
