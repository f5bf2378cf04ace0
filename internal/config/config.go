package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"todo-backend/internal/auth"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Driver names the database backend selected by database.url.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		URL string
	}
	Auth struct {
		Secret        string
		TokenTTLHours int
	}
	CORS struct {
		Origins []string
	}
	Log struct {
		Level string
	}
	Environment string
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file, then validates it.
func Load() (Config, error) {
	// variables already in the environment win over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.url", "")
	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.tokenttlhours", 24)
	v.SetDefault("cors.origins", []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
	})
	v.SetDefault("log.level", "info")

	// unprefixed names used by existing deployments
	_ = v.BindEnv("database.url", "TODO_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("environment", "TODO_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("auth.secret", "TODO_AUTH_SECRET", "BETTER_AUTH_SECRET")
	_ = v.BindEnv("log.level", "TODO_LOG_LEVEL", "LOG_LEVEL")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.Database.URL = strings.TrimSpace(c.Database.URL)

	origins := c.CORS.Origins[:0]
	for _, o := range c.CORS.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.Origins = origins
}

// Validate fails fast on settings the server cannot start with.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	if _, _, err := c.DatabaseDriver(); err != nil {
		return err
	}
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}
	if len(c.Auth.Secret) < auth.MinSecretLength {
		return fmt.Errorf("auth secret must be at least %d characters (BETTER_AUTH_SECRET)", auth.MinSecretLength)
	}
	if c.Auth.TokenTTLHours <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// DatabaseDriver splits database.url into a driver and the DSN that driver
// expects. sqlite URLs carry a file path: "sqlite:///data/todo.db" and
// "sqlite:data/todo.db" both name data/todo.db relative to the working dir.
func (c Config) DatabaseDriver() (Driver, string, error) {
	url := c.Database.URL
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite:"):
		path := strings.TrimPrefix(url, "sqlite:")
		if strings.HasPrefix(path, "///") {
			path = path[3:]
		} else {
			path = strings.TrimPrefix(path, "//")
		}
		if path == "" {
			return "", "", errors.New("sqlite database url has no path")
		}
		return DriverSQLite, path, nil
	}
	return "", "", fmt.Errorf("unsupported database url scheme: %q", url)
}
