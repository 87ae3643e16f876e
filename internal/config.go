package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"http_server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Keepalive KeepaliveConfig `mapstructure:"keepalive"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	// Driver is "postgres" for the hosted database or "sqlite" for a local
	// development file.
	Driver        string        `mapstructure:"driver"`
	Source        string        `mapstructure:"source"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	MaxIdleConns  int           `mapstructure:"max_idle_conns"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	Lifetime     time.Duration `mapstructure:"lifetime"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type KeepaliveConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Platform      string        `mapstructure:"platform"`
	Interval      time.Duration `mapstructure:"interval"`
	SelfWakeupURL string        `mapstructure:"self_wakeup_url"`
	WakeupKey     string        `mapstructure:"wakeup_key"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

const DefaultSessionSecret = "manufacturer-system-secret-key-2024"

// LoadConfigFromEnv builds the configuration purely from environment
// variables, preserving the variable names of earlier deployments:
// DATABASE_URL, SECRET_KEY, SESSION_LIFETIME, PLATFORM, WAKEUP_INTERVAL,
// WAKEUP_KEY, SELF_WAKEUP_URL, HOST and PORT.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              getEnv("HOST", "0.0.0.0"),
			Port:              getEnvAsInt("PORT", 10000),
			BaseURL:           getEnv("BASE_URL", ""),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:        getEnv("DB_DRIVER", "postgres"),
			Source:        getEnv("DATABASE_URL", ""),
			MaxOpenConns:  getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:  getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			RetryAttempts: getEnvAsInt("DB_RETRY_ATTEMPTS", 3),
			RetryDelay:    time.Duration(getEnvAsInt("DB_RETRY_DELAY", 5)) * time.Second,
		},
		Session: SessionConfig{
			Secret:       getEnv("SECRET_KEY", DefaultSessionSecret),
			Lifetime:     time.Duration(getEnvAsInt("SESSION_LIFETIME", 1800)) * time.Second,
			CookieName:   getEnv("SESSION_COOKIE_NAME", "session"),
			CookieSecure: getEnv("SESSION_COOKIE_SECURE", "true") == "true",
		},
		Keepalive: KeepaliveConfig{
			Enabled:       getEnv("KEEPALIVE_ENABLED", "true") == "true",
			Platform:      strings.ToLower(getEnv("PLATFORM", "unknown")),
			Interval:      time.Duration(getEnvAsInt("WAKEUP_INTERVAL", 300)) * time.Second,
			SelfWakeupURL: getEnv("SELF_WAKEUP_URL", ""),
			WakeupKey:     getEnv("WAKEUP_KEY", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("session config: %v", err))
	}

	if err := c.Keepalive.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("keepalive config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	if c.RetryAttempts < 1 {
		return errors.New("retry_attempts must be at least 1")
	}
	return nil
}

func (c *SessionConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.Lifetime <= 0 {
		return errors.New("lifetime must be positive")
	}
	return nil
}

func (c *KeepaliveConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Interval <= 0 {
		return errors.New("interval must be positive when keepalive is enabled")
	}
	return nil
}
