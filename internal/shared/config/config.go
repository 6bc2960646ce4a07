package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type DatabaseOptions struct {
	Driver           string `env:"DB_DRIVER" envDefault:"postgres"`
	User             string `env:"DB_USER"`
	Password         string `env:"DB_PASSWORD"`
	ConnectionString string `env:"DB_CONNECTION_STRING" envDefault:"localhost:5432/postgres"`
	SSLMode          string `env:"DB_SSLMODE" envDefault:"disable"`
	LogLevel         string `env:"DB_LOG_LEVEL" envDefault:"warn"`
	// ConnectTimeout bounds dialing the database server. It has to stay
	// below HTTP.WriteTimeout so an unreachable database still yields a 500.
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
}

type HTTPOptions struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type KafkaOptions struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"hr.employee.lifecycle.v1"`
}

type RedisOptions struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" envDefault:"0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

type MetricsOptions struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// Config is read once at startup and treated as immutable afterwards.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Database DatabaseOptions
	HTTP     HTTPOptions
	Kafka    KafkaOptions
	Redis    RedisOptions
	Metrics  MetricsOptions
}

// Load reads the given env files (missing ones are skipped) and then the
// process environment. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be one of postgres, mysql, sqlite, got %q", c.Database.Driver)
	}
	if c.HTTP.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.HTTP.WriteTimeout > 0 && c.Database.ConnectTimeout >= c.HTTP.WriteTimeout {
		return fmt.Errorf("DB_CONNECT_TIMEOUT (%s) must be shorter than HTTP_WRITE_TIMEOUT (%s)",
			c.Database.ConnectTimeout, c.HTTP.WriteTimeout)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == Production
}
