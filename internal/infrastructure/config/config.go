// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port            string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string

	// Journal
	Persist bool
	DataDir string

	// Delete confirmations
	DeleteConfirmTTL    time.Duration
	DeleteSweepInterval time.Duration

	// AMQP, disabled when the URL is empty
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// Load reads an optional .env file and then the environment.
// A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment and the defaults
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		Persist: getEnvBool("LEDGER_PERSIST", false),
		DataDir: getEnv("LEDGER_DATA_DIR", "./data"),

		DeleteConfirmTTL:    getEnvDuration("DELETE_CONFIRM_TTL", 2*time.Minute),
		DeleteSweepInterval: getEnvDuration("DELETE_SWEEP_INTERVAL", time.Minute),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "ledger"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "ledger.events"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR", "FATAL":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of DEBUG, INFO, WARN, ERROR, FATAL", c.LogLevel))
	}

	if c.Persist && c.DataDir == "" {
		problems = append(problems, "data directory cannot be empty when persistence is enabled")
	}

	if c.DeleteConfirmTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid delete confirmation TTL %v: must be at least 1 second", c.DeleteConfirmTTL))
	}

	if c.DeleteSweepInterval < time.Second {
		problems = append(problems, fmt.Sprintf("invalid delete sweep interval %v: must be at least 1 second", c.DeleteSweepInterval))
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			problems = append(problems, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
