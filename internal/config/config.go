// Package config builds the immutable client configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// DefaultBaseURL is the API root used when FWMON_API_URL is not set.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// envConfig is the environment layout read by Load.
type envConfig struct {
	APIURL      string `env:"FWMON_API_URL,default=http://localhost:8000/api/v1"`
	LogLevel    string `env:"FWMON_LOG_LEVEL,default=info"`
	Environment string `env:"FWMON_ENVIRONMENT,default=development"`
}

var validEnvs = map[string]bool{
	"development": true,
	"production":  true,
	"test":        true,
}

// Config holds the settings resolved once at startup. It is immutable after
// construction; accessors return copies.
type Config struct {
	baseURL     string
	logLevel    string
	environment string
	headers     map[string]string
}

// Option adjusts a Config during New.
type Option func(*Config)

// WithLogLevel sets the zerolog level name.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.logLevel = level
	}
}

// WithEnvironment sets the deployment environment name.
func WithEnvironment(environment string) Option {
	return func(c *Config) {
		c.environment = environment
	}
}

// WithDefaultHeader adds a header sent with every request.
func WithDefaultHeader(key, value string) Option {
	return func(c *Config) {
		c.headers[key] = value
	}
}

// New validates and returns a configuration for baseURL.
func New(baseURL string, opts ...Option) (*Config, error) {
	c := &Config{
		baseURL:     strings.TrimRight(baseURL, "/"),
		logLevel:    "info",
		environment: "development",
		headers:     map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return c, nil
}

// Load reads envFile (DefaultEnvFile when empty) if it exists, then builds the
// configuration from the environment. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var ec envConfig
	if _, err := env.UnmarshalFromEnviron(&ec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	return New(ec.APIURL, WithLogLevel(ec.LogLevel), WithEnvironment(ec.Environment))
}

func (c *Config) validate() error {
	if c.baseURL == "" {
		return errors.New("FWMON_API_URL cannot be empty")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL must start with http:// or https://, got %q", c.baseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("API URL %q has no host", c.baseURL)
	}
	if !validEnvs[c.environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: development, production, test", c.environment)
	}
	return nil
}

// GetBaseURL returns the API root without a trailing slash.
func (c *Config) GetBaseURL() string {
	return c.baseURL
}

// GetDefaultHeaders returns a copy of the headers sent with every request.
func (c *Config) GetDefaultHeaders() map[string]string {
	return maps.Clone(c.headers)
}

// LogLevel returns the configured zerolog level name.
func (c *Config) LogLevel() string {
	return c.logLevel
}

// Environment returns the deployment environment name.
func (c *Config) Environment() string {
	return c.environment
}
