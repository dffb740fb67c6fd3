package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

//Config represents options given in the environment
type Config struct {
	BackendURL string //base URL of the twin backend; default: http://localhost:8000

	ListenAddr string //addr format used for net.Listen; default: 127.0.0.1:8080
	Prefix     string //url prefix to mount api to without trailing slash

	AllowedOrigins []string //comma separated browser origins for the panel API; default: http://localhost:3000

	StatusRefresh time.Duration //status refresh interval; default: 0 (fetch once at startup)

	Environment string //development or production; default: development
	Debug       bool
	LogFile     string //write logs here instead of stderr
}

//IsProduction reports whether the client runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

//loadConfig reads Config from the environment, after loading .env outside of production
func loadConfig() (*Config, error) {
	if os.Getenv("TWIN_ENVIRONMENT") != "production" {
		//.env is optional
		_ = godotenv.Load()
	}

	config := &Config{}
	if err := envconfig.Process("TWIN", config); err != nil {
		return nil, fmt.Errorf("Error reading configuration from environment: %w", err)
	}

	if config.BackendURL == "" {
		config.BackendURL = "http://localhost:8000"
	}
	if config.ListenAddr == "" {
		config.ListenAddr = "127.0.0.1:8080"
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	return config, nil
}

//validate checks options that can be overridden by flags after loading
func (c *Config) validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("TWIN_BACKENDURL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("TWIN_BACKENDURL must be an http or https URL, got %q", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("TWIN_BACKENDURL must include a host, got %q", c.BackendURL)
	}

	if c.Prefix != "" && (!strings.HasPrefix(c.Prefix, "/") || strings.HasSuffix(c.Prefix, "/")) {
		return fmt.Errorf("TWIN_PREFIX must start with / and have no trailing slash, got %q", c.Prefix)
	}

	if c.StatusRefresh < 0 {
		return fmt.Errorf("TWIN_STATUSREFRESH must not be negative, got %s", c.StatusRefresh)
	}

	return nil
}
