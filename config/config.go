// Package config gathers client settings from an optional env file and the
// environment. Command line flags are applied by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/miku/orcidkit"
	"github.com/miku/orcidkit/orcid"
)

// Environment variables consulted by Load.
const (
	EnvBaseURL    = "ORCID_API_URL"
	EnvToken      = "ORCID_TOKEN"
	EnvUserAgent  = "ORCIDKIT_USER_AGENT"
	EnvTimeout    = "ORCIDKIT_TIMEOUT"
	EnvMaxRetries = "ORCIDKIT_MAX_RETRIES"
	EnvWorkers    = "ORCIDKIT_WORKERS"
	EnvLogLevel   = "ORCIDKIT_LOG_LEVEL"
)

// Config for the registry client and the batch commands.
type Config struct {
	// BaseURL of the registry API, without trailing slash.
	BaseURL string
	// Token is optional; with a token, raw records are kept in profiles.
	Token     string
	UserAgent string
	// Timeout for a single record fetch.
	Timeout    time.Duration
	MaxRetries int
	Workers    int
	LogLevel   string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL:    orcid.DefaultBaseURL,
		UserAgent:  fmt.Sprintf("%s/%s", orcidkit.AppName, orcidkit.Version),
		Timeout:    orcid.DefaultTimeout,
		MaxRetries: 3,
		Workers:    runtime.NumCPU(),
		LogLevel:   "info",
	}
}

// DefaultEnvFile is the env file read by Load, usually
// ~/.config/orcidkit/env.
func DefaultEnvFile() string {
	return filepath.Join(xdg.ConfigHome, orcidkit.AppName, "env")
}

// Load reads DefaultEnvFile, if it exists, and the environment.
func Load() (*Config, error) {
	return LoadFile(DefaultEnvFile())
}

// LoadFile starts from the defaults, applies values from the env file
// filename and then from the environment, which takes precedence. A missing
// file is not an error.
func LoadFile(filename string) (*Config, error) {
	file, err := godotenv.Read(filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", filename, err)
		}
		file = map[string]string{}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
	c := Default()
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvToken); ok {
		c.Token = v
	}
	if v, ok := lookup(EnvUserAgent); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: invalid %s: %q", EnvTimeout, v)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvMaxRetries); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("config: invalid %s: %q", EnvMaxRetries, v)
		}
		c.MaxRetries = n
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("config: invalid %s: %q", EnvWorkers, v)
		}
		c.Workers = n
	}
	return c, nil
}

// Client returns a registry client for this configuration.
func (c *Config) Client() *orcid.Client {
	return &orcid.Client{
		Doer:      orcid.NewRetryClient(c.MaxRetries, c.Timeout),
		BaseURL:   c.BaseURL,
		Token:     c.Token,
		UserAgent: c.UserAgent,
	}
}
