package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	multierror "github.com/hashicorp/go-multierror"
	"gopkg.in/ini.v1"
)

const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
)

// Config holds the settings shared by every command.
type Config struct {
	BaseURL         string        `ini:"base_url" env:"BASE_URL"`
	Timeout         time.Duration `ini:"timeout" env:"TIMEOUT"`
	CredentialsFile string        `ini:"credentials_file" env:"CREDENTIALS_FILE"`
	// Token, when set, is used for requests instead of the credentials file
	// and is never written back.
	Token       string `ini:"token" env:"TOKEN"`
	LogFile     string `ini:"log_file" env:"LOG_FILE"`
	Debug       bool   `ini:"debug" env:"DEBUG"`
	Concurrency int    `ini:"concurrency" env:"CONCURRENCY"`
}

// DefaultConfigFile is ~/.usermgr/config.ini.
func DefaultConfigFile() string {
	return filepath.Join(homeDir(), ".usermgr", "config.ini")
}

func defaultCredentialsFile() string {
	return filepath.Join(homeDir(), ".usermgr", "credentials")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load reads path (a missing file is fine), applies USERMGR_* environment
// overrides and fills defaults for anything still unset.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "USERMGR_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	for _, name := range []string{"api", "auth", "cli"} {
		if err := file.Section(name).MapTo(cfg); err != nil {
			return fmt.Errorf("failed to parse [%s] in %s: %w", name, path, err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = defaultCredentialsFile()
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		result = multierror.Append(result, fmt.Errorf("base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		result = multierror.Append(result, fmt.Errorf("base_url: scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		result = multierror.Append(result, errors.New("base_url: missing host"))
	}

	if c.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("timeout: must be positive, got %s", c.Timeout))
	}
	if c.Concurrency < 1 {
		result = multierror.Append(result, fmt.Errorf("concurrency: must be at least 1, got %d", c.Concurrency))
	}
	if c.CredentialsFile == "" {
		result = multierror.Append(result, errors.New("credentials_file: must not be empty"))
	}

	return result.ErrorOrNil()
}
