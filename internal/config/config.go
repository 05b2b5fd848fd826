// Package config holds the process-wide navdash configuration.
//
// Values are resolved once at startup, each source overriding the previous one:
// defaults, the YAML config file, the environment (optionally fed by a .env file) and
// finally the command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/etnz/navdash/store"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables, also passed to extensions.
const (
	EnvAuthURL        = "NAVDASH_AUTH_URL"
	EnvAPIURL         = "NAVDASH_API_URL"
	EnvDashboardRoute = "NAVDASH_DASHBOARD_ROUTE"
	EnvCurrency       = "NAVDASH_CURRENCY"
	EnvTokenKey       = "NAVDASH_TOKEN_KEY"
	EnvTokenPath      = "NAVDASH_TOKEN_PATH"
	EnvStore          = "NAVDASH_STORE"
	EnvTimeout        = "NAVDASH_TIMEOUT"
	EnvLogLevel       = "NAVDASH_LOG_LEVEL"
)

// Config holds all navdash settings.
type Config struct {
	// Endpoints
	AuthURL string `yaml:"auth_url"` // base URL of the authentication service
	APIURL  string `yaml:"api_url"`  // base URL of the portfolio API

	DashboardRoute string `yaml:"dashboard_route"` // route navigated to after login
	Currency       string `yaml:"currency"`        // currency used to display values

	// Session
	TokenKey  string `yaml:"token_key"`  // store key of the session token
	TokenPath string `yaml:"token_path"` // json path of the token in the login response
	StorePath string `yaml:"store_path"`

	// Timeout bounds every HTTP request, 0 means no timeout.
	Timeout time.Duration `yaml:"timeout"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		AuthURL:        "http://localhost:8080",
		APIURL:         "http://localhost:8080",
		DashboardRoute: "/dashboard",
		Currency:       "USD",
		TokenKey:       "token",
		TokenPath:      "$.token",
		StorePath:      store.DefaultPath(),
		LogLevel:       "warn",
	}
}

// DefaultFile returns the default config file location.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "navdash.yaml"
	}
	return filepath.Join(dir, "navdash", "config.yaml")
}

// Load resolves the configuration from the defaults, the YAML file at path and the
// environment. A missing file is not an error. dotenv files are loaded into the
// environment first, without overriding variables already set.
func Load(path string, dotenv ...string) (*Config, error) {
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot load env file %q: %w", f, err)
		}
	}

	c := Default()
	if path != "" {
		if err := c.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("cannot decode config file %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		EnvAuthURL:        &c.AuthURL,
		EnvAPIURL:         &c.APIURL,
		EnvDashboardRoute: &c.DashboardRoute,
		EnvCurrency:       &c.Currency,
		EnvTokenKey:       &c.TokenKey,
		EnvTokenPath:      &c.TokenPath,
		EnvStore:          &c.StorePath,
		EnvLogLevel:       &c.LogLevel,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	var errs error
	for name, raw := range map[string]string{"auth_url": c.AuthURL, "api_url": c.APIURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = errors.Join(errs, fmt.Errorf("%s must be an absolute URL, got %q", name, raw))
		}
	}
	if money.GetCurrency(c.Currency) == nil {
		errs = errors.Join(errs, fmt.Errorf("unknown currency %q", c.Currency))
	}
	if c.TokenKey == "" {
		errs = errors.Join(errs, errors.New("token_key must not be empty"))
	}
	if c.StorePath == "" {
		errs = errors.Join(errs, errors.New("store_path must not be empty"))
	}
	if c.Timeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("timeout must not be negative, got %v", c.Timeout))
	}
	return errs
}

// Environ returns the configuration as environment variables, in the KEY=VALUE form.
func (c *Config) Environ() []string {
	return []string{
		EnvAuthURL + "=" + c.AuthURL,
		EnvAPIURL + "=" + c.APIURL,
		EnvDashboardRoute + "=" + c.DashboardRoute,
		EnvCurrency + "=" + c.Currency,
		EnvTokenKey + "=" + c.TokenKey,
		EnvTokenPath + "=" + c.TokenPath,
		EnvStore + "=" + c.StorePath,
		EnvTimeout + "=" + c.Timeout.String(),
		EnvLogLevel + "=" + c.LogLevel,
	}
}
