// Package cmd implements the navdash command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/navdash/client"
	"github.com/etnz/navdash/internal/config"
	"github.com/etnz/navdash/internal/logger"
	"github.com/etnz/navdash/store"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "session")
	c.Register(&homeCmd{}, "session")
	c.Register(&portfolioCmd{}, "portfolio")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", config.DefaultFile(), "Path to the YAML configuration file")
	envFile    = flag.String("env-file", ".env", "Path to a dotenv file loaded into the environment")
	authURL    = flag.String("auth-url", "", "Base URL of the authentication service, overrides "+config.EnvAuthURL)
	apiURL     = flag.String("api-url", "", "Base URL of the portfolio API, overrides "+config.EnvAPIURL)
	currency   = flag.String("currency", "", "Currency used to display values, overrides "+config.EnvCurrency)
	storePath  = flag.String("store", "", "Path to the local store holding the session token, overrides "+config.EnvStore)
	timeout    = flag.Duration("timeout", -1, "Timeout of each HTTP request, 0 for none, overrides "+config.EnvTimeout)
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides "+config.EnvLogLevel)
)

// LoadConfig resolves the configuration from all sources, command line flags last.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		return nil, err
	}
	override(&cfg.AuthURL, *authURL)
	override(&cfg.APIURL, *apiURL)
	override(&cfg.Currency, *currency)
	override(&cfg.StorePath, *storePath)
	override(&cfg.LogLevel, *logLevel)
	if *timeout >= 0 {
		cfg.Timeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

// app gathers what every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.File
	client *client.Client
}

// newApp loads the configuration and wires the store, the logger and the client.
func newApp() (*app, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: logger.Must(cfg.LogLevel),
		store:  store.Open(cfg.StorePath),
	}
	a.client, err = client.New(cfg.AuthURL, cfg.APIURL,
		client.WithLogger(a.logger),
		client.WithTimeout(cfg.Timeout),
		client.WithTokenPath(cfg.TokenPath),
		client.WithToken(a.token),
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// token returns the stored session token, empty if none.
func (a *app) token() string {
	t, err := a.store.Get(a.cfg.TokenKey)
	if err != nil {
		return ""
	}
	return t
}

// close flushes the logger.
func (a *app) close() { _ = a.logger.Sync() }

func failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
