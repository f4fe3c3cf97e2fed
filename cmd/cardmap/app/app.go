// Package app wires configuration, logging and commands for the cardmap CLI.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/cardmap"
	"github.com/agentstation/cardmap/cmd/application"
	"github.com/agentstation/cardmap/pkg/errors"
)

// App represents the cardmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config       *Config
	logger       *zerolog.Logger
	customLogger bool // Set by WithLogger; kept across flag parsing
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Quiet reports whether --quiet is in effect.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// Overrides returns the configured override tables.
func (a *App) Overrides() []string {
	return a.config.Overrides
}

// Verifier creates a verifier from the configuration. opts are applied
// last.
func (a *App) Verifier(opts ...cardmap.Option) (*cardmap.Verifier, error) {
	base := []cardmap.Option{
		cardmap.WithLogger(a.logger),
		cardmap.WithDate(a.config.VerificationDate),
		cardmap.WithDryRun(a.config.DryRun),
		cardmap.WithBaseDir(a.config.BaseDir),
	}
	return cardmap.NewVerifier(append(base, opts...)...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.customLogger = true
		return nil
	}
}
