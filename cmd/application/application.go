// Package application provides the application interface for cardmap commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with application.Mock from internal/cmd/application:
//
//	mock := &application.Mock{
//	    OverridesFunc: func() []string { return []string{"testdata/extended.yaml"} },
//	}
//	cmd := verify.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/cardmap"
)

// Application provides the application interface that commands need.
type Application interface {
	// Verifier returns a verifier configured from the application config.
	// Options passed here are applied after the configured ones, so command
	// flags win.
	Verifier(opts ...cardmap.Option) (*cardmap.Verifier, error)

	// Overrides returns the configured override table paths, used when a
	// command is given none.
	Overrides() []string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (text, json, yaml, table, ...).
	OutputFormat() string

	// Quiet reports whether output should be kept minimal.
	Quiet() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
