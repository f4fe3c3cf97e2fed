// Package application provides test doubles for the command application interface.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/cardmap"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	VerifierFunc     func(opts ...cardmap.Option) (*cardmap.Verifier, error)
	OverridesFunc    func() []string
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	QuietFunc        func() bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Verifier returns a verifier using the mock function or a default one
// built from opts.
func (m *Mock) Verifier(opts ...cardmap.Option) (*cardmap.Verifier, error) {
	if m.VerifierFunc != nil {
		return m.VerifierFunc(opts...)
	}
	return cardmap.NewVerifier(append([]cardmap.Option{cardmap.WithLogger(m.Logger())}, opts...)...)
}

// Overrides returns table paths using the mock function or nil.
func (m *Mock) Overrides() []string {
	if m.OverridesFunc != nil {
		return m.OverridesFunc()
	}
	return nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "text".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "text"
}

// Quiet returns quiet mode using the mock function or false.
func (m *Mock) Quiet() bool {
	if m.QuietFunc != nil {
		return m.QuietFunc()
	}
	return false
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns build date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
