package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{"default level when no flags set", &Config{}, "info"},
		{"verbose flag sets debug", &Config{Verbose: true}, "debug"},
		{"quiet flag sets warn", &Config{Quiet: true}, "warn"},
		{"explicit log-level overrides verbose", &Config{LogLevel: "error", Verbose: true}, "error"},
		{"quiet wins over verbose", &Config{Verbose: true, Quiet: true}, "warn"},
		{"invalid log-level falls back to info", &Config{LogLevel: "loud"}, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, determineLogLevel(tt.config))
		})
	}
}
