package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/cardmap/pkg/constants"
)

// Log formats.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config describes where and how verification logs are written.
type Config struct {
	Level     string         // trace, debug, info, warn, error or off
	Format    string         // auto, json or console
	Output    string         // stderr, stdout, discard or a file path
	NoColor   bool           // plain console output
	AddCaller bool           // include file:line
	Fields    map[string]any // attached to every event
}

// DefaultConfig returns info-level auto-format logging to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  FormatAuto,
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig builds a logger. A nil config means DefaultConfig.
// An output file that cannot be opened falls back to stderr.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(writerFor(openOutput(cfg.Output), cfg.Format, cfg.NoColor)).
		Level(level).
		With().
		Timestamp()
	if cfg.AddCaller {
		ctx = ctx.Caller()
	}
	for k, v := range cfg.Fields {
		ctx = addField(ctx, k, v)
	}
	return ctx.Logger()
}

// Configure replaces the default logger.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// ParseLevel maps a level name to a zerolog level. Unknown names are info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none", "disabled":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

func openOutput(output string) io.Writer {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr
	}
	return f
}

// writerFor wraps out in a console writer for console format, or for auto
// format when out is a terminal.
func writerFor(out io.Writer, format string, noColor bool) io.Writer {
	switch strings.ToLower(format) {
	case FormatConsole, "pretty":
	case "", FormatAuto:
		if !Terminal(out) {
			return out
		}
	default:
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: noColor}
}

func addField(ctx zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return ctx.Str(key, v)
	case int:
		return ctx.Int(key, v)
	case bool:
		return ctx.Bool(key, v)
	case error:
		if key == "error" || key == "err" {
			return ctx.Err(v)
		}
		return ctx.Str(key, v.Error())
	default:
		return ctx.Interface(key, v)
	}
}
