// Package save writes documents and reports to files or writers.
package save

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/cardmap/pkg/constants"
)

// Format is an output encoding.
type Format int

// Format constants.
const (
	FormatJSON Format = iota
	FormatYAML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// ParseFormat maps "json", "yaml" or "yml" to a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return FormatJSON, false
}

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	if f, ok := ParseFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")); ok {
		return f
	}
	return FormatJSON
}

// Options is the configuration for save.
type Options struct {
	path   string
	writer io.Writer
	format Format
	perm   os.FileMode
	indent string
}

// Path returns the path for the save options.
func (s *Options) Path() string {
	return s.path
}

// Writer returns the writer for the save options.
func (s *Options) Writer() io.Writer {
	return s.writer
}

// Perm returns the permissions for newly created files.
func (s *Options) Perm() os.FileMode {
	return s.perm
}

// Indent returns the JSON indentation.
func (s *Options) Indent() string {
	return s.indent
}

// Format returns the format for the save options.
func (s *Options) Format() Format {
	return s.format
}

// Defaults returns the default save options.
func Defaults() *Options {
	return &Options{
		path:   "",
		writer: nil,
		format: FormatJSON,
		perm:   constants.FilePermissions,
		indent: constants.DefaultIndent,
	}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithFormat for custom output format.
func WithFormat(f Format) Option {
	return func(s *Options) {
		s.format = f
	}
}

// WithPath for filesystem saves.
func WithPath(path string) Option {
	return func(s *Options) {
		s.path = path
	}
}

// WithWriter for custom outputs.
func WithWriter(w io.Writer) Option {
	return func(s *Options) {
		s.writer = w
	}
}

// WithPerm sets the permissions for newly created files.
func WithPerm(perm os.FileMode) Option {
	return func(s *Options) {
		s.perm = perm
	}
}

// WithIndent sets the JSON indentation. An empty indent writes one line.
func WithIndent(indent string) Option {
	return func(s *Options) {
		s.indent = indent
	}
}
