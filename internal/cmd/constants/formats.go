// Package constants provides shared constants for CLI commands.
package constants

// Output format constants used throughout the CLI.
const (
	// FormatText is the plain-text report, the default on terminals.
	FormatText = "text"

	// FormatTable renders results as a table.
	FormatTable = "table"

	// FormatWide is an extended table format with more columns.
	FormatWide = "wide"

	// FormatJSON outputs data as JSON.
	FormatJSON = "json"

	// FormatYAML outputs data as YAML.
	FormatYAML = "yaml"

	// FormatMarkdown outputs as markdown table.
	FormatMarkdown = "markdown"
)
