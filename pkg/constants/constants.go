// Package constants holds the defaults shared by the cardmap packages:
// permissions, document field names, date layouts and card valuation
// figures.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Document defaults
const (
	// DefaultCollectionField is the root key holding the record array
	DefaultCollectionField = "cards"

	// DefaultKeyField identifies records when a table declares no key
	DefaultKeyField = "id"

	// DefaultKeySeparator joins composite key fields into one identifier
	DefaultKeySeparator = "|"

	// DefaultStampField receives the verification stamp on touched records
	DefaultStampField = "lastVerified"

	// DefaultIndent is the JSON indentation used when writing documents
	DefaultIndent = "  "
)

// Report defaults
const (
	// MaxValueWidth truncates rendered values in change reports
	MaxValueWidth = 80

	// ChangeArrow separates old and new values in change lines
	ChangeArrow = "→"
)

// Format constants
const (
	// DateFormat is the layout of verification stamps
	DateFormat = "2006-01-02"

	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339
)

// Card database constants
const (
	// USDToCAD is the rough conversion used for point valuations
	USDToCAD = 1.35

	// DefaultForeignTransactionFee applies unless a card waives it
	DefaultForeignTransactionFee = 0.025

	// DefaultBonusMonths is assumed when a signup bonus omits its window
	DefaultBonusMonths = 3

	// DaysPerMonth converts bonus windows to days
	DaysPerMonth = 30
)

// Config file
const (
	// ConfigFileName is the base name of the config file searched in $HOME and cwd
	ConfigFileName = ".cardmap"
)
