package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/cardmap/pkg/errors"
)

// WithStampField sets the field that receives the verification stamp.
func WithStampField(field string) Option {
	return func(r *reconciler) error {
		if field == "" {
			return errors.NewValidationError("stamp_field", field, "must not be empty")
		}
		r.stampField = field
		return nil
	}
}

// WithStamp sets the value written to every touched record. Without it no
// stamp is written.
func WithStamp(stamp any) Option {
	return func(r *reconciler) error {
		r.stamp = stamp
		return nil
	}
}

// WithLabelField names the record field used to label changes in reports.
// Records without it are labelled by identifier.
func WithLabelField(field string) Option {
	return func(r *reconciler) error {
		r.labelField = field
		return nil
	}
}

// WithLogger sets the logger. By default the logger is taken from the
// context passed to each call.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *reconciler) error {
		r.logger = logger
		return nil
	}
}
