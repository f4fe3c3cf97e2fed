package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithField returns a context whose logger carries key=value.
func WithField(ctx context.Context, key string, value any) context.Context {
	logger := addField(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithTable tags events with the override table name.
func WithTable(ctx context.Context, table string) context.Context {
	return WithField(ctx, "table", table)
}

// WithDocument tags events with the document path.
func WithDocument(ctx context.Context, path string) context.Context {
	return WithField(ctx, "document", path)
}

// WithRecord tags events with a record id.
func WithRecord(ctx context.Context, id string) context.Context {
	return WithField(ctx, "record", id)
}

// WithError tags events with err. A nil err returns ctx unchanged.
func WithError(ctx context.Context, err error) context.Context {
	if err == nil {
		return ctx
	}
	return WithField(ctx, "error", err)
}

// FieldChanged logs a single field assignment at debug level.
func FieldChanged(logger *zerolog.Logger, record, field, before, after string) {
	logger.Debug().
		Str("record", record).
		Str("field", field).
		Str("old", before).
		Str("new", after).
		Msg("field changed")
}
