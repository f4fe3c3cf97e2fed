package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/cardmap/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "collection",
			ID:       "cards",
		}
		assert.Equal(t, "collection with ID cards not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("document", "full.json")
		wrapped := fmt.Errorf("loading: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("document", "", "is required")
		assert.Equal(t, "validation failed for field document: is required", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty table"}
		assert.Equal(t, "validation failed: empty table", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapValidation("date", nil))
		err := pkgerrors.WrapValidation("date", errors.New("bad layout"))
		var vErr *pkgerrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "date", vErr.Field)
	})
}

func TestDuplicateIdentifierError(t *testing.T) {
	err := pkgerrors.NewDuplicateIdentifierError("extended.json", []string{"td-platinum", "amex-gold"})
	assert.Equal(t, "duplicate identifiers in extended.json: td-platinum, amex-gold", err.Error())
	assert.True(t, pkgerrors.IsDuplicateIdentifier(fmt.Errorf("load: %w", err)))
	assert.False(t, pkgerrors.IsValidationError(err))

	bare := &pkgerrors.DuplicateIdentifierError{Identifiers: []string{"x"}}
	assert.Equal(t, "duplicate identifiers: x", bare.Error())
}

func TestParseError(t *testing.T) {
	t.Run("with position", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "json", File: "cards.json", Line: 3, Column: 7, Message: "unexpected }"}
		assert.Equal(t, "parse error in json at cards.json:3:7: unexpected }", err.Error())
	})

	t.Run("file only", func(t *testing.T) {
		err := pkgerrors.NewParseError("yaml", "fixes.yaml", "bad indent", nil)
		assert.Equal(t, "parse error in yaml file fixes.yaml: bad indent", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("EOF")
		err := pkgerrors.WrapParse("json", "", base)
		assert.True(t, errors.Is(err, base))
		assert.Equal(t, "json parse error: EOF", err.Error())
	})
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/output.json", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "/data/output.json")
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
		err := pkgerrors.WrapIO("rename", "/tmp/a", errors.New("cross-device link"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "rename", ioErr.Operation)
		assert.Equal(t, "/tmp/a", ioErr.Path)
	})
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("load", "document", "full.json", pkgerrors.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to load document full.json")
	assert.True(t, pkgerrors.IsNotFound(err))

	noID := pkgerrors.NewResourceError("save", "table", "", errors.New("boom"))
	assert.Equal(t, "failed to save table: boom", noID.Error())
}

func TestConfigError(t *testing.T) {
	base := errors.New("no such file")
	err := pkgerrors.NewConfigError("viper", "reading config", base)
	assert.Equal(t, "configuration error in viper: reading config", err.Error())
	assert.True(t, errors.Is(err, base))
}
