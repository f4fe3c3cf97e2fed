package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/cardmap/pkg/logging"
)

func TestContextLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithTable(ctx, "extended")
	ctx = logging.WithDocument(ctx, "src/data/canadian_cards_extended.json")
	ctx = logging.WithRecord(ctx, "amex-cobalt-card")

	logging.FromContext(ctx).Info().Msg("applied override")

	tl.AssertContains(t, `"table":"extended"`)
	tl.AssertContains(t, `"document":"src/data/canadian_cards_extended.json"`)
	tl.AssertContains(t, `"record":"amex-cobalt-card"`)
	tl.AssertContains(t, "applied override")
}

func TestFromContextFallback(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Same(t, logging.Default(), logging.FromContext(logging.WithLogger(context.Background(), nil)))
}

func TestWithError(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	assert.Equal(t, ctx, logging.WithError(ctx, nil))

	ctx = logging.WithError(ctx, errors.New("boom"))
	logging.FromContext(ctx).Info().Msg("done")

	tl.AssertContains(t, `"error":"boom"`)
}

func TestFieldChanged(t *testing.T) {
	tl := logging.NewTestLogger(t)

	logging.FieldChanged(tl.Logger, "amex-cobalt-card", "annualFee", "155.88", "191.88")

	tl.AssertContains(t, `"level":"debug"`)
	tl.AssertContains(t, `"record":"amex-cobalt-card"`)
	tl.AssertContains(t, `"field":"annualFee"`)
	tl.AssertContains(t, `"old":"155.88"`)
	tl.AssertContains(t, `"new":"191.88"`)
}
