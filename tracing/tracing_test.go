package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/savings-engine/tracing"
)

func TestInit_WithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	shutdown, err := tracing.Init(ctx, "savings-engine-test", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := tracing.Tracer.Start(ctx, "deposit")
	assert.True(t, span.SpanContext().IsValid(), "the SDK provider records spans")
	span.End()

	assert.NoError(t, shutdown(ctx))
}
