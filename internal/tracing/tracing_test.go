package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpointRecordsSpans(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, "navcalc-test", "0.0.0", "")
	require.NoError(t, err)

	_, span := Tracer().Start(ctx, "test.span")
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())
	span.End()

	require.NoError(t, shutdown(ctx))
}
