package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracingConfig{ServiceName: "fraudd"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, Flush(context.Background(), shutdown))
}

func TestTracer_StartsSpan(t *testing.T) {
	ctx, span := Tracer("test").Start(context.Background(), "op")
	defer span.End()

	assert.NotNil(t, ctx)
}
