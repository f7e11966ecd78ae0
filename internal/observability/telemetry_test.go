package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTelemetryInstallsProvider(t *testing.T) {
	ctx := context.Background()
	shutdown, err := InitTelemetry(ctx, "voxel-test", "127.0.0.1:4318")
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*trace.TracerProvider)
	assert.True(t, ok, "Глобальный провайдер должен быть SDK-провайдером")

	assert.NoError(t, shutdown(ctx))
}
