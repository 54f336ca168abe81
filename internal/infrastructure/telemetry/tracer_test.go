package telemetry_test

import (
	"context"
	"testing"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	before := otel.GetTracerProvider()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     0.5,
		ServiceName:       "hikarimed-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.False(t, tp.EnableSpanProfiles(), "span profiles need a live provider")
	assert.Equal(t, before, otel.GetTracerProvider())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.NoError(t, tp.Shutdown(cancelled))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("needs an OTLP collector on localhost:14317")
	}
	ctx := context.Background()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "hikarimed-test",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())
	assert.True(t, tp.EnableSpanProfiles())

	_, span := telemetry.StartServiceSpan(ctx, "patient", "create")
	span.End()
	assert.NoError(t, tp.Shutdown(ctx))
}
