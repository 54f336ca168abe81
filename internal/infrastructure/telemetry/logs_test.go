package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{ServiceName: "hikarimed-test"}, nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestNewZapOTELCore_Disabled(t *testing.T) {
	core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "svc"})
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	lp := &LoggerProvider{config: LogsConfig{Enabled: true}}
	core = NewZapOTELCore(ZapBridgeConfig{LoggerProvider: lp})
	assert.False(t, core.Enabled(zapcore.ErrorLevel), "provider without pipeline is treated as disabled")
}

func TestBridge_DisabledReturnsBase(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, Bridge(base, nil, "svc"))
	assert.Same(t, base, Bridge(base, &LoggerProvider{}, "svc"))
}

func TestLevelFilterCore(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observed, minLevel: zapcore.WarnLevel}

	assert.True(t, filtered.Enabled(zapcore.WarnLevel))
	assert.False(t, filtered.Enabled(zapcore.InfoLevel))

	log := zap.New(filtered)
	log.Debug("debug")
	log.Info("info")
	log.Warn("stock rejected")
	log.Error("posting failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "stock rejected", entries[0].Message)
	assert.Equal(t, "posting failed", entries[1].Message)
}

func TestLevelFilterCore_With(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observed, minLevel: zapcore.WarnLevel}

	child := filtered.With([]zapcore.Field{zap.String("batch_no", "B-1")})
	lf, ok := child.(*levelFilterCore)
	require.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, lf.minLevel)

	zap.New(child).Warn("low stock")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "B-1", entries[0].ContextMap()["batch_no"])
}
