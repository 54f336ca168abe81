package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedBatch struct {
	ID      uint   `gorm:"primaryKey"`
	BatchNo string `gorm:"size:50;uniqueIndex"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedBatch{}))
	return db
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(step)
		return t
	}
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		assert.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).RegisterOtelGorm(setupTestDB(t)))
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		db := setupTestDB(t)
		require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
		assert.NoError(t, db.Create(&tracedBatch{BatchNo: "B-1"}).Error)
	})

	t.Run("double registration fails", func(t *testing.T) {
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		db := setupTestDB(t)
		require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
		assert.Error(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
	})
}

func TestDBTracingPlugin_AnnotatesSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	db := setupTestDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "stock.post")
	require.NoError(t, db.WithContext(ctx).Create(&tracedBatch{BatchNo: "B-1"}).Error)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := spanAttrs(spans[0])
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "traced_batches", attrs["db.sql.table"].AsString())
	_, slow := attrs["db.slow_query"]
	assert.False(t, slow)
}

func TestDBTracingPlugin_SlowQuery(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	core, logs := observer.New(zapcore.WarnLevel)
	db := setupTestDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 500 * time.Millisecond}, zap.New(core))
	p.now = steppingClock(time.Second)
	require.NoError(t, p.registerCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "stock.list")
	var rows []tracedBatch
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := spanAttrs(spans[0])
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.Equal(t, int64(1000), attrs["db.query_duration_ms"].AsInt64())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "slow query", logs.All()[0].Message)
}

func TestDBTracingPlugin_RecordsErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	db := setupTestDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, nil)
	require.NoError(t, p.registerCallbacks(db))
	require.NoError(t, db.Create(&tracedBatch{BatchNo: "DUP"}).Error)

	ctx, span := tp.Tracer("test").Start(context.Background(), "grn.create")
	assert.Error(t, db.WithContext(ctx).Create(&tracedBatch{BatchNo: "DUP"}).Error)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestDBTracingPlugin_NotFoundIsNotAnError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	db := setupTestDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, nil)
	require.NoError(t, p.registerCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "patient.get")
	var row tracedBatch
	assert.ErrorIs(t, db.WithContext(ctx).First(&row, 42).Error, gorm.ErrRecordNotFound)
	span.End()

	assert.NotEqual(t, codes.Error, recorder.Ended()[0].Status().Code)
}
