package logger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Config{Level: "info", Format: "console", Output: path}, "production")
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Sync())

	_, err = New(Config{Output: filepath.Join(t.TempDir(), "missing", "x.log")}, "development")
	assert.Error(t, err)
}

func TestL_EnrichesFromContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, 42)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(ctx, "op")
	defer span.End()

	L(ctx).Info("posted")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(42), fields["user_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
}

func TestL_WithoutLogger(t *testing.T) {
	assert.NotPanics(t, func() { L(context.Background()).Info("dropped") })
	_, ok := UserID(context.Background())
	assert.False(t, ok)
	assert.Empty(t, RequestID(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	r := gin.New()
	r.Use(GinMiddleware(base), Recovery(base))
	r.GET("/ok", func(c *gin.Context) {
		L(c.Request.Context()).Debug("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")

	assert.Equal(t, 1, recorded.FilterMessage("inside handler").Len())
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
	reqs := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, reqs, 2)
	assert.Equal(t, "x=1", reqs[0].ContextMap()["query"])
	assert.Equal(t, zapcore.ErrorLevel, reqs[1].Level)
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 10*time.Millisecond, false)
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), sql, nil)
	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	gl.Trace(context.Background(), time.Now(), sql, errors.New("db down"))
	gl.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)

	assert.Equal(t, 1, recorded.FilterMessage("SQL").Len())
	assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
	assert.Equal(t, 1, recorded.FilterMessage("SQL error").Len())
	_, hasSQL := recorded.All()[0].ContextMap()["sql"]
	assert.False(t, hasSQL)

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("ignored"))
	assert.Equal(t, 3, recorded.Len())
}

func TestGormLogger_TraceSkipsRecordNotFound(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, time.Millisecond, true)
	sql := func() (string, int64) { return "SELECT * FROM patients WHERE patient_id = 1", 0 }

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, gorm.ErrRecordNotFound)
	gl.Trace(context.Background(), time.Now(), sql, fmt.Errorf("find patient: %w", gorm.ErrRecordNotFound))

	assert.Equal(t, 0, recorded.Len())
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
}

func TestCtx_FallsBackToBase(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	Ctx(WithRequestID(context.Background(), "req-9"), base).Info("background job")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-9", recorded.All()[0].ContextMap()["request_id"])

	reqCore, fromRequest := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(reqCore))
	Ctx(ctx, base).Info("in request")
	assert.Equal(t, 1, fromRequest.Len())
	assert.Equal(t, 1, recorded.Len())

	assert.NotPanics(t, func() { Ctx(context.Background(), nil).Info("dropped") })
}
