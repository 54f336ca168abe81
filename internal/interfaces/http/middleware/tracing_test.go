package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func tracedRouter(handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Tracing(), func(c *gin.Context) {
		c.Set(JWTUserIDKey, int64(42))
	}, TracingAttributeInjector(), SpanErrorMarker())
	r.GET("/api/v1/patients/:id", handler)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	r := gin.New()
	r.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_AnnotatesServerSpan(t *testing.T) {
	sr := setupTestTracer(t)
	r := tracedRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/7", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	serve(r, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/patients/:id")

	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-123", v.AsString())
	v, ok = spanAttr(spans[0], "user_id")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.AsInt64())
}

func TestTracing_SkipsHealth(t *testing.T) {
	sr := setupTestTracer(t)
	serve(tracedRouter(nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, sr.Ended())
}

func TestSpanErrorMarker(t *testing.T) {
	t.Run("client errors keep the span ok and record the code", func(t *testing.T) {
		sr := setupTestTracer(t)
		r := tracedRouter(func(c *gin.Context) {
			c.Set(ErrorCodeKey, "ERR_NOT_FOUND")
			c.Status(http.StatusNotFound)
		})
		serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/patients/7", nil))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		v, ok := spanAttr(spans[0], "error.code")
		require.True(t, ok)
		assert.Equal(t, "ERR_NOT_FOUND", v.AsString())
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("server errors mark the span", func(t *testing.T) {
		sr := setupTestTracer(t)
		r := tracedRouter(func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
		serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/patients/7", nil))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})
}
