package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs an in-memory tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := recordSpans(t)

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "medical_record", "create")
	_, child := telemetry.StartServiceSpan(ctx, "sequence", "allocate")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "sequence.allocate", spans[0].Name())
	assert.Equal(t, "medical_record.create", spans[1].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[1].SpanKind())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, telemetry.TracerName, spans[1].InstrumentationScope().Name)
}

func TestSetAttributes(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "pharmacy_sale", "create")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleNo, "S-25030001",
		telemetry.SpanAttrPatientID, int64(250300001),
		telemetry.SpanAttrAmount, decimal.RequireFromString("1250.50"),
		telemetry.SpanAttrQuantity, 3,
		42, "non-string key is skipped",
		"dangling",
	)
	span.End()

	got := attrMap(sr.Ended()[0].Attributes())
	assert.Len(t, got, 4)
	assert.Equal(t, "S-25030001", got[telemetry.SpanAttrSaleNo].AsString())
	assert.Equal(t, int64(250300001), got[telemetry.SpanAttrPatientID].AsInt64())
	assert.Equal(t, "1250.5", got[telemetry.SpanAttrAmount].AsString())
	assert.Equal(t, int64(3), got[telemetry.SpanAttrQuantity].AsInt64())

	assert.NotPanics(t, func() { telemetry.SetAttributes(nil, "k", "v") })
}

func TestRecordError(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "grn", "create")
	telemetry.RecordError(span, errors.New("batch expired"))
	telemetry.RecordError(span, nil)
	span.End()

	s := sr.Ended()[0]
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "batch expired", s.Status().Description)
	require.Len(t, s.Events(), 1)
	assert.Equal(t, "exception", s.Events()[0].Name)
}

func TestAddEvent(t *testing.T) {
	sr := recordSpans(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "stock_ledger", "post")
	telemetry.AddEvent(ctx, "stock_posted",
		telemetry.SpanAttrMedicineID, int64(12),
		telemetry.SpanAttrBatchNo, "B-7",
	)
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "stock_posted", events[0].Name)
	got := attrMap(events[0].Attributes)
	assert.Equal(t, int64(12), got[telemetry.SpanAttrMedicineID].AsInt64())
	assert.Equal(t, "B-7", got[telemetry.SpanAttrBatchNo].AsString())

	// no active span
	assert.NotPanics(t, func() { telemetry.AddEvent(context.Background(), "ignored") })
}
