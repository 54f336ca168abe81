package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for application service spans.
const TracerName = "hikarimed-backend"

// Span attribute keys set by the application services.
const (
	SpanAttrPatientID    = "patient_id"
	SpanAttrReceiptNo    = "receipt_no"
	SpanAttrTokenNo      = "token_no"
	SpanAttrRetryAttempt = "retry_attempt"

	SpanAttrPurchaseOrderID = "purchase_order_id"
	SpanAttrGRNNo           = "grn_no"
	SpanAttrSaleNo          = "sale_no"
	SpanAttrMedicineID      = "medicine_id"
	SpanAttrBatchNo         = "batch_no"
	SpanAttrQuantity        = "quantity"
	SpanAttrAmount          = "amount"
	SpanAttrRefTable        = "ref_table"
)

// StartServiceSpan starts an internal span named "{service}.{method}", for
// example "purchase_order.approve". The caller ends it.
func StartServiceSpan(ctx context.Context, service, method string) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// SetAttributes sets alternating key, value pairs on span. Pairs whose key
// is not a string are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttributes(keyValues)...)
}

// RecordError records err on span and marks the span failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent annotates the span active in ctx, if any.
func AddEvent(ctx context.Context, name string, keyValues ...any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(toAttributes(keyValues)...))
}

func toAttributes(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case []int64:
		return attribute.Int64Slice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
