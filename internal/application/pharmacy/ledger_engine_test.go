package pharmacy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var testNow = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// recordSpans routes the global tracer to an in-memory recorder for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func TestLedgerEngine_LockBatchesSortedAndDeduplicated(t *testing.T) {
	repo := new(MockStockLedgerRepository)
	engine := NewLedgerEngine(shared.FixedClock{T: testNow})
	ctx := context.Background()

	var order []pharmacy.BatchKey
	repo.On("LockBatch", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, args.Get(1).(pharmacy.BatchKey)) }).
		Return(nil)

	err := engine.LockBatches(ctx, repo, []BatchLock{
		{Key: pharmacy.BatchKey{MedicineID: 3, BatchNo: "A"}},
		{Key: pharmacy.BatchKey{MedicineID: 1, BatchNo: "Z"}},
		{Key: pharmacy.BatchKey{MedicineID: 1, BatchNo: " B "}},
		{Key: pharmacy.BatchKey{MedicineID: 1, BatchNo: "B"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []pharmacy.BatchKey{
		{MedicineID: 1, BatchNo: "B"},
		{MedicineID: 1, BatchNo: "Z"},
		{MedicineID: 3, BatchNo: "A"},
	}, order)
}

func TestLedgerEngine_LockBatchesStopsOnError(t *testing.T) {
	repo := new(MockStockLedgerRepository)
	engine := NewLedgerEngine(shared.FixedClock{T: testNow})
	ctx := context.Background()
	boom := errors.New("lock timeout")

	repo.On("LockBatch", mock.Anything, pharmacy.BatchKey{MedicineID: 1, BatchNo: "A"}, mock.Anything).Return(boom).Once()

	err := engine.LockBatches(ctx, repo, []BatchLock{
		{Key: pharmacy.BatchKey{MedicineID: 2, BatchNo: "A"}},
		{Key: pharmacy.BatchKey{MedicineID: 1, BatchNo: "A"}},
	})
	assert.ErrorIs(t, err, boom)
	repo.AssertNumberOfCalls(t, "LockBatch", 1)
}

func TestLedgerEngine_PostOutbound(t *testing.T) {
	ctx := context.Background()
	key := pharmacy.BatchKey{MedicineID: 1, BatchNo: "B1"}
	prev := &pharmacy.StockLedgerEntry{ID: 4, MedicineID: 1, BatchNo: "B1", BalanceQty: 5, BalanceValue: dec("50"), Rate: dec("10")}

	t.Run("appends after lock and read", func(t *testing.T) {
		repo := new(MockStockLedgerRepository)
		engine := NewLedgerEngine(shared.FixedClock{T: testNow})
		repo.On("LockBatch", mock.Anything, key, (*time.Time)(nil)).Return(nil).Once()
		repo.On("Latest", mock.Anything, key).Return(prev, nil).Once()
		repo.On("Append", mock.Anything, mock.MatchedBy(func(e *pharmacy.StockLedgerEntry) bool {
			return e.QtyOut == 3 && e.BalanceQty == 2 && e.ValueOut.Equal(dec("30"))
		})).Return(nil).Once()

		entry, err := engine.PostOutbound(ctx, repo, pharmacy.OutboundPosting{
			MedicineID: 1, BatchNo: "B1", Qty: 3, Type: pharmacy.TransactionTypeOut, RefTable: pharmacy.RefTableSale, RefID: 9,
		})
		require.NoError(t, err)
		assert.Equal(t, testNow, entry.CreatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("annotates the active span", func(t *testing.T) {
		sr := recordSpans(t)
		repo := new(MockStockLedgerRepository)
		engine := NewLedgerEngine(shared.FixedClock{T: testNow})
		repo.On("LockBatch", mock.Anything, key, (*time.Time)(nil)).Return(nil)
		repo.On("Latest", mock.Anything, key).Return(prev, nil)
		repo.On("Append", mock.Anything, mock.Anything).Return(nil)

		spanCtx, span := telemetry.StartServiceSpan(ctx, "sale", "create")
		_, err := engine.PostOutbound(spanCtx, repo, pharmacy.OutboundPosting{
			MedicineID: 1, BatchNo: "B1", Qty: 2, Type: pharmacy.TransactionTypeOut, RefTable: pharmacy.RefTableSale,
		})
		span.End()
		require.NoError(t, err)

		events := sr.Ended()[0].Events()
		require.Len(t, events, 1)
		assert.Equal(t, "stock_posted", events[0].Name)
		assert.Contains(t, events[0].Attributes, attribute.Int64(telemetry.SpanAttrMedicineID, 1))
		assert.Contains(t, events[0].Attributes, attribute.Int64(telemetry.SpanAttrQuantity, -2))
		assert.Contains(t, events[0].Attributes, attribute.String(telemetry.SpanAttrRefTable, string(pharmacy.RefTableSale)))
	})

	t.Run("insufficient stock appends nothing", func(t *testing.T) {
		repo := new(MockStockLedgerRepository)
		engine := NewLedgerEngine(shared.FixedClock{T: testNow})
		repo.On("LockBatch", mock.Anything, key, (*time.Time)(nil)).Return(nil).Once()
		repo.On("Latest", mock.Anything, key).Return(prev, nil).Once()

		_, err := engine.PostOutbound(ctx, repo, pharmacy.OutboundPosting{MedicineID: 1, BatchNo: "B1", Qty: 6})
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestLedgerEngine_Adjust(t *testing.T) {
	ctx := context.Background()
	key := pharmacy.BatchKey{MedicineID: 2, BatchNo: "C1"}
	prev := &pharmacy.StockLedgerEntry{ID: 8, MedicineID: 2, BatchNo: "C1", BalanceQty: 4, BalanceValue: dec("48"), Rate: dec("12")}

	t.Run("zero is rejected", func(t *testing.T) {
		engine := NewLedgerEngine(shared.FixedClock{T: testNow})
		_, err := engine.Adjust(ctx, new(MockStockLedgerRepository), key, 0, "")
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.CodeValidation, de.Code)
	})

	t.Run("positive quantity is valued at the carried rate", func(t *testing.T) {
		repo := new(MockStockLedgerRepository)
		engine := NewLedgerEngine(shared.FixedClock{T: testNow})
		repo.On("LockBatch", mock.Anything, key, (*time.Time)(nil)).Return(nil)
		repo.On("Latest", mock.Anything, key).Return(prev, nil)
		repo.On("Append", mock.Anything, mock.Anything).Return(nil)

		entry, err := engine.Adjust(ctx, repo, pharmacy.BatchKey{MedicineID: 2, BatchNo: " C1"}, 2, "found in store")
		require.NoError(t, err)
		assert.Equal(t, pharmacy.TransactionTypeAdjustment, entry.TransactionType)
		assert.Equal(t, pharmacy.RefTableAdjustment, entry.RefTable)
		assert.Equal(t, int64(6), entry.BalanceQty)
		assert.True(t, entry.ValueIn.Equal(dec("24")))
		assert.Equal(t, "found in store", entry.Remarks)
	})

	t.Run("negative quantity issues stock", func(t *testing.T) {
		repo := new(MockStockLedgerRepository)
		engine := NewLedgerEngine(shared.FixedClock{T: testNow})
		repo.On("LockBatch", mock.Anything, key, (*time.Time)(nil)).Return(nil)
		repo.On("Latest", mock.Anything, key).Return(prev, nil)
		repo.On("Append", mock.Anything, mock.Anything).Return(nil)

		entry, err := engine.Adjust(ctx, repo, key, -4, "expired")
		require.NoError(t, err)
		assert.Equal(t, int64(4), entry.QtyOut)
		assert.Equal(t, int64(0), entry.BalanceQty)
		assert.True(t, entry.BalanceValue.IsZero())
	})

	t.Run("negative quantity beyond balance", func(t *testing.T) {
		repo := new(MockStockLedgerRepository)
		engine := NewLedgerEngine(shared.FixedClock{T: testNow})
		repo.On("LockBatch", mock.Anything, key, (*time.Time)(nil)).Return(nil)
		repo.On("Latest", mock.Anything, key).Return(prev, nil)

		_, err := engine.Adjust(ctx, repo, key, -5, "")
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})
}
