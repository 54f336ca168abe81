// Package telemetry provides OpenTelemetry integration for tracing and metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks billing, identifier allocation and pharmacy stock activity.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	receiptsIssued     *Counter
	tokensIssued       *Counter
	billedAmount       *Counter
	patientsRegistered *Counter
	patientIDConflicts *Counter
	stockPostings      *Counter
	stockRejections    *Counter
	purchasePayments   *Counter

	batchesOnHand   *Gauge
	batchesExpiring *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	stockProvider StockMetricsProvider
}

// StockMetricsProvider supplies stock figures for periodic gauge collection.
type StockMetricsProvider interface {
	// CountBatchesOnHand returns the number of batches with a positive balance
	CountBatchesOnHand(ctx context.Context) (int64, error)
	// CountBatchesExpiringBefore returns batches on hand that expire before t
	CountBatchesExpiringBefore(ctx context.Context, t time.Time) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StockProvider   StockMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.receiptsIssued, "hikarimed_receipts_issued_total", "Medical record receipts issued", "{receipts}"},
		{&bm.tokensIssued, "hikarimed_tokens_issued_total", "Doctor tokens issued", "{tokens}"},
		{&bm.billedAmount, "hikarimed_billed_amount_total", "Final fee billed in paisa", "{paisa}"},
		{&bm.patientsRegistered, "hikarimed_patients_registered_total", "Patients registered", "{patients}"},
		{&bm.patientIDConflicts, "hikarimed_patient_id_conflicts_total", "Patient ID allocations retried after a conflict", "{conflicts}"},
		{&bm.stockPostings, "hikarimed_stock_postings_total", "Stock ledger entries appended", "{entries}"},
		{&bm.stockRejections, "hikarimed_stock_rejections_total", "Outbound postings rejected for insufficient stock", "{postings}"},
		{&bm.purchasePayments, "hikarimed_purchase_payments_total", "Payments recorded against purchase orders", "{payments}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	bm.batchesOnHand, err = NewGauge(cfg.Meter,
		"hikarimed_stock_batches_on_hand", "Batches with a positive balance", "{batches}")
	if err != nil {
		return nil, err
	}
	bm.batchesExpiring, err = NewGauge(cfg.Meter,
		"hikarimed_stock_batches_expiring", "Batches on hand expiring within 30 days", "{batches}")
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Billing Metrics
// =============================================================================

// RecordReceiptIssued records a committed medical record and its final fee.
func (bm *BusinessMetrics) RecordReceiptIssued(ctx context.Context, finalFee decimal.Decimal) {
	bm.receiptsIssued.Inc(ctx)
	bm.billedAmount.Add(ctx, finalFee.Mul(decimal.NewFromInt(100)).IntPart())
}

// RecordTokenIssued records a doctor token handed out with a receipt.
func (bm *BusinessMetrics) RecordTokenIssued(ctx context.Context, doctorID int64) {
	bm.tokensIssued.Inc(ctx, AttrDoctorID.Int64(doctorID))
}

// =============================================================================
// Patient Metrics
// =============================================================================

// RecordPatientRegistered records a new patient.
func (bm *BusinessMetrics) RecordPatientRegistered(ctx context.Context) {
	bm.patientsRegistered.Inc(ctx)
}

// RecordPatientIDConflict records an allocation attempt lost to a concurrent writer.
func (bm *BusinessMetrics) RecordPatientIDConflict(ctx context.Context, attempt int) {
	bm.patientIDConflicts.Inc(ctx, AttrAttempt.Int(attempt))
}

// =============================================================================
// Stock Metrics
// =============================================================================

// RecordStockPosting records one appended ledger entry.
func (bm *BusinessMetrics) RecordStockPosting(ctx context.Context, medicineID int64, transactionType, refTable string) {
	bm.stockPostings.Inc(ctx,
		AttrMedicineID.Int64(medicineID),
		AttrTransactionType.String(transactionType),
		AttrRefTable.String(refTable),
	)
}

// RecordStockRejection records an outbound posting refused for insufficient stock.
func (bm *BusinessMetrics) RecordStockRejection(ctx context.Context, refTable string) {
	bm.stockRejections.Inc(ctx, AttrRefTable.String(refTable))
}

// RecordPurchasePayment records a payment against a purchase order.
func (bm *BusinessMetrics) RecordPurchasePayment(ctx context.Context, status string) {
	bm.purchasePayments.Inc(ctx, AttrPaymentStatus.String(status))
}

// RecordBatchesOnHand records the current number of batches with stock.
func (bm *BusinessMetrics) RecordBatchesOnHand(ctx context.Context, count int64) {
	bm.batchesOnHand.Record(ctx, count)
}

// RecordBatchesExpiring records the number of batches close to expiry.
func (bm *BusinessMetrics) RecordBatchesExpiring(ctx context.Context, count int64) {
	bm.batchesExpiring.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// expiryHorizon is how far ahead a batch counts as expiring.
const expiryHorizon = 30 * 24 * time.Hour

// StartPeriodicCollection starts periodic collection of the stock gauges.
// It is non-blocking; use Stop() to end it.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectStockMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	onHand, err := bm.stockProvider.CountBatchesOnHand(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count batches on hand", zap.Error(err))
	} else {
		bm.RecordBatchesOnHand(ctx, onHand)
	}

	expiring, err := bm.stockProvider.CountBatchesExpiringBefore(ctx, time.Now().Add(expiryHorizon))
	if err != nil {
		bm.logger.Warn("Failed to count expiring batches", zap.Error(err))
	} else {
		bm.RecordBatchesExpiring(ctx, expiring)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// Business metric attribute keys not already defined in metrics.go
var (
	AttrAttempt         = attribute.Key("attempt")
	AttrTransactionType = attribute.Key("transaction_type")
	AttrRefTable        = attribute.Key("ref_table")
)
