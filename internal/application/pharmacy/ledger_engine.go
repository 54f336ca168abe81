package pharmacy

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// LedgerEngine appends stock ledger entries. Every posting holds the batch lock
// before it reads the latest balance, so postings to one batch are serialized.
// It must be called inside a transaction that owns repo.
type LedgerEngine struct {
	clock shared.Clock
}

// NewLedgerEngine creates a new LedgerEngine
func NewLedgerEngine(clock shared.Clock) *LedgerEngine {
	return &LedgerEngine{clock: clock}
}

// BatchLock is a batch to lock together with the expiry recorded on first use.
type BatchLock struct {
	Key    pharmacy.BatchKey
	Expiry *time.Time
}

// LockBatches takes the locks of a multi-line document in ascending key order.
// Duplicate keys are locked once.
func (e *LedgerEngine) LockBatches(ctx context.Context, repo pharmacy.StockLedgerRepository, locks []BatchLock) error {
	sorted := make([]BatchLock, 0, len(locks))
	seen := make(map[pharmacy.BatchKey]bool, len(locks))
	for _, l := range locks {
		l.Key.BatchNo = strings.TrimSpace(l.Key.BatchNo)
		if seen[l.Key] {
			continue
		}
		seen[l.Key] = true
		sorted = append(sorted, l)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key.Less(sorted[j].Key) })

	for _, l := range sorted {
		if err := repo.LockBatch(ctx, l.Key, l.Expiry); err != nil {
			return err
		}
	}
	return nil
}

// PostInbound adds stock to a batch
func (e *LedgerEngine) PostInbound(ctx context.Context, repo pharmacy.StockLedgerRepository, p pharmacy.InboundPosting) (*pharmacy.StockLedgerEntry, error) {
	key := p.Key()
	if err := repo.LockBatch(ctx, key, p.ExpiryDate); err != nil {
		return nil, err
	}
	prev, err := repo.Latest(ctx, key)
	if err != nil {
		return nil, err
	}
	entry, err := pharmacy.ApplyInbound(prev, p, e.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := e.append(ctx, repo, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// PostOutbound removes stock from a batch. It fails with an insufficient stock
// error when the batch balance does not cover the quantity.
func (e *LedgerEngine) PostOutbound(ctx context.Context, repo pharmacy.StockLedgerRepository, p pharmacy.OutboundPosting) (*pharmacy.StockLedgerEntry, error) {
	key := p.Key()
	if err := repo.LockBatch(ctx, key, p.ExpiryDate); err != nil {
		return nil, err
	}
	prev, err := repo.Latest(ctx, key)
	if err != nil {
		return nil, err
	}
	entry, err := pharmacy.ApplyOutbound(prev, p, e.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := e.append(ctx, repo, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Adjust posts a signed correction. Positive quantities are received at the
// batch's carried rate, negative ones are issued like a sale.
func (e *LedgerEngine) Adjust(ctx context.Context, repo pharmacy.StockLedgerRepository, key pharmacy.BatchKey, qty int64, remarks string) (*pharmacy.StockLedgerEntry, error) {
	if qty == 0 {
		return nil, shared.NewValidationError("Invalid stock adjustment",
			map[string]string{"qty": "Adjustment quantity must not be zero"})
	}
	key.BatchNo = strings.TrimSpace(key.BatchNo)
	if qty < 0 {
		return e.PostOutbound(ctx, repo, pharmacy.OutboundPosting{
			MedicineID: key.MedicineID,
			BatchNo:    key.BatchNo,
			Qty:        -qty,
			Type:       pharmacy.TransactionTypeAdjustment,
			RefTable:   pharmacy.RefTableAdjustment,
			Remarks:    remarks,
		})
	}

	if err := repo.LockBatch(ctx, key, nil); err != nil {
		return nil, err
	}
	prev, err := repo.Latest(ctx, key)
	if err != nil {
		return nil, err
	}
	rate := decimal.Zero
	if prev != nil {
		rate = prev.Rate
	}
	entry, err := pharmacy.ApplyInbound(prev, pharmacy.InboundPosting{
		MedicineID: key.MedicineID,
		BatchNo:    key.BatchNo,
		Qty:        qty,
		Value:      rate.Mul(decimal.NewFromInt(qty)),
		Rate:       rate,
		Type:       pharmacy.TransactionTypeAdjustment,
		RefTable:   pharmacy.RefTableAdjustment,
		Remarks:    remarks,
	}, e.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := e.append(ctx, repo, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// append stores entry and notes the posting on the active span.
func (e *LedgerEngine) append(ctx context.Context, repo pharmacy.StockLedgerRepository, entry *pharmacy.StockLedgerEntry) error {
	if err := repo.Append(ctx, entry); err != nil {
		return err
	}
	telemetry.AddEvent(ctx, "stock_posted",
		telemetry.SpanAttrMedicineID, entry.MedicineID,
		telemetry.SpanAttrBatchNo, entry.BatchNo,
		telemetry.SpanAttrQuantity, entry.QtyIn-entry.QtyOut,
		telemetry.SpanAttrRefTable, string(entry.RefTable),
	)
	return nil
}
