package pharmacy

import (
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a stock ledger movement
type TransactionType string

const (
	TransactionTypeIn         TransactionType = "IN"
	TransactionTypeOut        TransactionType = "OUT"
	TransactionTypeGRN        TransactionType = "GRN"
	TransactionTypeSale       TransactionType = "SALE"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid checks if the type is a known TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeGRN, TransactionTypeSale, TransactionTypeAdjustment:
		return true
	}
	return false
}

// RefTable names the document an entry was posted from. Lookup only, never ownership.
type RefTable string

const (
	RefTableGRN        RefTable = "GRN"
	RefTableSale       RefTable = "SALE"
	RefTableAdjustment RefTable = "ADJUSTMENT"
)

// BatchKey identifies one stock batch. All postings to a key are serialized.
type BatchKey struct {
	MedicineID int64
	BatchNo    string
}

// Less orders keys by medicine then batch. Locks are taken in this order.
func (k BatchKey) Less(o BatchKey) bool {
	if k.MedicineID != o.MedicineID {
		return k.MedicineID < o.MedicineID
	}
	return k.BatchNo < o.BatchNo
}

// StockLedgerEntry is an immutable movement row carrying the batch's running balance
// as of its insertion.
type StockLedgerEntry struct {
	ID                      int64
	MedicineID              int64
	BatchNo                 string
	ExpiryDate              *time.Time
	TransactionType         TransactionType
	RefTable                RefTable
	RefID                   int64
	QtyIn                   int64
	QtyOut                  int64
	ValueIn                 decimal.Decimal
	ValueOut                decimal.Decimal
	BalanceQty              int64
	BalanceValue            decimal.Decimal
	Rate                    decimal.Decimal
	DiscountPercent         decimal.Decimal
	DiscountAmount          decimal.Decimal
	TaxPercent              decimal.Decimal
	TaxAmount               decimal.Decimal
	SaleRate                *decimal.Decimal
	CustomerDiscountPercent decimal.Decimal
	CustomerDiscountAmount  decimal.Decimal
	Remarks                 string
	CreatedAt               time.Time

	Medicine *Medicine
}

// Key returns the batch the entry belongs to.
func (e *StockLedgerEntry) Key() BatchKey {
	return BatchKey{MedicineID: e.MedicineID, BatchNo: e.BatchNo}
}

// InboundPosting adds stock to a batch.
type InboundPosting struct {
	MedicineID      int64
	BatchNo         string
	ExpiryDate      *time.Time
	Qty             int64
	Value           decimal.Decimal
	Rate            decimal.Decimal
	Type            TransactionType
	RefTable        RefTable
	RefID           int64
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal
	Remarks         string
}

// Key returns the batch the posting targets.
func (p InboundPosting) Key() BatchKey {
	return BatchKey{MedicineID: p.MedicineID, BatchNo: strings.TrimSpace(p.BatchNo)}
}

// OutboundPosting removes stock from a batch. A nil Value is valued at the
// batch's carried purchase rate.
type OutboundPosting struct {
	MedicineID              int64
	BatchNo                 string
	ExpiryDate              *time.Time
	Qty                     int64
	Value                   *decimal.Decimal
	Type                    TransactionType
	RefTable                RefTable
	RefID                   int64
	SaleRate                *decimal.Decimal
	CustomerDiscountPercent decimal.Decimal
	CustomerDiscountAmount  decimal.Decimal
	Remarks                 string
}

// Key returns the batch the posting targets.
func (p OutboundPosting) Key() BatchKey {
	return BatchKey{MedicineID: p.MedicineID, BatchNo: strings.TrimSpace(p.BatchNo)}
}

func validatePosting(key BatchKey, qty int64, t TransactionType) error {
	errs := make(map[string]string)
	if key.MedicineID <= 0 {
		errs["medicineId"] = "Medicine is required"
	}
	if key.BatchNo == "" {
		errs["batchNo"] = "Batch number is required"
	}
	if qty <= 0 {
		errs["qty"] = "Quantity must be positive"
	}
	if !t.IsValid() {
		errs["transactionType"] = "Unknown transaction type"
	}
	if len(errs) > 0 {
		return shared.NewValidationError("Invalid stock posting", errs)
	}
	return nil
}

// ApplyInbound builds the entry that follows prev after receiving stock.
// prev is nil for the first movement of a batch.
func ApplyInbound(prev *StockLedgerEntry, p InboundPosting, now time.Time) (*StockLedgerEntry, error) {
	if p.Type == "" {
		p.Type = TransactionTypeIn
	}
	key := p.Key()
	if err := validatePosting(key, p.Qty, p.Type); err != nil {
		return nil, err
	}
	prevQty, prevValue := balanceOf(prev)
	expiry := p.ExpiryDate
	if expiry == nil && prev != nil {
		expiry = prev.ExpiryDate
	}
	return &StockLedgerEntry{
		MedicineID:      key.MedicineID,
		BatchNo:         key.BatchNo,
		ExpiryDate:      expiry,
		TransactionType: p.Type,
		RefTable:        p.RefTable,
		RefID:           p.RefID,
		QtyIn:           p.Qty,
		ValueIn:         p.Value,
		ValueOut:        decimal.Zero,
		BalanceQty:      prevQty + p.Qty,
		BalanceValue:    prevValue.Add(p.Value),
		Rate:            p.Rate,
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
		TaxPercent:      p.TaxPercent,
		TaxAmount:       p.TaxAmount,
		Remarks:         p.Remarks,
		CreatedAt:       now,
	}, nil
}

// ApplyOutbound builds the entry that follows prev after issuing stock. It fails
// with an insufficient stock error when qty exceeds the previous balance, including
// when the batch has no history.
func ApplyOutbound(prev *StockLedgerEntry, p OutboundPosting, now time.Time) (*StockLedgerEntry, error) {
	if p.Type == "" {
		p.Type = TransactionTypeOut
	}
	key := p.Key()
	if err := validatePosting(key, p.Qty, p.Type); err != nil {
		return nil, err
	}
	prevQty, prevValue := balanceOf(prev)
	if p.Qty > prevQty {
		return nil, shared.NewInsufficientStockError(key.MedicineID, key.BatchNo, p.Qty, prevQty)
	}

	rate := decimal.Zero
	var expiry *time.Time
	if prev != nil {
		rate = prev.Rate
		expiry = prev.ExpiryDate
	}
	if p.ExpiryDate != nil {
		expiry = p.ExpiryDate
	}
	value := rate.Mul(decimal.NewFromInt(p.Qty))
	if p.Value != nil {
		value = *p.Value
	}

	return &StockLedgerEntry{
		MedicineID:              key.MedicineID,
		BatchNo:                 key.BatchNo,
		ExpiryDate:              expiry,
		TransactionType:         p.Type,
		RefTable:                p.RefTable,
		RefID:                   p.RefID,
		QtyOut:                  p.Qty,
		ValueIn:                 decimal.Zero,
		ValueOut:                value,
		BalanceQty:              prevQty - p.Qty,
		BalanceValue:            prevValue.Sub(value),
		Rate:                    rate,
		DiscountPercent:         p.CustomerDiscountPercent,
		DiscountAmount:          p.CustomerDiscountAmount,
		TaxPercent:              decimal.Zero,
		TaxAmount:               decimal.Zero,
		SaleRate:                p.SaleRate,
		CustomerDiscountPercent: p.CustomerDiscountPercent,
		CustomerDiscountAmount:  p.CustomerDiscountAmount,
		Remarks:                 p.Remarks,
		CreatedAt:               now,
	}, nil
}

func balanceOf(prev *StockLedgerEntry) (int64, decimal.Decimal) {
	if prev == nil {
		return 0, decimal.Zero
	}
	return prev.BalanceQty, prev.BalanceValue
}
