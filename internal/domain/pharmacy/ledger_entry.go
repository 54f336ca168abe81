package pharmacy

import (
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RefTypePurchaseOrder marks an accounts entry settling a purchase order.
const RefTypePurchaseOrder = "PO"

// LedgerEntry is an accounts-side debit or credit against a document.
type LedgerEntry struct {
	shared.BaseEntity
	RefType      string
	RefID        int64
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	AccountType  string
	AccountRefID *int64
	Remarks      string
	PaymentTerm  PaymentTerm
	ApprovedBy   *int64
	ApprovedAt   *time.Time
	UserID       *int64
	EntryDate    time.Time
}

// LedgerEntryDraft carries the fields of a new accounts entry.
type LedgerEntryDraft struct {
	RefType      string
	RefID        int64
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	AccountType  string
	AccountRefID *int64
	Remarks      string
	PaymentTerm  string
	UserID       *int64
}

// NewLedgerEntry validates the draft and normalizes the payment term to its ID.
// The acting user both records and approves the entry.
func NewLedgerEntry(d LedgerEntryDraft, now time.Time) (*LedgerEntry, error) {
	errs := make(map[string]string)
	if strings.TrimSpace(d.RefType) == "" {
		errs["refType"] = "Reference type is required"
	}
	if d.RefID <= 0 {
		errs["refId"] = "Reference is required"
	}
	if strings.TrimSpace(d.AccountType) == "" {
		errs["accountType"] = "Account type is required"
	}
	if d.Debit.IsNegative() || d.Credit.IsNegative() {
		errs["amount"] = "Debit and credit must not be negative"
	}
	var term PaymentTerm
	if strings.TrimSpace(d.PaymentTerm) == "" {
		errs["paymentTerm"] = "Payment term is required"
	} else if t, err := ParsePaymentTerm(d.PaymentTerm); err != nil {
		errs["paymentTerm"] = "Invalid payment term value"
	} else {
		term = t
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError("Required fields missing", errs)
	}

	e := &LedgerEntry{
		BaseEntity:   shared.NewBaseEntity(now),
		RefType:      strings.TrimSpace(d.RefType),
		RefID:        d.RefID,
		Debit:        d.Debit,
		Credit:       d.Credit,
		AccountType:  strings.TrimSpace(d.AccountType),
		AccountRefID: d.AccountRefID,
		Remarks:      d.Remarks,
		PaymentTerm:  term,
		UserID:       d.UserID,
		EntryDate:    now,
	}
	if d.UserID != nil {
		by := *d.UserID
		e.ApprovedBy = &by
		e.ApprovedAt = &now
	}
	return e, nil
}

// SettlesPurchaseOrder reports whether the entry references a purchase order.
func (e *LedgerEntry) SettlesPurchaseOrder() bool {
	return e.RefType == RefTypePurchaseOrder
}
