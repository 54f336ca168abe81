// Package billing computes medical record totals from charged line items.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NegativeFeePolicy decides what happens when an item's discount exceeds its fee.
type NegativeFeePolicy string

const (
	// NegativeFeeAllow keeps negative item final fees as computed.
	NegativeFeeAllow NegativeFeePolicy = "allow"
	// NegativeFeeClamp floors each item's final fee at zero.
	NegativeFeeClamp NegativeFeePolicy = "clamp"
)

// ParseNegativeFeePolicy parses a configured policy name. Empty means allow.
func ParseNegativeFeePolicy(s string) (NegativeFeePolicy, error) {
	switch NegativeFeePolicy(s) {
	case "", NegativeFeeAllow:
		return NegativeFeeAllow, nil
	case NegativeFeeClamp:
		return NegativeFeeClamp, nil
	}
	return "", fmt.Errorf("unknown negative fee policy %q", s)
}

// LineItem is one charged procedure.
type LineItem struct {
	Fee      decimal.Decimal
	Discount decimal.Decimal
}

// FinalFee is the item fee less its discount, subject to the policy.
func (i LineItem) FinalFee(policy NegativeFeePolicy) decimal.Decimal {
	f := i.Fee.Sub(i.Discount)
	if policy == NegativeFeeClamp && f.IsNegative() {
		return decimal.Zero
	}
	return f
}

// Totals are the aggregate amounts stored on a medical record.
type Totals struct {
	TotalFee      decimal.Decimal
	ItemsDiscount decimal.Decimal
	ItemFinalFees []decimal.Decimal
	FinalFee      decimal.Decimal
}

// ComputeRecordTotals sums fees, item discounts and item final fees, then
// subtracts the record-level discount from the sum of item final fees.
// A record discount larger than the items total yields a negative final fee.
func ComputeRecordTotals(items []LineItem, recordDiscount decimal.Decimal, policy NegativeFeePolicy) Totals {
	t := Totals{
		TotalFee:      decimal.Zero,
		ItemsDiscount: decimal.Zero,
		ItemFinalFees: make([]decimal.Decimal, len(items)),
	}
	sumFinal := decimal.Zero
	for i, item := range items {
		t.TotalFee = t.TotalFee.Add(item.Fee)
		t.ItemsDiscount = t.ItemsDiscount.Add(item.Discount)
		f := item.FinalFee(policy)
		t.ItemFinalFees[i] = f
		sumFinal = sumFinal.Add(f)
	}
	t.FinalFee = sumFinal.Sub(recordDiscount)
	return t
}
