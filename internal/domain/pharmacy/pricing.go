// Package pharmacy models the pharmacy stock ledger and the procurement documents
// (indents, purchase orders, goods receipts and sales) that move stock.
package pharmacy

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LinePricing is the gross to discount to tax breakdown of a priced line.
type LinePricing struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Net      decimal.Decimal
}

// PriceLine prices qty units at rate. The discount is a percentage of gross and the
// tax is a percentage of the discounted amount, so
// net = qty × rate × (1 − discount/100) × (1 + tax/100).
func PriceLine(qty int64, rate, discountPercent, taxPercent decimal.Decimal) LinePricing {
	gross := decimal.NewFromInt(qty).Mul(rate)
	discount := gross.Mul(discountPercent).Div(hundred)
	taxable := gross.Sub(discount)
	tax := taxable.Mul(taxPercent).Div(hundred)
	return LinePricing{
		Gross:    gross,
		Discount: discount,
		Tax:      tax,
		Net:      taxable.Add(tax),
	}
}

func validPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && !p.GreaterThan(hundred)
}
