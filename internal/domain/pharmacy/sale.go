package pharmacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sale is a counter sale of one or more batches.
type Sale struct {
	shared.BaseEntity
	SaleNo         string
	SaleDate       time.Time
	CustomerName   string
	PaymentMode    string
	TotalDiscount  decimal.Decimal
	TaxPercent     decimal.Decimal
	GrossAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	NetAmount      decimal.Decimal
	CreatedBy      *int64
	Items          []SaleItem
}

// SaleItem is one sold batch line.
type SaleItem struct {
	ID              int64
	SaleID          int64
	MedicineID      int64
	BatchNo         string
	ExpiryDate      *time.Time
	Quantity        int64
	SaleRate        decimal.Decimal
	DiscountPercent decimal.Decimal
	LineAmount      decimal.Decimal

	Medicine *Medicine
}

// LineGross is quantity times sale rate.
func (i SaleItem) LineGross() decimal.Decimal {
	return decimal.NewFromInt(i.Quantity).Mul(i.SaleRate)
}

// CustomerDiscountAmount is the discount granted on the line.
func (i SaleItem) CustomerDiscountAmount() decimal.Decimal {
	return i.LineGross().Sub(i.LineAmount)
}

// OutboundPosting is the ledger posting the line causes once the sale has an ID.
// The stock value leaves at the batch's purchase rate, not the sale rate.
func (i SaleItem) OutboundPosting(saleID int64) OutboundPosting {
	rate := i.SaleRate
	return OutboundPosting{
		MedicineID:              i.MedicineID,
		BatchNo:                 i.BatchNo,
		ExpiryDate:              i.ExpiryDate,
		Qty:                     i.Quantity,
		Type:                    TransactionTypeOut,
		RefTable:                RefTableSale,
		RefID:                   saleID,
		SaleRate:                &rate,
		CustomerDiscountPercent: i.DiscountPercent,
		CustomerDiscountAmount:  i.CustomerDiscountAmount(),
	}
}

// SaleItemInput is a requested sale line.
type SaleItemInput struct {
	MedicineID      int64
	BatchNo         string
	ExpiryDate      *time.Time
	Quantity        int64
	SaleRate        decimal.Decimal
	DiscountPercent decimal.Decimal
}

// SaleDraft carries the header fields of a new sale.
type SaleDraft struct {
	SaleNo        string
	SaleDate      *time.Time
	CustomerName  string
	PaymentMode   string
	TotalDiscount decimal.Decimal
	TaxPercent    decimal.Decimal
	CreatedBy     *int64
}

// NewSale validates the sale and computes line and header amounts.
// Header discount is the line discounts plus the flat total discount; tax applies
// to the amount after all discounts.
func NewSale(d SaleDraft, items []SaleItemInput, now time.Time) (*Sale, error) {
	errs := make(map[string]string)
	if strings.TrimSpace(d.SaleNo) == "" {
		errs["saleNo"] = "Sale number is required"
	}
	if strings.TrimSpace(d.PaymentMode) == "" {
		errs["paymentMode"] = "Payment mode is required"
	}
	if len(items) == 0 {
		errs["items"] = "At least one item is required"
	}
	if d.TotalDiscount.IsNegative() {
		errs["totalDiscount"] = "Discount must not be negative"
	}
	if !validPercent(d.TaxPercent) {
		errs["taxPercent"] = "Tax must be between 0 and 100"
	}
	for i, in := range items {
		key := fmt.Sprintf("items[%d]", i)
		switch {
		case in.MedicineID <= 0:
			errs[key+".medicineId"] = "Medicine is required"
		case strings.TrimSpace(in.BatchNo) == "":
			errs[key+".batchNo"] = "Batch number is required"
		case in.Quantity <= 0:
			errs[key+".quantity"] = "Quantity must be positive"
		case in.SaleRate.IsNegative():
			errs[key+".saleRate"] = "Sale rate must not be negative"
		case !validPercent(in.DiscountPercent):
			errs[key+".discountPercent"] = "Discount must be between 0 and 100"
		}
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError("Required fields missing", errs)
	}

	saleDate := now
	if d.SaleDate != nil {
		saleDate = *d.SaleDate
	}
	s := &Sale{
		BaseEntity:    shared.NewBaseEntity(now),
		SaleNo:        strings.TrimSpace(d.SaleNo),
		SaleDate:      saleDate,
		CustomerName:  d.CustomerName,
		PaymentMode:   d.PaymentMode,
		TotalDiscount: d.TotalDiscount,
		TaxPercent:    d.TaxPercent,
		CreatedBy:     d.CreatedBy,
		Items:         make([]SaleItem, len(items)),
	}

	gross := decimal.Zero
	lineDiscounts := decimal.Zero
	for i, in := range items {
		lineGross := decimal.NewFromInt(in.Quantity).Mul(in.SaleRate)
		lineDiscount := lineGross.Mul(in.DiscountPercent).Div(hundred)
		s.Items[i] = SaleItem{
			MedicineID:      in.MedicineID,
			BatchNo:         strings.TrimSpace(in.BatchNo),
			ExpiryDate:      in.ExpiryDate,
			Quantity:        in.Quantity,
			SaleRate:        in.SaleRate,
			DiscountPercent: in.DiscountPercent,
			LineAmount:      lineGross.Sub(lineDiscount),
		}
		gross = gross.Add(lineGross)
		lineDiscounts = lineDiscounts.Add(lineDiscount)
	}

	s.GrossAmount = gross
	s.DiscountAmount = lineDiscounts.Add(d.TotalDiscount)
	taxable := gross.Sub(s.DiscountAmount)
	s.TaxAmount = taxable.Mul(d.TaxPercent).Div(hundred)
	s.NetAmount = taxable.Add(s.TaxAmount)
	return s, nil
}
