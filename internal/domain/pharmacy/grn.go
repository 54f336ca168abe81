package pharmacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GRN is a goods receipt note confirming delivery against a purchase order.
// A purchase order has at most one GRN.
type GRN struct {
	shared.BaseEntity
	GRNNo          string
	GRNDate        time.Time
	POID           int64
	PONo           string
	PODate         *time.Time
	DistributorID  int64
	DepartmentID   *int64
	InvoiceNo      string
	InvoiceDate    *time.Time
	InvoiceType    string
	InvoiceStatus  string
	TotalQty       int64
	GrossAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	NetAmount      decimal.Decimal
	ReceivedBy     int64
	Remarks        string
	Items          []GRNItem

	Distributor *Distributor
}

// GRNItem is one received batch.
type GRNItem struct {
	ID                    int64
	GRNID                 int64
	MedicineID            int64
	OrderedQty            int64
	PreviouslyReceivedQty int64
	ReceivedQty           int64
	BonusQty              int64
	TotalQty              int64
	PendingQty            int64
	BatchNo               string
	ExpiryDate            *time.Time
	Rate                  decimal.Decimal
	GrossAmount           decimal.Decimal
	DiscountPercent       decimal.Decimal
	DiscountAmount        decimal.Decimal
	TaxPercent            decimal.Decimal
	TaxAmount             decimal.Decimal
	NetAmount             decimal.Decimal
	MRP                   *decimal.Decimal

	Medicine *Medicine
}

// InboundPosting is the ledger posting the item causes once the GRN has an ID.
func (i GRNItem) InboundPosting(grnID int64) InboundPosting {
	return InboundPosting{
		MedicineID:      i.MedicineID,
		BatchNo:         i.BatchNo,
		ExpiryDate:      i.ExpiryDate,
		Qty:             i.TotalQty,
		Value:           i.NetAmount,
		Rate:            i.Rate,
		Type:            TransactionTypeIn,
		RefTable:        RefTableGRN,
		RefID:           grnID,
		DiscountPercent: i.DiscountPercent,
		DiscountAmount:  i.DiscountAmount,
		TaxPercent:      i.TaxPercent,
		TaxAmount:       i.TaxAmount,
	}
}

// GRNItemInput is a received line as entered at the store.
type GRNItemInput struct {
	MedicineID            int64
	OrderedQty            int64
	PreviouslyReceivedQty int64
	ReceivedQty           int64
	BonusQty              int64
	BatchNo               string
	ExpiryDate            *time.Time
	Rate                  decimal.Decimal
	DiscountPercent       decimal.Decimal
	TaxPercent            decimal.Decimal
	MRP                   *decimal.Decimal
}

// GRNDraft carries the header fields of a new GRN.
type GRNDraft struct {
	GRNNo         string
	GRNDate       *time.Time
	POID          int64
	PONo          string
	PODate        *time.Time
	DistributorID int64
	DepartmentID  *int64
	InvoiceNo     string
	InvoiceDate   *time.Time
	InvoiceType   string
	InvoiceStatus string
	ReceivedBy    int64
	Remarks       string
}

// NewGRN validates the receipt and computes quantities and money per line and in total.
// Bonus units are charged at the line rate like received units.
func NewGRN(d GRNDraft, items []GRNItemInput, now time.Time) (*GRN, error) {
	errs := make(map[string]string)
	if strings.TrimSpace(d.GRNNo) == "" {
		errs["grnNo"] = "GRN number is required"
	}
	if d.POID <= 0 {
		errs["poId"] = "Purchase order is required"
	}
	if d.DistributorID <= 0 {
		errs["distributorId"] = "Distributor is required"
	}
	if len(items) == 0 {
		errs["items"] = "At least one item is required"
	}
	for i, in := range items {
		key := fmt.Sprintf("items[%d]", i)
		switch {
		case in.MedicineID <= 0:
			errs[key+".medicineId"] = "Medicine is required"
		case strings.TrimSpace(in.BatchNo) == "":
			errs[key+".batchNo"] = "Batch number is required"
		case in.ReceivedQty < 0 || in.BonusQty < 0 || in.PreviouslyReceivedQty < 0:
			errs[key+".receivedQty"] = "Quantities must not be negative"
		case in.ReceivedQty+in.BonusQty <= 0:
			errs[key+".receivedQty"] = "Received quantity must be positive"
		case in.Rate.IsNegative():
			errs[key+".rate"] = "Rate must not be negative"
		case !validPercent(in.DiscountPercent):
			errs[key+".discountPercent"] = "Discount must be between 0 and 100"
		case !validPercent(in.TaxPercent):
			errs[key+".taxPercent"] = "Tax must be between 0 and 100"
		}
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError("Required fields missing", errs)
	}

	grnDate := now
	if d.GRNDate != nil {
		grnDate = *d.GRNDate
	}
	g := &GRN{
		BaseEntity:     shared.NewBaseEntity(now),
		GRNNo:          strings.TrimSpace(d.GRNNo),
		GRNDate:        grnDate,
		POID:           d.POID,
		PONo:           d.PONo,
		PODate:         d.PODate,
		DistributorID:  d.DistributorID,
		DepartmentID:   d.DepartmentID,
		InvoiceNo:      d.InvoiceNo,
		InvoiceDate:    d.InvoiceDate,
		InvoiceType:    d.InvoiceType,
		InvoiceStatus:  d.InvoiceStatus,
		GrossAmount:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		NetAmount:      decimal.Zero,
		ReceivedBy:     d.ReceivedBy,
		Remarks:        d.Remarks,
		Items:          make([]GRNItem, len(items)),
	}
	for i, in := range items {
		totalQty := in.ReceivedQty + in.BonusQty
		price := PriceLine(totalQty, in.Rate, in.DiscountPercent, in.TaxPercent)
		g.Items[i] = GRNItem{
			MedicineID:            in.MedicineID,
			OrderedQty:            in.OrderedQty,
			PreviouslyReceivedQty: in.PreviouslyReceivedQty,
			ReceivedQty:           in.ReceivedQty,
			BonusQty:              in.BonusQty,
			TotalQty:              totalQty,
			PendingQty:            in.OrderedQty - (in.PreviouslyReceivedQty + in.ReceivedQty),
			BatchNo:               strings.TrimSpace(in.BatchNo),
			ExpiryDate:            in.ExpiryDate,
			Rate:                  in.Rate,
			GrossAmount:           price.Gross,
			DiscountPercent:       in.DiscountPercent,
			DiscountAmount:        price.Discount,
			TaxPercent:            in.TaxPercent,
			TaxAmount:             price.Tax,
			NetAmount:             price.Net,
			MRP:                   in.MRP,
		}
		g.TotalQty += totalQty
		g.GrossAmount = g.GrossAmount.Add(price.Gross)
		g.DiscountAmount = g.DiscountAmount.Add(price.Discount)
		g.TaxAmount = g.TaxAmount.Add(price.Tax)
		g.NetAmount = g.NetAmount.Add(price.Net)
	}
	return g, nil
}
