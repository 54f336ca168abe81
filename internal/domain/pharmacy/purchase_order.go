package pharmacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusOpen          PurchaseOrderStatus = "OPEN"
	PurchaseOrderStatusApproved      PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusForwarded     PurchaseOrderStatus = "APPROVED_AND_FORWARD_TO_ACCOUNTS"
	PurchaseOrderStatusPartiallyPaid PurchaseOrderStatus = "PARTIALLY_PAID"
	PurchaseOrderStatusPaid          PurchaseOrderStatus = "PAID"
)

// ApprovedFamilyStatuses are the statuses listed as approved purchase orders.
var ApprovedFamilyStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusApproved,
	PurchaseOrderStatusForwarded,
	PurchaseOrderStatusPartiallyPaid,
	PurchaseOrderStatusPaid,
}

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusOpen, PurchaseOrderStatusApproved, PurchaseOrderStatusForwarded,
		PurchaseOrderStatusPartiallyPaid, PurchaseOrderStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusOpen:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusForwarded
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusForwarded || target == PurchaseOrderStatusPartiallyPaid || target == PurchaseOrderStatusPaid
	case PurchaseOrderStatusForwarded:
		return target == PurchaseOrderStatusPartiallyPaid || target == PurchaseOrderStatusPaid
	case PurchaseOrderStatusPartiallyPaid:
		return target == PurchaseOrderStatusPartiallyPaid || target == PurchaseOrderStatusPaid
	case PurchaseOrderStatusPaid:
		return false // Terminal state
	}
	return false
}

// CanReceivePayment returns true if payments may be recorded in this status
func (s PurchaseOrderStatus) CanReceivePayment() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusForwarded || s == PurchaseOrderStatusPartiallyPaid
}

// PaymentTerm is the agreed settlement arrangement with the distributor.
type PaymentTerm string

const (
	PaymentTermFullAfterReceive PaymentTerm = "FULL_AFTER_RECEIVE"
	PaymentTermAdvance          PaymentTerm = "ADVANCE"
	PaymentTermHalfAfterReceive PaymentTerm = "PARTIAL_50_AFTER_RECEIVE"
	PaymentTermWithinThirtyDays PaymentTerm = "WITHIN_30_DAYS"
)

var paymentTermLabels = map[PaymentTerm]string{
	PaymentTermFullAfterReceive: "Full payment after receiving goods",
	PaymentTermAdvance:          "Advance payment before delivery",
	PaymentTermHalfAfterReceive: "50% payment now, 50% after receiving goods",
	PaymentTermWithinThirtyDays: "Payment within 30 days of delivery",
}

var paymentTermOrder = []PaymentTerm{
	PaymentTermFullAfterReceive,
	PaymentTermAdvance,
	PaymentTermHalfAfterReceive,
	PaymentTermWithinThirtyDays,
}

// Label returns the display text for the term.
func (t PaymentTerm) Label() string {
	return paymentTermLabels[t]
}

// IsValid checks if the term is known
func (t PaymentTerm) IsValid() bool {
	_, ok := paymentTermLabels[t]
	return ok
}

// ParsePaymentTerm accepts either the term ID or its display label.
func ParsePaymentTerm(s string) (PaymentTerm, error) {
	s = strings.TrimSpace(s)
	if t := PaymentTerm(s); t.IsValid() {
		return t, nil
	}
	for t, label := range paymentTermLabels {
		if label == s {
			return t, nil
		}
	}
	return "", shared.NewValidationError("Invalid payment term",
		map[string]string{"paymentTerm": fmt.Sprintf("unknown payment term %q", s)})
}

// PaymentTermOption is a selectable payment term.
type PaymentTermOption struct {
	ID   PaymentTerm `json:"id"`
	Name string      `json:"name"`
}

// PaymentTermOptions lists all terms in display order.
func PaymentTermOptions() []PaymentTermOption {
	out := make([]PaymentTermOption, len(paymentTermOrder))
	for i, t := range paymentTermOrder {
		out[i] = PaymentTermOption{ID: t, Name: t.Label()}
	}
	return out
}

// PurchaseOrder is an order placed with a distributor to fulfil an indent.
type PurchaseOrder struct {
	shared.BaseEntity
	PONo           string
	PODate         time.Time
	DistributorID  int64
	IndentID       int64
	TotalAmount    decimal.Decimal
	NetAmount      decimal.Decimal
	PaidAmount     decimal.Decimal
	Status         PurchaseOrderStatus
	PaymentTerm    *PaymentTerm
	PaymentType    string
	Remarks        string
	ApprovedBy     *int64
	ApprovedAt     *time.Time
	PDFURL         string
	PDFGeneratedAt *time.Time
	CreatedBy      *int64
	Items          []PurchaseOrderItem

	Distributor *Distributor
	GRNs        []GRN
}

// PurchaseOrderItem is one ordered medicine.
type PurchaseOrderItem struct {
	ID              int64
	PurchaseOrderID int64
	IndentItemID    *int64
	MedicineID      int64
	OrderedQty      int64
	Rate            decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	TotalAmount     decimal.Decimal

	Medicine *Medicine
}

// PurchaseOrderItemInput is a requested order line.
type PurchaseOrderItemInput struct {
	IndentItemID    *int64
	MedicineID      int64
	OrderedQty      int64
	Rate            decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// PurchaseOrderDraft carries the header fields of a new order.
type PurchaseOrderDraft struct {
	PONo          string
	DistributorID int64
	IndentID      int64
	PaymentType   string
	PaymentTerm   *PaymentTerm
	Remarks       string
	CreatedBy     *int64
}

// NewPurchaseOrder validates the order and prices every line. Net equals total at creation.
func NewPurchaseOrder(d PurchaseOrderDraft, items []PurchaseOrderItemInput, now time.Time) (*PurchaseOrder, error) {
	errs := make(map[string]string)
	if strings.TrimSpace(d.PONo) == "" {
		errs["poNo"] = "PO number is required"
	}
	if d.DistributorID <= 0 {
		errs["distributorId"] = "Distributor is required"
	}
	if d.IndentID <= 0 {
		errs["indentId"] = "Indent is required"
	}
	if len(items) == 0 {
		errs["items"] = "PO items are required"
	}
	for i, in := range items {
		key := fmt.Sprintf("items[%d]", i)
		switch {
		case in.MedicineID <= 0:
			errs[key+".medicineId"] = "All items must have a medicine selected"
		case in.OrderedQty <= 0:
			errs[key+".orderedQty"] = "Ordered quantity must be positive"
		case in.Rate.IsNegative():
			errs[key+".rate"] = "Rate must not be negative"
		case !validPercent(in.DiscountPercent):
			errs[key+".discountPercent"] = "Discount must be between 0 and 100"
		case !validPercent(in.TaxPercent):
			errs[key+".taxPercent"] = "Tax must be between 0 and 100"
		}
	}
	if d.PaymentTerm != nil && !d.PaymentTerm.IsValid() {
		errs["paymentTerm"] = "Invalid payment term"
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError("Missing data", errs)
	}

	po := &PurchaseOrder{
		BaseEntity:    shared.NewBaseEntity(now),
		PONo:          strings.TrimSpace(d.PONo),
		PODate:        now,
		DistributorID: d.DistributorID,
		IndentID:      d.IndentID,
		PaidAmount:    decimal.Zero,
		Status:        PurchaseOrderStatusOpen,
		PaymentTerm:   d.PaymentTerm,
		PaymentType:   d.PaymentType,
		Remarks:       d.Remarks,
		CreatedBy:     d.CreatedBy,
		Items:         make([]PurchaseOrderItem, len(items)),
	}
	total := decimal.Zero
	for i, in := range items {
		price := PriceLine(in.OrderedQty, in.Rate, in.DiscountPercent, in.TaxPercent)
		po.Items[i] = PurchaseOrderItem{
			IndentItemID:    in.IndentItemID,
			MedicineID:      in.MedicineID,
			OrderedQty:      in.OrderedQty,
			Rate:            in.Rate,
			DiscountPercent: in.DiscountPercent,
			TaxPercent:      in.TaxPercent,
			TotalAmount:     price.Net,
		}
		total = total.Add(price.Net)
	}
	po.TotalAmount = total
	po.NetAmount = total
	return po, nil
}

// IndentItemIDs lists the indent items the order consumes.
func (po *PurchaseOrder) IndentItemIDs() []int64 {
	ids := make([]int64, 0, len(po.Items))
	for _, item := range po.Items {
		if item.IndentItemID != nil {
			ids = append(ids, *item.IndentItemID)
		}
	}
	return ids
}

// TransitionTo moves the order to target if the transition table allows it.
// approvedBy, when given, stamps the approver.
func (po *PurchaseOrder) TransitionTo(target PurchaseOrderStatus, approvedBy *int64, now time.Time) error {
	if !target.IsValid() {
		return shared.NewValidationError("Invalid status", map[string]string{"status": "unknown status " + string(target)})
	}
	if !po.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot move purchase order from %s to %s", po.Status, target))
	}
	po.Status = target
	if approvedBy != nil {
		by := *approvedBy
		po.ApprovedBy = &by
		po.ApprovedAt = &now
	}
	po.Touch(now)
	return nil
}

// Approve approves the order and forwards it to accounts.
func (po *PurchaseOrder) Approve(approvedBy int64, remarks string, now time.Time) error {
	if err := po.TransitionTo(PurchaseOrderStatusForwarded, &approvedBy, now); err != nil {
		return err
	}
	po.Remarks = remarks
	return nil
}

// RecordPayment adds amount to the paid total and settles the order once the
// net amount is covered.
func (po *PurchaseOrder) RecordPayment(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Invalid payment", map[string]string{"paidAmount": "Paid amount must be positive"})
	}
	if !po.Status.CanReceivePayment() {
		return shared.NewInvalidStateError("Only approved PO can be paid")
	}
	po.PaidAmount = po.PaidAmount.Add(amount)
	if po.PaidAmount.GreaterThanOrEqual(po.NetAmount) {
		po.Status = PurchaseOrderStatusPaid
	} else {
		po.Status = PurchaseOrderStatusPartiallyPaid
	}
	po.Touch(now)
	return nil
}

// NeedsDocument reports whether the order PDF still has to be generated.
func (po *PurchaseOrder) NeedsDocument() bool {
	return po.PDFURL == ""
}

// AttachDocument records the location of the generated PDF.
func (po *PurchaseOrder) AttachDocument(url string, now time.Time) {
	po.PDFURL = url
	po.PDFGeneratedAt = &now
}

// SetPaymentTerm records the agreed settlement arrangement without touching status.
func (po *PurchaseOrder) SetPaymentTerm(t PaymentTerm, now time.Time) {
	po.PaymentTerm = &t
	po.Touch(now)
}
