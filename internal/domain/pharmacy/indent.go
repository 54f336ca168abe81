package pharmacy

import (
	"fmt"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// IndentStatus represents the status of an indent
type IndentStatus string

const (
	IndentStatusPending           IndentStatus = "PENDING"
	IndentStatusOpen              IndentStatus = "OPEN"
	IndentStatusPartial           IndentStatus = "PARTIAL"
	IndentStatusPOGenerated       IndentStatus = "PO_GENERATE"
	IndentStatusApproved          IndentStatus = "APPROVED"
	IndentStatusRejected          IndentStatus = "REJECTED"
	IndentStatusPartiallyApproved IndentStatus = "PARTIALLY_APPROVED"
	IndentStatusProcessing        IndentStatus = "PROCESSING"
)

// IsReviewDecision reports whether the status may be set by an indent review.
func (s IndentStatus) IsReviewDecision() bool {
	switch s {
	case IndentStatusApproved, IndentStatusRejected, IndentStatusPartiallyApproved, IndentStatusProcessing:
		return true
	}
	return false
}

// StatusAfterConsumption derives the indent status from its unconsumed item count.
func StatusAfterConsumption(remaining int64) IndentStatus {
	if remaining == 0 {
		return IndentStatusPOGenerated
	}
	return IndentStatusPartial
}

// Indent is an internal request for stock, fulfilled by purchase orders.
type Indent struct {
	shared.BaseEntity
	IndentNo     string
	IndentDate   time.Time
	DepartmentID *int64
	CreatedBy    *int64
	Remarks      string
	Status       IndentStatus
	ApprovedBy   *int64
	ApprovedAt   *time.Time
	Items        []IndentItem
}

// IndentItem is one requested medicine. It is consumed once a purchase order covers it.
type IndentItem struct {
	ID               int64
	IndentID         int64
	GenericNameID    int64
	DosageFormID     *int64
	UnitID           *int64
	MedicineID       *int64
	RequestedQty     int64
	ApprovedQty      *int64
	PendingQty       *int64
	LastPurchaseRate *decimal.Decimal
	Remarks          string
	IsPOCreated      bool

	Medicine *Medicine
}

// IndentItemInput is a requested indent line.
type IndentItemInput struct {
	GenericNameID    int64
	DosageFormID     *int64
	UnitID           *int64
	MedicineID       *int64
	RequestedQty     int64
	LastPurchaseRate *decimal.Decimal
	Remarks          string
}

// IndentItemReview carries the reviewer's decision for one item.
type IndentItemReview struct {
	ID          int64
	ApprovedQty *int64
	PendingQty  *int64
	Remarks     string
}

// NewIndent validates the requested items and opens a pending indent.
func NewIndent(indentNo string, departmentID, createdBy *int64, remarks string, items []IndentItemInput, now time.Time) (*Indent, error) {
	errs := make(map[string]string)
	if len(items) == 0 {
		errs["items"] = "Items are required"
	}
	for i, in := range items {
		key := fmt.Sprintf("items[%d]", i)
		switch {
		case in.GenericNameID <= 0:
			errs[key+".genericNameId"] = "Generic name is required"
		case in.RequestedQty <= 0:
			errs[key+".requestedQty"] = "Requested quantity must be positive"
		}
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError("Invalid indent", errs)
	}

	ind := &Indent{
		BaseEntity:   shared.NewBaseEntity(now),
		IndentNo:     indentNo,
		IndentDate:   now,
		DepartmentID: departmentID,
		CreatedBy:    createdBy,
		Remarks:      remarks,
		Status:       IndentStatusPending,
		Items:        make([]IndentItem, len(items)),
	}
	for i, in := range items {
		ind.Items[i] = IndentItem{
			GenericNameID:    in.GenericNameID,
			DosageFormID:     in.DosageFormID,
			UnitID:           in.UnitID,
			MedicineID:       in.MedicineID,
			RequestedQty:     in.RequestedQty,
			LastPurchaseRate: in.LastPurchaseRate,
			Remarks:          in.Remarks,
		}
	}
	return ind, nil
}

// Review records a review decision and per-item approved quantities.
// A nil approvedBy clears the approval stamp.
func (ind *Indent) Review(status IndentStatus, approvedBy *int64, reviews []IndentItemReview, now time.Time) error {
	if !status.IsReviewDecision() {
		return shared.NewValidationError("Invalid status", map[string]string{"status": "Invalid status"})
	}
	index := make(map[int64]int, len(ind.Items))
	for i, item := range ind.Items {
		index[item.ID] = i
	}
	for _, r := range reviews {
		i, ok := index[r.ID]
		if !ok {
			return shared.NewNotFoundError(fmt.Sprintf("Indent item %d", r.ID))
		}
		ind.Items[i].ApprovedQty = r.ApprovedQty
		ind.Items[i].PendingQty = r.PendingQty
		if r.Remarks != "" {
			ind.Items[i].Remarks = r.Remarks
		}
	}
	ind.Status = status
	if approvedBy != nil {
		by := *approvedBy
		ind.ApprovedBy = &by
		ind.ApprovedAt = &now
	} else {
		ind.ApprovedBy = nil
		ind.ApprovedAt = nil
	}
	ind.Touch(now)
	return nil
}

// HasConsumedItems reports whether any item is already covered by a purchase order.
func (ind *Indent) HasConsumedItems() bool {
	for _, item := range ind.Items {
		if item.IsPOCreated {
			return true
		}
	}
	return false
}
