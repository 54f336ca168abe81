// Package medicalrecord models billing transactions recorded against a patient visit.
package medicalrecord

import (
	"fmt"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/billing"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Reference is a named catalog row (department, procedure, doctor, user) shown on a record.
type Reference struct {
	ID   int64
	Name string
}

// MedicalRecord is one billing transaction for a patient visit.
type MedicalRecord struct {
	shared.BaseEntity
	PatientID   int64 // internal row ID of the patient
	ReceiptNo   string
	DoctorID    *int64
	TokenNumber *int64
	TokenDate   *time.Time
	TotalFee    decimal.Decimal
	Discount    decimal.Decimal
	FinalFee    decimal.Decimal
	Notes       string
	UserID      int64
	RecordDate  time.Time
	Items       []Item

	Patient *patient.Patient
	User    *Reference
}

// Item is one charged procedure on a record.
type Item struct {
	ID              int64
	MedicalRecordID int64
	DepartmentID    int64
	ProcedureID     int64
	DoctorID        *int64
	Fee             decimal.Decimal
	Discount        decimal.Decimal
	FinalFee        decimal.Decimal
	Notes           string

	Department *Reference
	Procedure  *Reference
	Doctor     *Reference
}

// ItemInput is a requested line item before pricing.
type ItemInput struct {
	DepartmentID int64
	ProcedureID  int64
	DoctorID     *int64
	Fee          decimal.Decimal
	Discount     decimal.Decimal
	Notes        string
}

// ValidateItems rejects an empty list and items with missing references or negative amounts.
func ValidateItems(items []ItemInput) error {
	if len(items) == 0 {
		return shared.NewValidationError("At least one medical record item is required",
			map[string]string{"items": "At least one item is required"})
	}
	errs := make(map[string]string)
	for i, item := range items {
		key := fmt.Sprintf("items[%d]", i)
		switch {
		case item.DepartmentID <= 0:
			errs[key+".departmentId"] = "Department is required"
		case item.ProcedureID <= 0:
			errs[key+".procedureId"] = "Procedure is required"
		case item.Fee.IsNegative():
			errs[key+".fee"] = "Fee must not be negative"
		case item.Discount.IsNegative():
			errs[key+".discount"] = "Discount must not be negative"
		}
	}
	if len(errs) > 0 {
		return shared.NewValidationError("Invalid medical record items", errs)
	}
	return nil
}

// ValidateRecordDiscount rejects a negative record-level discount, which would
// push the final fee above the items' total.
func ValidateRecordDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewValidationError("Invalid medical record discount",
			map[string]string{"discount": "Discount must not be negative"})
	}
	return nil
}

// BillingDoctor returns the doctor of the first item that names one, in input order.
func BillingDoctor(items []ItemInput) *int64 {
	for _, item := range items {
		if item.DoctorID != nil && *item.DoctorID > 0 {
			id := *item.DoctorID
			return &id
		}
	}
	return nil
}

// Draft carries the allocated identifiers for a new record.
type Draft struct {
	PatientID   int64
	ReceiptNo   string
	DoctorID    *int64
	TokenNumber *int64
	TokenDate   *time.Time
	Discount    decimal.Decimal
	Notes       string
	UserID      int64
	RecordDate  time.Time
}

// NewMedicalRecord prices the items and assembles the record.
func NewMedicalRecord(d Draft, items []ItemInput, policy billing.NegativeFeePolicy, now time.Time) *MedicalRecord {
	lines := make([]billing.LineItem, len(items))
	for i, item := range items {
		lines[i] = billing.LineItem{Fee: item.Fee, Discount: item.Discount}
	}
	totals := billing.ComputeRecordTotals(lines, d.Discount, policy)

	r := &MedicalRecord{
		BaseEntity:  shared.NewBaseEntity(now),
		PatientID:   d.PatientID,
		ReceiptNo:   d.ReceiptNo,
		DoctorID:    d.DoctorID,
		TokenNumber: d.TokenNumber,
		TokenDate:   d.TokenDate,
		TotalFee:    totals.TotalFee,
		Discount:    d.Discount,
		FinalFee:    totals.FinalFee,
		Notes:       d.Notes,
		UserID:      d.UserID,
		RecordDate:  d.RecordDate,
		Items:       make([]Item, len(items)),
	}
	for i, item := range items {
		r.Items[i] = Item{
			DepartmentID: item.DepartmentID,
			ProcedureID:  item.ProcedureID,
			DoctorID:     item.DoctorID,
			Fee:          item.Fee,
			Discount:     item.Discount,
			FinalFee:     totals.ItemFinalFees[i],
			Notes:        item.Notes,
		}
	}
	return r
}

// PatientVisits is a patient together with their records, newest first.
type PatientVisits struct {
	Patient patient.Patient
	Records []MedicalRecord
}

// TotalVisits is the number of records on file for the patient.
func (p PatientVisits) TotalVisits() int {
	return len(p.Records)
}
