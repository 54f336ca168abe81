package patient

import (
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountStatus summarizes whether a patient's welfare discount currently applies.
type DiscountStatus string

const (
	DiscountStatusActive  DiscountStatus = "Active"
	DiscountStatusExpired DiscountStatus = "Expired"
	DiscountStatusNone    DiscountStatus = "None"
)

// WelfareRecord is the subsidy granted to a patient. A patient has at most one.
type WelfareRecord struct {
	shared.BaseEntity
	PatientID          int64
	WelfareCategory    string
	DiscountType       string
	DiscountPercentage decimal.Decimal
	StartDate          *time.Time
	EndDate            *time.Time
	ApprovedBy         string
	ReferredBy         string
	Remarks            string
	MonthlyIncome      *decimal.Decimal
	FamilyMembers      *int
	VerificationStatus string
}

// WelfareDetails are the editable welfare attributes.
type WelfareDetails struct {
	WelfareCategory    string
	DiscountType       string
	DiscountPercentage decimal.Decimal
	StartDate          *time.Time
	EndDate            *time.Time
	ApprovedBy         string
	ReferredBy         string
	Remarks            string
	MonthlyIncome      *decimal.Decimal
	FamilyMembers      *int
	VerificationStatus string
}

var hundred = decimal.NewFromInt(100)

// Validate checks the category and the discount bounds.
func (d WelfareDetails) Validate() error {
	errs := make(map[string]string)
	if strings.TrimSpace(d.WelfareCategory) == "" {
		errs["welfareCategory"] = "Welfare category is required"
	}
	if d.DiscountPercentage.IsNegative() || d.DiscountPercentage.GreaterThan(hundred) {
		errs["discountPercentage"] = "Discount must be between 0-100%"
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		errs["endDate"] = "End date must not be before start date"
	}
	if len(errs) > 0 {
		return shared.NewValidationError("Validation error", errs)
	}
	return nil
}

// NewWelfareRecord validates details and attaches them to a patient.
func NewWelfareRecord(patientID int64, d WelfareDetails, now time.Time) (*WelfareRecord, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	w := &WelfareRecord{BaseEntity: shared.NewBaseEntity(now), PatientID: patientID}
	w.apply(d)
	return w, nil
}

// Update replaces the editable attributes.
func (w *WelfareRecord) Update(d WelfareDetails, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	w.apply(d)
	w.Touch(now)
	return nil
}

func (w *WelfareRecord) apply(d WelfareDetails) {
	w.WelfareCategory = strings.TrimSpace(d.WelfareCategory)
	w.DiscountType = d.DiscountType
	w.DiscountPercentage = d.DiscountPercentage
	w.StartDate = d.StartDate
	w.EndDate = d.EndDate
	w.ApprovedBy = d.ApprovedBy
	w.ReferredBy = d.ReferredBy
	w.Remarks = d.Remarks
	w.MonthlyIncome = d.MonthlyIncome
	w.FamilyMembers = d.FamilyMembers
	w.VerificationStatus = d.VerificationStatus
}

// IsActiveOn reports whether today falls within the record's dates. Missing bounds are open.
func (w *WelfareRecord) IsActiveOn(today time.Time) bool {
	if w == nil {
		return false
	}
	if w.StartDate != nil && w.StartDate.After(today) {
		return false
	}
	if w.EndDate != nil && w.EndDate.Before(today) {
		return false
	}
	return true
}

// WelfareStatus is the derived discount view attached to every patient read.
type WelfareStatus struct {
	IsWelfare          bool
	WelfareCategory    *string
	DiscountType       *string
	DiscountApplicable decimal.Decimal
	DiscountStatus     DiscountStatus
}

// WelfareStatusOf evaluates the patient's welfare record against today.
func WelfareStatusOf(w *WelfareRecord, today time.Time) WelfareStatus {
	if w == nil {
		return WelfareStatus{DiscountApplicable: decimal.Zero, DiscountStatus: DiscountStatusNone}
	}
	s := WelfareStatus{
		IsWelfare:          true,
		DiscountApplicable: decimal.Zero,
		DiscountStatus:     DiscountStatusExpired,
	}
	if w.WelfareCategory != "" {
		c := w.WelfareCategory
		s.WelfareCategory = &c
	}
	if w.DiscountType != "" {
		t := w.DiscountType
		s.DiscountType = &t
	}
	if w.IsActiveOn(today) {
		s.DiscountApplicable = w.DiscountPercentage
		s.DiscountStatus = DiscountStatusActive
	}
	return s
}
