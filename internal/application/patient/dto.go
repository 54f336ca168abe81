package patient

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/shopspring/decimal"
)

// ==================== Patient DTOs ====================

// CreatePatientRequest represents a request to register a patient
type CreatePatientRequest struct {
	Name           string     `json:"name" binding:"required,max=100"`
	GuardianName   string     `json:"guardianName" binding:"max=100"`
	Gender         string     `json:"gender" binding:"required,max=20"`
	Age            *int       `json:"age" binding:"required,min=0,max=150"`
	MaritalStatus  string     `json:"maritalStatus" binding:"max=20"`
	BloodGroup     string     `json:"bloodGroup" binding:"max=5"`
	PhoneNumber    string     `json:"phoneNumber" binding:"max=20"`
	CNICNumber     string     `json:"cnicNumber" binding:"max=20"`
	Address        string     `json:"address" binding:"max=255"`
	OrganizationID *int64     `json:"organizationId"`
	CreatedAt      *time.Time `json:"createdAt"` // back-dated registration; defaults to now
}

// UpdatePatientRequest represents a request to update a patient's details
type UpdatePatientRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	GuardianName   string `json:"guardianName" binding:"max=100"`
	Gender         string `json:"gender" binding:"required,max=20"`
	Age            *int   `json:"age" binding:"required,min=0,max=150"`
	MaritalStatus  string `json:"maritalStatus" binding:"max=20"`
	BloodGroup     string `json:"bloodGroup" binding:"max=5"`
	PhoneNumber    string `json:"phoneNumber" binding:"max=20"`
	CNICNumber     string `json:"cnicNumber" binding:"max=20"`
	Address        string `json:"address" binding:"max=255"`
	OrganizationID *int64 `json:"organizationId"`
}

func (r CreatePatientRequest) details() patient.Details {
	return patient.Details{
		Name:           r.Name,
		GuardianName:   r.GuardianName,
		Gender:         r.Gender,
		Age:            r.Age,
		MaritalStatus:  r.MaritalStatus,
		BloodGroup:     r.BloodGroup,
		PhoneNumber:    r.PhoneNumber,
		CNICNumber:     r.CNICNumber,
		Address:        r.Address,
		OrganizationID: r.OrganizationID,
	}
}

func (r UpdatePatientRequest) details() patient.Details {
	return patient.Details{
		Name:           r.Name,
		GuardianName:   r.GuardianName,
		Gender:         r.Gender,
		Age:            r.Age,
		MaritalStatus:  r.MaritalStatus,
		BloodGroup:     r.BloodGroup,
		PhoneNumber:    r.PhoneNumber,
		CNICNumber:     r.CNICNumber,
		Address:        r.Address,
		OrganizationID: r.OrganizationID,
	}
}

// PatientResponse represents a patient with its derived welfare status
type PatientResponse struct {
	ID                 int64           `json:"id"`
	PatientID          int64           `json:"patientId"`
	Name               string          `json:"name"`
	GuardianName       string          `json:"guardianName"`
	Gender             string          `json:"gender"`
	Age                int             `json:"age"`
	MaritalStatus      string          `json:"maritalStatus"`
	BloodGroup         string          `json:"bloodGroup"`
	PhoneNumber        string          `json:"phoneNumber"`
	CNICNumber         string          `json:"cnicNumber"`
	Address            string          `json:"address"`
	OrganizationID     *int64          `json:"organizationId,omitempty"`
	CreatedByUserID    *int64          `json:"createdByUserId,omitempty"`
	IsWelfare          bool            `json:"isWelfare"`
	WelfareCategory    *string         `json:"welfareCategory"`
	DiscountType       *string         `json:"discountType"`
	DiscountApplicable decimal.Decimal `json:"discountApplicable"`
	DiscountStatus     string          `json:"discountStatus"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// ToPatientResponse converts a domain patient, evaluating welfare status on today.
func ToPatientResponse(p *patient.Patient, today time.Time) PatientResponse {
	status := patient.WelfareStatusOf(p.Welfare, today)
	return PatientResponse{
		ID:                 p.ID,
		PatientID:          p.PatientID,
		Name:               p.Name,
		GuardianName:       p.GuardianName,
		Gender:             p.Gender,
		Age:                p.Age,
		MaritalStatus:      p.MaritalStatus,
		BloodGroup:         p.BloodGroup,
		PhoneNumber:        p.PhoneNumber,
		CNICNumber:         p.CNICNumber,
		Address:            p.Address,
		OrganizationID:     p.OrganizationID,
		CreatedByUserID:    p.CreatedByUserID,
		IsWelfare:          status.IsWelfare,
		WelfareCategory:    status.WelfareCategory,
		DiscountType:       status.DiscountType,
		DiscountApplicable: status.DiscountApplicable,
		DiscountStatus:     string(status.DiscountStatus),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ToPatientResponses converts a slice of domain patients.
func ToPatientResponses(patients []patient.Patient, today time.Time) []PatientResponse {
	out := make([]PatientResponse, len(patients))
	for i := range patients {
		out[i] = ToPatientResponse(&patients[i], today)
	}
	return out
}

// ==================== Welfare DTOs ====================

// WelfareRequest represents the editable attributes of a welfare record
type WelfareRequest struct {
	WelfareCategory    string           `json:"welfareCategory" binding:"required,max=100"`
	DiscountType       string           `json:"discountType" binding:"max=50"`
	DiscountPercentage decimal.Decimal  `json:"discountPercentage"`
	StartDate          *time.Time       `json:"startDate"`
	EndDate            *time.Time       `json:"endDate"`
	ApprovedBy         string           `json:"approvedBy" binding:"max=100"`
	ReferredBy         string           `json:"referredBy" binding:"max=100"`
	Remarks            string           `json:"remarks"`
	MonthlyIncome      *decimal.Decimal `json:"monthlyIncome"`
	FamilyMembers      *int             `json:"familyMembers" binding:"omitempty,min=0"`
	VerificationStatus string           `json:"verificationStatus" binding:"max=50"`
}

// CreateWelfareRequest represents a request to grant a welfare record to a patient
type CreateWelfareRequest struct {
	PatientID int64 `json:"patientId" binding:"required"`
	WelfareRequest
}

func (r WelfareRequest) details() patient.WelfareDetails {
	return patient.WelfareDetails{
		WelfareCategory:    r.WelfareCategory,
		DiscountType:       r.DiscountType,
		DiscountPercentage: r.DiscountPercentage,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		ApprovedBy:         r.ApprovedBy,
		ReferredBy:         r.ReferredBy,
		Remarks:            r.Remarks,
		MonthlyIncome:      r.MonthlyIncome,
		FamilyMembers:      r.FamilyMembers,
		VerificationStatus: r.VerificationStatus,
	}
}

// WelfareResponse represents a welfare record with its current discount status
type WelfareResponse struct {
	ID                 int64            `json:"id"`
	PatientID          int64            `json:"patientId"`
	WelfareCategory    string           `json:"welfareCategory"`
	DiscountType       string           `json:"discountType"`
	DiscountPercentage decimal.Decimal  `json:"discountPercentage"`
	StartDate          *time.Time       `json:"startDate"`
	EndDate            *time.Time       `json:"endDate"`
	ApprovedBy         string           `json:"approvedBy"`
	ReferredBy         string           `json:"referredBy"`
	Remarks            string           `json:"remarks"`
	MonthlyIncome      *decimal.Decimal `json:"monthlyIncome"`
	FamilyMembers      *int             `json:"familyMembers"`
	VerificationStatus string           `json:"verificationStatus"`
	DiscountStatus     string           `json:"discountStatus"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// ToWelfareResponse converts a domain welfare record.
func ToWelfareResponse(w *patient.WelfareRecord, today time.Time) WelfareResponse {
	return WelfareResponse{
		ID:                 w.ID,
		PatientID:          w.PatientID,
		WelfareCategory:    w.WelfareCategory,
		DiscountType:       w.DiscountType,
		DiscountPercentage: w.DiscountPercentage,
		StartDate:          w.StartDate,
		EndDate:            w.EndDate,
		ApprovedBy:         w.ApprovedBy,
		ReferredBy:         w.ReferredBy,
		Remarks:            w.Remarks,
		MonthlyIncome:      w.MonthlyIncome,
		FamilyMembers:      w.FamilyMembers,
		VerificationStatus: w.VerificationStatus,
		DiscountStatus:     string(patient.WelfareStatusOf(w, today).DiscountStatus),
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

// ==================== Card Print DTOs ====================

// CardPrintResponse is the outcome of printing a patient card
type CardPrintResponse struct {
	PrintID   int64           `json:"printId"`
	PatientID int64           `json:"patientId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message"`
}

// PrintCheckResponse previews the charge of the next print without recording it
type PrintCheckResponse struct {
	PatientID  int64           `json:"patientId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	PrintCount int64           `json:"printCount"`
}

// CardPriceResponse is the current reprint price
type CardPriceResponse struct {
	Price decimal.Decimal `json:"price"`
}

// UpdateCardPriceRequest sets the reprint price
type UpdateCardPriceRequest struct {
	Price *decimal.Decimal `json:"price" binding:"required"`
}
