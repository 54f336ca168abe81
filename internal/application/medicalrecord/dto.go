package medicalrecord

import (
	"time"

	apppatient "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/shopspring/decimal"
)

// CreateRecordRequest represents a request to bill a patient visit
type CreateRecordRequest struct {
	PatientID  int64               `json:"patientId" binding:"required"`
	Discount   decimal.Decimal     `json:"discount"`
	Notes      string              `json:"notes"`
	RecordDate *time.Time          `json:"recordDate"`
	Items      []RecordItemRequest `json:"items" binding:"dive"`
}

// RecordItemRequest represents one charged procedure
type RecordItemRequest struct {
	DepartmentID int64           `json:"departmentId" binding:"required"`
	ProcedureID  int64           `json:"procedureId" binding:"required"`
	DoctorID     *int64          `json:"doctorId"`
	Fee          decimal.Decimal `json:"fee"`
	Discount     decimal.Decimal `json:"discount"`
	Notes        string          `json:"notes"`
}

func (r CreateRecordRequest) itemInputs() []medicalrecord.ItemInput {
	items := make([]medicalrecord.ItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = medicalrecord.ItemInput{
			DepartmentID: item.DepartmentID,
			ProcedureID:  item.ProcedureID,
			DoctorID:     item.DoctorID,
			Fee:          item.Fee,
			Discount:     item.Discount,
			Notes:        item.Notes,
		}
	}
	return items
}

// ReferenceResponse is an id/name pair of a catalog entity
type ReferenceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toReference(r *medicalrecord.Reference) *ReferenceResponse {
	if r == nil {
		return nil
	}
	return &ReferenceResponse{ID: r.ID, Name: r.Name}
}

// RecordItemResponse represents a billed item
type RecordItemResponse struct {
	ID           int64              `json:"id"`
	DepartmentID int64              `json:"departmentId"`
	ProcedureID  int64              `json:"procedureId"`
	DoctorID     *int64             `json:"doctorId"`
	Fee          decimal.Decimal    `json:"fee"`
	Discount     decimal.Decimal    `json:"discount"`
	FinalFee     decimal.Decimal    `json:"finalFee"`
	Notes        string             `json:"notes"`
	Department   *ReferenceResponse `json:"department,omitempty"`
	Procedure    *ReferenceResponse `json:"procedure,omitempty"`
	Doctor       *ReferenceResponse `json:"doctor,omitempty"`
}

// MedicalRecordResponse represents a billed visit
type MedicalRecordResponse struct {
	ID          int64                       `json:"id"`
	ReceiptNo   string                      `json:"receiptNo"`
	DoctorID    *int64                      `json:"doctorId"`
	TokenNumber *int64                      `json:"tokenNumber"`
	TokenDate   *time.Time                  `json:"tokenDate"`
	TotalFee    decimal.Decimal             `json:"totalFee"`
	Discount    decimal.Decimal             `json:"discount"`
	FinalFee    decimal.Decimal             `json:"finalFee"`
	Notes       string                      `json:"notes"`
	UserID      int64                       `json:"userId"`
	RecordDate  time.Time                   `json:"recordDate"`
	CreatedAt   time.Time                   `json:"createdAt"`
	Patient     *apppatient.PatientResponse `json:"patient,omitempty"`
	User        *ReferenceResponse          `json:"user,omitempty"`
	Items       []RecordItemResponse        `json:"items"`
}

// ToMedicalRecordResponse converts a domain record
func ToMedicalRecordResponse(r *medicalrecord.MedicalRecord, today time.Time) MedicalRecordResponse {
	resp := MedicalRecordResponse{
		ID:          r.ID,
		ReceiptNo:   r.ReceiptNo,
		DoctorID:    r.DoctorID,
		TokenNumber: r.TokenNumber,
		TokenDate:   r.TokenDate,
		TotalFee:    r.TotalFee,
		Discount:    r.Discount,
		FinalFee:    r.FinalFee,
		Notes:       r.Notes,
		UserID:      r.UserID,
		RecordDate:  r.RecordDate,
		CreatedAt:   r.CreatedAt,
		User:        toReference(r.User),
		Items:       make([]RecordItemResponse, len(r.Items)),
	}
	if r.Patient != nil {
		p := apppatient.ToPatientResponse(r.Patient, today)
		resp.Patient = &p
	}
	for i, item := range r.Items {
		resp.Items[i] = RecordItemResponse{
			ID:           item.ID,
			DepartmentID: item.DepartmentID,
			ProcedureID:  item.ProcedureID,
			DoctorID:     item.DoctorID,
			Fee:          item.Fee,
			Discount:     item.Discount,
			FinalFee:     item.FinalFee,
			Notes:        item.Notes,
			Department:   toReference(item.Department),
			Procedure:    toReference(item.Procedure),
			Doctor:       toReference(item.Doctor),
		}
	}
	return resp
}

// PatientRecordsResponse is a patient with their visit history
type PatientRecordsResponse struct {
	Patient     apppatient.PatientResponse `json:"patient"`
	Records     []MedicalRecordResponse    `json:"records"`
	TotalVisits int                        `json:"totalVisits"`
}

// ToPatientRecordsResponse converts a patient and their records
func ToPatientRecordsResponse(v medicalrecord.PatientVisits, today time.Time) PatientRecordsResponse {
	records := make([]MedicalRecordResponse, len(v.Records))
	for i := range v.Records {
		records[i] = ToMedicalRecordResponse(&v.Records[i], today)
	}
	return PatientRecordsResponse{
		Patient:     apppatient.ToPatientResponse(&v.Patient, today),
		Records:     records,
		TotalVisits: v.TotalVisits(),
	}
}
