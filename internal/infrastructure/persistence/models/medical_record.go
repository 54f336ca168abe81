package models

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/shopspring/decimal"
)

// MedicalRecordModel is the persistence model for the MedicalRecord aggregate root.
type MedicalRecordModel struct {
	BaseModel
	PatientRowID int64  `gorm:"column:patient_id;not null;index"` // patients.id
	ReceiptNo    string `gorm:"type:varchar(20);not null;uniqueIndex"`
	DoctorID     *int64 `gorm:"index"`
	TokenNumber  *int64
	TokenDate    *time.Time      `gorm:"type:date"`
	TotalFee     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalFee     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes        string          `gorm:"type:text"`
	UserID       int64           `gorm:"not null;index"`
	RecordDate   time.Time       `gorm:"not null;index"`

	Items   []MedicalRecordItemModel `gorm:"foreignKey:MedicalRecordID;references:ID"`
	Patient *PatientModel            `gorm:"foreignKey:PatientRowID;references:ID;constraint:OnDelete:RESTRICT"`
	User    *UserModel               `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for GORM
func (MedicalRecordModel) TableName() string {
	return "medical_records"
}

// ToDomain converts the persistence model to a domain MedicalRecord.
func (m *MedicalRecordModel) ToDomain() *medicalrecord.MedicalRecord {
	r := &medicalrecord.MedicalRecord{
		BaseEntity:  m.BaseModel.ToDomain(),
		PatientID:   m.PatientRowID,
		ReceiptNo:   m.ReceiptNo,
		DoctorID:    m.DoctorID,
		TokenNumber: m.TokenNumber,
		TokenDate:   m.TokenDate,
		TotalFee:    m.TotalFee,
		Discount:    m.Discount,
		FinalFee:    m.FinalFee,
		Notes:       m.Notes,
		UserID:      m.UserID,
		RecordDate:  m.RecordDate,
		Items:       make([]medicalrecord.Item, len(m.Items)),
		User:        m.User.ToReference(),
	}
	if m.Patient != nil {
		r.Patient = m.Patient.ToDomain()
	}
	for i := range m.Items {
		r.Items[i] = *m.Items[i].ToDomain()
	}
	return r
}

// FromDomain populates the persistence model from a domain MedicalRecord.
func (m *MedicalRecordModel) FromDomain(r *medicalrecord.MedicalRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.PatientRowID = r.PatientID
	m.ReceiptNo = r.ReceiptNo
	m.DoctorID = r.DoctorID
	m.TokenNumber = r.TokenNumber
	m.TokenDate = r.TokenDate
	m.TotalFee = r.TotalFee
	m.Discount = r.Discount
	m.FinalFee = r.FinalFee
	m.Notes = r.Notes
	m.UserID = r.UserID
	m.RecordDate = r.RecordDate
	m.Items = make([]MedicalRecordItemModel, len(r.Items))
	for i := range r.Items {
		m.Items[i] = *MedicalRecordItemModelFromDomain(&r.Items[i])
	}
}

// MedicalRecordModelFromDomain creates a new persistence model from a domain MedicalRecord.
func MedicalRecordModelFromDomain(r *medicalrecord.MedicalRecord) *MedicalRecordModel {
	m := &MedicalRecordModel{}
	m.FromDomain(r)
	return m
}

// MedicalRecordItemModel is one billed procedure of a medical record.
type MedicalRecordItemModel struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	MedicalRecordID int64 `gorm:"not null;index"`
	DepartmentID    int64 `gorm:"not null"`
	ProcedureID     int64 `gorm:"not null"`
	DoctorID        *int64
	Fee             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalFee        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes           string          `gorm:"type:text"`

	Department *DepartmentModel `gorm:"foreignKey:DepartmentID;references:ID"`
	Procedure  *ProcedureModel  `gorm:"foreignKey:ProcedureID;references:ID"`
	Doctor     *DoctorModel     `gorm:"foreignKey:DoctorID;references:ID"`
}

// TableName returns the table name for GORM
func (MedicalRecordItemModel) TableName() string {
	return "medical_record_items"
}

// ToDomain converts the persistence model to a domain record Item.
func (m *MedicalRecordItemModel) ToDomain() *medicalrecord.Item {
	return &medicalrecord.Item{
		ID:              m.ID,
		MedicalRecordID: m.MedicalRecordID,
		DepartmentID:    m.DepartmentID,
		ProcedureID:     m.ProcedureID,
		DoctorID:        m.DoctorID,
		Fee:             m.Fee,
		Discount:        m.Discount,
		FinalFee:        m.FinalFee,
		Notes:           m.Notes,
		Department:      m.Department.ToReference(),
		Procedure:       m.Procedure.ToReference(),
		Doctor:          m.Doctor.ToReference(),
	}
}

// MedicalRecordItemModelFromDomain creates a new persistence model from a domain record Item.
func MedicalRecordItemModelFromDomain(i *medicalrecord.Item) *MedicalRecordItemModel {
	return &MedicalRecordItemModel{
		ID:              i.ID,
		MedicalRecordID: i.MedicalRecordID,
		DepartmentID:    i.DepartmentID,
		ProcedureID:     i.ProcedureID,
		DoctorID:        i.DoctorID,
		Fee:             i.Fee,
		Discount:        i.Discount,
		FinalFee:        i.FinalFee,
		Notes:           i.Notes,
	}
}
