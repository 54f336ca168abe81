package models

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/shopspring/decimal"
)

// PatientModel is the persistence model for the Patient aggregate root.
type PatientModel struct {
	BaseModel
	PatientID       int64  `gorm:"not null;uniqueIndex"`
	Name            string `gorm:"type:varchar(100);not null;index"`
	GuardianName    string `gorm:"type:varchar(100)"`
	Gender          string `gorm:"type:varchar(20);not null"`
	Age             int    `gorm:"not null"`
	MaritalStatus   string `gorm:"type:varchar(20)"`
	BloodGroup      string `gorm:"type:varchar(5)"`
	PhoneNumber     string `gorm:"type:varchar(20);index"`
	CNICNumber      string `gorm:"column:cnic_number;type:varchar(20);index"`
	Address         string `gorm:"type:varchar(255)"`
	CreatedByUserID *int64
	OrganizationID  *int64
	Welfare         *WelfareRecordModel `gorm:"foreignKey:PatientID;references:PatientID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PatientModel) TableName() string {
	return "patients"
}

// ToDomain converts the persistence model to a domain Patient.
func (m *PatientModel) ToDomain() *patient.Patient {
	p := &patient.Patient{
		BaseEntity:      m.BaseModel.ToDomain(),
		PatientID:       m.PatientID,
		Name:            m.Name,
		GuardianName:    m.GuardianName,
		Gender:          m.Gender,
		Age:             m.Age,
		MaritalStatus:   m.MaritalStatus,
		BloodGroup:      m.BloodGroup,
		PhoneNumber:     m.PhoneNumber,
		CNICNumber:      m.CNICNumber,
		Address:         m.Address,
		CreatedByUserID: m.CreatedByUserID,
		OrganizationID:  m.OrganizationID,
	}
	if m.Welfare != nil {
		p.Welfare = m.Welfare.ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Patient. The welfare
// record is persisted separately.
func (m *PatientModel) FromDomain(p *patient.Patient) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.PatientID = p.PatientID
	m.Name = p.Name
	m.GuardianName = p.GuardianName
	m.Gender = p.Gender
	m.Age = p.Age
	m.MaritalStatus = p.MaritalStatus
	m.BloodGroup = p.BloodGroup
	m.PhoneNumber = p.PhoneNumber
	m.CNICNumber = p.CNICNumber
	m.Address = p.Address
	m.CreatedByUserID = p.CreatedByUserID
	m.OrganizationID = p.OrganizationID
}

// PatientModelFromDomain creates a new persistence model from a domain Patient.
func PatientModelFromDomain(p *patient.Patient) *PatientModel {
	m := &PatientModel{}
	m.FromDomain(p)
	return m
}

// WelfareRecordModel is the persistence model for a patient's welfare enrollment.
type WelfareRecordModel struct {
	BaseModel
	PatientID          int64            `gorm:"not null;uniqueIndex"`
	WelfareCategory    string           `gorm:"type:varchar(100);not null"`
	DiscountType       string           `gorm:"type:varchar(50)"`
	DiscountPercentage decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	StartDate          *time.Time       `gorm:"type:date"`
	EndDate            *time.Time       `gorm:"type:date"`
	ApprovedBy         string           `gorm:"type:varchar(100)"`
	ReferredBy         string           `gorm:"type:varchar(100)"`
	Remarks            string           `gorm:"type:text"`
	MonthlyIncome      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	FamilyMembers      *int
	VerificationStatus string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (WelfareRecordModel) TableName() string {
	return "welfare_patients"
}

// ToDomain converts the persistence model to a domain WelfareRecord.
func (m *WelfareRecordModel) ToDomain() *patient.WelfareRecord {
	return &patient.WelfareRecord{
		BaseEntity:         m.BaseModel.ToDomain(),
		PatientID:          m.PatientID,
		WelfareCategory:    m.WelfareCategory,
		DiscountType:       m.DiscountType,
		DiscountPercentage: m.DiscountPercentage,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		ApprovedBy:         m.ApprovedBy,
		ReferredBy:         m.ReferredBy,
		Remarks:            m.Remarks,
		MonthlyIncome:      m.MonthlyIncome,
		FamilyMembers:      m.FamilyMembers,
		VerificationStatus: m.VerificationStatus,
	}
}

// WelfareRecordModelFromDomain creates a new persistence model from a domain WelfareRecord.
func WelfareRecordModelFromDomain(w *patient.WelfareRecord) *WelfareRecordModel {
	m := &WelfareRecordModel{
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
	}
	m.FromDomainBaseEntity(w.BaseEntity)
	return m
}

// CardPrintModel is one printout of a patient card.
type CardPrintModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	PatientID   int64           `gorm:"not null;index"`
	PrintedByID int64           `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrintedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CardPrintModel) TableName() string {
	return "patient_card_prints"
}

// ToDomain converts the persistence model to a domain CardPrint.
func (m *CardPrintModel) ToDomain() *patient.CardPrint {
	return &patient.CardPrint{
		ID:        m.ID,
		PatientID: m.PatientID,
		PrintedBy: m.PrintedByID,
		Amount:    m.Amount,
		PrintedAt: m.PrintedAt,
	}
}

// CardPrintModelFromDomain creates a new persistence model from a domain CardPrint.
func CardPrintModelFromDomain(p *patient.CardPrint) *CardPrintModel {
	return &CardPrintModel{
		ID:          p.ID,
		PatientID:   p.PatientID,
		PrintedByID: p.PrintedBy,
		Amount:      p.Amount,
		PrintedAt:   p.PrintedAt,
	}
}

// CardPriceModel holds the reprint price. The table has at most one row.
type CardPriceModel struct {
	BaseModel
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (CardPriceModel) TableName() string {
	return "patient_card_prices"
}
