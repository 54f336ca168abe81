package models

import (
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
)

// The tables in this file are maintained by the catalog and identity screens.
// This service only reads them to enrich records and documents.

// DepartmentModel is a hospital department
type DepartmentModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}

// ProcedureModel is a billable procedure offered by a department
type ProcedureModel struct {
	ID           int64  `gorm:"primaryKey"`
	DepartmentID *int64 `gorm:"index"`
	Name         string `gorm:"type:varchar(150);not null"`
}

// TableName returns the table name for GORM
func (ProcedureModel) TableName() string {
	return "procedures"
}

// DoctorModel is a consulting doctor
type DoctorModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (DoctorModel) TableName() string {
	return "doctors"
}

// UserModel is a staff account; only its display name is read here
type UserModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

func refOf(id int64, name string) *medicalrecord.Reference {
	return &medicalrecord.Reference{ID: id, Name: name}
}

// ToReference converts a department row to a record reference
func (m *DepartmentModel) ToReference() *medicalrecord.Reference {
	if m == nil {
		return nil
	}
	return refOf(m.ID, m.Name)
}

// ToReference converts a procedure row to a record reference
func (m *ProcedureModel) ToReference() *medicalrecord.Reference {
	if m == nil {
		return nil
	}
	return refOf(m.ID, m.Name)
}

// ToReference converts a doctor row to a record reference
func (m *DoctorModel) ToReference() *medicalrecord.Reference {
	if m == nil {
		return nil
	}
	return refOf(m.ID, m.Name)
}

// ToReference converts a user row to a record reference
func (m *UserModel) ToReference() *medicalrecord.Reference {
	if m == nil {
		return nil
	}
	return refOf(m.ID, m.Name)
}

// MedicineModel is a stocked medicine
type MedicineModel struct {
	ID            int64  `gorm:"primaryKey"`
	Name          string `gorm:"type:varchar(200);not null"`
	GenericNameID *int64 `gorm:"index"`
	DosageFormID  *int64
	UnitID        *int64
	Strength      string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (MedicineModel) TableName() string {
	return "medicines"
}

// ToDomain converts the persistence model to a domain Medicine
func (m *MedicineModel) ToDomain() *pharmacy.Medicine {
	if m == nil {
		return nil
	}
	return &pharmacy.Medicine{
		ID:            m.ID,
		Name:          m.Name,
		GenericNameID: m.GenericNameID,
		DosageFormID:  m.DosageFormID,
		UnitID:        m.UnitID,
		Strength:      m.Strength,
	}
}

// DistributorModel is a medicine supplier
type DistributorModel struct {
	ID      int64  `gorm:"primaryKey"`
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(30)"`
	Email   string `gorm:"type:varchar(100)"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (DistributorModel) TableName() string {
	return "distributors"
}

// ToDomain converts the persistence model to a domain Distributor
func (m *DistributorModel) ToDomain() *pharmacy.Distributor {
	if m == nil {
		return nil
	}
	return &pharmacy.Distributor{
		ID:      m.ID,
		Name:    m.Name,
		Phone:   m.Phone,
		Email:   m.Email,
		Address: m.Address,
	}
}
