package models

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for a pharmacy sale.
type SaleModel struct {
	BaseModel
	SaleNo         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SaleDate       time.Time       `gorm:"not null;index"`
	CustomerName   string          `gorm:"type:varchar(100)"`
	PaymentMode    string          `gorm:"type:varchar(30);not null"`
	TotalDiscount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxPercent     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	GrossAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	NetAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedBy      *int64

	Items []SaleItemModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale.
func (m *SaleModel) ToDomain() *pharmacy.Sale {
	s := &pharmacy.Sale{
		BaseEntity:     m.BaseModel.ToDomain(),
		SaleNo:         m.SaleNo,
		SaleDate:       m.SaleDate,
		CustomerName:   m.CustomerName,
		PaymentMode:    m.PaymentMode,
		TotalDiscount:  m.TotalDiscount,
		TaxPercent:     m.TaxPercent,
		GrossAmount:    m.GrossAmount,
		DiscountAmount: m.DiscountAmount,
		TaxAmount:      m.TaxAmount,
		NetAmount:      m.NetAmount,
		CreatedBy:      m.CreatedBy,
		Items:          make([]pharmacy.SaleItem, len(m.Items)),
	}
	for i, it := range m.Items {
		s.Items[i] = pharmacy.SaleItem{
			ID:              it.ID,
			SaleID:          it.SaleID,
			MedicineID:      it.MedicineID,
			BatchNo:         it.BatchNo,
			ExpiryDate:      it.ExpiryDate,
			Quantity:        it.Quantity,
			SaleRate:        it.SaleRate,
			DiscountPercent: it.DiscountPercent,
			LineAmount:      it.LineAmount,
			Medicine:        it.Medicine.ToDomain(),
		}
	}
	return s
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *pharmacy.Sale) *SaleModel {
	m := &SaleModel{
		SaleNo:         s.SaleNo,
		SaleDate:       s.SaleDate,
		CustomerName:   s.CustomerName,
		PaymentMode:    s.PaymentMode,
		TotalDiscount:  s.TotalDiscount,
		TaxPercent:     s.TaxPercent,
		GrossAmount:    s.GrossAmount,
		DiscountAmount: s.DiscountAmount,
		TaxAmount:      s.TaxAmount,
		NetAmount:      s.NetAmount,
		CreatedBy:      s.CreatedBy,
		Items:          make([]SaleItemModel, len(s.Items)),
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	for i, it := range s.Items {
		m.Items[i] = SaleItemModel{
			ID:              it.ID,
			SaleID:          it.SaleID,
			MedicineID:      it.MedicineID,
			BatchNo:         it.BatchNo,
			ExpiryDate:      it.ExpiryDate,
			Quantity:        it.Quantity,
			SaleRate:        it.SaleRate,
			DiscountPercent: it.DiscountPercent,
			LineAmount:      it.LineAmount,
		}
	}
	return m
}

// SaleItemModel is one dispensed line of a sale.
type SaleItemModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	SaleID          int64           `gorm:"not null;index"`
	MedicineID      int64           `gorm:"not null;index"`
	BatchNo         string          `gorm:"type:varchar(50);not null"`
	ExpiryDate      *time.Time      `gorm:"type:date"`
	Quantity        int64           `gorm:"not null"`
	SaleRate        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineAmount      decimal.Decimal `gorm:"type:decimal(14,4);not null"`

	Medicine *MedicineModel `gorm:"foreignKey:MedicineID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}
