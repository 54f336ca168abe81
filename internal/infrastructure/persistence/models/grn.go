package models

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/shopspring/decimal"
)

// GRNModel is the persistence model for a goods receipt note. A purchase order
// is received at most once, enforced by the unique index on po_id.
type GRNModel struct {
	BaseModel
	GRNNo          string     `gorm:"column:grn_no;type:varchar(50);not null;uniqueIndex"`
	GRNDate        time.Time  `gorm:"column:grn_date;not null"`
	POID           int64      `gorm:"column:po_id;not null;uniqueIndex"`
	PONo           string     `gorm:"column:po_no;type:varchar(50)"`
	PODate         *time.Time `gorm:"column:po_date"`
	DistributorID  int64      `gorm:"not null;index"`
	DepartmentID   *int64
	InvoiceNo      string          `gorm:"type:varchar(50)"`
	InvoiceDate    *time.Time      `gorm:"type:date"`
	InvoiceType    string          `gorm:"type:varchar(30)"`
	InvoiceStatus  string          `gorm:"type:varchar(30)"`
	TotalQty       int64           `gorm:"not null"`
	GrossAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	NetAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ReceivedBy     int64           `gorm:"not null"`
	Remarks        string          `gorm:"type:text"`

	Items       []GRNItemModel    `gorm:"foreignKey:GRNID;references:ID"`
	Distributor *DistributorModel `gorm:"foreignKey:DistributorID;references:ID"`
}

// TableName returns the table name for GORM
func (GRNModel) TableName() string {
	return "grns"
}

// ToDomain converts the persistence model to a domain GRN.
func (m *GRNModel) ToDomain() *pharmacy.GRN {
	g := &pharmacy.GRN{
		BaseEntity:     m.BaseModel.ToDomain(),
		GRNNo:          m.GRNNo,
		GRNDate:        m.GRNDate,
		POID:           m.POID,
		PONo:           m.PONo,
		PODate:         m.PODate,
		DistributorID:  m.DistributorID,
		DepartmentID:   m.DepartmentID,
		InvoiceNo:      m.InvoiceNo,
		InvoiceDate:    m.InvoiceDate,
		InvoiceType:    m.InvoiceType,
		InvoiceStatus:  m.InvoiceStatus,
		TotalQty:       m.TotalQty,
		GrossAmount:    m.GrossAmount,
		DiscountAmount: m.DiscountAmount,
		TaxAmount:      m.TaxAmount,
		NetAmount:      m.NetAmount,
		ReceivedBy:     m.ReceivedBy,
		Remarks:        m.Remarks,
		Items:          make([]pharmacy.GRNItem, len(m.Items)),
		Distributor:    m.Distributor.ToDomain(),
	}
	for i := range m.Items {
		g.Items[i] = *m.Items[i].ToDomain()
	}
	return g
}

// GRNModelFromDomain creates a new persistence model from a domain GRN.
func GRNModelFromDomain(g *pharmacy.GRN) *GRNModel {
	m := &GRNModel{
		GRNNo:          g.GRNNo,
		GRNDate:        g.GRNDate,
		POID:           g.POID,
		PONo:           g.PONo,
		PODate:         g.PODate,
		DistributorID:  g.DistributorID,
		DepartmentID:   g.DepartmentID,
		InvoiceNo:      g.InvoiceNo,
		InvoiceDate:    g.InvoiceDate,
		InvoiceType:    g.InvoiceType,
		InvoiceStatus:  g.InvoiceStatus,
		TotalQty:       g.TotalQty,
		GrossAmount:    g.GrossAmount,
		DiscountAmount: g.DiscountAmount,
		TaxAmount:      g.TaxAmount,
		NetAmount:      g.NetAmount,
		ReceivedBy:     g.ReceivedBy,
		Remarks:        g.Remarks,
		Items:          make([]GRNItemModel, len(g.Items)),
	}
	m.FromDomainBaseEntity(g.BaseEntity)
	for i := range g.Items {
		m.Items[i] = *GRNItemModelFromDomain(&g.Items[i])
	}
	return m
}

// GRNItemModel is one received line of a GRN.
type GRNItemModel struct {
	ID                    int64            `gorm:"primaryKey;autoIncrement"`
	GRNID                 int64            `gorm:"column:grn_id;not null;index"`
	MedicineID            int64            `gorm:"not null;index"`
	OrderedQty            int64            `gorm:"not null"`
	PreviouslyReceivedQty int64            `gorm:"not null;default:0"`
	ReceivedQty           int64            `gorm:"not null"`
	BonusQty              int64            `gorm:"not null;default:0"`
	TotalQty              int64            `gorm:"not null"`
	PendingQty            int64            `gorm:"not null;default:0"`
	BatchNo               string           `gorm:"type:varchar(50);not null"`
	ExpiryDate            *time.Time       `gorm:"type:date"`
	Rate                  decimal.Decimal  `gorm:"type:decimal(12,4);not null"`
	GrossAmount           decimal.Decimal  `gorm:"type:decimal(14,4);not null"`
	DiscountPercent       decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount        decimal.Decimal  `gorm:"type:decimal(14,4);not null;default:0"`
	TaxPercent            decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount             decimal.Decimal  `gorm:"type:decimal(14,4);not null;default:0"`
	NetAmount             decimal.Decimal  `gorm:"type:decimal(14,4);not null"`
	MRP                   *decimal.Decimal `gorm:"column:mrp;type:decimal(12,4)"`

	Medicine *MedicineModel `gorm:"foreignKey:MedicineID;references:ID"`
}

// TableName returns the table name for GORM
func (GRNItemModel) TableName() string {
	return "grn_items"
}

// ToDomain converts the persistence model to a domain GRNItem.
func (m *GRNItemModel) ToDomain() *pharmacy.GRNItem {
	return &pharmacy.GRNItem{
		ID:                    m.ID,
		GRNID:                 m.GRNID,
		MedicineID:            m.MedicineID,
		OrderedQty:            m.OrderedQty,
		PreviouslyReceivedQty: m.PreviouslyReceivedQty,
		ReceivedQty:           m.ReceivedQty,
		BonusQty:              m.BonusQty,
		TotalQty:              m.TotalQty,
		PendingQty:            m.PendingQty,
		BatchNo:               m.BatchNo,
		ExpiryDate:            m.ExpiryDate,
		Rate:                  m.Rate,
		GrossAmount:           m.GrossAmount,
		DiscountPercent:       m.DiscountPercent,
		DiscountAmount:        m.DiscountAmount,
		TaxPercent:            m.TaxPercent,
		TaxAmount:             m.TaxAmount,
		NetAmount:             m.NetAmount,
		MRP:                   m.MRP,
		Medicine:              m.Medicine.ToDomain(),
	}
}

// GRNItemModelFromDomain creates a new persistence model from a domain GRNItem.
func GRNItemModelFromDomain(i *pharmacy.GRNItem) *GRNItemModel {
	return &GRNItemModel{
		ID:                    i.ID,
		GRNID:                 i.GRNID,
		MedicineID:            i.MedicineID,
		OrderedQty:            i.OrderedQty,
		PreviouslyReceivedQty: i.PreviouslyReceivedQty,
		ReceivedQty:           i.ReceivedQty,
		BonusQty:              i.BonusQty,
		TotalQty:              i.TotalQty,
		PendingQty:            i.PendingQty,
		BatchNo:               i.BatchNo,
		ExpiryDate:            i.ExpiryDate,
		Rate:                  i.Rate,
		GrossAmount:           i.GrossAmount,
		DiscountPercent:       i.DiscountPercent,
		DiscountAmount:        i.DiscountAmount,
		TaxPercent:            i.TaxPercent,
		TaxAmount:             i.TaxAmount,
		NetAmount:             i.NetAmount,
		MRP:                   i.MRP,
	}
}
