package models

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/shopspring/decimal"
)

// StockBatchModel is the lock row of a (medicine, batch) ledger. Every posting
// takes a row lock here before reading the latest ledger entry.
type StockBatchModel struct {
	MedicineID int64      `gorm:"primaryKey;autoIncrement:false"`
	BatchNo    string     `gorm:"primaryKey;type:varchar(50)"`
	ExpiryDate *time.Time `gorm:"type:date"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockBatchModel) TableName() string {
	return "stock_batches"
}

// StockLedgerModel is one immutable stock ledger entry.
type StockLedgerModel struct {
	ID                      int64            `gorm:"primaryKey;autoIncrement"`
	MedicineID              int64            `gorm:"not null;index:idx_stock_ledger_batch,priority:1"`
	BatchNo                 string           `gorm:"type:varchar(50);not null;index:idx_stock_ledger_batch,priority:2"`
	ExpiryDate              *time.Time       `gorm:"type:date"`
	TransactionType         string           `gorm:"type:varchar(20);not null"`
	RefTable                string           `gorm:"type:varchar(20);not null;index:idx_stock_ledger_ref,priority:1"`
	RefID                   int64            `gorm:"not null;index:idx_stock_ledger_ref,priority:2"`
	QtyIn                   int64            `gorm:"not null;default:0"`
	QtyOut                  int64            `gorm:"not null;default:0"`
	ValueIn                 decimal.Decimal  `gorm:"type:decimal(14,4);not null;default:0"`
	ValueOut                decimal.Decimal  `gorm:"type:decimal(14,4);not null;default:0"`
	BalanceQty              int64            `gorm:"not null"`
	BalanceValue            decimal.Decimal  `gorm:"type:decimal(14,4);not null"`
	Rate                    decimal.Decimal  `gorm:"type:decimal(12,4);not null;default:0"`
	DiscountPercent         decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount          decimal.Decimal  `gorm:"type:decimal(12,4);not null;default:0"`
	TaxPercent              decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount               decimal.Decimal  `gorm:"type:decimal(12,4);not null;default:0"`
	SaleRate                *decimal.Decimal `gorm:"type:decimal(12,4)"`
	CustomerDiscountPercent decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	CustomerDiscountAmount  decimal.Decimal  `gorm:"type:decimal(12,4);not null;default:0"`
	Remarks                 string           `gorm:"type:text"`
	CreatedAt               time.Time        `gorm:"not null"`

	Medicine *MedicineModel `gorm:"foreignKey:MedicineID;references:ID"`
}

// TableName returns the table name for GORM
func (StockLedgerModel) TableName() string {
	return "stock_ledgers"
}

// ToDomain converts the persistence model to a domain StockLedgerEntry.
func (m *StockLedgerModel) ToDomain() *pharmacy.StockLedgerEntry {
	return &pharmacy.StockLedgerEntry{
		ID:                      m.ID,
		MedicineID:              m.MedicineID,
		BatchNo:                 m.BatchNo,
		ExpiryDate:              m.ExpiryDate,
		TransactionType:         pharmacy.TransactionType(m.TransactionType),
		RefTable:                pharmacy.RefTable(m.RefTable),
		RefID:                   m.RefID,
		QtyIn:                   m.QtyIn,
		QtyOut:                  m.QtyOut,
		ValueIn:                 m.ValueIn,
		ValueOut:                m.ValueOut,
		BalanceQty:              m.BalanceQty,
		BalanceValue:            m.BalanceValue,
		Rate:                    m.Rate,
		DiscountPercent:         m.DiscountPercent,
		DiscountAmount:          m.DiscountAmount,
		TaxPercent:              m.TaxPercent,
		TaxAmount:               m.TaxAmount,
		SaleRate:                m.SaleRate,
		CustomerDiscountPercent: m.CustomerDiscountPercent,
		CustomerDiscountAmount:  m.CustomerDiscountAmount,
		Remarks:                 m.Remarks,
		CreatedAt:               m.CreatedAt,
		Medicine:                m.Medicine.ToDomain(),
	}
}

// StockLedgerModelFromDomain creates a new persistence model from a domain StockLedgerEntry.
func StockLedgerModelFromDomain(e *pharmacy.StockLedgerEntry) *StockLedgerModel {
	return &StockLedgerModel{
		ID:                      e.ID,
		MedicineID:              e.MedicineID,
		BatchNo:                 e.BatchNo,
		ExpiryDate:              e.ExpiryDate,
		TransactionType:         string(e.TransactionType),
		RefTable:                string(e.RefTable),
		RefID:                   e.RefID,
		QtyIn:                   e.QtyIn,
		QtyOut:                  e.QtyOut,
		ValueIn:                 e.ValueIn,
		ValueOut:                e.ValueOut,
		BalanceQty:              e.BalanceQty,
		BalanceValue:            e.BalanceValue,
		Rate:                    e.Rate,
		DiscountPercent:         e.DiscountPercent,
		DiscountAmount:          e.DiscountAmount,
		TaxPercent:              e.TaxPercent,
		TaxAmount:               e.TaxAmount,
		SaleRate:                e.SaleRate,
		CustomerDiscountPercent: e.CustomerDiscountPercent,
		CustomerDiscountAmount:  e.CustomerDiscountAmount,
		Remarks:                 e.Remarks,
		CreatedAt:               e.CreatedAt,
	}
}
