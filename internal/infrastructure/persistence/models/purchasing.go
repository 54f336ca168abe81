package models

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/shopspring/decimal"
)

// IndentModel is the persistence model for a department's medicine request.
type IndentModel struct {
	BaseModel
	IndentNo     string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	IndentDate   time.Time `gorm:"not null"`
	DepartmentID *int64    `gorm:"index"`
	CreatedBy    *int64
	Remarks      string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(30);not null;default:'PENDING';index"`
	ApprovedBy   *int64
	ApprovedAt   *time.Time

	Items []IndentItemModel `gorm:"foreignKey:IndentID;references:ID"`
}

// TableName returns the table name for GORM
func (IndentModel) TableName() string {
	return "indents"
}

// ToDomain converts the persistence model to a domain Indent.
func (m *IndentModel) ToDomain() *pharmacy.Indent {
	ind := &pharmacy.Indent{
		BaseEntity:   m.BaseModel.ToDomain(),
		IndentNo:     m.IndentNo,
		IndentDate:   m.IndentDate,
		DepartmentID: m.DepartmentID,
		CreatedBy:    m.CreatedBy,
		Remarks:      m.Remarks,
		Status:       pharmacy.IndentStatus(m.Status),
		ApprovedBy:   m.ApprovedBy,
		ApprovedAt:   m.ApprovedAt,
		Items:        make([]pharmacy.IndentItem, len(m.Items)),
	}
	for i := range m.Items {
		ind.Items[i] = *m.Items[i].ToDomain()
	}
	return ind
}

// IndentModelFromDomain creates a new persistence model from a domain Indent.
func IndentModelFromDomain(ind *pharmacy.Indent) *IndentModel {
	m := &IndentModel{
		IndentNo:     ind.IndentNo,
		IndentDate:   ind.IndentDate,
		DepartmentID: ind.DepartmentID,
		CreatedBy:    ind.CreatedBy,
		Remarks:      ind.Remarks,
		Status:       string(ind.Status),
		ApprovedBy:   ind.ApprovedBy,
		ApprovedAt:   ind.ApprovedAt,
		Items:        make([]IndentItemModel, len(ind.Items)),
	}
	m.FromDomainBaseEntity(ind.BaseEntity)
	for i := range ind.Items {
		m.Items[i] = *IndentItemModelFromDomain(&ind.Items[i])
	}
	return m
}

// IndentItemModel is one requested line of an indent. IsPOCreated flips once
// the line is copied onto a purchase order and never flips back.
type IndentItemModel struct {
	ID               int64 `gorm:"primaryKey;autoIncrement"`
	IndentID         int64 `gorm:"not null;index"`
	GenericNameID    int64 `gorm:"not null"`
	DosageFormID     *int64
	UnitID           *int64
	MedicineID       *int64
	RequestedQty     int64 `gorm:"not null"`
	ApprovedQty      *int64
	PendingQty       *int64
	LastPurchaseRate *decimal.Decimal `gorm:"type:decimal(12,4)"`
	Remarks          string           `gorm:"type:text"`
	IsPOCreated      bool             `gorm:"column:is_po_created;not null;default:false"`

	Medicine *MedicineModel `gorm:"foreignKey:MedicineID;references:ID"`
}

// TableName returns the table name for GORM
func (IndentItemModel) TableName() string {
	return "indent_items"
}

// ToDomain converts the persistence model to a domain IndentItem.
func (m *IndentItemModel) ToDomain() *pharmacy.IndentItem {
	return &pharmacy.IndentItem{
		ID:               m.ID,
		IndentID:         m.IndentID,
		GenericNameID:    m.GenericNameID,
		DosageFormID:     m.DosageFormID,
		UnitID:           m.UnitID,
		MedicineID:       m.MedicineID,
		RequestedQty:     m.RequestedQty,
		ApprovedQty:      m.ApprovedQty,
		PendingQty:       m.PendingQty,
		LastPurchaseRate: m.LastPurchaseRate,
		Remarks:          m.Remarks,
		IsPOCreated:      m.IsPOCreated,
		Medicine:         m.Medicine.ToDomain(),
	}
}

// IndentItemModelFromDomain creates a new persistence model from a domain IndentItem.
func IndentItemModelFromDomain(i *pharmacy.IndentItem) *IndentItemModel {
	return &IndentItemModel{
		ID:               i.ID,
		IndentID:         i.IndentID,
		GenericNameID:    i.GenericNameID,
		DosageFormID:     i.DosageFormID,
		UnitID:           i.UnitID,
		MedicineID:       i.MedicineID,
		RequestedQty:     i.RequestedQty,
		ApprovedQty:      i.ApprovedQty,
		PendingQty:       i.PendingQty,
		LastPurchaseRate: i.LastPurchaseRate,
		Remarks:          i.Remarks,
		IsPOCreated:      i.IsPOCreated,
	}
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	BaseModel
	PONo           string          `gorm:"column:po_no;type:varchar(20);not null;uniqueIndex"`
	PODate         time.Time       `gorm:"column:po_date;not null"`
	DistributorID  int64           `gorm:"not null;index"`
	IndentID       int64           `gorm:"not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	NetAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Status         string          `gorm:"type:varchar(40);not null;default:'OPEN';index"`
	PaymentTerm    *string         `gorm:"type:varchar(30)"`
	PaymentType    string          `gorm:"type:varchar(30)"`
	Remarks        string          `gorm:"type:text"`
	ApprovedBy     *int64
	ApprovedAt     *time.Time
	PDFURL         string     `gorm:"column:pdf_url;type:varchar(500)"`
	PDFGeneratedAt *time.Time `gorm:"column:pdf_generated_at"`
	CreatedBy      *int64

	Items       []PurchaseOrderItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	Distributor *DistributorModel        `gorm:"foreignKey:DistributorID;references:ID"`
	GRNs        []GRNModel               `gorm:"foreignKey:POID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *pharmacy.PurchaseOrder {
	po := &pharmacy.PurchaseOrder{
		BaseEntity:     m.BaseModel.ToDomain(),
		PONo:           m.PONo,
		PODate:         m.PODate,
		DistributorID:  m.DistributorID,
		IndentID:       m.IndentID,
		TotalAmount:    m.TotalAmount,
		NetAmount:      m.NetAmount,
		PaidAmount:     m.PaidAmount,
		Status:         pharmacy.PurchaseOrderStatus(m.Status),
		PaymentType:    m.PaymentType,
		Remarks:        m.Remarks,
		ApprovedBy:     m.ApprovedBy,
		ApprovedAt:     m.ApprovedAt,
		PDFURL:         m.PDFURL,
		PDFGeneratedAt: m.PDFGeneratedAt,
		CreatedBy:      m.CreatedBy,
		Items:          make([]pharmacy.PurchaseOrderItem, len(m.Items)),
		Distributor:    m.Distributor.ToDomain(),
	}
	if m.PaymentTerm != nil {
		term := pharmacy.PaymentTerm(*m.PaymentTerm)
		po.PaymentTerm = &term
	}
	for i, it := range m.Items {
		po.Items[i] = pharmacy.PurchaseOrderItem{
			ID:              it.ID,
			PurchaseOrderID: it.PurchaseOrderID,
			IndentItemID:    it.IndentItemID,
			MedicineID:      it.MedicineID,
			OrderedQty:      it.OrderedQty,
			Rate:            it.Rate,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
			TotalAmount:     it.TotalAmount,
			Medicine:        it.Medicine.ToDomain(),
		}
	}
	if len(m.GRNs) > 0 {
		po.GRNs = make([]pharmacy.GRN, len(m.GRNs))
		for i := range m.GRNs {
			po.GRNs[i] = *m.GRNs[i].ToDomain()
		}
	}
	return po
}

// FromDomain populates the header fields from a domain PurchaseOrder.
func (m *PurchaseOrderModel) FromDomain(po *pharmacy.PurchaseOrder) {
	m.FromDomainBaseEntity(po.BaseEntity)
	m.PONo = po.PONo
	m.PODate = po.PODate
	m.DistributorID = po.DistributorID
	m.IndentID = po.IndentID
	m.TotalAmount = po.TotalAmount
	m.NetAmount = po.NetAmount
	m.PaidAmount = po.PaidAmount
	m.Status = string(po.Status)
	m.PaymentTerm = nil
	if po.PaymentTerm != nil {
		term := string(*po.PaymentTerm)
		m.PaymentTerm = &term
	}
	m.PaymentType = po.PaymentType
	m.Remarks = po.Remarks
	m.ApprovedBy = po.ApprovedBy
	m.ApprovedAt = po.ApprovedAt
	m.PDFURL = po.PDFURL
	m.PDFGeneratedAt = po.PDFGeneratedAt
	m.CreatedBy = po.CreatedBy
}

// PurchaseOrderModelFromDomain creates a new persistence model, items included.
func PurchaseOrderModelFromDomain(po *pharmacy.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	m.Items = make([]PurchaseOrderItemModel, len(po.Items))
	for i, it := range po.Items {
		m.Items[i] = PurchaseOrderItemModel{
			ID:              it.ID,
			PurchaseOrderID: it.PurchaseOrderID,
			IndentItemID:    it.IndentItemID,
			MedicineID:      it.MedicineID,
			OrderedQty:      it.OrderedQty,
			Rate:            it.Rate,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
			TotalAmount:     it.TotalAmount,
		}
	}
	return m
}

// PurchaseOrderItemModel is one ordered line of a purchase order.
type PurchaseOrderItemModel struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	PurchaseOrderID int64 `gorm:"not null;index"`
	IndentItemID    *int64
	MedicineID      int64           `gorm:"not null"`
	OrderedQty      int64           `gorm:"not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(14,4);not null"`

	Medicine *MedicineModel `gorm:"foreignKey:MedicineID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// LedgerEntryModel is the persistence model for an accounts ledger entry.
type LedgerEntryModel struct {
	BaseModel
	RefType      string          `gorm:"type:varchar(20);not null;index:idx_ledger_entry_ref,priority:1"`
	RefID        int64           `gorm:"not null;index:idx_ledger_entry_ref,priority:2"`
	Debit        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Credit       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	AccountType  string          `gorm:"type:varchar(30);not null"`
	AccountRefID *int64
	Remarks      string `gorm:"type:text"`
	PaymentTerm  string `gorm:"type:varchar(30)"`
	ApprovedBy   *int64
	ApprovedAt   *time.Time
	UserID       *int64
	EntryDate    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *pharmacy.LedgerEntry {
	return &pharmacy.LedgerEntry{
		BaseEntity:   m.BaseModel.ToDomain(),
		RefType:      m.RefType,
		RefID:        m.RefID,
		Debit:        m.Debit,
		Credit:       m.Credit,
		AccountType:  m.AccountType,
		AccountRefID: m.AccountRefID,
		Remarks:      m.Remarks,
		PaymentTerm:  pharmacy.PaymentTerm(m.PaymentTerm),
		ApprovedBy:   m.ApprovedBy,
		ApprovedAt:   m.ApprovedAt,
		UserID:       m.UserID,
		EntryDate:    m.EntryDate,
	}
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *pharmacy.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		RefType:      e.RefType,
		RefID:        e.RefID,
		Debit:        e.Debit,
		Credit:       e.Credit,
		AccountType:  e.AccountType,
		AccountRefID: e.AccountRefID,
		Remarks:      e.Remarks,
		PaymentTerm:  string(e.PaymentTerm),
		ApprovedBy:   e.ApprovedBy,
		ApprovedAt:   e.ApprovedAt,
		UserID:       e.UserID,
		EntryDate:    e.EntryDate,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// AllModels lists every table owned or read by this service, in dependency
// order, for test schemas built with AutoMigrate.
func AllModels() []any {
	return []any{
		&UserModel{}, &DepartmentModel{}, &ProcedureModel{}, &DoctorModel{},
		&MedicineModel{}, &DistributorModel{},
		&PatientModel{}, &WelfareRecordModel{}, &CardPrintModel{}, &CardPriceModel{},
		&MedicalRecordModel{}, &MedicalRecordItemModel{},
		&SequenceCounterModel{},
		&StockBatchModel{}, &StockLedgerModel{},
		&IndentModel{}, &IndentItemModel{},
		&PurchaseOrderModel{}, &PurchaseOrderItemModel{},
		&GRNModel{}, &GRNItemModel{},
		&SaleModel{}, &SaleItemModel{},
		&LedgerEntryModel{},
	}
}
