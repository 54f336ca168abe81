package pharmacy

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/shopspring/decimal"
)

// ==================== Reference DTOs ====================

// MedicineResponse represents a catalog medicine
type MedicineResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	GenericNameID *int64 `json:"genericNameId,omitempty"`
	DosageFormID  *int64 `json:"dosageFormId,omitempty"`
	UnitID        *int64 `json:"unitId,omitempty"`
	Strength      string `json:"strength,omitempty"`
}

func toMedicine(m *pharmacy.Medicine) *MedicineResponse {
	if m == nil {
		return nil
	}
	return &MedicineResponse{
		ID:            m.ID,
		Name:          m.Name,
		GenericNameID: m.GenericNameID,
		DosageFormID:  m.DosageFormID,
		UnitID:        m.UnitID,
		Strength:      m.Strength,
	}
}

// DistributorResponse represents a distributor
type DistributorResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

func toDistributor(d *pharmacy.Distributor) *DistributorResponse {
	if d == nil {
		return nil
	}
	return &DistributorResponse{ID: d.ID, Name: d.Name, Phone: d.Phone, Email: d.Email, Address: d.Address}
}

// ==================== Stock DTOs ====================

// StockEntryResponse represents a stock ledger entry
type StockEntryResponse struct {
	ID                      int64             `json:"id"`
	MedicineID              int64             `json:"medicineId"`
	BatchNo                 string            `json:"batchNo"`
	ExpiryDate              *time.Time        `json:"expiryDate"`
	TransactionType         string            `json:"transactionType"`
	RefTable                string            `json:"refTable"`
	RefID                   int64             `json:"refId"`
	QtyIn                   int64             `json:"qtyIn"`
	QtyOut                  int64             `json:"qtyOut"`
	ValueIn                 decimal.Decimal   `json:"valueIn"`
	ValueOut                decimal.Decimal   `json:"valueOut"`
	BalanceQty              int64             `json:"balanceQty"`
	BalanceValue            decimal.Decimal   `json:"balanceValue"`
	Rate                    decimal.Decimal   `json:"rate"`
	DiscountPercent         decimal.Decimal   `json:"discountPercent"`
	DiscountAmount          decimal.Decimal   `json:"discountAmount"`
	TaxPercent              decimal.Decimal   `json:"taxPercent"`
	TaxAmount               decimal.Decimal   `json:"taxAmount"`
	SaleRate                *decimal.Decimal  `json:"saleRate"`
	CustomerDiscountPercent decimal.Decimal   `json:"customerDiscountPercent"`
	CustomerDiscountAmount  decimal.Decimal   `json:"customerDiscountAmount"`
	Remarks                 string            `json:"remarks"`
	CreatedAt               time.Time         `json:"createdAt"`
	Medicine                *MedicineResponse `json:"medicine,omitempty"`
}

// ToStockEntryResponse converts a ledger entry
func ToStockEntryResponse(e *pharmacy.StockLedgerEntry) StockEntryResponse {
	return StockEntryResponse{
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
		Medicine:                toMedicine(e.Medicine),
	}
}

func toStockEntryResponses(entries []pharmacy.StockLedgerEntry) []StockEntryResponse {
	out := make([]StockEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToStockEntryResponse(&entries[i])
	}
	return out
}

// AdjustStockRequest represents a signed stock correction
type AdjustStockRequest struct {
	MedicineID int64  `json:"medicineId" binding:"required"`
	BatchNo    string `json:"batchNo" binding:"required,max=50"`
	Qty        int64  `json:"qty" binding:"required"`
	Remarks    string `json:"remarks"`
}

// ==================== GRN DTOs ====================

// CreateGRNRequest represents a request to receive goods against a purchase order
type CreateGRNRequest struct {
	GRNNo         string                 `json:"grnNo" binding:"required,max=50"`
	GRNDate       *time.Time             `json:"grnDate"`
	POID          int64                  `json:"poId" binding:"required"`
	DistributorID int64                  `json:"distributorId"`
	DepartmentID  *int64                 `json:"departmentId"`
	InvoiceNo     string                 `json:"invoiceNo" binding:"max=50"`
	InvoiceDate   *time.Time             `json:"invoiceDate"`
	InvoiceType   string                 `json:"invoiceType" binding:"max=30"`
	InvoiceStatus string                 `json:"invoiceStatus" binding:"max=30"`
	Remarks       string                 `json:"remarks"`
	Items         []CreateGRNItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateGRNItemRequest represents one received line
type CreateGRNItemRequest struct {
	MedicineID            int64            `json:"medicineId" binding:"required"`
	OrderedQty            int64            `json:"orderedQty" binding:"min=0"`
	PreviouslyReceivedQty int64            `json:"previouslyReceivedQty" binding:"min=0"`
	ReceivedQty           int64            `json:"receivedQty" binding:"min=0"`
	BonusQty              int64            `json:"bonusQty" binding:"min=0"`
	BatchNo               string           `json:"batchNo" binding:"required,max=50"`
	ExpiryDate            *time.Time       `json:"expiryDate"`
	Rate                  decimal.Decimal  `json:"rate"`
	DiscountPercent       decimal.Decimal  `json:"discountPercent"`
	TaxPercent            decimal.Decimal  `json:"taxPercent"`
	MRP                   *decimal.Decimal `json:"mrp"`
}

// GRNItemResponse represents a received line
type GRNItemResponse struct {
	ID                    int64             `json:"id"`
	MedicineID            int64             `json:"medicineId"`
	OrderedQty            int64             `json:"orderedQty"`
	PreviouslyReceivedQty int64             `json:"previouslyReceivedQty"`
	ReceivedQty           int64             `json:"receivedQty"`
	BonusQty              int64             `json:"bonusQty"`
	TotalQty              int64             `json:"totalQty"`
	PendingQty            int64             `json:"pendingQty"`
	BatchNo               string            `json:"batchNo"`
	ExpiryDate            *time.Time        `json:"expiryDate"`
	Rate                  decimal.Decimal   `json:"rate"`
	GrossAmount           decimal.Decimal   `json:"grossAmount"`
	DiscountPercent       decimal.Decimal   `json:"discountPercent"`
	DiscountAmount        decimal.Decimal   `json:"discountAmount"`
	TaxPercent            decimal.Decimal   `json:"taxPercent"`
	TaxAmount             decimal.Decimal   `json:"taxAmount"`
	NetAmount             decimal.Decimal   `json:"netAmount"`
	MRP                   *decimal.Decimal  `json:"mrp"`
	Medicine              *MedicineResponse `json:"medicine,omitempty"`
}

// GRNResponse represents a goods receipt note
type GRNResponse struct {
	ID             int64                `json:"id"`
	GRNNo          string               `json:"grnNo"`
	GRNDate        time.Time            `json:"grnDate"`
	POID           int64                `json:"poId"`
	PONo           string               `json:"poNo"`
	PODate         *time.Time           `json:"poDate"`
	DistributorID  int64                `json:"distributorId"`
	DepartmentID   *int64               `json:"departmentId"`
	InvoiceNo      string               `json:"invoiceNo"`
	InvoiceDate    *time.Time           `json:"invoiceDate"`
	InvoiceType    string               `json:"invoiceType"`
	InvoiceStatus  string               `json:"invoiceStatus"`
	TotalQty       int64                `json:"totalQty"`
	GrossAmount    decimal.Decimal      `json:"grossAmount"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	TaxAmount      decimal.Decimal      `json:"taxAmount"`
	NetAmount      decimal.Decimal      `json:"netAmount"`
	ReceivedBy     int64                `json:"receivedBy"`
	Remarks        string               `json:"remarks"`
	CreatedAt      time.Time            `json:"createdAt"`
	Distributor    *DistributorResponse `json:"distributor,omitempty"`
	Items          []GRNItemResponse    `json:"items"`
}

// ToGRNResponse converts a GRN
func ToGRNResponse(g *pharmacy.GRN) GRNResponse {
	resp := GRNResponse{
		ID:             g.ID,
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
		CreatedAt:      g.CreatedAt,
		Distributor:    toDistributor(g.Distributor),
		Items:          make([]GRNItemResponse, len(g.Items)),
	}
	for i, item := range g.Items {
		resp.Items[i] = GRNItemResponse{
			ID:                    item.ID,
			MedicineID:            item.MedicineID,
			OrderedQty:            item.OrderedQty,
			PreviouslyReceivedQty: item.PreviouslyReceivedQty,
			ReceivedQty:           item.ReceivedQty,
			BonusQty:              item.BonusQty,
			TotalQty:              item.TotalQty,
			PendingQty:            item.PendingQty,
			BatchNo:               item.BatchNo,
			ExpiryDate:            item.ExpiryDate,
			Rate:                  item.Rate,
			GrossAmount:           item.GrossAmount,
			DiscountPercent:       item.DiscountPercent,
			DiscountAmount:        item.DiscountAmount,
			TaxPercent:            item.TaxPercent,
			TaxAmount:             item.TaxAmount,
			NetAmount:             item.NetAmount,
			MRP:                   item.MRP,
			Medicine:              toMedicine(item.Medicine),
		}
	}
	return resp
}

// ==================== Sale DTOs ====================

// CreateSaleRequest represents a counter sale
type CreateSaleRequest struct {
	SaleNo        string                  `json:"saleNo" binding:"required,max=50"`
	SaleDate      *time.Time              `json:"saleDate"`
	CustomerName  string                  `json:"customerName" binding:"max=100"`
	PaymentMode   string                  `json:"paymentMode" binding:"required,max=30"`
	TotalDiscount decimal.Decimal         `json:"totalDiscount"`
	TaxPercent    decimal.Decimal         `json:"taxPercent"`
	Items         []CreateSaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateSaleItemRequest represents one sold line
type CreateSaleItemRequest struct {
	MedicineID      int64           `json:"medicineId" binding:"required"`
	BatchNo         string          `json:"batchNo" binding:"required,max=50"`
	ExpiryDate      *time.Time      `json:"expiryDate"`
	Quantity        int64           `json:"quantity" binding:"required,min=1"`
	SaleRate        decimal.Decimal `json:"saleRate"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// SaleItemResponse represents a sold line
type SaleItemResponse struct {
	ID              int64             `json:"id"`
	MedicineID      int64             `json:"medicineId"`
	BatchNo         string            `json:"batchNo"`
	ExpiryDate      *time.Time        `json:"expiryDate"`
	Quantity        int64             `json:"quantity"`
	SaleRate        decimal.Decimal   `json:"saleRate"`
	DiscountPercent decimal.Decimal   `json:"discountPercent"`
	LineAmount      decimal.Decimal   `json:"lineAmount"`
	Medicine        *MedicineResponse `json:"medicine,omitempty"`
}

// SaleResponse represents a sale
type SaleResponse struct {
	ID             int64              `json:"id"`
	SaleNo         string             `json:"saleNo"`
	SaleDate       time.Time          `json:"saleDate"`
	CustomerName   string             `json:"customerName"`
	PaymentMode    string             `json:"paymentMode"`
	TotalDiscount  decimal.Decimal    `json:"totalDiscount"`
	TaxPercent     decimal.Decimal    `json:"taxPercent"`
	GrossAmount    decimal.Decimal    `json:"grossAmount"`
	DiscountAmount decimal.Decimal    `json:"discountAmount"`
	TaxAmount      decimal.Decimal    `json:"taxAmount"`
	NetAmount      decimal.Decimal    `json:"netAmount"`
	CreatedBy      *int64             `json:"createdBy"`
	CreatedAt      time.Time          `json:"createdAt"`
	Items          []SaleItemResponse `json:"items"`
}

// ToSaleResponse converts a sale
func ToSaleResponse(s *pharmacy.Sale) SaleResponse {
	resp := SaleResponse{
		ID:             s.ID,
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
		CreatedAt:      s.CreatedAt,
		Items:          make([]SaleItemResponse, len(s.Items)),
	}
	for i, item := range s.Items {
		resp.Items[i] = SaleItemResponse{
			ID:              item.ID,
			MedicineID:      item.MedicineID,
			BatchNo:         item.BatchNo,
			ExpiryDate:      item.ExpiryDate,
			Quantity:        item.Quantity,
			SaleRate:        item.SaleRate,
			DiscountPercent: item.DiscountPercent,
			LineAmount:      item.LineAmount,
			Medicine:        toMedicine(item.Medicine),
		}
	}
	return resp
}

// ==================== Indent DTOs ====================

// CreateIndentRequest represents a stock request from a department
type CreateIndentRequest struct {
	DepartmentID *int64                    `json:"departmentId"`
	Remarks      string                    `json:"remarks"`
	Items        []CreateIndentItemRequest `json:"items" binding:"dive"`
}

// CreateIndentItemRequest represents one requested medicine
type CreateIndentItemRequest struct {
	GenericNameID    int64            `json:"genericNameId" binding:"required"`
	DosageFormID     *int64           `json:"dosageFormId"`
	UnitID           *int64           `json:"unitId"`
	MedicineID       *int64           `json:"medicineId"`
	RequestedQty     int64            `json:"requestedQty" binding:"required,min=1"`
	LastPurchaseRate *decimal.Decimal `json:"lastPurchaseRate"`
	Remarks          string           `json:"remarks"`
}

// ApproveIndentRequest represents a review decision on an indent
type ApproveIndentRequest struct {
	Status string                     `json:"status" binding:"required"`
	Items  []ApproveIndentItemRequest `json:"items" binding:"dive"`
}

// ApproveIndentItemRequest represents the reviewed quantities of one item
type ApproveIndentItemRequest struct {
	ID          int64  `json:"id" binding:"required"`
	ApprovedQty *int64 `json:"approvedQty" binding:"omitempty,min=0"`
	PendingQty  *int64 `json:"pendingQty" binding:"omitempty,min=0"`
	Remarks     string `json:"remarks"`
}

// IndentItemResponse represents an indent line
type IndentItemResponse struct {
	ID               int64             `json:"id"`
	GenericNameID    int64             `json:"genericNameId"`
	DosageFormID     *int64            `json:"dosageFormId"`
	UnitID           *int64            `json:"unitId"`
	MedicineID       *int64            `json:"medicineId"`
	RequestedQty     int64             `json:"requestedQty"`
	ApprovedQty      *int64            `json:"approvedQty"`
	PendingQty       *int64            `json:"pendingQty"`
	LastPurchaseRate *decimal.Decimal  `json:"lastPurchaseRate"`
	Remarks          string            `json:"remarks"`
	IsPOCreated      bool              `json:"isPoCreated"`
	Medicine         *MedicineResponse `json:"medicine,omitempty"`
}

// IndentResponse represents an indent
type IndentResponse struct {
	ID           int64                `json:"id"`
	IndentNo     string               `json:"indentNo"`
	IndentDate   time.Time            `json:"indentDate"`
	DepartmentID *int64               `json:"departmentId"`
	CreatedBy    *int64               `json:"createdBy"`
	Remarks      string               `json:"remarks"`
	Status       string               `json:"status"`
	ApprovedBy   *int64               `json:"approvedBy"`
	ApprovedAt   *time.Time           `json:"approvedAt"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Items        []IndentItemResponse `json:"items"`
}

// ToIndentResponse converts an indent
func ToIndentResponse(ind *pharmacy.Indent) IndentResponse {
	resp := IndentResponse{
		ID:           ind.ID,
		IndentNo:     ind.IndentNo,
		IndentDate:   ind.IndentDate,
		DepartmentID: ind.DepartmentID,
		CreatedBy:    ind.CreatedBy,
		Remarks:      ind.Remarks,
		Status:       string(ind.Status),
		ApprovedBy:   ind.ApprovedBy,
		ApprovedAt:   ind.ApprovedAt,
		CreatedAt:    ind.CreatedAt,
		UpdatedAt:    ind.UpdatedAt,
		Items:        make([]IndentItemResponse, len(ind.Items)),
	}
	for i, item := range ind.Items {
		resp.Items[i] = IndentItemResponse{
			ID:               item.ID,
			GenericNameID:    item.GenericNameID,
			DosageFormID:     item.DosageFormID,
			UnitID:           item.UnitID,
			MedicineID:       item.MedicineID,
			RequestedQty:     item.RequestedQty,
			ApprovedQty:      item.ApprovedQty,
			PendingQty:       item.PendingQty,
			LastPurchaseRate: item.LastPurchaseRate,
			Remarks:          item.Remarks,
			IsPOCreated:      item.IsPOCreated,
			Medicine:         toMedicine(item.Medicine),
		}
	}
	return resp
}

// ==================== Purchase Order DTOs ====================

// CreatePORequest represents a purchase order raised against an indent
type CreatePORequest struct {
	PONo          string                `json:"poNo" binding:"max=50"`
	DistributorID int64                 `json:"distributorId" binding:"required"`
	IndentID      int64                 `json:"indentId" binding:"required"`
	PaymentType   string                `json:"paymentType" binding:"max=30"`
	PaymentTerm   string                `json:"paymentTerm"`
	Remarks       string                `json:"remarks"`
	Items         []CreatePOItemRequest `json:"items" binding:"dive"`
}

// CreatePOItemRequest represents one ordered line
type CreatePOItemRequest struct {
	IndentItemID    *int64          `json:"indentItemId"`
	MedicineID      int64           `json:"medicineId" binding:"required"`
	OrderedQty      int64           `json:"orderedQty" binding:"required,min=1"`
	Rate            decimal.Decimal `json:"rate"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
}

// ApprovePORequest represents approval of a purchase order
type ApprovePORequest struct {
	Remarks string `json:"remarks"`
}

// RecordPaymentRequest represents a payment against a purchase order
type RecordPaymentRequest struct {
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

// UpdatePOStatusRequest represents a manual status transition
type UpdatePOStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	ApprovedBy *int64 `json:"approvedBy"`
}

// POItemResponse represents an ordered line
type POItemResponse struct {
	ID              int64             `json:"id"`
	IndentItemID    *int64            `json:"indentItemId"`
	MedicineID      int64             `json:"medicineId"`
	OrderedQty      int64             `json:"orderedQty"`
	Rate            decimal.Decimal   `json:"rate"`
	DiscountPercent decimal.Decimal   `json:"discountPercent"`
	TaxPercent      decimal.Decimal   `json:"taxPercent"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Medicine        *MedicineResponse `json:"medicine,omitempty"`
}

// POGRNResponse is the GRN header listed on a purchase order
type POGRNResponse struct {
	ID        int64           `json:"id"`
	GRNNo     string          `json:"grnNo"`
	GRNDate   time.Time       `json:"grnDate"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// POResponse represents a purchase order
type POResponse struct {
	ID               int64                `json:"id"`
	PONo             string               `json:"poNo"`
	PODate           time.Time            `json:"poDate"`
	DistributorID    int64                `json:"distributorId"`
	IndentID         int64                `json:"indentId"`
	TotalAmount      decimal.Decimal      `json:"totalAmount"`
	NetAmount        decimal.Decimal      `json:"netAmount"`
	PaidAmount       decimal.Decimal      `json:"paidAmount"`
	Status           string               `json:"status"`
	PaymentTerm      *string              `json:"paymentTerm"`
	PaymentTermLabel string               `json:"paymentTermLabel,omitempty"`
	PaymentType      string               `json:"paymentType"`
	Remarks          string               `json:"remarks"`
	ApprovedBy       *int64               `json:"approvedBy"`
	ApprovedAt       *time.Time           `json:"approvedAt"`
	PDFURL           string               `json:"pdfUrl"`
	PDFGeneratedAt   *time.Time           `json:"pdfGeneratedAt"`
	CreatedBy        *int64               `json:"createdBy"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
	Distributor      *DistributorResponse `json:"distributor,omitempty"`
	Items            []POItemResponse     `json:"items"`
	GRNs             []POGRNResponse      `json:"grns"`
}

// ToPOResponse converts a purchase order
func ToPOResponse(po *pharmacy.PurchaseOrder) POResponse {
	resp := POResponse{
		ID:             po.ID,
		PONo:           po.PONo,
		PODate:         po.PODate,
		DistributorID:  po.DistributorID,
		IndentID:       po.IndentID,
		TotalAmount:    po.TotalAmount,
		NetAmount:      po.NetAmount,
		PaidAmount:     po.PaidAmount,
		Status:         string(po.Status),
		PaymentType:    po.PaymentType,
		Remarks:        po.Remarks,
		ApprovedBy:     po.ApprovedBy,
		ApprovedAt:     po.ApprovedAt,
		PDFURL:         po.PDFURL,
		PDFGeneratedAt: po.PDFGeneratedAt,
		CreatedBy:      po.CreatedBy,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
		Distributor:    toDistributor(po.Distributor),
		Items:          make([]POItemResponse, len(po.Items)),
		GRNs:           make([]POGRNResponse, len(po.GRNs)),
	}
	if po.PaymentTerm != nil {
		term := string(*po.PaymentTerm)
		resp.PaymentTerm = &term
		resp.PaymentTermLabel = po.PaymentTerm.Label()
	}
	for i, item := range po.Items {
		resp.Items[i] = POItemResponse{
			ID:              item.ID,
			IndentItemID:    item.IndentItemID,
			MedicineID:      item.MedicineID,
			OrderedQty:      item.OrderedQty,
			Rate:            item.Rate,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      item.TaxPercent,
			TotalAmount:     item.TotalAmount,
			Medicine:        toMedicine(item.Medicine),
		}
	}
	for i, g := range po.GRNs {
		resp.GRNs[i] = POGRNResponse{ID: g.ID, GRNNo: g.GRNNo, GRNDate: g.GRNDate, NetAmount: g.NetAmount}
	}
	return resp
}

func toPOResponses(orders []pharmacy.PurchaseOrder) []POResponse {
	out := make([]POResponse, len(orders))
	for i := range orders {
		out[i] = ToPOResponse(&orders[i])
	}
	return out
}

// ApprovedPOsResponse lists approved orders with the selectable payment terms
type ApprovedPOsResponse struct {
	PurchaseOrders []POResponse                 `json:"purchaseOrders"`
	PaymentTerms   []pharmacy.PaymentTermOption `json:"paymentTerms"`
}

// PODocumentResponse is the location of a purchase order PDF
type PODocumentResponse struct {
	ID          int64      `json:"id"`
	PONo        string     `json:"poNo"`
	PDFURL      string     `json:"pdfUrl"`
	GeneratedAt *time.Time `json:"generatedAt"`
}

// ==================== Ledger Entry DTOs ====================

// CreateLedgerEntryRequest represents an accounts entry
type CreateLedgerEntryRequest struct {
	RefType      string          `json:"refType" binding:"required,max=30"`
	RefID        int64           `json:"refId" binding:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	AccountType  string          `json:"accountType" binding:"required,max=30"`
	AccountRefID *int64          `json:"accountRefId"`
	Remarks      string          `json:"remarks"`
	PaymentTerm  string          `json:"paymentTerm" binding:"required"`
}

// LedgerEntryResponse represents an accounts entry
type LedgerEntryResponse struct {
	ID               int64           `json:"id"`
	RefType          string          `json:"refType"`
	RefID            int64           `json:"refId"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	AccountType      string          `json:"accountType"`
	AccountRefID     *int64          `json:"accountRefId"`
	Remarks          string          `json:"remarks"`
	PaymentTerm      string          `json:"paymentTerm"`
	PaymentTermLabel string          `json:"paymentTermLabel"`
	ApprovedBy       *int64          `json:"approvedBy"`
	ApprovedAt       *time.Time      `json:"approvedAt"`
	UserID           *int64          `json:"userId"`
	EntryDate        time.Time       `json:"entryDate"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponse converts an accounts entry
func ToLedgerEntryResponse(e *pharmacy.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:               e.ID,
		RefType:          e.RefType,
		RefID:            e.RefID,
		Debit:            e.Debit,
		Credit:           e.Credit,
		AccountType:      e.AccountType,
		AccountRefID:     e.AccountRefID,
		Remarks:          e.Remarks,
		PaymentTerm:      string(e.PaymentTerm),
		PaymentTermLabel: e.PaymentTerm.Label(),
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		UserID:           e.UserID,
		EntryDate:        e.EntryDate,
		CreatedAt:        e.CreatedAt,
	}
}
