package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/handler"
)

// Handlers holds the HTTP handlers mounted under /api/v1
type Handlers struct {
	Patient       *handler.PatientHandler
	Welfare       *handler.WelfareHandler
	CardPrint     *handler.CardPrintHandler
	MedicalRecord *handler.MedicalRecordHandler
	Indent        *handler.IndentHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	GRN           *handler.GRNHandler
	Sale          *handler.SaleHandler
	Stock         *handler.StockHandler
	LedgerEntry   *handler.LedgerEntryHandler
	Report        *handler.ReportHandler
}

// DomainGroups builds the route groups of the API. idempotent guards the
// create endpoints that clients retry.
func DomainGroups(h Handlers, idempotent gin.HandlerFunc) []RouteRegistrar {
	if idempotent == nil {
		idempotent = func(c *gin.Context) { c.Next() }
	}

	patients := NewDomainGroup("patients", "/patients")
	patients.POST("", idempotent, h.Patient.Create)
	patients.GET("", h.Patient.List)
	patients.GET("/search", h.Patient.Search)
	patients.GET("/card-price", h.CardPrint.GetPrice)
	patients.PUT("/card-price", h.CardPrint.UpdatePrice)
	patients.GET("/:patientId", h.Patient.Get)
	patients.PUT("/:patientId", h.Patient.Update)
	patients.DELETE("/:patientId", h.Patient.Delete)
	patients.POST("/:patientId/print", h.CardPrint.Print)
	patients.GET("/:patientId/print-check", h.CardPrint.Check)

	welfare := NewDomainGroup("welfare", "/welfare")
	welfare.POST("", h.Welfare.Create)
	welfare.GET("", h.Welfare.List)
	welfare.GET("/:patientId", h.Welfare.Get)
	welfare.PUT("/:patientId", h.Welfare.Update)
	welfare.DELETE("/:patientId", h.Welfare.Delete)

	records := NewDomainGroup("medical-records", "/medical-records")
	records.POST("", idempotent, h.MedicalRecord.Create)
	records.GET("", h.MedicalRecord.List)
	records.GET("/:patientId", h.MedicalRecord.GetByPatient)

	pharmacy := NewDomainGroup("pharmacy", "/pharmacy")

	indents := pharmacy.Group("indents", "/indents")
	indents.POST("", h.Indent.Create)
	indents.GET("", h.Indent.List)
	indents.GET("/:id", h.Indent.Get)
	indents.DELETE("/:id", h.Indent.Delete)
	indents.PUT("/:id/approve", h.Indent.Approve)

	orders := pharmacy.Group("purchase-orders", "/purchase-orders")
	orders.POST("", h.PurchaseOrder.Create)
	orders.GET("", h.PurchaseOrder.List)
	orders.GET("/approved", h.PurchaseOrder.ListApproved)
	orders.GET("/:id", h.PurchaseOrder.Get)
	orders.GET("/:id/pdf", h.PurchaseOrder.Document)
	orders.PUT("/:id/status", h.PurchaseOrder.UpdateStatus)
	orders.PUT("/:id/approve", h.PurchaseOrder.Approve)
	orders.POST("/:id/payment", h.PurchaseOrder.RecordPayment)

	grns := pharmacy.Group("grns", "/grns")
	grns.POST("", h.GRN.Create)
	grns.GET("", h.GRN.List)
	grns.GET("/:id", h.GRN.Get)

	sales := pharmacy.Group("sales", "/sales")
	sales.POST("", h.Sale.Create)
	sales.GET("", h.Sale.List)
	sales.GET("/:id", h.Sale.Get)

	stock := pharmacy.Group("stock", "/stock")
	stock.GET("", h.Stock.List)
	stock.GET("/:medicineId/batches/:batchNo", h.Stock.BatchHistory)
	stock.POST("/adjustments", h.Stock.Adjust)

	ledger := pharmacy.Group("ledger-entries", "/ledger-entries")
	ledger.POST("", h.LedgerEntry.Create)
	ledger.GET("", h.LedgerEntry.List)
	ledger.GET("/:id", h.LedgerEntry.Get)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/financial-today", h.Report.FinancialToday)

	return []RouteRegistrar{patients, welfare, records, pharmacy, reports}
}
