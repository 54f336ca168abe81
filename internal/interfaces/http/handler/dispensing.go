package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	pharmacyapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	"go.uber.org/zap"
)

// SaleService records pharmacy sales
type SaleService interface {
	CreateSale(ctx context.Context, req pharmacyapp.CreateSaleRequest, createdBy *int64) (*pharmacyapp.SaleResponse, error)
	ListSales(ctx context.Context) ([]pharmacyapp.SaleResponse, error)
	GetSale(ctx context.Context, id int64) (*pharmacyapp.SaleResponse, error)
}

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	sales SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales SaleService, log *zap.Logger) *SaleHandler {
	return &SaleHandler{BaseHandler: NewBaseHandler(log), sales: sales}
}

// Create godoc
// @ID           createSale
// @Summary      Sell medicines
// @Description  Posts every line against its batch. Any shortfall rejects the whole sale with ERR_INSUFFICIENT_STOCK.
// @Tags         pharmacy-sales
// @Accept       json
// @Produce      json
// @Param        request  body      pharmacyapp.CreateSaleRequest  true  "Sale lines"
// @Success      201      {object}  APIResponse[pharmacyapp.SaleResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req pharmacyapp.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.sales.CreateSale(c.Request.Context(), req, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         pharmacy-sales
// @Produce      json
// @Success      200  {object}  APIResponse[[]pharmacyapp.SaleResponse]
// @Security     BearerAuth
// @Router       /pharmacy/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	list, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get godoc
// @ID           getSale
// @Summary      Get a sale
// @Tags         pharmacy-sales
// @Produce      json
// @Param        id   path      int  true  "Sale ID"
// @Success      200  {object}  APIResponse[pharmacyapp.SaleResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StockService reads and corrects the stock ledger
type StockService interface {
	StockList(ctx context.Context) ([]pharmacyapp.StockEntryResponse, error)
	BatchHistory(ctx context.Context, medicineID int64, batchNo string) ([]pharmacyapp.StockEntryResponse, error)
	AdjustStock(ctx context.Context, req pharmacyapp.AdjustStockRequest) (*pharmacyapp.StockEntryResponse, error)
}

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	BaseHandler
	stock StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stock StockService, log *zap.Logger) *StockHandler {
	return &StockHandler{BaseHandler: NewBaseHandler(log), stock: stock}
}

// List godoc
// @ID           listStock
// @Summary      Current stock per batch
// @Description  The latest ledger entry of every batch, ordered by medicine and batch
// @Tags         pharmacy-stock
// @Produce      json
// @Success      200  {object}  APIResponse[[]pharmacyapp.StockEntryResponse]
// @Security     BearerAuth
// @Router       /pharmacy/stock [get]
func (h *StockHandler) List(c *gin.Context) {
	list, err := h.stock.StockList(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// BatchHistory godoc
// @ID           getBatchHistory
// @Summary      Ledger history of one batch
// @Tags         pharmacy-stock
// @Produce      json
// @Param        medicineId  path      int     true  "Medicine ID"
// @Param        batchNo     path      string  true  "Batch number"
// @Success      200         {object}  APIResponse[[]pharmacyapp.StockEntryResponse]
// @Failure      400         {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/stock/{medicineId}/batches/{batchNo} [get]
func (h *StockHandler) BatchHistory(c *gin.Context) {
	medicineID, ok := h.pathID(c, "medicineId")
	if !ok {
		return
	}
	list, err := h.stock.BatchHistory(c.Request.Context(), medicineID, c.Param("batchNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Post a stock correction
// @Description  Positive qty adds stock, negative qty removes it. Removals beyond the balance yield ERR_INSUFFICIENT_STOCK.
// @Tags         pharmacy-stock
// @Accept       json
// @Produce      json
// @Param        request  body      pharmacyapp.AdjustStockRequest  true  "Signed correction"
// @Success      201      {object}  APIResponse[pharmacyapp.StockEntryResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/stock/adjustments [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req pharmacyapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.stock.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
