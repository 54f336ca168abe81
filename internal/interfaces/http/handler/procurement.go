package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	pharmacyapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"go.uber.org/zap"
)

// IndentService manages medicine requisitions
type IndentService interface {
	CreateIndent(ctx context.Context, req pharmacyapp.CreateIndentRequest, createdBy *int64) (*pharmacyapp.IndentResponse, error)
	ListIndents(ctx context.Context, filter shared.Filter) (*shared.Paginated[pharmacyapp.IndentResponse], error)
	GetIndent(ctx context.Context, id int64) (*pharmacyapp.IndentResponse, error)
	ApproveIndent(ctx context.Context, id int64, req pharmacyapp.ApproveIndentRequest, approvedBy *int64) (*pharmacyapp.IndentResponse, error)
	DeleteIndent(ctx context.Context, id int64) error
}

// IndentHandler handles indent endpoints
type IndentHandler struct {
	BaseHandler
	indents IndentService
}

// NewIndentHandler creates a new IndentHandler
func NewIndentHandler(indents IndentService, log *zap.Logger) *IndentHandler {
	return &IndentHandler{BaseHandler: NewBaseHandler(log), indents: indents}
}

// Create godoc
// @ID           createIndent
// @Summary      Raise an indent
// @Tags         pharmacy-indents
// @Accept       json
// @Produce      json
// @Param        request  body      pharmacyapp.CreateIndentRequest  true  "Requested medicines"
// @Success      201      {object}  APIResponse[pharmacyapp.IndentResponse]
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/indents [post]
func (h *IndentHandler) Create(c *gin.Context) {
	var req pharmacyapp.CreateIndentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.indents.CreateIndent(c.Request.Context(), req, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listIndents
// @Summary      List indents
// @Tags         pharmacy-indents
// @Produce      json
// @Param        page    query     int     false  "Page number"     default(1)
// @Param        limit   query     int     false  "Items per page"  default(20)
// @Param        search  query     string  false  "Indent number fragment"
// @Success      200     {object}  APIResponse[[]pharmacyapp.IndentResponse]
// @Security     BearerAuth
// @Router       /pharmacy/indents [get]
func (h *IndentHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.indents.ListIndents(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get godoc
// @ID           getIndent
// @Summary      Get an indent with its unconsumed items
// @Tags         pharmacy-indents
// @Produce      json
// @Param        id   path      int  true  "Indent ID"
// @Success      200  {object}  APIResponse[pharmacyapp.IndentResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/indents/{id} [get]
func (h *IndentHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.indents.GetIndent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve godoc
// @ID           approveIndent
// @Summary      Review an indent
// @Tags         pharmacy-indents
// @Accept       json
// @Produce      json
// @Param        id       path      int                               true  "Indent ID"
// @Param        request  body      pharmacyapp.ApproveIndentRequest  true  "Decision and approved quantities"
// @Success      200      {object}  APIResponse[pharmacyapp.IndentResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/indents/{id}/approve [put]
func (h *IndentHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req pharmacyapp.ApproveIndentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.indents.ApproveIndent(c.Request.Context(), id, req, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteIndent
// @Summary      Delete an indent
// @Description  Fails with ERR_INVALID_STATE once any item is on a purchase order
// @Tags         pharmacy-indents
// @Param        id  path  int  true  "Indent ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/indents/{id} [delete]
func (h *IndentHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.indents.DeleteIndent(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PurchaseOrderService manages purchase orders and their payments
type PurchaseOrderService interface {
	CreatePO(ctx context.Context, req pharmacyapp.CreatePORequest, createdBy *int64) (*pharmacyapp.POResponse, error)
	ApprovePO(ctx context.Context, id, approverID int64, req pharmacyapp.ApprovePORequest) (*pharmacyapp.POResponse, error)
	RecordPayment(ctx context.Context, id int64, req pharmacyapp.RecordPaymentRequest) (*pharmacyapp.POResponse, error)
	UpdatePOStatus(ctx context.Context, id int64, req pharmacyapp.UpdatePOStatusRequest) (*pharmacyapp.POResponse, error)
	ListPOs(ctx context.Context, filter shared.Filter) (*shared.Paginated[pharmacyapp.POResponse], error)
	GetPO(ctx context.Context, id int64) (*pharmacyapp.POResponse, error)
	ListApprovedPOs(ctx context.Context) (*pharmacyapp.ApprovedPOsResponse, error)
	GetPOPdf(ctx context.Context, id int64) (*pharmacyapp.PODocumentResponse, error)
}

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orders PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orders PurchaseOrderService, log *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{BaseHandler: NewBaseHandler(log), orders: orders}
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order from an indent
// @Description  Consumes the listed indent items. Items already on another order yield ERR_INVALID_STATE.
// @Tags         pharmacy-purchase-orders
// @Accept       json
// @Produce      json
// @Param        request  body      pharmacyapp.CreatePORequest  true  "Order lines"
// @Success      201      {object}  APIResponse[pharmacyapp.POResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req pharmacyapp.CreatePORequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.CreatePO(c.Request.Context(), req, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         pharmacy-purchase-orders
// @Produce      json
// @Param        page    query     int     false  "Page number"     default(1)
// @Param        limit   query     int     false  "Items per page"  default(20)
// @Param        search  query     string  false  "Order number fragment"
// @Success      200     {object}  APIResponse[[]pharmacyapp.POResponse]
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.orders.ListPOs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// ListApproved godoc
// @ID           listApprovedPurchaseOrders
// @Summary      List approved purchase orders with payment term options
// @Tags         pharmacy-purchase-orders
// @Produce      json
// @Success      200  {object}  APIResponse[pharmacyapp.ApprovedPOsResponse]
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders/approved [get]
func (h *PurchaseOrderHandler) ListApproved(c *gin.Context) {
	resp, err := h.orders.ListApprovedPOs(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get godoc
// @ID           getPurchaseOrder
// @Summary      Get a purchase order
// @Tags         pharmacy-purchase-orders
// @Produce      json
// @Param        id   path      int  true  "Purchase order ID"
// @Success      200  {object}  APIResponse[pharmacyapp.POResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.GetPO(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Document godoc
// @ID           getPurchaseOrderPdf
// @Summary      Get the purchase order PDF location
// @Description  Renders and stores the PDF when the order has none yet
// @Tags         pharmacy-purchase-orders
// @Produce      json
// @Param        id   path      int  true  "Purchase order ID"
// @Success      200  {object}  APIResponse[pharmacyapp.PODocumentResponse]
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) Document(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.GetPOPdf(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updatePurchaseOrderStatus
// @Summary      Move a purchase order to another status
// @Tags         pharmacy-purchase-orders
// @Accept       json
// @Produce      json
// @Param        id       path      int                                true  "Purchase order ID"
// @Param        request  body      pharmacyapp.UpdatePOStatusRequest  true  "Target status"
// @Success      200      {object}  APIResponse[pharmacyapp.POResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders/{id}/status [put]
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req pharmacyapp.UpdatePOStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.UpdatePOStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve godoc
// @ID           approvePurchaseOrder
// @Summary      Approve and forward a purchase order
// @Description  Approval is attributed to the authenticated user. The PDF is generated afterwards; a rendering failure does not undo the approval.
// @Tags         pharmacy-purchase-orders
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true  "Purchase order ID"
// @Param        request  body      pharmacyapp.ApprovePORequest  true  "Approval remarks"
// @Success      200      {object}  APIResponse[pharmacyapp.POResponse]
// @Failure      401      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders/{id}/approve [put]
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	approver, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req pharmacyapp.ApprovePORequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.ApprovePO(c.Request.Context(), id, approver, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment godoc
// @ID           recordPurchaseOrderPayment
// @Summary      Record a payment against a purchase order
// @Tags         pharmacy-purchase-orders
// @Accept       json
// @Produce      json
// @Param        id       path      int                               true  "Purchase order ID"
// @Param        request  body      pharmacyapp.RecordPaymentRequest  true  "Amount paid"
// @Success      200      {object}  APIResponse[pharmacyapp.POResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/purchase-orders/{id}/payment [post]
func (h *PurchaseOrderHandler) RecordPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req pharmacyapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GRNService receives goods against purchase orders
type GRNService interface {
	ReceiveGoods(ctx context.Context, req pharmacyapp.CreateGRNRequest, receivedBy int64) (*pharmacyapp.GRNResponse, error)
	ListGRNs(ctx context.Context) ([]pharmacyapp.GRNResponse, error)
	GetGRN(ctx context.Context, id int64) (*pharmacyapp.GRNResponse, error)
}

// GRNHandler handles goods receipt endpoints
type GRNHandler struct {
	BaseHandler
	grns GRNService
}

// NewGRNHandler creates a new GRNHandler
func NewGRNHandler(grns GRNService, log *zap.Logger) *GRNHandler {
	return &GRNHandler{BaseHandler: NewBaseHandler(log), grns: grns}
}

// Create godoc
// @ID           createGRN
// @Summary      Receive goods
// @Description  Posts each received batch to the stock ledger. One GRN per purchase order.
// @Tags         pharmacy-grns
// @Accept       json
// @Produce      json
// @Param        request  body      pharmacyapp.CreateGRNRequest  true  "Received batches"
// @Success      201      {object}  APIResponse[pharmacyapp.GRNResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/grns [post]
func (h *GRNHandler) Create(c *gin.Context) {
	receivedBy, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req pharmacyapp.CreateGRNRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.grns.ReceiveGoods(c.Request.Context(), req, receivedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listGRNs
// @Summary      List goods receipt notes
// @Tags         pharmacy-grns
// @Produce      json
// @Success      200  {object}  APIResponse[[]pharmacyapp.GRNResponse]
// @Security     BearerAuth
// @Router       /pharmacy/grns [get]
func (h *GRNHandler) List(c *gin.Context) {
	list, err := h.grns.ListGRNs(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get godoc
// @ID           getGRN
// @Summary      Get a goods receipt note
// @Tags         pharmacy-grns
// @Produce      json
// @Param        id   path      int  true  "GRN ID"
// @Success      200  {object}  APIResponse[pharmacyapp.GRNResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/grns/{id} [get]
func (h *GRNHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.grns.GetGRN(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LedgerEntryService records distributor payments
type LedgerEntryService interface {
	CreateLedgerEntry(ctx context.Context, req pharmacyapp.CreateLedgerEntryRequest, userID *int64) (*pharmacyapp.LedgerEntryResponse, error)
	ListLedgerEntries(ctx context.Context) ([]pharmacyapp.LedgerEntryResponse, error)
	GetLedgerEntry(ctx context.Context, id int64) (*pharmacyapp.LedgerEntryResponse, error)
}

// LedgerEntryHandler handles accounts ledger endpoints
type LedgerEntryHandler struct {
	BaseHandler
	entries LedgerEntryService
}

// NewLedgerEntryHandler creates a new LedgerEntryHandler
func NewLedgerEntryHandler(entries LedgerEntryService, log *zap.Logger) *LedgerEntryHandler {
	return &LedgerEntryHandler{BaseHandler: NewBaseHandler(log), entries: entries}
}

// Create godoc
// @ID           createLedgerEntry
// @Summary      Record a ledger entry
// @Description  An entry referencing a purchase order also sets that order's payment term
// @Tags         pharmacy-ledger
// @Accept       json
// @Produce      json
// @Param        request  body      pharmacyapp.CreateLedgerEntryRequest  true  "Entry"
// @Success      201      {object}  APIResponse[pharmacyapp.LedgerEntryResponse]
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/ledger-entries [post]
func (h *LedgerEntryHandler) Create(c *gin.Context) {
	var req pharmacyapp.CreateLedgerEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.entries.CreateLedgerEntry(c.Request.Context(), req, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listLedgerEntries
// @Summary      List ledger entries
// @Tags         pharmacy-ledger
// @Produce      json
// @Success      200  {object}  APIResponse[[]pharmacyapp.LedgerEntryResponse]
// @Security     BearerAuth
// @Router       /pharmacy/ledger-entries [get]
func (h *LedgerEntryHandler) List(c *gin.Context) {
	list, err := h.entries.ListLedgerEntries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get godoc
// @ID           getLedgerEntry
// @Summary      Get a ledger entry
// @Tags         pharmacy-ledger
// @Produce      json
// @Param        id   path      int  true  "Ledger entry ID"
// @Success      200  {object}  APIResponse[pharmacyapp.LedgerEntryResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /pharmacy/ledger-entries/{id} [get]
func (h *LedgerEntryHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.entries.GetLedgerEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
