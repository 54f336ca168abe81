package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	pharmacyapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func purchaseOrderRouter(svc *mockPurchaseOrderService, mw ...gin.HandlerFunc) *gin.Engine {
	h := NewPurchaseOrderHandler(svc, nil)
	r := gin.New()
	g := r.Group("/api/v1/pharmacy/purchase-orders", mw...)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/approved", h.ListApproved)
	g.GET("/:id", h.Get)
	g.GET("/:id/pdf", h.Document)
	g.PUT("/:id/status", h.UpdateStatus)
	g.PUT("/:id/approve", h.Approve)
	g.POST("/:id/payment", h.RecordPayment)
	return r
}

func TestPurchaseOrderHandler_Approve(t *testing.T) {
	svc := new(mockPurchaseOrderService)
	svc.On("ApprovePO", mock.Anything, int64(4), int64(8), pharmacyapp.ApprovePORequest{Remarks: "ok"}).
		Return(&pharmacyapp.POResponse{ID: 4, Status: "FORWARDED"}, nil)

	w := httptest.NewRecorder()
	purchaseOrderRouter(svc, asUser(8)).ServeHTTP(w, jsonRequest(http.MethodPut, "/api/v1/pharmacy/purchase-orders/4/approve", `{"remarks":"ok"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"FORWARDED"`)
	svc.AssertExpectations(t)
}

func TestPurchaseOrderHandler_Approve_RequiresUser(t *testing.T) {
	svc := new(mockPurchaseOrderService)
	w := httptest.NewRecorder()
	purchaseOrderRouter(svc).ServeHTTP(w, jsonRequest(http.MethodPut, "/api/v1/pharmacy/purchase-orders/4/approve", `{}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "ApprovePO", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseOrderHandler_RecordPayment(t *testing.T) {
	svc := new(mockPurchaseOrderService)
	svc.On("RecordPayment", mock.Anything, int64(4), mock.MatchedBy(func(req pharmacyapp.RecordPaymentRequest) bool {
		return req.PaidAmount.Equal(decimal.RequireFromString("250.50"))
	})).Return(nil, shared.NewInvalidStateError("Purchase order is already paid"))

	w := httptest.NewRecorder()
	purchaseOrderRouter(svc, asUser(8)).ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/pharmacy/purchase-orders/4/payment", `{"paidAmount":"250.50"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
	svc.AssertExpectations(t)
}

func TestPurchaseOrderHandler_RoutesApprovedBeforeID(t *testing.T) {
	svc := new(mockPurchaseOrderService)
	svc.On("ListApprovedPOs", mock.Anything).Return(&pharmacyapp.ApprovedPOsResponse{}, nil)

	w := httptest.NewRecorder()
	purchaseOrderRouter(svc, asUser(8)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/purchase-orders/approved", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "GetPO", mock.Anything, mock.Anything)
}

func TestPurchaseOrderHandler_Document(t *testing.T) {
	svc := new(mockPurchaseOrderService)
	svc.On("GetPOPdf", mock.Anything, int64(4)).Return(&pharmacyapp.PODocumentResponse{ID: 4, PONo: "PO-00004", PDFURL: "/documents/po/PO-00004.pdf"}, nil)

	w := httptest.NewRecorder()
	purchaseOrderRouter(svc, asUser(8)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/purchase-orders/4/pdf", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pdfUrl":"/documents/po/PO-00004.pdf"`)
}

func TestPurchaseOrderHandler_UpdateStatus_RequiresStatus(t *testing.T) {
	svc := new(mockPurchaseOrderService)
	w := httptest.NewRecorder()
	purchaseOrderRouter(svc, asUser(8)).ServeHTTP(w, jsonRequest(http.MethodPut, "/api/v1/pharmacy/purchase-orders/4/status", `{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdatePOStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestGRNHandler_Create(t *testing.T) {
	svc := new(mockGRNService)
	svc.On("ReceiveGoods", mock.Anything, mock.MatchedBy(func(req pharmacyapp.CreateGRNRequest) bool {
		return req.POID == 4 && len(req.Items) == 1 && req.Items[0].BatchNo == "B-100"
	}), int64(3)).Return(&pharmacyapp.GRNResponse{ID: 1, GRNNo: "GRN-1"}, nil)

	h := NewGRNHandler(svc, nil)
	r := gin.New()
	r.POST("/grns", asUser(3), h.Create)
	r.POST("/anon/grns", h.Create)

	body := `{"grnNo":"GRN-1","poId":4,"items":[{"medicineId":1,"receivedQty":10,"batchNo":"B-100","rate":"12.5"}]}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/grns", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/anon/grns", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.AssertNumberOfCalls(t, "ReceiveGoods", 1)
}

func TestGRNHandler_Create_Duplicate(t *testing.T) {
	svc := new(mockGRNService)
	svc.On("ReceiveGoods", mock.Anything, mock.Anything, int64(3)).
		Return(nil, shared.NewDuplicateError("GRN already exists for this purchase order"))

	h := NewGRNHandler(svc, nil)
	r := gin.New()
	r.POST("/grns", asUser(3), h.Create)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/grns",
		`{"grnNo":"GRN-2","poId":4,"items":[{"medicineId":1,"receivedQty":1,"batchNo":"B"}]}`))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
}

func TestSaleHandler_Create_InsufficientStock(t *testing.T) {
	svc := new(mockSaleService)
	svc.On("CreateSale", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, shared.NewInsufficientStockError(1, "B1", 5, 2))

	h := NewSaleHandler(svc, nil)
	r := gin.New()
	r.POST("/sales", asUser(2), h.Create)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/sales",
		`{"saleNo":"S-1","paymentMode":"CASH","items":[{"medicineId":1,"batchNo":"B1","quantity":5,"saleRate":"20"}]}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInsufficientStock, decodeResponse(t, w).Error.Code)
}

func TestSaleHandler_Create_RejectsZeroQuantity(t *testing.T) {
	svc := new(mockSaleService)
	h := NewSaleHandler(svc, nil)
	r := gin.New()
	r.POST("/sales", h.Create)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/sales",
		`{"saleNo":"S-1","paymentMode":"CASH","items":[{"medicineId":1,"batchNo":"B1","quantity":0}]}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything, mock.Anything)
}

func TestStockHandler(t *testing.T) {
	svc := new(mockStockService)
	svc.On("StockList", mock.Anything).Return([]pharmacyapp.StockEntryResponse{{MedicineID: 1, BatchNo: "B1", BalanceQty: 7}}, nil)
	svc.On("BatchHistory", mock.Anything, int64(1), "B1").Return([]pharmacyapp.StockEntryResponse{{BalanceQty: 10}, {BalanceQty: 7}}, nil)
	svc.On("AdjustStock", mock.Anything, pharmacyapp.AdjustStockRequest{MedicineID: 1, BatchNo: "B1", Qty: -3, Remarks: "breakage"}).
		Return(&pharmacyapp.StockEntryResponse{MedicineID: 1, BatchNo: "B1", BalanceQty: 4}, nil)

	h := NewStockHandler(svc, nil)
	r := gin.New()
	r.GET("/stock", h.List)
	r.GET("/stock/:medicineId/batches/:batchNo", h.BatchHistory)
	r.POST("/stock/adjustments", h.Adjust)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stock", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balanceQty":7`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stock/1/batches/B1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/stock/adjustments", `{"medicineId":1,"batchNo":"B1","qty":-3,"remarks":"breakage"}`))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"balanceQty":4`)

	svc.AssertExpectations(t)
}

func TestStockHandler_Adjust_ZeroQty(t *testing.T) {
	svc := new(mockStockService)
	h := NewStockHandler(svc, nil)
	r := gin.New()
	r.POST("/stock/adjustments", h.Adjust)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/stock/adjustments", `{"medicineId":1,"batchNo":"B1","qty":0}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndentHandler(t *testing.T) {
	svc := new(mockIndentService)
	svc.On("ApproveIndent", mock.Anything, int64(6), mock.MatchedBy(func(req pharmacyapp.ApproveIndentRequest) bool {
		return req.Status == "PARTIALLY_APPROVED" && len(req.Items) == 1 && *req.Items[0].ApprovedQty == 4
	}), mock.MatchedBy(func(by *int64) bool { return by != nil && *by == 2 })).
		Return(&pharmacyapp.IndentResponse{ID: 6, Status: "PARTIALLY_APPROVED"}, nil)
	svc.On("DeleteIndent", mock.Anything, int64(6)).Return(shared.NewInvalidStateError("Indent has items on a purchase order"))

	h := NewIndentHandler(svc, nil)
	r := gin.New()
	g := r.Group("/indents", asUser(2))
	g.PUT("/:id/approve", h.Approve)
	g.DELETE("/:id", h.Delete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPut, "/indents/6/approve",
		`{"status":"PARTIALLY_APPROVED","items":[{"id":10,"approvedQty":4}]}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/indents/6", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	svc.AssertExpectations(t)
}
