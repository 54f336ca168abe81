package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderResult), args.Error(1)
}

func (m *MockRenderer) Close() error {
	return nil
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

var printedAt = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func samplePO() *pharmacy.PurchaseOrder {
	term := pharmacy.PaymentTermAdvance
	po := &pharmacy.PurchaseOrder{
		PONo:          "PO-00042",
		PODate:        printedAt,
		DistributorID: 2,
		NetAmount:     decimal.RequireFromString("12345.5"),
		Status:        pharmacy.PurchaseOrderStatusForwarded,
		PaymentTerm:   &term,
		Remarks:       "urgent <restock>",
		Distributor:   &pharmacy.Distributor{ID: 2, Name: "CITY PHARMA DISTRIBUTORS", Address: "Mall Road"},
		Items: []pharmacy.PurchaseOrderItem{
			{
				MedicineID: 1, OrderedQty: 1200,
				Rate:        decimal.RequireFromString("10"),
				TotalAmount: decimal.RequireFromString("12000"),
				Medicine:    &pharmacy.Medicine{ID: 1, Name: "paracetamol", Strength: "500mg"},
			},
			{MedicineID: 7, OrderedQty: 3, Rate: decimal.RequireFromString("115.1666"), TotalAmount: decimal.RequireFromString("345.5")},
		},
	}
	po.ID = 42
	return po
}

func TestRenderPurchaseOrderHTML(t *testing.T) {
	html, err := renderPurchaseOrderHTML(purchaseOrderView{Facility: "HikariMed", Order: samplePO(), PrintedAt: printedAt})
	require.NoError(t, err)

	assert.Contains(t, html, "<title>PO-00042</title>")
	assert.Contains(t, html, "City Pharma Distributors")
	assert.Contains(t, html, "Paracetamol 500mg")
	assert.Contains(t, html, "#7")
	assert.Contains(t, html, "1,200")
	assert.Contains(t, html, "12,345.50")
	assert.Contains(t, html, "115.17")
	assert.Contains(t, html, "Advance payment before delivery")
	assert.Contains(t, html, "urgent &lt;restock&gt;")
	assert.Contains(t, html, "14 Mar 2025 10:30")
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"999.999":    "1,000.00",
		"1234567.8":  "1,234,567.80",
		"-1500":      "-1,500.00",
		"100.004999": "100.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestPurchaseOrderDocuments_Generate(t *testing.T) {
	renderer := new(MockRenderer)
	store := new(MockDocumentStore)
	docs := NewPurchaseOrderDocuments(renderer, store, "HikariMed", 5*time.Second, shared.FixedClock{T: printedAt}, nil)
	pdf := []byte("%PDF-1.4")

	renderer.On("Render", mock.Anything, mock.MatchedBy(func(req *RenderRequest) bool {
		return req.Title == "PO-00042" && req.Timeout == 5*time.Second && req.FooterHTML != ""
	})).Return(&RenderResult{PDFData: pdf}, nil)
	store.On("Put", mock.Anything, "purchase-orders/2025/03/PO-00042.pdf", pdf, "application/pdf").
		Return("/documents/purchase-orders/2025/03/PO-00042.pdf", nil)

	url, err := docs.GeneratePurchaseOrder(context.Background(), samplePO())
	require.NoError(t, err)
	assert.Equal(t, "/documents/purchase-orders/2025/03/PO-00042.pdf", url)
	renderer.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPurchaseOrderDocuments_Failures(t *testing.T) {
	t.Run("render failure", func(t *testing.T) {
		renderer := new(MockRenderer)
		store := new(MockDocumentStore)
		docs := NewPurchaseOrderDocuments(renderer, store, "HikariMed", 0, shared.FixedClock{T: printedAt}, nil)
		renderer.On("Render", mock.Anything, mock.Anything).
			Return(nil, NewRenderError(ErrCodeRenderTimeout, "timed out", nil))

		_, err := docs.GeneratePurchaseOrder(context.Background(), samplePO())
		var re *RenderError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, ErrCodeRenderTimeout, re.Code)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		renderer := new(MockRenderer)
		store := new(MockDocumentStore)
		docs := NewPurchaseOrderDocuments(renderer, store, "HikariMed", 0, shared.FixedClock{T: printedAt}, nil)
		renderer.On("Render", mock.Anything, mock.Anything).Return(&RenderResult{PDFData: []byte("x")}, nil)
		store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full"))

		_, err := docs.GeneratePurchaseOrder(context.Background(), samplePO())
		var re *RenderError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, ErrCodeStorageFailed, re.Code)
		assert.ErrorContains(t, err, "disk full")
	})
}
