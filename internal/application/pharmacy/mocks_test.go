package pharmacy

import (
	"context"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockStockLedgerRepository is a mock implementation of pharmacy.StockLedgerRepository
type MockStockLedgerRepository struct {
	mock.Mock
}

func (m *MockStockLedgerRepository) LockBatch(ctx context.Context, key pharmacy.BatchKey, expiry *time.Time) error {
	args := m.Called(ctx, key, expiry)
	return args.Error(0)
}

func (m *MockStockLedgerRepository) Latest(ctx context.Context, key pharmacy.BatchKey) (*pharmacy.StockLedgerEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.StockLedgerEntry), args.Error(1)
}

func (m *MockStockLedgerRepository) Append(ctx context.Context, entry *pharmacy.StockLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStockLedgerRepository) LatestPerBatch(ctx context.Context) ([]pharmacy.StockLedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pharmacy.StockLedgerEntry), args.Error(1)
}

func (m *MockStockLedgerRepository) History(ctx context.Context, key pharmacy.BatchKey) ([]pharmacy.StockLedgerEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pharmacy.StockLedgerEntry), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of pharmacy.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, po *pharmacy.PurchaseOrder) error {
	args := m.Called(ctx, po)
	if args.Error(0) == nil {
		po.ID = 90
	}
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id int64) (*pharmacy.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*pharmacy.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *pharmacy.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindPage(ctx context.Context, filter shared.Filter) ([]pharmacy.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]pharmacy.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) FindByStatuses(ctx context.Context, statuses []pharmacy.PurchaseOrderStatus) ([]pharmacy.PurchaseOrder, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pharmacy.PurchaseOrder), args.Error(1)
}

// MockIndentRepository is a mock implementation of pharmacy.IndentRepository
type MockIndentRepository struct {
	mock.Mock
}

func (m *MockIndentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIndentRepository) Create(ctx context.Context, ind *pharmacy.Indent) error {
	args := m.Called(ctx, ind)
	return args.Error(0)
}

func (m *MockIndentRepository) FindByID(ctx context.Context, id int64, openItemsOnly bool) (*pharmacy.Indent, error) {
	args := m.Called(ctx, id, openItemsOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.Indent), args.Error(1)
}

func (m *MockIndentRepository) FindAll(ctx context.Context) ([]pharmacy.Indent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pharmacy.Indent), args.Error(1)
}

func (m *MockIndentRepository) FindPage(ctx context.Context, filter shared.Filter) ([]pharmacy.Indent, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]pharmacy.Indent), args.Get(1).(int64), args.Error(2)
}

func (m *MockIndentRepository) SaveReview(ctx context.Context, ind *pharmacy.Indent) error {
	args := m.Called(ctx, ind)
	return args.Error(0)
}

func (m *MockIndentRepository) ConsumeItems(ctx context.Context, indentID int64, itemIDs []int64) (int64, error) {
	args := m.Called(ctx, indentID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIndentRepository) CountUnconsumed(ctx context.Context, indentID int64) (int64, error) {
	args := m.Called(ctx, indentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIndentRepository) UpdateStatus(ctx context.Context, id int64, status pharmacy.IndentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockIndentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDocumentGenerator is a mock implementation of DocumentGenerator
type MockDocumentGenerator struct {
	mock.Mock
}

func (m *MockDocumentGenerator) GeneratePurchaseOrder(ctx context.Context, po *pharmacy.PurchaseOrder) (string, error) {
	args := m.Called(ctx, po)
	return args.String(0), args.Error(1)
}
