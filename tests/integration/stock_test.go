package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pharmacyServices struct {
	indents *pharmacy.IndentService
	orders  *pharmacy.PurchaseOrderService
	grns    *pharmacy.GRNService
	sales   *pharmacy.SaleService
	stock   *pharmacy.StockService
}

func newPharmacyServices(tdb *TestDB) *pharmacyServices {
	clock := shared.FixedClock{T: time.Date(2025, time.March, 14, 9, 30, 0, 0, karachi)}
	repos := pharmacy.Repositories{
		StockLedger:   persistence.NewGormStockLedgerRepository(tdb.DB, clock),
		GRN:           persistence.NewGormGRNRepository(tdb.DB),
		Sale:          persistence.NewGormSaleRepository(tdb.DB),
		PurchaseOrder: persistence.NewGormPurchaseOrderRepository(tdb.DB),
		Indent:        persistence.NewGormIndentRepository(tdb.DB),
		LedgerEntry:   persistence.NewGormLedgerEntryRepository(tdb.DB),
	}
	scope := persistence.NewGormTransactionScope(tdb.DB, clock)
	engine := pharmacy.NewLedgerEngine(clock)
	log := zap.NewNop()
	return &pharmacyServices{
		indents: pharmacy.NewIndentService(repos, scope, clock, log),
		orders:  pharmacy.NewPurchaseOrderService(repos, scope, clock, nil, log),
		grns:    pharmacy.NewGRNService(repos, scope, engine, clock, log),
		sales:   pharmacy.NewSaleService(repos, scope, engine, clock, log),
		stock:   pharmacy.NewStockService(repos, scope, engine, log),
	}
}

// Parallel sales against one batch never take it below zero: exactly as many
// single-unit sales succeed as there were units on hand.
func TestStock_ConcurrentSalesNeverOversell(t *testing.T) {
	tdb := NewTestDB(t)
	s := newPharmacyServices(tdb)
	ctx := context.Background()

	_, err := s.stock.AdjustStock(ctx, pharmacy.AdjustStockRequest{MedicineID: 1, BatchNo: "B1", Qty: 10, Remarks: "opening balance"})
	require.NoError(t, err)

	const buyers = 20
	user := int64(2)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		sold     int
		rejected int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.sales.CreateSale(ctx, pharmacy.CreateSaleRequest{
				SaleNo:      fmt.Sprintf("S-%03d", n),
				PaymentMode: "CASH",
				Items: []pharmacy.CreateSaleItemRequest{
					{MedicineID: 1, BatchNo: "B1", Quantity: 1, SaleRate: decimal.NewFromInt(15)},
				},
			}, &user)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.True(t, errors.Is(err, shared.ErrInsufficientStock), "unexpected error: %v", err)
				rejected++
				return
			}
			sold++
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, sold)
	assert.Equal(t, buyers-10, rejected)

	history, err := s.stock.BatchHistory(ctx, 1, "B1")
	require.NoError(t, err)
	require.Len(t, history, 11)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].BalanceQty-1, history[i].BalanceQty, "entry %d", i)
	}
	assert.Equal(t, int64(0), history[len(history)-1].BalanceQty)

	sales, err := s.sales.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 10)
}

// Two receipts racing for the same purchase order post stock once.
func TestStock_ConcurrentGRNsForOneOrder(t *testing.T) {
	tdb := NewTestDB(t)
	s := newPharmacyServices(tdb)
	ctx := context.Background()
	user := int64(2)
	med := int64(1)

	indent, err := s.indents.CreateIndent(ctx, pharmacy.CreateIndentRequest{
		Items: []pharmacy.CreateIndentItemRequest{{GenericNameID: 1, MedicineID: &med, RequestedQty: 6}},
	}, &user)
	require.NoError(t, err)
	po, err := s.orders.CreatePO(ctx, pharmacy.CreatePORequest{
		DistributorID: 1,
		IndentID:      indent.ID,
		Items: []pharmacy.CreatePOItemRequest{
			{IndentItemID: &indent.Items[0].ID, MedicineID: med, OrderedQty: 6, Rate: decimal.NewFromInt(10)},
		},
	}, &user)
	require.NoError(t, err)
	_, err = s.orders.ApprovePO(ctx, po.ID, user, pharmacy.ApprovePORequest{})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.grns.ReceiveGoods(ctx, pharmacy.CreateGRNRequest{
				GRNNo: fmt.Sprintf("GRN-%d", n),
				POID:  po.ID,
				Items: []pharmacy.CreateGRNItemRequest{
					{MedicineID: med, OrderedQty: 6, ReceivedQty: 6, BatchNo: "LOT-9", Rate: decimal.NewFromInt(10)},
				},
			}, user)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.True(t, errors.Is(err, shared.ErrAlreadyExists), "unexpected error: %v", err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	stock, err := s.stock.StockList(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, int64(6), stock[0].BalanceQty)
	assert.True(t, stock[0].BalanceValue.Equal(decimal.NewFromInt(60)))
}
