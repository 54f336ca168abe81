package pharmacy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type services struct {
	indents *pharmacy.IndentService
	orders  *pharmacy.PurchaseOrderService
	grns    *pharmacy.GRNService
	sales   *pharmacy.SaleService
	stock   *pharmacy.StockService
	ledger  *pharmacy.LedgerEntryService
	db      *gorm.DB
}

func setupServices(t *testing.T) *services {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	require.NoError(t, db.Create(&models.UserModel{ID: 1, Name: "Store Keeper"}).Error)
	require.NoError(t, db.Create(&models.DistributorModel{ID: 1, Name: "Medi Traders"}).Error)
	for _, m := range []models.MedicineModel{{ID: 1, Name: "Paracetamol 500mg"}, {ID: 2, Name: "Amoxicillin 250mg"}} {
		require.NoError(t, db.Create(&m).Error)
	}

	clock := shared.FixedClock{T: time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)}
	repos := pharmacy.Repositories{
		StockLedger:   persistence.NewGormStockLedgerRepository(db, clock),
		GRN:           persistence.NewGormGRNRepository(db),
		Sale:          persistence.NewGormSaleRepository(db),
		PurchaseOrder: persistence.NewGormPurchaseOrderRepository(db),
		Indent:        persistence.NewGormIndentRepository(db),
		LedgerEntry:   persistence.NewGormLedgerEntryRepository(db),
	}
	scope := persistence.NewGormTransactionScope(db, clock)
	engine := pharmacy.NewLedgerEngine(clock)
	log := zap.NewNop()
	return &services{
		indents: pharmacy.NewIndentService(repos, scope, clock, log),
		orders:  pharmacy.NewPurchaseOrderService(repos, scope, clock, nil, log),
		grns:    pharmacy.NewGRNService(repos, scope, engine, clock, log),
		sales:   pharmacy.NewSaleService(repos, scope, engine, clock, log),
		stock:   pharmacy.NewStockService(repos, scope, engine, log),
		ledger:  pharmacy.NewLedgerEntryService(repos, scope, clock, log),
		db:      db,
	}
}

// An indent flows through a purchase order and a GRN into stock, and sales draw
// the stock down without ever taking a batch below zero.
func TestPharmacyFlow(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	user := int64(1)
	medA, medB := int64(1), int64(2)

	indent, err := s.indents.CreateIndent(ctx, pharmacy.CreateIndentRequest{
		Items: []pharmacy.CreateIndentItemRequest{
			{GenericNameID: 10, MedicineID: &medA, RequestedQty: 12},
			{GenericNameID: 20, MedicineID: &medB, RequestedQty: 5},
			{GenericNameID: 30, RequestedQty: 1},
		},
	}, &user)
	require.NoError(t, err)
	assert.Equal(t, "IND-00001", indent.IndentNo)
	assert.Equal(t, "PENDING", indent.Status)
	require.Len(t, indent.Items, 3)

	po, err := s.orders.CreatePO(ctx, pharmacy.CreatePORequest{
		DistributorID: 1,
		IndentID:      indent.ID,
		Items: []pharmacy.CreatePOItemRequest{
			{IndentItemID: &indent.Items[0].ID, MedicineID: medA, OrderedQty: 12, Rate: dec("10")},
			{IndentItemID: &indent.Items[1].ID, MedicineID: medB, OrderedQty: 5, Rate: dec("4")},
		},
	}, &user)
	require.NoError(t, err)
	assert.Equal(t, "PO-00001", po.PONo)

	open, err := s.indents.GetIndent(ctx, indent.ID)
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", open.Status)
	require.Len(t, open.Items, 1)
	assert.Equal(t, int64(30), open.Items[0].GenericNameID)

	t.Run("consumed items cannot be ordered twice", func(t *testing.T) {
		_, err := s.orders.CreatePO(ctx, pharmacy.CreatePORequest{
			DistributorID: 1,
			IndentID:      indent.ID,
			Items: []pharmacy.CreatePOItemRequest{
				{IndentItemID: &indent.Items[0].ID, MedicineID: medA, OrderedQty: 1, Rate: dec("10")},
			},
		}, &user)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))

		page, err := s.orders.ListPOs(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	approved, err := s.orders.ApprovePO(ctx, po.ID, user, pharmacy.ApprovePORequest{Remarks: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED_AND_FORWARD_TO_ACCOUNTS", approved.Status)
	assert.Empty(t, approved.PDFURL)

	expiry := time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)
	grn, err := s.grns.ReceiveGoods(ctx, pharmacy.CreateGRNRequest{
		GRNNo: "GRN-1",
		POID:  po.ID,
		Items: []pharmacy.CreateGRNItemRequest{
			{MedicineID: medB, OrderedQty: 5, ReceivedQty: 5, BatchNo: "C1", ExpiryDate: &expiry, Rate: dec("4")},
			{MedicineID: medA, OrderedQty: 12, ReceivedQty: 10, BonusQty: 2, BatchNo: "B1", ExpiryDate: &expiry, Rate: dec("10")},
		},
	}, user)
	require.NoError(t, err)
	assert.Equal(t, "PO-00001", grn.PONo)
	assert.Equal(t, int64(1), grn.DistributorID)
	assert.Equal(t, int64(17), grn.TotalQty)
	assert.True(t, grn.NetAmount.Equal(dec("140")))

	t.Run("second GRN for the order is rejected", func(t *testing.T) {
		_, err := s.grns.ReceiveGoods(ctx, pharmacy.CreateGRNRequest{
			GRNNo: "GRN-2", POID: po.ID,
			Items: []pharmacy.CreateGRNItemRequest{{MedicineID: medA, ReceivedQty: 1, BatchNo: "B1", Rate: dec("10")}},
		}, user)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	sale, err := s.sales.CreateSale(ctx, pharmacy.CreateSaleRequest{
		SaleNo:      "S-1",
		PaymentMode: "CASH",
		Items: []pharmacy.CreateSaleItemRequest{
			{MedicineID: medA, BatchNo: "B1", Quantity: 4, SaleRate: dec("15"), DiscountPercent: dec("10")},
		},
	}, &user)
	require.NoError(t, err)
	assert.True(t, sale.NetAmount.Equal(dec("54")))

	t.Run("insufficient line rolls back the whole sale", func(t *testing.T) {
		_, err := s.sales.CreateSale(ctx, pharmacy.CreateSaleRequest{
			SaleNo:      "S-2",
			PaymentMode: "CASH",
			Items: []pharmacy.CreateSaleItemRequest{
				{MedicineID: medA, BatchNo: "B1", Quantity: 5, SaleRate: dec("15")},
				{MedicineID: medB, BatchNo: "C1", Quantity: 6, SaleRate: dec("8")},
			},
		}, &user)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		sales, err := s.sales.ListSales(ctx)
		require.NoError(t, err)
		assert.Len(t, sales, 1)
	})

	stock, err := s.stock.StockList(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 2)
	balances := map[string]int64{}
	values := map[string]decimal.Decimal{}
	for _, e := range stock {
		balances[e.BatchNo] = e.BalanceQty
		values[e.BatchNo] = e.BalanceValue
	}
	assert.Equal(t, int64(8), balances["B1"])
	assert.True(t, values["B1"].Equal(dec("80")))
	assert.Equal(t, int64(5), balances["C1"])

	history, err := s.stock.BatchHistory(ctx, medA, "B1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "IN", history[0].TransactionType)
	assert.Equal(t, "GRN", history[0].RefTable)
	assert.Equal(t, grn.ID, history[0].RefID)
	assert.Equal(t, "OUT", history[1].TransactionType)
	assert.Equal(t, sale.ID, history[1].RefID)
	assert.True(t, history[1].CustomerDiscountAmount.Equal(dec("6")))

	adjusted, err := s.stock.AdjustStock(ctx, pharmacy.AdjustStockRequest{MedicineID: medB, BatchNo: "C1", Qty: 2, Remarks: "recount"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), adjusted.BalanceQty)
	assert.True(t, adjusted.BalanceValue.Equal(dec("28")))

	_, err = s.stock.AdjustStock(ctx, pharmacy.AdjustStockRequest{MedicineID: medB, BatchNo: "C1", Qty: -8})
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	entry, err := s.ledger.CreateLedgerEntry(ctx, pharmacy.CreateLedgerEntryRequest{
		RefType: "PO", RefID: po.ID, Debit: dec("140"), AccountType: "DISTRIBUTOR",
		PaymentTerm: "Payment within 30 days of delivery",
	}, &user)
	require.NoError(t, err)
	assert.Equal(t, "WITHIN_30_DAYS", entry.PaymentTerm)

	settled, err := s.orders.GetPO(ctx, po.ID)
	require.NoError(t, err)
	require.NotNil(t, settled.PaymentTerm)
	assert.Equal(t, "WITHIN_30_DAYS", *settled.PaymentTerm)
	assert.Equal(t, "APPROVED_AND_FORWARD_TO_ACCOUNTS", settled.Status)
	require.Len(t, settled.GRNs, 1)

	paid, err := s.orders.RecordPayment(ctx, po.ID, pharmacy.RecordPaymentRequest{PaidAmount: dec("140")})
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)

	approvedList, err := s.orders.ListApprovedPOs(ctx)
	require.NoError(t, err)
	assert.Len(t, approvedList.PurchaseOrders, 1)

	err = s.indents.DeleteIndent(ctx, indent.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestLedgerEntry_UnknownPurchaseOrder(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.ledger.CreateLedgerEntry(ctx, pharmacy.CreateLedgerEntryRequest{
		RefType: "PO", RefID: 404, Debit: dec("1"), AccountType: "DISTRIBUTOR", PaymentTerm: "ADVANCE",
	}, nil)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	entries, err := s.ledger.ListLedgerEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIndent_ReviewAndDelete(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	reviewer := int64(1)

	indent, err := s.indents.CreateIndent(ctx, pharmacy.CreateIndentRequest{
		Items: []pharmacy.CreateIndentItemRequest{{GenericNameID: 10, RequestedQty: 8}},
	}, nil)
	require.NoError(t, err)

	_, err = s.indents.ApproveIndent(ctx, indent.ID, pharmacy.ApproveIndentRequest{Status: "PO_GENERATE"}, &reviewer)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.CodeValidation, de.Code)

	qty := int64(6)
	reviewed, err := s.indents.ApproveIndent(ctx, indent.ID, pharmacy.ApproveIndentRequest{
		Status: "PARTIALLY_APPROVED",
		Items:  []pharmacy.ApproveIndentItemRequest{{ID: indent.Items[0].ID, ApprovedQty: &qty}},
	}, &reviewer)
	require.NoError(t, err)
	assert.Equal(t, "PARTIALLY_APPROVED", reviewed.Status)
	require.NotNil(t, reviewed.Items[0].ApprovedQty)
	assert.Equal(t, int64(6), *reviewed.Items[0].ApprovedQty)

	page, err := s.indents.ListIndents(ctx, shared.Filter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, s.indents.DeleteIndent(ctx, indent.ID))
	_, err = s.indents.GetIndent(ctx, indent.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
