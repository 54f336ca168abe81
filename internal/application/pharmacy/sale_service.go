package pharmacy

import (
	"context"
	"errors"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SaleService records counter sales
type SaleService struct {
	repos           Repositories
	txScope         TransactionScope
	engine          *LedgerEngine
	clock           shared.Clock
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewSaleService creates a new SaleService
func NewSaleService(repos Repositories, txScope TransactionScope, engine *LedgerEngine, clock shared.Clock, log *zap.Logger) *SaleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SaleService{
		repos:   repos,
		txScope: txScope,
		engine:  engine,
		clock:   clock,
		logger:  log,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *SaleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateSale records a sale and issues every line from stock. If any line
// exceeds its batch balance nothing is written.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest, createdBy *int64) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create")
	defer span.End()

	resp, err := s.createSale(ctx, req, createdBy)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSaleNo, resp.SaleNo)
	return resp, nil
}

func (s *SaleService) createSale(ctx context.Context, req CreateSaleRequest, createdBy *int64) (*SaleResponse, error) {
	items := make([]pharmacy.SaleItemInput, len(req.Items))
	for i, in := range req.Items {
		items[i] = pharmacy.SaleItemInput{
			MedicineID:      in.MedicineID,
			BatchNo:         in.BatchNo,
			ExpiryDate:      in.ExpiryDate,
			Quantity:        in.Quantity,
			SaleRate:        in.SaleRate,
			DiscountPercent: in.DiscountPercent,
		}
	}
	sale, err := pharmacy.NewSale(pharmacy.SaleDraft{
		SaleNo:        req.SaleNo,
		SaleDate:      req.SaleDate,
		CustomerName:  req.CustomerName,
		PaymentMode:   req.PaymentMode,
		TotalDiscount: req.TotalDiscount,
		TaxPercent:    req.TaxPercent,
		CreatedBy:     createdBy,
	}, items, s.clock.Now())
	if err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx, s.logger)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}
		ledger := repos.StockLedgerRepo()
		locks := make([]BatchLock, len(sale.Items))
		for i, item := range sale.Items {
			locks[i] = BatchLock{
				Key:    pharmacy.BatchKey{MedicineID: item.MedicineID, BatchNo: item.BatchNo},
				Expiry: item.ExpiryDate,
			}
		}
		if err := s.engine.LockBatches(ctx, ledger, locks); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if _, err := s.engine.PostOutbound(ctx, ledger, item.OutboundPosting(sale.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			if s.businessMetrics != nil {
				s.businessMetrics.RecordStockRejection(ctx, string(pharmacy.RefTableSale))
			}
			log.Info("Sale rejected for insufficient stock", zap.String("sale_no", req.SaleNo), zap.Error(err))
		}
		return nil, err
	}

	if s.businessMetrics != nil {
		for _, item := range sale.Items {
			s.businessMetrics.RecordStockPosting(ctx, item.MedicineID, string(pharmacy.TransactionTypeOut), string(pharmacy.RefTableSale))
		}
	}
	log.Info("Sale recorded", zap.Int64("sale_id", sale.ID), zap.String("net_amount", sale.NetAmount.String()))

	response := ToSaleResponse(sale)
	return &response, nil
}

// ListSales returns all sales, newest first
func (s *SaleService) ListSales(ctx context.Context) ([]SaleResponse, error) {
	sales, err := s.repos.Sale.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SaleResponse, len(sales))
	for i := range sales {
		out[i] = ToSaleResponse(&sales[i])
	}
	return out, nil
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id int64) (*SaleResponse, error) {
	sale, err := s.repos.Sale.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}
