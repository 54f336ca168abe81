package pharmacy

import (
	"context"
	"errors"
	"strings"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StockService reads batch balances and posts manual corrections
type StockService struct {
	repos           Repositories
	txScope         TransactionScope
	engine          *LedgerEngine
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewStockService creates a new StockService
func NewStockService(repos Repositories, txScope TransactionScope, engine *LedgerEngine, log *zap.Logger) *StockService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StockService{repos: repos, txScope: txScope, engine: engine, logger: log}
}

// SetBusinessMetrics sets the business metrics collector
func (s *StockService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// StockList returns the latest ledger entry of every batch
func (s *StockService) StockList(ctx context.Context) ([]StockEntryResponse, error) {
	entries, err := s.repos.StockLedger.LatestPerBatch(ctx)
	if err != nil {
		return nil, err
	}
	return toStockEntryResponses(entries), nil
}

// BatchHistory returns the ledger of one batch in posting order
func (s *StockService) BatchHistory(ctx context.Context, medicineID int64, batchNo string) ([]StockEntryResponse, error) {
	batchNo = strings.TrimSpace(batchNo)
	if medicineID <= 0 || batchNo == "" {
		return nil, shared.NewValidationError("Invalid batch", map[string]string{
			"batch": "Medicine and batch number are required",
		})
	}
	entries, err := s.repos.StockLedger.History(ctx, pharmacy.BatchKey{MedicineID: medicineID, BatchNo: batchNo})
	if err != nil {
		return nil, err
	}
	return toStockEntryResponses(entries), nil
}

// AdjustStock posts a signed correction to a batch
func (s *StockService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockEntryResponse, error) {
	key := pharmacy.BatchKey{MedicineID: req.MedicineID, BatchNo: req.BatchNo}
	var entry *pharmacy.StockLedgerEntry
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		e, err := s.engine.Adjust(ctx, repos.StockLedgerRepo(), key, req.Qty, req.Remarks)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) && s.businessMetrics != nil {
			s.businessMetrics.RecordStockRejection(ctx, string(pharmacy.RefTableAdjustment))
		}
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockPosting(ctx, entry.MedicineID, string(pharmacy.TransactionTypeAdjustment), string(pharmacy.RefTableAdjustment))
	}
	logger.Ctx(ctx, s.logger).Info("Stock adjusted",
		zap.Int64("medicine_id", entry.MedicineID),
		zap.String("batch_no", entry.BatchNo),
		zap.Int64("qty", req.Qty),
		zap.Int64("balance_qty", entry.BalanceQty),
	)

	response := ToStockEntryResponse(entry)
	return &response, nil
}
