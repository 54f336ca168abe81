package pharmacy

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// GRNService receives goods against purchase orders
type GRNService struct {
	repos           Repositories
	txScope         TransactionScope
	engine          *LedgerEngine
	clock           shared.Clock
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewGRNService creates a new GRNService
func NewGRNService(repos Repositories, txScope TransactionScope, engine *LedgerEngine, clock shared.Clock, log *zap.Logger) *GRNService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GRNService{
		repos:   repos,
		txScope: txScope,
		engine:  engine,
		clock:   clock,
		logger:  log,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *GRNService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// ReceiveGoods records a GRN and posts every received batch into the stock ledger.
// The GRN and its postings commit together. A purchase order accepts one GRN only.
func (s *GRNService) ReceiveGoods(ctx context.Context, req CreateGRNRequest, receivedBy int64) (*GRNResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grn", "receive")
	defer span.End()

	resp, err := s.receiveGoods(ctx, req, receivedBy)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrGRNNo, resp.GRNNo, telemetry.SpanAttrPurchaseOrderID, resp.POID)
	return resp, nil
}

func (s *GRNService) receiveGoods(ctx context.Context, req CreateGRNRequest, receivedBy int64) (*GRNResponse, error) {
	var created *pharmacy.GRN
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrderRepo().FindByID(ctx, req.POID)
		if err != nil {
			return err
		}
		exists, err := repos.GRNRepo().ExistsForPurchaseOrder(ctx, po.ID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDuplicateError("GRN already exists for this purchase order")
		}

		distributorID := req.DistributorID
		if distributorID == 0 {
			distributorID = po.DistributorID
		}
		poDate := po.PODate
		g, err := pharmacy.NewGRN(pharmacy.GRNDraft{
			GRNNo:         req.GRNNo,
			GRNDate:       req.GRNDate,
			POID:          po.ID,
			PONo:          po.PONo,
			PODate:        &poDate,
			DistributorID: distributorID,
			DepartmentID:  req.DepartmentID,
			InvoiceNo:     req.InvoiceNo,
			InvoiceDate:   req.InvoiceDate,
			InvoiceType:   req.InvoiceType,
			InvoiceStatus: req.InvoiceStatus,
			ReceivedBy:    receivedBy,
			Remarks:       req.Remarks,
		}, req.itemInputs(), s.clock.Now())
		if err != nil {
			return err
		}
		if err := repos.GRNRepo().Create(ctx, g); err != nil {
			return err
		}

		ledger := repos.StockLedgerRepo()
		locks := make([]BatchLock, len(g.Items))
		for i, item := range g.Items {
			locks[i] = BatchLock{
				Key:    pharmacy.BatchKey{MedicineID: item.MedicineID, BatchNo: item.BatchNo},
				Expiry: item.ExpiryDate,
			}
		}
		if err := s.engine.LockBatches(ctx, ledger, locks); err != nil {
			return err
		}
		for _, item := range g.Items {
			if _, err := s.engine.PostInbound(ctx, ledger, item.InboundPosting(g.ID)); err != nil {
				return err
			}
		}
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		for _, item := range created.Items {
			s.businessMetrics.RecordStockPosting(ctx, item.MedicineID, string(pharmacy.TransactionTypeIn), string(pharmacy.RefTableGRN))
		}
	}
	logger.Ctx(ctx, s.logger).Info("Goods received",
		zap.Int64("grn_id", created.ID),
		zap.Int64("po_id", created.POID),
		zap.Int("items", len(created.Items)),
	)

	response := ToGRNResponse(created)
	return &response, nil
}

// ListGRNs returns all GRNs, newest first
func (s *GRNService) ListGRNs(ctx context.Context) ([]GRNResponse, error) {
	grns, err := s.repos.GRN.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GRNResponse, len(grns))
	for i := range grns {
		out[i] = ToGRNResponse(&grns[i])
	}
	return out, nil
}

// GetGRN retrieves a GRN with its items
func (s *GRNService) GetGRN(ctx context.Context, id int64) (*GRNResponse, error) {
	g, err := s.repos.GRN.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToGRNResponse(g)
	return &response, nil
}

func (r CreateGRNRequest) itemInputs() []pharmacy.GRNItemInput {
	items := make([]pharmacy.GRNItemInput, len(r.Items))
	for i, in := range r.Items {
		items[i] = pharmacy.GRNItemInput{
			MedicineID:            in.MedicineID,
			OrderedQty:            in.OrderedQty,
			PreviouslyReceivedQty: in.PreviouslyReceivedQty,
			ReceivedQty:           in.ReceivedQty,
			BonusQty:              in.BonusQty,
			BatchNo:               in.BatchNo,
			ExpiryDate:            in.ExpiryDate,
			Rate:                  in.Rate,
			DiscountPercent:       in.DiscountPercent,
			TaxPercent:            in.TaxPercent,
			MRP:                   in.MRP,
		}
	}
	return items
}
