package pharmacy

import (
	"context"
	"strings"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/sequence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DocumentGenerator renders a purchase order PDF and returns where it is stored
type DocumentGenerator interface {
	GeneratePurchaseOrder(ctx context.Context, po *pharmacy.PurchaseOrder) (string, error)
}

// PurchaseOrderService manages purchase orders from creation to settlement
type PurchaseOrderService struct {
	repos           Repositories
	txScope         TransactionScope
	clock           shared.Clock
	documents       DocumentGenerator
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService.
// documents may be nil, in which case no PDFs are produced.
func NewPurchaseOrderService(repos Repositories, txScope TransactionScope, clock shared.Clock, documents DocumentGenerator, log *zap.Logger) *PurchaseOrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PurchaseOrderService{
		repos:     repos,
		txScope:   txScope,
		clock:     clock,
		documents: documents,
		logger:    log,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PurchaseOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreatePO raises a purchase order against an indent and marks the covered
// indent items as consumed. The indent status follows the remaining open items.
func (s *PurchaseOrderService) CreatePO(ctx context.Context, req CreatePORequest, createdBy *int64) (*POResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "create")
	defer span.End()

	resp, err := s.createPO(ctx, req, createdBy)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseOrderID, resp.ID)
	return resp, nil
}

func (s *PurchaseOrderService) createPO(ctx context.Context, req CreatePORequest, createdBy *int64) (*POResponse, error) {
	var term *pharmacy.PaymentTerm
	if strings.TrimSpace(req.PaymentTerm) != "" {
		t, err := pharmacy.ParsePaymentTerm(req.PaymentTerm)
		if err != nil {
			return nil, err
		}
		term = &t
	}
	items := make([]pharmacy.PurchaseOrderItemInput, len(req.Items))
	for i, in := range req.Items {
		items[i] = pharmacy.PurchaseOrderItemInput{
			IndentItemID:    in.IndentItemID,
			MedicineID:      in.MedicineID,
			OrderedQty:      in.OrderedQty,
			Rate:            in.Rate,
			DiscountPercent: in.DiscountPercent,
			TaxPercent:      in.TaxPercent,
		}
	}

	var created *pharmacy.PurchaseOrder
	var indentStatus pharmacy.IndentStatus
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.IndentRepo().FindByID(ctx, req.IndentID, false); err != nil {
			return err
		}

		poNo := strings.TrimSpace(req.PONo)
		if poNo == "" {
			count, err := repos.PurchaseOrderRepo().Count(ctx)
			if err != nil {
				return err
			}
			poNo = sequence.FormatPONumber(count)
		}
		po, err := pharmacy.NewPurchaseOrder(pharmacy.PurchaseOrderDraft{
			PONo:          poNo,
			DistributorID: req.DistributorID,
			IndentID:      req.IndentID,
			PaymentType:   req.PaymentType,
			PaymentTerm:   term,
			Remarks:       req.Remarks,
			CreatedBy:     createdBy,
		}, items, s.clock.Now())
		if err != nil {
			return err
		}
		if err := repos.PurchaseOrderRepo().Create(ctx, po); err != nil {
			return err
		}

		if ids := uniqueIDs(po.IndentItemIDs()); len(ids) > 0 {
			consumed, err := repos.IndentRepo().ConsumeItems(ctx, req.IndentID, ids)
			if err != nil {
				return err
			}
			if consumed != int64(len(ids)) {
				return shared.NewInvalidStateError("Some indent items do not belong to the indent or already have a purchase order")
			}
		}
		remaining, err := repos.IndentRepo().CountUnconsumed(ctx, req.IndentID)
		if err != nil {
			return err
		}
		indentStatus = pharmacy.StatusAfterConsumption(remaining)
		if err := repos.IndentRepo().UpdateStatus(ctx, req.IndentID, indentStatus); err != nil {
			return err
		}
		created = po
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Purchase order created",
		zap.Int64("po_id", created.ID),
		zap.String("po_no", created.PONo),
		zap.Int64("indent_id", created.IndentID),
		zap.String("indent_status", string(indentStatus)),
	)
	response := ToPOResponse(created)
	return &response, nil
}

// ApprovePO approves an open order and forwards it to accounts. The PDF is
// generated after the approval commits; a rendering failure is only logged.
func (s *PurchaseOrderService) ApprovePO(ctx context.Context, id, approverID int64, req ApprovePORequest) (*POResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "approve")
	defer span.End()

	resp, err := s.approvePO(ctx, id, approverID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseOrderID, id)
	return resp, nil
}

func (s *PurchaseOrderService) approvePO(ctx context.Context, id, approverID int64, req ApprovePORequest) (*POResponse, error) {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := po.Approve(approverID, req.Remarks, s.clock.Now()); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx, s.logger)
	log.Info("Purchase order approved", zap.Int64("po_id", id), zap.Int64("approved_by", approverID))

	po, err := s.repos.PurchaseOrder.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.NeedsDocument() && s.documents != nil {
		if err := s.generateDocument(ctx, po); err != nil {
			log.Error("Failed to generate purchase order PDF", zap.Int64("po_id", id), zap.Error(err))
		}
	}
	response := ToPOResponse(po)
	return &response, nil
}

// RecordPayment adds a payment to an approved order under its row lock
func (s *PurchaseOrderService) RecordPayment(ctx context.Context, id int64, req RecordPaymentRequest) (*POResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "record_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPurchaseOrderID, id,
		telemetry.SpanAttrAmount, req.PaidAmount,
	)

	resp, err := s.recordPayment(ctx, id, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

func (s *PurchaseOrderService) recordPayment(ctx context.Context, id int64, req RecordPaymentRequest) (*POResponse, error) {
	var status pharmacy.PurchaseOrderStatus
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := po.RecordPayment(req.PaidAmount, s.clock.Now()); err != nil {
			return err
		}
		status = po.Status
		return repos.PurchaseOrderRepo().Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPurchasePayment(ctx, string(status))
	}
	logger.Ctx(ctx, s.logger).Info("Purchase order payment recorded",
		zap.Int64("po_id", id),
		zap.String("amount", req.PaidAmount.String()),
		zap.String("status", string(status)),
	)
	return s.GetPO(ctx, id)
}

// UpdatePOStatus moves an order to another status if the transition is allowed
func (s *PurchaseOrderService) UpdatePOStatus(ctx context.Context, id int64, req UpdatePOStatusRequest) (*POResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "update_status")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseOrderID, id, "status", strings.TrimSpace(req.Status))

	resp, err := s.updatePOStatus(ctx, id, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

func (s *PurchaseOrderService) updatePOStatus(ctx context.Context, id int64, req UpdatePOStatusRequest) (*POResponse, error) {
	target := pharmacy.PurchaseOrderStatus(strings.TrimSpace(req.Status))
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := po.TransitionTo(target, req.ApprovedBy, s.clock.Now()); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Purchase order status updated", zap.Int64("po_id", id), zap.String("status", string(target)))
	return s.GetPO(ctx, id)
}

// ListPOs returns a page of purchase orders, newest first
func (s *PurchaseOrderService) ListPOs(ctx context.Context, filter shared.Filter) (*shared.Paginated[POResponse], error) {
	filter = filter.Normalize()
	orders, total, err := s.repos.PurchaseOrder.FindPage(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toPOResponses(orders), total, filter.Page, filter.Limit)
	return &page, nil
}

// GetPO retrieves a purchase order with items, distributor and GRNs
func (s *PurchaseOrderService) GetPO(ctx context.Context, id int64) (*POResponse, error) {
	po, err := s.repos.PurchaseOrder.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPOResponse(po)
	return &response, nil
}

// ListApprovedPOs returns approved and settled orders together with the
// selectable payment terms
func (s *PurchaseOrderService) ListApprovedPOs(ctx context.Context) (*ApprovedPOsResponse, error) {
	orders, err := s.repos.PurchaseOrder.FindByStatuses(ctx, pharmacy.ApprovedFamilyStatuses)
	if err != nil {
		return nil, err
	}
	return &ApprovedPOsResponse{
		PurchaseOrders: toPOResponses(orders),
		PaymentTerms:   pharmacy.PaymentTermOptions(),
	}, nil
}

// GetPOPdf returns the order PDF location, generating the document on first request
func (s *PurchaseOrderService) GetPOPdf(ctx context.Context, id int64) (*PODocumentResponse, error) {
	po, err := s.repos.PurchaseOrder.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.NeedsDocument() {
		if s.documents == nil {
			return nil, shared.NewInvalidStateError("PDF generation is disabled")
		}
		if err := s.generateDocument(ctx, po); err != nil {
			return nil, err
		}
	}
	return &PODocumentResponse{
		ID:          po.ID,
		PONo:        po.PONo,
		PDFURL:      po.PDFURL,
		GeneratedAt: po.PDFGeneratedAt,
	}, nil
}

// generateDocument renders the PDF outside any transaction and then records its
// location. A document stored concurrently by another request wins.
func (s *PurchaseOrderService) generateDocument(ctx context.Context, po *pharmacy.PurchaseOrder) error {
	url, err := s.documents.GeneratePurchaseOrder(ctx, po)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, po.ID)
		if err != nil {
			return err
		}
		if !locked.NeedsDocument() {
			po.PDFURL = locked.PDFURL
			po.PDFGeneratedAt = locked.PDFGeneratedAt
			return nil
		}
		locked.AttachDocument(url, now)
		if err := repos.PurchaseOrderRepo().Save(ctx, locked); err != nil {
			return err
		}
		po.AttachDocument(url, now)
		return nil
	})
	if err != nil {
		return err
	}
	logger.Ctx(ctx, s.logger).Info("Purchase order PDF stored", zap.Int64("po_id", po.ID), zap.String("pdf_url", po.PDFURL))
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
