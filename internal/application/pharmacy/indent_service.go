package pharmacy

import (
	"context"
	"strings"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/sequence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// IndentService handles department stock requests
type IndentService struct {
	repos   Repositories
	txScope TransactionScope
	clock   shared.Clock
	logger  *zap.Logger
}

// NewIndentService creates a new IndentService
func NewIndentService(repos Repositories, txScope TransactionScope, clock shared.Clock, log *zap.Logger) *IndentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IndentService{repos: repos, txScope: txScope, clock: clock, logger: log}
}

// CreateIndent opens a pending indent numbered after the existing ones
func (s *IndentService) CreateIndent(ctx context.Context, req CreateIndentRequest, createdBy *int64) (*IndentResponse, error) {
	items := make([]pharmacy.IndentItemInput, len(req.Items))
	for i, in := range req.Items {
		items[i] = pharmacy.IndentItemInput{
			GenericNameID:    in.GenericNameID,
			DosageFormID:     in.DosageFormID,
			UnitID:           in.UnitID,
			MedicineID:       in.MedicineID,
			RequestedQty:     in.RequestedQty,
			LastPurchaseRate: in.LastPurchaseRate,
			Remarks:          in.Remarks,
		}
	}

	var created *pharmacy.Indent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		count, err := repos.IndentRepo().Count(ctx)
		if err != nil {
			return err
		}
		ind, err := pharmacy.NewIndent(sequence.FormatIndentNumber(count), req.DepartmentID, createdBy, req.Remarks, items, s.clock.Now())
		if err != nil {
			return err
		}
		if err := repos.IndentRepo().Create(ctx, ind); err != nil {
			return err
		}
		created = ind
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Indent created", zap.Int64("indent_id", created.ID), zap.String("indent_no", created.IndentNo))
	response := ToIndentResponse(created)
	return &response, nil
}

// ListIndents returns a page of indents, newest first
func (s *IndentService) ListIndents(ctx context.Context, filter shared.Filter) (*shared.Paginated[IndentResponse], error) {
	filter = filter.Normalize()
	indents, total, err := s.repos.Indent.FindPage(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]IndentResponse, len(indents))
	for i := range indents {
		out[i] = ToIndentResponse(&indents[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.Limit)
	return &page, nil
}

// GetIndent retrieves an indent with the items not yet covered by a purchase order
func (s *IndentService) GetIndent(ctx context.Context, id int64) (*IndentResponse, error) {
	ind, err := s.repos.Indent.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	response := ToIndentResponse(ind)
	return &response, nil
}

// ApproveIndent records a review decision with per-item quantities
func (s *IndentService) ApproveIndent(ctx context.Context, id int64, req ApproveIndentRequest, approvedBy *int64) (*IndentResponse, error) {
	reviews := make([]pharmacy.IndentItemReview, len(req.Items))
	for i, in := range req.Items {
		reviews[i] = pharmacy.IndentItemReview{
			ID:          in.ID,
			ApprovedQty: in.ApprovedQty,
			PendingQty:  in.PendingQty,
			Remarks:     in.Remarks,
		}
	}
	status := pharmacy.IndentStatus(strings.TrimSpace(req.Status))

	var reviewed *pharmacy.Indent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ind, err := repos.IndentRepo().FindByID(ctx, id, false)
		if err != nil {
			return err
		}
		if err := ind.Review(status, approvedBy, reviews, s.clock.Now()); err != nil {
			return err
		}
		if err := repos.IndentRepo().SaveReview(ctx, ind); err != nil {
			return err
		}
		reviewed = ind
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Indent reviewed", zap.Int64("indent_id", id), zap.String("status", string(status)))
	response := ToIndentResponse(reviewed)
	return &response, nil
}

// DeleteIndent removes an indent none of whose items has a purchase order
func (s *IndentService) DeleteIndent(ctx context.Context, id int64) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ind, err := repos.IndentRepo().FindByID(ctx, id, false)
		if err != nil {
			return err
		}
		if ind.HasConsumedItems() {
			return shared.NewInvalidStateError("Indent has items with purchase orders and cannot be deleted")
		}
		return repos.IndentRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.Ctx(ctx, s.logger).Info("Indent deleted", zap.Int64("indent_id", id))
	return nil
}
