package pharmacy

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LedgerEntryService records accounts entries against pharmacy documents
type LedgerEntryService struct {
	repos   Repositories
	txScope TransactionScope
	clock   shared.Clock
	logger  *zap.Logger
}

// NewLedgerEntryService creates a new LedgerEntryService
func NewLedgerEntryService(repos Repositories, txScope TransactionScope, clock shared.Clock, log *zap.Logger) *LedgerEntryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerEntryService{repos: repos, txScope: txScope, clock: clock, logger: log}
}

// CreateLedgerEntry records an entry. An entry against a purchase order also
// sets the order's payment term in the same transaction.
func (s *LedgerEntryService) CreateLedgerEntry(ctx context.Context, req CreateLedgerEntryRequest, userID *int64) (*LedgerEntryResponse, error) {
	now := s.clock.Now()
	entry, err := pharmacy.NewLedgerEntry(pharmacy.LedgerEntryDraft{
		RefType:      req.RefType,
		RefID:        req.RefID,
		Debit:        req.Debit,
		Credit:       req.Credit,
		AccountType:  req.AccountType,
		AccountRefID: req.AccountRefID,
		Remarks:      req.Remarks,
		PaymentTerm:  req.PaymentTerm,
		UserID:       userID,
	}, now)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if entry.SettlesPurchaseOrder() {
			po, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, entry.RefID)
			if err != nil {
				return err
			}
			po.SetPaymentTerm(entry.PaymentTerm, now)
			if err := repos.PurchaseOrderRepo().Save(ctx, po); err != nil {
				return err
			}
		}
		return repos.LedgerEntryRepo().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Ledger entry recorded",
		zap.Int64("entry_id", entry.ID),
		zap.String("ref_type", entry.RefType),
		zap.Int64("ref_id", entry.RefID),
	)
	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// ListLedgerEntries returns all entries, newest first
func (s *LedgerEntryService) ListLedgerEntries(ctx context.Context) ([]LedgerEntryResponse, error) {
	entries, err := s.repos.LedgerEntry.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out, nil
}

// GetLedgerEntry retrieves an entry
func (s *LedgerEntryService) GetLedgerEntry(ctx context.Context, id int64) (*LedgerEntryResponse, error) {
	e, err := s.repos.LedgerEntry.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLedgerEntryResponse(e)
	return &response, nil
}
