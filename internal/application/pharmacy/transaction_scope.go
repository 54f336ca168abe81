package pharmacy

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
)

// TransactionScope provides transactional access to the pharmacy repositories.
// Ledger postings and the document that caused them commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories sharing one transaction.
type TransactionalRepositories interface {
	StockLedgerRepo() pharmacy.StockLedgerRepository
	GRNRepo() pharmacy.GRNRepository
	SaleRepo() pharmacy.SaleRepository
	PurchaseOrderRepo() pharmacy.PurchaseOrderRepository
	IndentRepo() pharmacy.IndentRepository
	LedgerEntryRepo() pharmacy.LedgerEntryRepository
}

// Repositories is a plain bundle of repositories. It satisfies
// TransactionalRepositories and is used by NoOpTransactionScope.
type Repositories struct {
	StockLedger   pharmacy.StockLedgerRepository
	GRN           pharmacy.GRNRepository
	Sale          pharmacy.SaleRepository
	PurchaseOrder pharmacy.PurchaseOrderRepository
	Indent        pharmacy.IndentRepository
	LedgerEntry   pharmacy.LedgerEntryRepository
}

func (r Repositories) StockLedgerRepo() pharmacy.StockLedgerRepository     { return r.StockLedger }
func (r Repositories) GRNRepo() pharmacy.GRNRepository                     { return r.GRN }
func (r Repositories) SaleRepo() pharmacy.SaleRepository                   { return r.Sale }
func (r Repositories) PurchaseOrderRepo() pharmacy.PurchaseOrderRepository { return r.PurchaseOrder }
func (r Repositories) IndentRepo() pharmacy.IndentRepository               { return r.Indent }
func (r Repositories) LedgerEntryRepo() pharmacy.LedgerEntryRepository     { return r.LedgerEntry }

// NoOpTransactionScope runs the function without a real transaction (for testing).
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = Repositories{}
