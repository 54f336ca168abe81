package patient

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
)

// TransactionScope runs patient writes atomically.
type TransactionScope interface {
	// Execute runs fn in a database transaction, rolling back on error.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
	// ExecuteSerializable runs fn at SERIALIZABLE isolation where the database
	// supports it. Aborts caused by concurrent writers surface as shared.ErrIDConflict.
	ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to one transaction.
type TransactionalRepositories interface {
	PatientRepo() patient.Repository
	WelfareRepo() patient.WelfareRepository
	CardPrintRepo() patient.CardPrintRepository
}

// NoOpTransactionScope calls fn directly with fixed repositories. Used in tests.
type NoOpTransactionScope struct {
	patientRepo   patient.Repository
	welfareRepo   patient.WelfareRepository
	cardPrintRepo patient.CardPrintRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope.
func NewNoOpTransactionScope(patientRepo patient.Repository, welfareRepo patient.WelfareRepository, cardPrintRepo patient.CardPrintRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{patientRepo: patientRepo, welfareRepo: welfareRepo, cardPrintRepo: cardPrintRepo}
}

// Execute runs fn without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExecuteSerializable runs fn without a transaction.
func (s *NoOpTransactionScope) ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return s.Execute(ctx, fn)
}

// PatientRepo returns the patient repository.
func (s *NoOpTransactionScope) PatientRepo() patient.Repository {
	return s.patientRepo
}

// WelfareRepo returns the welfare repository.
func (s *NoOpTransactionScope) WelfareRepo() patient.WelfareRepository {
	return s.welfareRepo
}

// CardPrintRepo returns the card print repository.
func (s *NoOpTransactionScope) CardPrintRepo() patient.CardPrintRepository {
	return s.cardPrintRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
