package medicalrecord

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/sequence"
)

// TransactionScope runs the record creation steps in one database transaction.
// A rollback also releases any counter values allocated inside it.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to one transaction.
type TransactionalRepositories interface {
	PatientRepo() patient.Repository
	RecordRepo() medicalrecord.Repository
	Sequences() sequence.Allocator
}

// NoOpTransactionScope calls fn directly with fixed repositories. Used in tests.
type NoOpTransactionScope struct {
	patientRepo patient.Repository
	recordRepo  medicalrecord.Repository
	sequences   sequence.Allocator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope.
func NewNoOpTransactionScope(patientRepo patient.Repository, recordRepo medicalrecord.Repository, sequences sequence.Allocator) *NoOpTransactionScope {
	return &NoOpTransactionScope{patientRepo: patientRepo, recordRepo: recordRepo, sequences: sequences}
}

// Execute runs fn without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PatientRepo returns the patient repository.
func (s *NoOpTransactionScope) PatientRepo() patient.Repository { return s.patientRepo }

// RecordRepo returns the medical record repository.
func (s *NoOpTransactionScope) RecordRepo() medicalrecord.Repository { return s.recordRepo }

// Sequences returns the counter allocator.
func (s *NoOpTransactionScope) Sequences() sequence.Allocator { return s.sequences }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
