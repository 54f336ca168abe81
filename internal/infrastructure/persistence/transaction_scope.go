package persistence

import (
	"context"
	"database/sql"

	appmedicalrecord "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/medicalrecord"
	apppatient "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/patient"
	apppharmacy "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/sequence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionScope implements the pharmacy TransactionScope using GORM transactions.
// Every repository handed to fn shares the transaction, so ledger rows and the
// document that posted them commit together.
type GormTransactionScope struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, clock shared.Clock) *GormTransactionScope {
	return &GormTransactionScope{db: db, clock: clock}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppharmacy.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPharmacyRepositories{tx: tx, clock: s.clock})
	})
}

type gormPharmacyRepositories struct {
	tx    *gorm.DB
	clock shared.Clock
}

func (r *gormPharmacyRepositories) StockLedgerRepo() pharmacy.StockLedgerRepository {
	return NewGormStockLedgerRepository(r.tx, r.clock)
}

func (r *gormPharmacyRepositories) GRNRepo() pharmacy.GRNRepository {
	return NewGormGRNRepository(r.tx)
}

func (r *gormPharmacyRepositories) SaleRepo() pharmacy.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormPharmacyRepositories) PurchaseOrderRepo() pharmacy.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormPharmacyRepositories) IndentRepo() pharmacy.IndentRepository {
	return NewGormIndentRepository(r.tx)
}

func (r *gormPharmacyRepositories) LedgerEntryRepo() pharmacy.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// GormMedicalRecordTransactionScope runs receipt and token allocation together
// with the record insert.
type GormMedicalRecordTransactionScope struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormMedicalRecordTransactionScope creates a new GormMedicalRecordTransactionScope.
func NewGormMedicalRecordTransactionScope(db *gorm.DB, clock shared.Clock) *GormMedicalRecordTransactionScope {
	return &GormMedicalRecordTransactionScope{db: db, clock: clock}
}

// Execute runs fn within a database transaction.
func (s *GormMedicalRecordTransactionScope) Execute(ctx context.Context, fn func(repos appmedicalrecord.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormMedicalRecordRepositories{tx: tx, clock: s.clock})
	})
}

type gormMedicalRecordRepositories struct {
	tx    *gorm.DB
	clock shared.Clock
}

func (r *gormMedicalRecordRepositories) PatientRepo() patient.Repository {
	return NewGormPatientRepository(r.tx)
}

func (r *gormMedicalRecordRepositories) RecordRepo() medicalrecord.Repository {
	return NewGormMedicalRecordRepository(r.tx)
}

func (r *gormMedicalRecordRepositories) Sequences() sequence.Allocator {
	return NewGormSequenceAllocator(r.tx, r.clock)
}

// GormPatientTransactionScope runs patient writes, optionally at SERIALIZABLE isolation.
type GormPatientTransactionScope struct {
	db *gorm.DB
}

// NewGormPatientTransactionScope creates a new GormPatientTransactionScope.
func NewGormPatientTransactionScope(db *gorm.DB) *GormPatientTransactionScope {
	return &GormPatientTransactionScope{db: db}
}

// Execute runs fn within a database transaction at the default isolation level.
func (s *GormPatientTransactionScope) Execute(ctx context.Context, fn func(repos apppatient.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPatientRepositories{tx: tx})
	})
}

// ExecuteSerializable runs fn at SERIALIZABLE isolation on PostgreSQL. Other
// dialects serialize writers on their own and use the default level.
func (s *GormPatientTransactionScope) ExecuteSerializable(ctx context.Context, fn func(repos apppatient.TransactionalRepositories) error) error {
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPatientRepositories{tx: tx})
	}, opts...)
	if err != nil && (isSerializationFailure(err) || isDuplicateKey(err)) {
		return shared.ErrIDConflict
	}
	return err
}

type gormPatientRepositories struct {
	tx *gorm.DB
}

func (r *gormPatientRepositories) PatientRepo() patient.Repository {
	return NewGormPatientRepository(r.tx)
}

func (r *gormPatientRepositories) WelfareRepo() patient.WelfareRepository {
	return NewGormWelfareRepository(r.tx)
}

func (r *gormPatientRepositories) CardPrintRepo() patient.CardPrintRepository {
	return NewGormCardPrintRepository(r.tx)
}

var (
	_ apppharmacy.TransactionScope               = (*GormTransactionScope)(nil)
	_ apppharmacy.TransactionalRepositories      = (*gormPharmacyRepositories)(nil)
	_ appmedicalrecord.TransactionScope          = (*GormMedicalRecordTransactionScope)(nil)
	_ appmedicalrecord.TransactionalRepositories = (*gormMedicalRecordRepositories)(nil)
	_ apppatient.TransactionScope                = (*GormPatientTransactionScope)(nil)
	_ apppatient.TransactionalRepositories       = (*gormPatientRepositories)(nil)
)
