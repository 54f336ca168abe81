package persistence

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements pharmacy.LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Create inserts an accounts entry
func (r *GormLedgerEntryRepository) Create(ctx context.Context, e *pharmacy.LedgerEntry) error {
	m := models.LedgerEntryModelFromDomain(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	e.ID = m.ID
	return nil
}

// FindByID loads one entry
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id int64) (*pharmacy.LedgerEntry, error) {
	var m models.LedgerEntryModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Ledger entry")
	}
	return m.ToDomain(), nil
}

// FindAll returns every entry, newest first
func (r *GormLedgerEntryRepository) FindAll(ctx context.Context) ([]pharmacy.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]pharmacy.LedgerEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ pharmacy.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
