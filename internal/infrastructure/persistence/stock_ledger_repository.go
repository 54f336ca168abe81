package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLedgerRepository implements pharmacy.StockLedgerRepository using GORM.
// LockBatch only serializes postings when called inside a transaction.
type GormStockLedgerRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormStockLedgerRepository creates a new GormStockLedgerRepository
func NewGormStockLedgerRepository(db *gorm.DB, clock shared.Clock) *GormStockLedgerRepository {
	return &GormStockLedgerRepository{db: db, clock: clock}
}

// LockBatch upserts the batch row and locks it FOR UPDATE
func (r *GormStockLedgerRepository) LockBatch(ctx context.Context, key pharmacy.BatchKey, expiry *time.Time) error {
	now := r.clock.Now()
	row := models.StockBatchModel{
		MedicineID: key.MedicineID,
		BatchNo:    key.BatchNo,
		ExpiryDate: expiry,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return err
	}

	var locked models.StockBatchModel
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("medicine_id = ? AND batch_no = ?", key.MedicineID, key.BatchNo).
		Take(&locked).Error
}

// Latest returns the newest entry of a batch, or nil when the batch has none
func (r *GormStockLedgerRepository) Latest(ctx context.Context, key pharmacy.BatchKey) (*pharmacy.StockLedgerEntry, error) {
	var m models.StockLedgerModel
	err := r.db.WithContext(ctx).
		Where("medicine_id = ? AND batch_no = ?", key.MedicineID, key.BatchNo).
		Order("id DESC").
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// Append inserts a new entry and sets its ID
func (r *GormStockLedgerRepository) Append(ctx context.Context, entry *pharmacy.StockLedgerEntry) error {
	m := models.StockLedgerModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Omit("Medicine").Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	return nil
}

// LatestPerBatch returns the current entry of every batch, by medicine then batch
func (r *GormStockLedgerRepository) LatestPerBatch(ctx context.Context) ([]pharmacy.StockLedgerEntry, error) {
	latest := r.db.Model(&models.StockLedgerModel{}).
		Select("MAX(id)").
		Group("medicine_id, batch_no")

	var rows []models.StockLedgerModel
	if err := r.db.WithContext(ctx).Preload("Medicine").
		Where("id IN (?)", latest).
		Order("medicine_id ASC").Order("batch_no ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

// History returns every entry of a batch in posting order
func (r *GormStockLedgerRepository) History(ctx context.Context, key pharmacy.BatchKey) ([]pharmacy.StockLedgerEntry, error) {
	var rows []models.StockLedgerModel
	if err := r.db.WithContext(ctx).Preload("Medicine").
		Where("medicine_id = ? AND batch_no = ?", key.MedicineID, key.BatchNo).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

func toLedgerEntries(rows []models.StockLedgerModel) []pharmacy.StockLedgerEntry {
	out := make([]pharmacy.StockLedgerEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ pharmacy.StockLedgerRepository = (*GormStockLedgerRepository)(nil)
