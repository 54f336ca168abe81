package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCardPrintRepository implements patient.CardPrintRepository using GORM
type GormCardPrintRepository struct {
	db *gorm.DB
}

// NewGormCardPrintRepository creates a new GormCardPrintRepository
func NewGormCardPrintRepository(db *gorm.DB) *GormCardPrintRepository {
	return &GormCardPrintRepository{db: db}
}

// CountByPatient counts printouts of a patient row
func (r *GormCardPrintRepository) CountByPatient(ctx context.Context, patientRowID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CardPrintModel{}).
		Where("patient_id = ?", patientRowID).Count(&n).Error
	return n, err
}

// Create inserts a printout
func (r *GormCardPrintRepository) Create(ctx context.Context, p *patient.CardPrint) error {
	m := models.CardPrintModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	p.ID = m.ID
	return nil
}

// Price returns the configured reprint price, or nil when the table is empty
func (r *GormCardPrintRepository) Price(ctx context.Context) (*decimal.Decimal, error) {
	var m models.CardPriceModel
	err := r.db.WithContext(ctx).Order("id").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m.Price, nil
}

// SavePrice updates the existing price row or creates the first one
func (r *GormCardPrintRepository) SavePrice(ctx context.Context, price decimal.Decimal, now time.Time) error {
	db := r.db.WithContext(ctx)
	var m models.CardPriceModel
	err := db.Order("id").First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(&models.CardPriceModel{
			BaseModel: models.BaseModel{CreatedAt: now, UpdatedAt: now},
			Price:     price,
		}).Error
	case err != nil:
		return err
	}
	return db.Model(&m).Updates(map[string]any{"price": price, "updated_at": now}).Error
}
