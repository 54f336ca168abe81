package persistence

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements pharmacy.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create inserts the sale with its items
func (r *GormSaleRepository) Create(ctx context.Context, s *pharmacy.Sale) error {
	m := models.SaleModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return duplicate(err, "Sale number already used")
	}
	s.ID = m.ID
	for i := range s.Items {
		s.Items[i].ID = m.Items[i].ID
		s.Items[i].SaleID = m.ID
	}
	return nil
}

// FindByID loads a sale with its items and medicines
func (r *GormSaleRepository) FindByID(ctx context.Context, id int64) (*pharmacy.Sale, error) {
	var m models.SaleModel
	if err := r.db.WithContext(ctx).Preload("Items.Medicine").First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Sale")
	}
	return m.ToDomain(), nil
}

// FindAll returns every sale, newest first
func (r *GormSaleRepository) FindAll(ctx context.Context) ([]pharmacy.Sale, error) {
	var rows []models.SaleModel
	if err := r.db.WithContext(ctx).Preload("Items.Medicine").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]pharmacy.Sale, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ pharmacy.SaleRepository = (*GormSaleRepository)(nil)
