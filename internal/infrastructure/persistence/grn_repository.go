package persistence

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGRNRepository implements pharmacy.GRNRepository using GORM
type GormGRNRepository struct {
	db *gorm.DB
}

// NewGormGRNRepository creates a new GormGRNRepository
func NewGormGRNRepository(db *gorm.DB) *GormGRNRepository {
	return &GormGRNRepository{db: db}
}

// ExistsForPurchaseOrder reports whether the purchase order was already received
func (r *GormGRNRepository) ExistsForPurchaseOrder(ctx context.Context, poID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GRNModel{}).
		Where("po_id = ?", poID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the GRN with its items
func (r *GormGRNRepository) Create(ctx context.Context, g *pharmacy.GRN) error {
	m := models.GRNModelFromDomain(g)
	if err := r.db.WithContext(ctx).Omit("Distributor").Create(m).Error; err != nil {
		return duplicate(err, "GRN already exists for this purchase order")
	}
	g.ID = m.ID
	for i := range g.Items {
		g.Items[i].ID = m.Items[i].ID
		g.Items[i].GRNID = m.ID
	}
	return nil
}

// FindByID loads a GRN with items, medicines and distributor
func (r *GormGRNRepository) FindByID(ctx context.Context, id int64) (*pharmacy.GRN, error) {
	var m models.GRNModel
	if err := r.db.WithContext(ctx).
		Preload("Items.Medicine").Preload("Distributor").
		First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "GRN")
	}
	return m.ToDomain(), nil
}

// FindAll returns every GRN, newest first
func (r *GormGRNRepository) FindAll(ctx context.Context) ([]pharmacy.GRN, error) {
	var rows []models.GRNModel
	if err := r.db.WithContext(ctx).
		Preload("Items.Medicine").Preload("Distributor").
		Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]pharmacy.GRN, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ pharmacy.GRNRepository = (*GormGRNRepository)(nil)
