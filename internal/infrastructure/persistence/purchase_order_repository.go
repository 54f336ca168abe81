package persistence

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements pharmacy.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Count returns the number of purchase orders ever created
func (r *GormPurchaseOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Count(&n).Error
	return n, err
}

// Create inserts the order with its items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, po *pharmacy.PurchaseOrder) error {
	m := models.PurchaseOrderModelFromDomain(po)
	if err := r.db.WithContext(ctx).Omit("Distributor", "GRNs").Create(m).Error; err != nil {
		return duplicate(err, "Purchase order number already used")
	}
	po.ID = m.ID
	for i := range po.Items {
		po.Items[i].ID = m.Items[i].ID
		po.Items[i].PurchaseOrderID = m.ID
	}
	return nil
}

func (r *GormPurchaseOrderRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Medicine").Preload("Distributor").Preload("GRNs")
}

// FindByID loads the order with items, distributor and GRN headers
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id int64) (*pharmacy.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	if err := r.withRelations(r.db.WithContext(ctx)).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Purchase order")
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate loads the header and holds a row lock until the transaction ends
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*pharmacy.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, notFound(err, "Purchase order")
	}
	return m.ToDomain(), nil
}

// Save updates the header fields of an existing order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *pharmacy.PurchaseOrder) error {
	m := &models.PurchaseOrderModel{}
	m.FromDomain(po)
	result := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("id = ?", po.ID).
		Select("status", "paid_amount", "payment_term", "payment_type", "remarks",
			"approved_by", "approved_at", "pdf_url", "pdf_generated_at", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Purchase order")
	}
	return nil
}

// FindPage lists orders newest first with items, distributor and GRNs
func (r *GormPurchaseOrderRepository) FindPage(ctx context.Context, filter shared.Filter) ([]pharmacy.PurchaseOrder, int64, error) {
	filter = filter.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.PurchaseOrderModel
	if err := r.withRelations(r.db.WithContext(ctx)).
		Order("id DESC").Offset(filter.Offset()).Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toPurchaseOrders(rows), total, nil
}

// FindByStatuses lists orders in any of the given statuses, newest first
func (r *GormPurchaseOrderRepository) FindByStatuses(ctx context.Context, statuses []pharmacy.PurchaseOrderStatus) ([]pharmacy.PurchaseOrder, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	var rows []models.PurchaseOrderModel
	if err := r.withRelations(r.db.WithContext(ctx)).
		Where("status IN ?", values).
		Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPurchaseOrders(rows), nil
}

func toPurchaseOrders(rows []models.PurchaseOrderModel) []pharmacy.PurchaseOrder {
	out := make([]pharmacy.PurchaseOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ pharmacy.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
