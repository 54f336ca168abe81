package persistence

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormIndentRepository implements pharmacy.IndentRepository using GORM
type GormIndentRepository struct {
	db *gorm.DB
}

// NewGormIndentRepository creates a new GormIndentRepository
func NewGormIndentRepository(db *gorm.DB) *GormIndentRepository {
	return &GormIndentRepository{db: db}
}

// Count returns the number of indents ever created
func (r *GormIndentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.IndentModel{}).Count(&n).Error
	return n, err
}

// Create inserts the indent with its items
func (r *GormIndentRepository) Create(ctx context.Context, ind *pharmacy.Indent) error {
	m := models.IndentModelFromDomain(ind)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return duplicate(err, "Indent number already used")
	}
	ind.ID = m.ID
	for i := range ind.Items {
		ind.Items[i].ID = m.Items[i].ID
		ind.Items[i].IndentID = m.ID
	}
	return nil
}

// FindByID loads an indent; openItemsOnly restricts items to those without a PO
func (r *GormIndentRepository) FindByID(ctx context.Context, id int64, openItemsOnly bool) (*pharmacy.Indent, error) {
	var m models.IndentModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			if openItemsOnly {
				db = db.Where("is_po_created = ?", false)
			}
			return db.Order("id ASC")
		}).
		Preload("Items.Medicine").
		First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Indent")
	}
	return m.ToDomain(), nil
}

// FindAll returns every indent with all of its items, newest first
func (r *GormIndentRepository) FindAll(ctx context.Context) ([]pharmacy.Indent, error) {
	var rows []models.IndentModel
	if err := r.db.WithContext(ctx).Preload("Items.Medicine").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toIndents(rows), nil
}

// FindPage lists indents newest first
func (r *GormIndentRepository) FindPage(ctx context.Context, filter shared.Filter) ([]pharmacy.Indent, int64, error) {
	filter = filter.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.IndentModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.IndentModel
	if err := r.db.WithContext(ctx).Preload("Items.Medicine").
		Order("id DESC").Offset(filter.Offset()).Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toIndents(rows), total, nil
}

// SaveReview writes the review decision and per-item quantities
func (r *GormIndentRepository) SaveReview(ctx context.Context, ind *pharmacy.Indent) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.IndentModel{}).Where("id = ?", ind.ID).Updates(map[string]any{
		"status":      string(ind.Status),
		"approved_by": ind.ApprovedBy,
		"approved_at": ind.ApprovedAt,
		"updated_at":  ind.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Indent")
	}
	for _, item := range ind.Items {
		if err := db.Model(&models.IndentItemModel{}).
			Where("id = ? AND indent_id = ?", item.ID, ind.ID).
			Updates(map[string]any{
				"approved_qty": item.ApprovedQty,
				"pending_qty":  item.PendingQty,
				"remarks":      item.Remarks,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// ConsumeItems flips is_po_created on the listed unconsumed items of the indent
func (r *GormIndentRepository) ConsumeItems(ctx context.Context, indentID int64, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.IndentItemModel{}).
		Where("indent_id = ? AND id IN ? AND is_po_created = ?", indentID, itemIDs, false).
		Update("is_po_created", true)
	return result.RowsAffected, result.Error
}

// CountUnconsumed returns the number of items not yet on a purchase order
func (r *GormIndentRepository) CountUnconsumed(ctx context.Context, indentID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.IndentItemModel{}).
		Where("indent_id = ? AND is_po_created = ?", indentID, false).
		Count(&n).Error
	return n, err
}

// UpdateStatus sets the indent status
func (r *GormIndentRepository) UpdateStatus(ctx context.Context, id int64, status pharmacy.IndentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.IndentModel{}).
		Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Indent")
	}
	return nil
}

// Delete removes the indent and its items
func (r *GormIndentRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("indent_id = ?", id).Delete(&models.IndentItemModel{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&models.IndentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Indent")
	}
	return nil
}

func toIndents(rows []models.IndentModel) []pharmacy.Indent {
	out := make([]pharmacy.Indent, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ pharmacy.IndentRepository = (*GormIndentRepository)(nil)
