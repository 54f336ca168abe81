package telemetry

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider over the stock ledger.
// The latest entry of each batch carries its balance.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

func (p *GormStockMetricsProvider) latestOnHand(ctx context.Context) *gorm.DB {
	latest := p.db.Table("stock_ledgers").Select("MAX(id)").Group("medicine_id, batch_no")
	return p.db.WithContext(ctx).Table("stock_ledgers").
		Where("id IN (?)", latest).
		Where("balance_qty > 0")
}

// CountBatchesOnHand returns the number of batches with a positive balance.
func (p *GormStockMetricsProvider) CountBatchesOnHand(ctx context.Context) (int64, error) {
	var count int64
	err := p.latestOnHand(ctx).Count(&count).Error
	return count, err
}

// CountBatchesExpiringBefore returns batches on hand with an expiry date before t.
func (p *GormStockMetricsProvider) CountBatchesExpiringBefore(ctx context.Context, t time.Time) (int64, error) {
	var count int64
	err := p.latestOnHand(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date < ?", t).
		Count(&count).Error
	return count, err
}
