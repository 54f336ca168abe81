package persistence

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinancialReportRepository implements report.FinancialRepository using GORM
type GormFinancialReportRepository struct {
	db *gorm.DB
}

// NewGormFinancialReportRepository creates a new GormFinancialReportRepository
func NewGormFinancialReportRepository(db *gorm.DB) *GormFinancialReportRepository {
	return &GormFinancialReportRepository{db: db}
}

// DepartmentRevenue sums item final fees of records dated within p. Items whose
// department row is gone are reported as "Unknown".
func (r *GormFinancialReportRepository) DepartmentRevenue(ctx context.Context, p report.Period) ([]report.DepartmentRevenue, error) {
	var rows []struct {
		DepartmentID int64
		Department   string
		Revenue      decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("medical_record_items i").
		Select(`
			i.department_id AS department_id,
			COALESCE(d.name, 'Unknown') AS department,
			COALESCE(SUM(i.final_fee), 0) AS revenue
		`).
		Joins("JOIN medical_records r ON r.id = i.medical_record_id").
		Joins("LEFT JOIN departments d ON d.id = i.department_id").
		Where("r.record_date >= ? AND r.record_date < ?", p.From, p.To).
		Group("i.department_id, d.name").
		Order("revenue DESC").Order("i.department_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.DepartmentRevenue, len(rows))
	for i, row := range rows {
		out[i] = report.DepartmentRevenue{DepartmentID: row.DepartmentID, Department: row.Department, Revenue: row.Revenue}
	}
	return out, nil
}

// ReceptionRevenue sums record final fees per creating user within p
func (r *GormFinancialReportRepository) ReceptionRevenue(ctx context.Context, p report.Period) ([]report.ReceptionRevenue, error) {
	var rows []struct {
		UserID   int64
		UserName string
		Revenue  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("medical_records r").
		Select(`
			r.user_id AS user_id,
			COALESCE(u.name, 'Unknown') AS user_name,
			COALESCE(SUM(r.final_fee), 0) AS revenue
		`).
		Joins("LEFT JOIN users u ON u.id = r.user_id").
		Where("r.record_date >= ? AND r.record_date < ?", p.From, p.To).
		Group("r.user_id, u.name").
		Order("revenue DESC").Order("r.user_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.ReceptionRevenue, len(rows))
	for i, row := range rows {
		out[i] = report.ReceptionRevenue{UserID: row.UserID, User: row.UserName, Revenue: row.Revenue}
	}
	return out, nil
}

var _ report.FinancialRepository = (*GormFinancialReportRepository)(nil)
