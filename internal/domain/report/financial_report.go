// Package report holds read models aggregated from billed medical records.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Period is the half-open interval [From, To).
type Period struct {
	From time.Time
	To   time.Time
}

// DayOf returns the calendar day containing t, in t's location.
func DayOf(t time.Time) Period {
	y, m, d := t.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Period{From: from, To: from.AddDate(0, 0, 1)}
}

// DepartmentRevenue is the sum of item final fees billed under a department.
type DepartmentRevenue struct {
	DepartmentID int64
	Department   string
	Revenue      decimal.Decimal
}

// ReceptionRevenue is the sum of record final fees a staff user collected.
type ReceptionRevenue struct {
	UserID  int64
	User    string
	Revenue decimal.Decimal
}

// FinancialReport is the revenue collected in one period.
type FinancialReport struct {
	Period      Period
	Departments []DepartmentRevenue
	Receptions  []ReceptionRevenue
}

// Total sums the reception side, which carries record-level discounts.
func (r FinancialReport) Total() decimal.Decimal {
	total := decimal.Zero
	for _, rec := range r.Receptions {
		total = total.Add(rec.Revenue)
	}
	return total
}

// FinancialRepository aggregates medical records by record date.
type FinancialRepository interface {
	// DepartmentRevenue sums medical_record_items.final_fee per department, highest first
	DepartmentRevenue(ctx context.Context, p Period) ([]DepartmentRevenue, error)
	// ReceptionRevenue sums medical_records.final_fee per creating user, highest first
	ReceptionRevenue(ctx context.Context, p Period) ([]ReceptionRevenue, error)
}
