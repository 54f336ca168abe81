package report

import (
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/report"
	"github.com/shopspring/decimal"
)

// DepartmentRevenueResponse is a department's share of the day's billing
type DepartmentRevenueResponse struct {
	DepartmentID int64           `json:"departmentId"`
	Department   string          `json:"department"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ReceptionRevenueResponse is what one reception user collected
type ReceptionRevenueResponse struct {
	UserID  int64           `json:"userId"`
	User    string          `json:"user"`
	Revenue decimal.Decimal `json:"revenue"`
}

// FinancialReportResponse represents a day's revenue split two ways
type FinancialReportResponse struct {
	Date        string                      `json:"date"`
	From        time.Time                   `json:"from"`
	To          time.Time                   `json:"to"`
	Departments []DepartmentRevenueResponse `json:"departments"`
	Receptions  []ReceptionRevenueResponse  `json:"receptions"`
	Total       decimal.Decimal             `json:"total"`
}

// ToFinancialReportResponse converts a report to its response shape
func ToFinancialReportResponse(r report.FinancialReport) FinancialReportResponse {
	resp := FinancialReportResponse{
		Date:        r.Period.From.Format(time.DateOnly),
		From:        r.Period.From,
		To:          r.Period.To,
		Departments: make([]DepartmentRevenueResponse, len(r.Departments)),
		Receptions:  make([]ReceptionRevenueResponse, len(r.Receptions)),
		Total:       r.Total(),
	}
	for i, d := range r.Departments {
		resp.Departments[i] = DepartmentRevenueResponse{DepartmentID: d.DepartmentID, Department: d.Department, Revenue: d.Revenue}
	}
	for i, u := range r.Receptions {
		resp.Receptions[i] = ReceptionRevenueResponse{UserID: u.UserID, User: u.User, Revenue: u.Revenue}
	}
	return resp
}
