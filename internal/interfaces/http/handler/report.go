package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	reportapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/report"
	"go.uber.org/zap"
)

// ReportService builds the financial summaries
type ReportService interface {
	FinancialReportToday(ctx context.Context) (*reportapp.FinancialReportResponse, error)
}

// ReportHandler serves report endpoints
type ReportHandler struct {
	BaseHandler
	reports ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{BaseHandler: NewBaseHandler(log), reports: reports}
}

// FinancialToday godoc
// @ID           financialReportToday
// @Summary      Today's revenue
// @Description  Revenue of the current local day by department and by reception user
// @Tags         reports
// @Produce      json
// @Success      200  {object}  APIResponse[reportapp.FinancialReportResponse]
// @Security     BearerAuth
// @Router       /reports/financial-today [get]
func (h *ReportHandler) FinancialToday(c *gin.Context) {
	resp, err := h.reports.FinancialReportToday(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
