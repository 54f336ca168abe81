// Package report serves revenue summaries over billed medical records.
package report

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/report"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService builds financial reports
type ReportService struct {
	financial report.FinancialRepository
	clock     shared.Clock
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(financial report.FinancialRepository, clock shared.Clock, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{financial: financial, clock: clock, logger: log}
}

// FinancialReportToday sums today's billing per department and per reception
// user. "Today" is the calendar day of the service clock's location.
func (s *ReportService) FinancialReportToday(ctx context.Context) (*FinancialReportResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "financial_today")
	defer span.End()

	period := report.DayOf(s.clock.Now())
	r := report.FinancialReport{Period: period}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		depts, err := s.financial.DepartmentRevenue(gctx, period)
		r.Departments = depts
		return err
	})
	g.Go(func() error {
		users, err := s.financial.ReceptionRevenue(gctx, period)
		r.Receptions = users
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		logger.Ctx(ctx, s.logger).Error("Failed to build financial report", zap.Error(err))
		return nil, err
	}

	resp := ToFinancialReportResponse(r)
	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, resp.Total)
	return &resp, nil
}
