package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/report"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFinancialRepository is a mock implementation of report.FinancialRepository
type MockFinancialRepository struct {
	mock.Mock
}

func (m *MockFinancialRepository) DepartmentRevenue(ctx context.Context, p report.Period) ([]report.DepartmentRevenue, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DepartmentRevenue), args.Error(1)
}

func (m *MockFinancialRepository) ReceptionRevenue(ctx context.Context, p report.Period) ([]report.ReceptionRevenue, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ReceptionRevenue), args.Error(1)
}

var karachi = time.FixedZone("PKT", 5*60*60)

func TestReportService_FinancialReportToday(t *testing.T) {
	now := time.Date(2025, time.March, 14, 0, 30, 0, 0, karachi)
	today := report.Period{
		From: time.Date(2025, time.March, 14, 0, 0, 0, 0, karachi),
		To:   time.Date(2025, time.March, 15, 0, 0, 0, 0, karachi),
	}

	repo := new(MockFinancialRepository)
	repo.On("DepartmentRevenue", mock.Anything, today).Return([]report.DepartmentRevenue{
		{DepartmentID: 2, Department: "Dental", Revenue: decimal.NewFromInt(1300)},
		{DepartmentID: 1, Department: "OPD", Revenue: decimal.NewFromInt(450)},
	}, nil)
	repo.On("ReceptionRevenue", mock.Anything, today).Return([]report.ReceptionRevenue{
		{UserID: 2, User: "Counter 2", Revenue: decimal.NewFromInt(1000)},
		{UserID: 1, User: "Reception", Revenue: decimal.NewFromInt(730)},
	}, nil)

	svc := NewReportService(repo, shared.FixedClock{T: now}, nil)
	resp, err := svc.FinancialReportToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-03-14", resp.Date)
	require.Len(t, resp.Departments, 2)
	assert.Equal(t, "Dental", resp.Departments[0].Department)
	require.Len(t, resp.Receptions, 2)
	assert.Equal(t, int64(1), resp.Receptions[1].UserID)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1730)))
	repo.AssertExpectations(t)
}

func TestReportService_FinancialReportToday_EmptyDay(t *testing.T) {
	repo := new(MockFinancialRepository)
	repo.On("DepartmentRevenue", mock.Anything, mock.Anything).Return([]report.DepartmentRevenue{}, nil)
	repo.On("ReceptionRevenue", mock.Anything, mock.Anything).Return([]report.ReceptionRevenue{}, nil)

	svc := NewReportService(repo, shared.FixedClock{T: time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)}, nil)
	resp, err := svc.FinancialReportToday(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, resp.Departments)
	assert.NotNil(t, resp.Receptions)
	assert.True(t, resp.Total.IsZero())
}

func TestReportService_FinancialReportToday_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := new(MockFinancialRepository)
	repo.On("DepartmentRevenue", mock.Anything, mock.Anything).Return(nil, boom)
	repo.On("ReceptionRevenue", mock.Anything, mock.Anything).Return([]report.ReceptionRevenue{}, nil).Maybe()

	svc := NewReportService(repo, shared.FixedClock{T: time.Now()}, nil)
	_, err := svc.FinancialReportToday(context.Background())
	assert.ErrorIs(t, err, boom)
}
