package patient

import (
	"context"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPatientRepository is a mock implementation of patient.Repository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByPatientID(ctx context.Context, patientID int64) (*patient.Patient, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) MaxPatientIDInRange(ctx context.Context, r patient.IDRange) (*int64, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) DeleteByPatientID(ctx context.Context, patientID int64) error {
	args := m.Called(ctx, patientID)
	return args.Error(0)
}

func (m *MockPatientRepository) Search(ctx context.Context, filter shared.Filter) ([]patient.Patient, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]patient.Patient), args.Get(1).(int64), args.Error(2)
}

func (m *MockPatientRepository) ListAll(ctx context.Context, search string) ([]patient.Patient, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]patient.Patient), args.Error(1)
}

// MockWelfareRepository is a mock implementation of patient.WelfareRepository
type MockWelfareRepository struct {
	mock.Mock
}

func (m *MockWelfareRepository) FindByPatientID(ctx context.Context, patientID int64) (*patient.WelfareRecord, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.WelfareRecord), args.Error(1)
}

func (m *MockWelfareRepository) FindAll(ctx context.Context) ([]patient.WelfareRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]patient.WelfareRecord), args.Error(1)
}

func (m *MockWelfareRepository) Create(ctx context.Context, w *patient.WelfareRecord) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWelfareRepository) Save(ctx context.Context, w *patient.WelfareRecord) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWelfareRepository) DeleteByPatientID(ctx context.Context, patientID int64) error {
	args := m.Called(ctx, patientID)
	return args.Error(0)
}

// MockCardPrintRepository is a mock implementation of patient.CardPrintRepository
type MockCardPrintRepository struct {
	mock.Mock
}

func (m *MockCardPrintRepository) CountByPatient(ctx context.Context, patientRowID int64) (int64, error) {
	args := m.Called(ctx, patientRowID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardPrintRepository) Create(ctx context.Context, p *patient.CardPrint) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCardPrintRepository) Price(ctx context.Context) (*decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decimal.Decimal), args.Error(1)
}

func (m *MockCardPrintRepository) SavePrice(ctx context.Context, price decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, price, now)
	return args.Error(0)
}
