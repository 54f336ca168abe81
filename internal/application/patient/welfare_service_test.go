package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWelfareServiceForTest() (*WelfareService, *MockPatientRepository, *MockWelfareRepository) {
	patients := new(MockPatientRepository)
	welfare := new(MockWelfareRepository)
	scope := NewNoOpTransactionScope(patients, welfare, new(MockCardPrintRepository))
	return NewWelfareService(welfare, scope, shared.FixedClock{T: serviceNow}, zap.NewNop()), patients, welfare
}

func TestWelfareService_Create(t *testing.T) {
	svc, patients, welfare := newWelfareServiceForTest()
	ctx := context.Background()

	patients.On("FindByPatientID", mock.Anything, int64(250300001)).Return(&patient.Patient{PatientID: 250300001}, nil)
	welfare.On("Create", mock.Anything, mock.MatchedBy(func(w *patient.WelfareRecord) bool {
		return w.PatientID == 250300001 && w.DiscountPercentage.Equal(decimal.NewFromInt(25))
	})).Return(nil)

	resp, err := svc.Create(ctx, CreateWelfareRequest{
		PatientID:      250300001,
		WelfareRequest: WelfareRequest{WelfareCategory: "Widow", DiscountPercentage: decimal.NewFromInt(25)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Active", resp.DiscountStatus)
	welfare.AssertExpectations(t)
}

func TestWelfareService_Create_Errors(t *testing.T) {
	svc, patients, welfare := newWelfareServiceForTest()
	ctx := context.Background()

	patients.On("FindByPatientID", mock.Anything, int64(9)).Return(nil, shared.NewNotFoundError("Patient"))
	_, err := svc.Create(ctx, CreateWelfareRequest{PatientID: 9, WelfareRequest: WelfareRequest{WelfareCategory: "Zakat"}})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	patients.On("FindByPatientID", mock.Anything, int64(10)).Return(&patient.Patient{PatientID: 10}, nil)
	_, err = svc.Create(ctx, CreateWelfareRequest{PatientID: 10, WelfareRequest: WelfareRequest{
		WelfareCategory: "Zakat", DiscountPercentage: decimal.NewFromInt(120),
	}})
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Fields, "discountPercentage")

	welfare.On("Create", mock.Anything, mock.Anything).Return(shared.NewDuplicateError("Welfare record already exists for this patient"))
	_, err = svc.Create(ctx, CreateWelfareRequest{PatientID: 10, WelfareRequest: WelfareRequest{WelfareCategory: "Zakat"}})
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestWelfareService_UpdateExpires(t *testing.T) {
	svc, _, welfare := newWelfareServiceForTest()
	ctx := context.Background()

	existing := &patient.WelfareRecord{PatientID: 1, WelfareCategory: "Zakat"}
	welfare.On("FindByPatientID", mock.Anything, int64(1)).Return(existing, nil)
	welfare.On("Save", mock.Anything, existing).Return(nil)

	ended := serviceNow.AddDate(0, 0, -1)
	resp, err := svc.Update(ctx, 1, WelfareRequest{WelfareCategory: "Zakat", EndDate: &ended})
	require.NoError(t, err)
	assert.Equal(t, "Expired", resp.DiscountStatus)
}

func TestWelfareService_ListGetDelete(t *testing.T) {
	svc, _, welfare := newWelfareServiceForTest()
	ctx := context.Background()

	welfare.On("FindAll", mock.Anything).Return([]patient.WelfareRecord{{PatientID: 1}, {PatientID: 2}}, nil)
	welfare.On("FindByPatientID", mock.Anything, int64(2)).Return(&patient.WelfareRecord{PatientID: 2}, nil)
	welfare.On("DeleteByPatientID", mock.Anything, int64(2)).Return(nil)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := svc.GetByPatientID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.PatientID)

	require.NoError(t, svc.Delete(ctx, 2))
}
