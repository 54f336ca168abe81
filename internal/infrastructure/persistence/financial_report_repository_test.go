package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/billing"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/report"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFinancialReportRepository_Today(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.DepartmentModel{ID: 2, Name: "Dental"}).Error)
	require.NoError(t, db.Create(&models.UserModel{ID: 2, Name: "Counter 2"}).Error)

	records := NewGormMedicalRecordRepository(db)
	p := createTestPatient(t, db, 250300001, "Ali Raza", "", "")
	bill := func(receipt string, userID int64, at time.Time, discount int64, items ...medicalrecord.ItemInput) {
		rec := medicalrecord.NewMedicalRecord(medicalrecord.Draft{
			PatientID:  p.ID,
			ReceiptNo:  receipt,
			Discount:   decimal.NewFromInt(discount),
			UserID:     userID,
			RecordDate: at,
		}, items, billing.NegativeFeeAllow, at)
		require.NoError(t, records.Create(ctx, rec))
	}
	item := func(dept, fee, discount int64) medicalrecord.ItemInput {
		return medicalrecord.ItemInput{DepartmentID: dept, ProcedureID: 1, Fee: decimal.NewFromInt(fee), Discount: decimal.NewFromInt(discount)}
	}

	bill("25030001", 1, testNow, 20, item(1, 500, 50), item(2, 300, 0))
	bill("25030002", 2, testNow.Add(time.Hour), 0, item(2, 1000, 0))
	bill("25030003", 1, testNow.AddDate(0, 0, -1), 0, item(1, 999, 0))
	bill("25030004", 2, report.DayOf(testNow).To, 0, item(1, 888, 0))

	repo := NewGormFinancialReportRepository(db)
	today := report.DayOf(testNow)

	depts, err := repo.DepartmentRevenue(ctx, today)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, "Dental", depts[0].Department)
	assert.True(t, depts[0].Revenue.Equal(decimal.NewFromInt(1300)), depts[0].Revenue.String())
	assert.Equal(t, int64(1), depts[1].DepartmentID)
	assert.True(t, depts[1].Revenue.Equal(decimal.NewFromInt(450)), depts[1].Revenue.String())

	users, err := repo.ReceptionRevenue(ctx, today)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Counter 2", users[0].User)
	assert.True(t, users[0].Revenue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Reception", users[1].User)
	assert.True(t, users[1].Revenue.Equal(decimal.NewFromInt(730)), users[1].Revenue.String())
}

func TestGormFinancialReportRepository_EmptyDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFinancialReportRepository(db)

	depts, err := repo.DepartmentRevenue(context.Background(), report.DayOf(testNow))
	require.NoError(t, err)
	assert.Empty(t, depts)

	users, err := repo.ReceptionRevenue(context.Background(), report.DayOf(testNow))
	require.NoError(t, err)
	assert.Empty(t, users)
}
