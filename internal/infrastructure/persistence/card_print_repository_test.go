package persistence

import (
	"context"
	"testing"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCardPrintRepository_Prints(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCardPrintRepository(db)
	ctx := context.Background()

	p := createTestPatient(t, db, 250300001, "Ali Raza", "", "")
	other := createTestPatient(t, db, 250300002, "Sana Iqbal", "", "")

	n, err := repo.CountByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	first := &patient.CardPrint{PatientID: p.ID, PrintedBy: 1, Amount: decimal.Zero, PrintedAt: testNow}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)
	require.NoError(t, repo.Create(ctx, &patient.CardPrint{
		PatientID: p.ID, PrintedBy: 1, Amount: decimal.NewFromInt(200), PrintedAt: testNow,
	}))
	require.NoError(t, repo.Create(ctx, &patient.CardPrint{
		PatientID: other.ID, PrintedBy: 1, Amount: decimal.Zero, PrintedAt: testNow,
	}))

	n, err = repo.CountByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestGormCardPrintRepository_Price(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCardPrintRepository(db)
	ctx := context.Background()

	price, err := repo.Price(ctx)
	require.NoError(t, err)
	assert.Nil(t, price)

	require.NoError(t, repo.SavePrice(ctx, decimal.NewFromInt(250), testNow))
	require.NoError(t, repo.SavePrice(ctx, decimal.RequireFromString("300.50"), testNow))

	price, err = repo.Price(ctx)
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.True(t, decimal.RequireFromString("300.50").Equal(*price), "got %s", price)

	var rows int64
	require.NoError(t, db.Table("patient_card_prices").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
