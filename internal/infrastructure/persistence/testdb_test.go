package persistence

import (
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

var testClock = shared.FixedClock{T: testNow}

// setupTestDB creates an in-memory SQLite database with the full schema and
// foreign keys enforced. One connection keeps every query on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	seedReferences(t, db)
	return db
}

// seedReferences inserts the catalog rows that records and documents point at.
func seedReferences(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserModel{ID: 1, Name: "Reception"}).Error)
	require.NoError(t, db.Create(&models.DepartmentModel{ID: 1, Name: "OPD"}).Error)
	require.NoError(t, db.Create(&models.ProcedureModel{ID: 1, Name: "Consultation"}).Error)
	require.NoError(t, db.Create(&models.DoctorModel{ID: 7, Name: "Dr. Amina"}).Error)
	require.NoError(t, db.Create(&models.DistributorModel{ID: 1, Name: "Medi Traders"}).Error)
	for _, m := range []models.MedicineModel{
		{ID: 1, Name: "Paracetamol 500mg"},
		{ID: 2, Name: "Amoxicillin 250mg"},
		{ID: 3, Name: "Omeprazole 20mg"},
	} {
		require.NoError(t, db.Create(&m).Error)
	}
}
