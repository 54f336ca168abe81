// Package integration runs the persistence and service layers against a real
// PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/config"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/migration"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testDBName     = "hikarimed_test"
	testDBUser     = "postgres"
	testDBPassword = "admin123"
)

var (
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
	sharedDBConfig    config.DatabaseConfig
)

// TestDB is a migrated database backed by the shared container.
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// NewTestDB returns a connection to the shared PostgreSQL container, starting and
// migrating it on first use. Tables are truncated so every test starts empty.
// Skipped under -short.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := ensureContainer(t)
	db, err := persistence.NewDatabase(&cfg, nil)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{DB: db.DB, t: t}
	tdb.CleanTables()
	tdb.SeedReferences()
	return tdb
}

func ensureContainer(t *testing.T) config.DatabaseConfig {
	t.Helper()
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		return sharedDBConfig
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            testDBUser,
		Password:        testDBPassword,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}

	db, err := persistence.NewDatabase(&cfg, nil)
	require.NoError(t, err, "Failed to connect for migrations")
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, migrator.Up(), "Failed to run migrations")
	_ = migrator.Close()
	_ = db.Close()

	sharedContainer = container
	sharedDBConfig = cfg
	return cfg
}

// CleanTables truncates every application table and restarts identities.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		err := tdb.DB.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error
		require.NoError(tdb.t, err, "Failed to truncate %s", table)
	}
}

// SeedReferences inserts the catalog rows that records and pharmacy documents
// point at.
func (tdb *TestDB) SeedReferences() {
	tdb.t.Helper()
	stmts := []string{
		`INSERT INTO users (id, name) VALUES (1, 'Reception'), (2, 'Pharmacist')`,
		`INSERT INTO departments (id, name) VALUES (1, 'OPD')`,
		`INSERT INTO procedures (id, department_id, name) VALUES (1, 1, 'Consultation')`,
		`INSERT INTO doctors (id, name) VALUES (7, 'Dr. Amina'), (8, 'Dr. Bilal')`,
		`INSERT INTO distributors (id, name) VALUES (1, 'Medi Traders')`,
		`INSERT INTO medicines (id, name, generic_name_id) VALUES (1, 'Paracetamol 500mg', 1), (2, 'Amoxicillin 250mg', 2)`,
	}
	for _, stmt := range stmts {
		require.NoError(tdb.t, tdb.DB.Exec(stmt).Error, "Failed to seed: %s", stmt)
	}
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
	}
}
