package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, found := dp.Attributes.Value(attribute.Key(key)); found && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestNewDBMetrics_Defaults(t *testing.T) {
	_, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("test"), DBMetricsConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, m.config.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, m.config.PoolStatsInterval)
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("test"), DBMetricsConfig{SlowQueryThreshold: 100 * time.Millisecond}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "stock_ledgers", 20*time.Millisecond)
	m.RecordQuery(ctx, "INSERT", "stock_ledgers", 250*time.Millisecond)
	m.RecordQuery(ctx, "", "", 300*time.Millisecond)

	rm := collect(t, reader)
	total, ok := findMetric(rm, "db_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumByAttr(t, total, "db.operation", "SELECT"))
	assert.Equal(t, int64(1), sumByAttr(t, total, "db.operation", "UNKNOWN"))

	slow, ok := findMetric(rm, "db_slow_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumByAttr(t, slow, "db.table", "stock_ledgers"))
	assert.Equal(t, int64(1), sumByAttr(t, slow, "db.table", "unknown"))

	_, ok = findMetric(rm, "db_query_duration_seconds")
	assert.True(t, ok)
}

func TestDBMetrics_PoolStats(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("test"), DBMetricsConfig{PoolStatsInterval: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(7)

	m.SetSQLDB(sqlDB)
	m.StartPoolStatsCollection(context.Background())
	m.Stop()
	m.Stop()

	rm := collect(t, reader)
	maxConns, ok := findMetric(rm, "db_pool_connections_max")
	require.True(t, ok)
	gauge, ok := maxConns.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(7), gauge.DataPoints[0].Value)
}

func TestDBMetrics_StartWithoutSQLDB(t *testing.T) {
	_, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("test"), DefaultDBMetricsConfig(), nil)
	require.NoError(t, err)
	m.StartPoolStatsCollection(context.Background())
	m.Stop()
}

func TestDBMetricsPlugin(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("test"), DBMetricsConfig{SlowQueryThreshold: 500 * time.Millisecond}, nil)
	require.NoError(t, err)

	db := setupTestDB(t)
	plugin := NewDBMetricsPlugin(m)
	plugin.now = steppingClock(time.Second)
	require.NoError(t, db.Use(plugin))
	assert.Equal(t, "db_metrics", plugin.Name())

	require.NoError(t, db.Create(&tracedBatch{BatchNo: "B-9"}).Error)
	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM traced_batches").Scan(&count).Error)

	rm := collect(t, reader)
	total, ok := findMetric(rm, "db_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumByAttr(t, total, "db.operation", "INSERT"))
	assert.GreaterOrEqual(t, sumByAttr(t, total, "db.operation", "SELECT"), int64(1))

	slow, ok := findMetric(rm, "db_slow_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumByAttr(t, slow, "db.table", "traced_batches"))
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM patients":           "SELECT",
		"  insert into receipts values ()": "INSERT",
		"UPDATE purchase_orders SET x=1":   "UPDATE",
		"delete from indents":              "DELETE",
		"WITH latest AS (SELECT 1) SELECT": "SELECT",
		"LOCK TABLE patients":              "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := setupTestDB(t)
	m, err := RegisterDBMetrics(db, nil, DefaultDBMetricsConfig(), nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	mp := &MeterProvider{}
	m, err = RegisterDBMetrics(db, mp, DefaultDBMetricsConfig(), nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}
