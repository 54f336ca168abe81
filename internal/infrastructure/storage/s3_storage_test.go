package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestNewS3DocumentStore_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3DocumentStore(ctx, config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")

	_, err = NewS3DocumentStore(ctx, config.StorageConfig{Bucket: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials are required")
}

func TestS3DocumentStore_ObjectURL(t *testing.T) {
	ctx := context.Background()

	t.Run("path style", func(t *testing.T) {
		store, err := NewS3DocumentStore(ctx, config.StorageConfig{
			Bucket: "po-documents", AccessKeyID: "k", SecretAccessKey: "s",
			Endpoint: "http://localhost:9000/", UsePathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/po-documents/a/b.pdf", store.ObjectURL("a/b.pdf"))
		assert.Equal(t, "po-documents", store.Bucket())
	})

	t.Run("virtual hosted on AWS", func(t *testing.T) {
		store, err := NewS3DocumentStore(ctx, config.StorageConfig{
			Bucket: "po-documents", AccessKeyID: "k", SecretAccessKey: "s", Region: "ap-south-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://po-documents.s3.ap-south-1.amazonaws.com/a.pdf", store.ObjectURL("a.pdf"))
	})

	t.Run("endpoint without scheme", func(t *testing.T) {
		store, err := NewS3DocumentStore(ctx, config.StorageConfig{
			Bucket: "docs", AccessKeyID: "k", SecretAccessKey: "s", Endpoint: "minio.internal:9000", UsePathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://minio.internal:9000/docs/x.pdf", store.ObjectURL("x.pdf"))
	})
}

func TestS3DocumentStore_PutRequiresKey(t *testing.T) {
	store, err := NewS3DocumentStore(context.Background(), config.StorageConfig{
		Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s", Endpoint: "http://localhost:9000", UsePathStyle: true,
	})
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "", []byte("x"), "application/pdf")
	assert.ErrorContains(t, err, "storage key is required")
}

func TestIntegration_S3DocumentStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MinIO container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	store, err := NewS3DocumentStore(ctx, config.StorageConfig{
		Endpoint:        fmt.Sprintf("http://%s:%s", host, port.Port()),
		Bucket:          "po-documents",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UsePathStyle:    true,
	}, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	require.NoError(t, store.EnsureBucket(ctx))
	require.NoError(t, store.EnsureBucket(ctx), "idempotent")

	url, err := store.Put(ctx, "purchase-orders/PO-00001.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, url, "/po-documents/purchase-orders/PO-00001.pdf")

	// anonymous reads are denied by default; the object exists once the server says so
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
