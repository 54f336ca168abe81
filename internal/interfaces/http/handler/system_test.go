package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	ok := HealthCheck{Name: "database", Check: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("dial tcp: refused") }}

	tests := []struct {
		name   string
		checks []HealthCheck
		status int
		body   string
	}{
		{"no checks", nil, http.StatusOK, `{"success":true,"data":{"status":"ok","uptime":"0s"}}`},
		{"all up", []HealthCheck{ok}, http.StatusOK, `{"success":true,"data":{"status":"ok","checks":{"database":"ok"},"uptime":"0s"}}`},
		{"one down", []HealthCheck{ok, down}, http.StatusServiceUnavailable,
			`{"success":false,"data":{"status":"degraded","checks":{"database":"ok","redis":"down"},"uptime":"0s"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("hikarimed-backend", "2.0.0", nil, tt.checks...)
			r := gin.New()
			r.GET("/health", h.Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("hikarimed-backend", "2.0.0", nil)
	r := gin.New()
	r.GET("/system/info", h.GetSystemInfo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/info", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hikarimed-backend", resp.Data.Name)
	assert.Equal(t, "2.0.0", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
}
