package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/workpulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHandler_MountsRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := validConfig()
	cfg.SessionKey = "test-session-key-0123456789abcdefghijkl"
	cfg.SessionName = "workpulse-test"
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	require.NoError(t, err)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/admin/stats/calendar?month=2026-01", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/stats/day-details?date=2026-01-13", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/assignments", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/audit", http.StatusUnauthorized},
		{http.MethodGet, "/api/eod", http.StatusUnauthorized},
		{http.MethodGet, "/api/memos", http.StatusUnauthorized},
		{http.MethodGet, "/login/me", http.StatusUnauthorized},
		{http.MethodGet, "/forbidden", http.StatusForbidden},
		{http.MethodGet, "/does-not-exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBuildHandler_RejectsEmptySessionKey(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := validConfig()
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	_, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	assert.Error(t, err)
}
