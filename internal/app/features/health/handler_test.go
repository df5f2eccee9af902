package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/workpulse/internal/app/features/health"
	"github.com/dalemusser/workpulse/internal/testutil"
	"go.uber.org/zap"
)

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (int, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec.Code, body
}

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestServe_AllHealthy(t *testing.T) {
	code, body := serve(t, health.NewHandler(ok, ok, zap.NewNop()))

	if code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, code)
	}
	if body.Status != "ok" || body.Database != "connected" || body.Cache != "connected" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestServe_NoRedisConfigured(t *testing.T) {
	code, body := serve(t, health.NewHandler(ok, nil, zap.NewNop()))

	if code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, code)
	}
	if body.Cache != "" {
		t.Errorf("expected cache omitted, got %q", body.Cache)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	code, body := serve(t, health.NewHandler(down, ok, zap.NewNop()))

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, code)
	}
	if body.Database != "disconnected" || body.Message != "Database unavailable" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestServe_CacheDown(t *testing.T) {
	code, body := serve(t, health.NewHandler(ok, down, zap.NewNop()))

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, code)
	}
	if body.Cache != "disconnected" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestServe_RealMongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	code, body := serve(t, health.NewHandler(health.MongoPing(db.Client()), nil, zap.NewNop()))

	if code != http.StatusOK || body.Database != "connected" {
		t.Errorf("expected healthy response, got %d %+v", code, body)
	}
}
