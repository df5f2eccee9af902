package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// PingFunc checks one backing service.
type PingFunc func(ctx context.Context) error

// MongoPing pings the primary.
func MongoPing(c *mongo.Client) PingFunc {
	return func(ctx context.Context) error { return c.Ping(ctx, readpref.Primary()) }
}

// RedisPing sends PING.
func RedisPing(rdb *redis.Client) PingFunc {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Mongo PingFunc
	Redis PingFunc // nil when Redis is not configured
	Log   *zap.Logger
}

// NewHandler constructs a health Handler. redisPing may be nil.
func NewHandler(mongoPing, redisPing PingFunc, logger *zap.Logger) *Handler {
	return &Handler{Mongo: mongoPing, Redis: redisPing, Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cache":"connected" }
//
// On failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
//
// "cache" is omitted when Redis is not configured.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{Status: "ok", Database: "connected"}

	if err := h.Mongo(ctx); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Redis != nil {
		resp.Cache = "connected"
		if err := h.Redis(ctx); err != nil {
			h.Log.Error("health-check: redis ping failed", zap.Error(err))
			resp.Status = "error"
			resp.Cache = "disconnected"
			resp.Message = "Cache unavailable"
			resp.Error = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
