// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	assignmentstore "github.com/dalemusser/workpulse/internal/app/store/assignments"
	auditstore "github.com/dalemusser/workpulse/internal/app/store/audit"
	chatmessagestore "github.com/dalemusser/workpulse/internal/app/store/chatmessages"
	projectstore "github.com/dalemusser/workpulse/internal/app/store/projects"
	reportstore "github.com/dalemusser/workpulse/internal/app/store/reports"
	userstore "github.com/dalemusser/workpulse/internal/app/store/users"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/dalemusser/workpulse/internal/app/system/validators"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ConnectDB opens the MongoDB client and, when redis_addr is set, the Redis
// client. Both are pinged before returning.
//
// The logger is also installed as zap's global logger so packages without a
// handler (index and validator setup) log through the configured sink.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool", appCfg.MongoMinPoolSize))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisAddr == "" {
		logger.Info("redis_addr not set; calendar cache and chat fan-out disabled")
		return deps, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPassword,
		DB:       appCfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr), zap.Int("db", appCfg.RedisDB))
	deps.Redis = rdb

	return deps, nil
}

// EnsureSchema applies collection validators and creates every index the
// stores depend on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("collection validators: %w", err)
	}

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	stores := []struct {
		name string
		s    indexer
	}{
		{"users", userstore.New(db)},
		{"projects", projectstore.New(db)},
		{"project_assignments", assignmentstore.New(db)},
		{"chat_messages", chatmessagestore.New(db)},
		{"audit_events", auditstore.New(db)},
	}
	for _, kind := range reportkind.All() {
		stores = append(stores, struct {
			name string
			s    indexer
		}{kind.Collection(), reportstore.New(db, kind)})
	}
	for _, st := range stores {
		if err := st.s.EnsureIndexes(ctx); err != nil {
			logger.Error("ensure indexes failed", zap.String("collection", st.name), zap.Error(err))
			return fmt.Errorf("ensure indexes on %s: %w", st.name, err)
		}
	}
	logger.Info("schema ready", zap.Int("collections", len(stores)))
	return nil
}
