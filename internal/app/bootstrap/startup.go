// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/workpulse/internal/app/store/statscache"
	userstore "github.com/dalemusser/workpulse/internal/app/store/users"
	"github.com/dalemusser/workpulse/internal/app/system/normalize"
	"github.com/dalemusser/workpulse/internal/app/system/ratelimit"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"github.com/dalemusser/workpulse/internal/app/system/workers"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Background work started in Startup and stopped in Shutdown.
var (
	bgCancel     context.CancelFunc
	gaugeWorker  *workers.EntityGauges
	loginLimiter *ratelimit.LoginLimiter
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It applies handler timeouts, bootstraps the superadmin account, starts the login limiter sweeper and
// starts the entity gauge worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	logger.Info("handler timeouts configured", zap.Any("timeouts", timeouts.Current()))

	if appCfg.SuperAdminEmail != "" {
		var cache *statscache.Cache
		if deps.Redis != nil {
			cache = statscache.New(deps.Redis, appCfg.StatsCacheTTL, logger)
		}
		if err := ensureSuperAdmin(ctx, deps, cache, appCfg.SuperAdminEmail, appCfg.SuperAdminPassword, logger); err != nil {
			return fmt.Errorf("superadmin bootstrap: %w", err)
		}
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	bgCancel = cancel

	loginLimiter = ratelimit.NewLoginLimiter()
	go loginLimiter.Run(bgCtx)

	loc, err := loadLocation(appCfg.Timezone)
	if err != nil {
		cancel()
		return fmt.Errorf("timezone: %w", err)
	}
	gaugeWorker = workers.NewEntityGauges(deps.MongoDatabase, logger, appCfg.MetricsRefresh, loc)
	gaugeWorker.Start()

	return nil
}

// ensureSuperAdmin makes sure the configured email belongs to a superadmin.
// An existing user is promoted; otherwise a new account is created with
// the given password (which may be blank, leaving the account unable to
// sign in until a password is set). A promotion clears cache, which is nil
// when Redis is not configured.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, cache *statscache.Cache, email, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	email = normalize.Email(email)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleSuperAdmin {
			logger.Debug("superadmin already present", zap.String("email", email))
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, models.RoleSuperAdmin); err != nil {
			return err
		}
		// A promoted member drops out of every cached calendar.
		if cache != nil {
			if err := cache.InvalidateAll(ctx); err != nil {
				return fmt.Errorf("invalidate calendar cache: %w", err)
			}
		}
		logger.Info("promoted user to superadmin",
			zap.String("email", email),
			zap.String("previous_role", existing.Role))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := users.Create(ctx, models.User{
			FullName: "Super Admin",
			Email:    email,
			Role:     models.RoleSuperAdmin,
		}, password)
		if err != nil {
			return err
		}
		if password == "" {
			logger.Warn("superadmin created without a password; set superadmin_password to enable sign-in",
				zap.String("email", email))
		}
		logger.Info("created superadmin", zap.String("email", email), zap.String("user_id", created.ID.Hex()))
		return nil

	default:
		return err
	}
}
