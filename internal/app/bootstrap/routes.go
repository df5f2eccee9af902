// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/workpulse/internal/app/attendance"
	assignmentsfeature "github.com/dalemusser/workpulse/internal/app/features/assignments"
	auditlogfeature "github.com/dalemusser/workpulse/internal/app/features/auditlog"
	chatfeature "github.com/dalemusser/workpulse/internal/app/features/chat"
	errorsfeature "github.com/dalemusser/workpulse/internal/app/features/errors"
	healthfeature "github.com/dalemusser/workpulse/internal/app/features/health"
	loginfeature "github.com/dalemusser/workpulse/internal/app/features/login"
	logoutfeature "github.com/dalemusser/workpulse/internal/app/features/logout"
	statsfeature "github.com/dalemusser/workpulse/internal/app/features/stats"
	submissionsfeature "github.com/dalemusser/workpulse/internal/app/features/submissions"
	auditstore "github.com/dalemusser/workpulse/internal/app/store/audit"
	"github.com/dalemusser/workpulse/internal/app/store/queries/attendancequeries"
	"github.com/dalemusser/workpulse/internal/app/store/statscache"
	userstore "github.com/dalemusser/workpulse/internal/app/store/users"
	"github.com/dalemusser/workpulse/internal/app/system/auditlog"
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"github.com/dalemusser/workpulse/internal/app/system/pubsub"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// WorkPulse applies session middleware globally and mounts the JSON API:
// authentication, report submission, project chat, assignment management,
// and the admin attendance calendar.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Reload the user on each request so role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	loc, err := loadLocation(appCfg.Timezone)
	if err != nil {
		return nil, err
	}

	auditLog := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// Redis-backed collaborators are optional. Interface-typed variables stay
	// nil (not typed-nil) when Redis is absent.
	var (
		monthCache  statsfeature.MonthCache
		subStats    submissionsfeature.StatsInvalidator
		assignStats assignmentsfeature.StatsInvalidator
		publisher   pubsub.Publisher = pubsub.Nop{}
		redisPing   healthfeature.PingFunc
	)
	if deps.Redis != nil {
		cache := statscache.New(deps.Redis, appCfg.StatsCacheTTL, logger)
		monthCache, subStats, assignStats = cache, cache, cache
		publisher = pubsub.NewRedisPublisher(deps.Redis, logger)
		redisPing = healthfeature.RedisPing(deps.Redis)
	}

	engine := attendance.New(attendancequeries.New(db), attendance.WithLocation(loc))

	errorsHandler := errorsfeature.NewHandler(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health and metrics for load balancers and scrapers
	healthHandler := healthfeature.NewHandler(healthfeature.MongoPing(deps.MongoClient), redisPing, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Redirect targets used by RequireSignedIn / RequireRole for browsers
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Authentication
	limiter := loginLimiter // started in Startup; nil makes the handler build its own
	loginHandler := loginfeature.NewHandler(db, sessionMgr, limiter, auditLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Report submission
	eodHandler := submissionsfeature.NewHandler(db, reportkind.EOD, subStats, logger)
	r.Mount("/api/eod", submissionsfeature.Routes(eodHandler, sessionMgr))

	memoHandler := submissionsfeature.NewHandler(db, reportkind.Memo, subStats, logger)
	r.Mount("/api/memos", submissionsfeature.Routes(memoHandler, sessionMgr))

	// Project chat
	chatHandler := chatfeature.NewHandler(db, publisher, logger)
	r.Mount("/api/projects", chatfeature.Routes(chatHandler, sessionMgr))

	// Admin: assignments, audit trail and attendance statistics
	assignHandler := assignmentsfeature.NewHandler(db, assignStats, auditLog, logger)
	r.Mount("/api/admin/assignments", assignmentsfeature.Routes(assignHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/api/admin/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	statsHandler := statsfeature.NewHandler(engine, monthCache, logger)
	r.Mount("/api/admin/stats", statsfeature.Routes(statsHandler, sessionMgr))

	logger.Info("routes mounted",
		zap.String("timezone", loc.String()),
		zap.Bool("redis", deps.Redis != nil))

	return r, nil
}
