// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all audit log routes under the path where this
// router is mounted (typically "/api/admin/audit" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.AdminRoles()...))

		pr.Get("/", h.ServeList)
		pr.Get("/event-types", h.ServeEventTypes)
		pr.Get("/recent", h.ServeRecent)
		pr.Get("/failed-logins", h.ServeFailedLogins)
	})

	return r
}
