// internal/app/features/stats/routes.go
package stats

import (
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/admin/stats.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.AdminRoles()...))
		pr.Get("/calendar", h.ServeCalendar)
		pr.Get("/day-details", h.ServeDayDetails)
	})

	return r
}
