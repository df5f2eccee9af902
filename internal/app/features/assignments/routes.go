// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/admin/assignments.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.AdminRoles()...))
		pr.Get("/", h.ServeList)
		pr.Get("/projects", h.ServeProjects)
		pr.Post("/", h.ServeAssign)
		pr.Delete("/{userID}/{projectID}", h.ServeUnassign)
	})

	return r
}
