// internal/app/features/chat/routes.go
package chat

import (
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/projects.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/{projectID}/messages", h.ServeList)
		pr.Post("/{projectID}/messages", h.ServePost)
	})

	return r
}
