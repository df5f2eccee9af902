// internal/app/features/submissions/routes.go
package submissions

import (
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/eod or /api/memos.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
	})

	return r
}
