// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// Handler serves the JSON fallbacks for unmatched routes and the targets
// RequireSignedIn and RequireRole redirect browsers to.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// NotFound answers requests that match no route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Log.Debug("route not found", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	jsonutil.Error(w, "not_found", http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers requests whose path exists under another method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, "method_not_allowed", http.StatusMethodNotAllowed, "Method not allowed")
}

// Forbidden is the landing page for a signed-in user without the role.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, "forbidden", http.StatusForbidden, "You don't have permission to view this page.")
}

// Unauthorized is the landing page for a request without a session.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, "unauthorized", http.StatusUnauthorized, "Please sign in to continue.")
}
