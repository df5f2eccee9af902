// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Email: The address users type to log in

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/workpulse/internal/app/store/users"
	"github.com/dalemusser/workpulse/internal/app/system/auditlog"
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/app/system/inputval"
	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"github.com/dalemusser/workpulse/internal/app/system/normalize"
	"github.com/dalemusser/workpulse/internal/app/system/ratelimit"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const endpoint = "login"

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter()
	}
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		AuditLog:   auditLog,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const badCredentials = "Invalid email or password"

// ServeLogin handles POST /login.
//
//	200 {"id","name","email","role"} and a session cookie on success
//	400 on a malformed body, 401 on bad credentials, 403 for disabled
//	accounts, 429 when throttled.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.Email = normalize.Email(req.Email)
	if err := inputval.Struct(req); err != nil {
		var fe inputval.FieldErrors
		if errors.As(err, &fe) {
			jsonutil.FieldErrors(w, endpoint, fe)
			return
		}
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to validate login", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if ok, msg := h.Limiter.Check(r, req.Email); !ok {
		h.AuditLog.LoginFailedRateLimit(ctx, r, req.Email)
		jsonutil.Error(w, endpoint, http.StatusTooManyRequests, msg)
		return
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, req.Email)
			jsonutil.Error(w, endpoint, http.StatusUnauthorized, badCredentials)
			return
		}
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to sign in", err)
		return
	}
	if !userstore.CheckPassword(u, req.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, req.Email)
		jsonutil.Error(w, endpoint, http.StatusUnauthorized, badCredentials)
		return
	}
	if normalize.Status(u.Status) == "disabled" {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, req.Email)
		jsonutil.Error(w, endpoint, http.StatusForbidden, "Account is disabled")
		return
	}

	su := &auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to sign in", err)
		return
	}
	h.Limiter.ResetEmail(req.Email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, req.Email)

	jsonutil.Write(w, http.StatusOK, userResponse{ID: su.ID, Name: su.Name, Email: su.Email, Role: su.Role})
}

// ServeMe handles GET /login/me: the signed-in user, or 401.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Error(w, endpoint, http.StatusUnauthorized, "Unauthorized")
		return
	}
	jsonutil.Write(w, http.StatusOK, userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}
