// internal/app/features/assignments/handler.go
package assignments

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	assignmentstore "github.com/dalemusser/workpulse/internal/app/store/assignments"
	"github.com/dalemusser/workpulse/internal/app/store/audit"
	projectstore "github.com/dalemusser/workpulse/internal/app/store/projects"
	"github.com/dalemusser/workpulse/internal/app/store/queries/attendancequeries"
	userstore "github.com/dalemusser/workpulse/internal/app/store/users"
	"github.com/dalemusser/workpulse/internal/app/system/auditlog"
	"github.com/dalemusser/workpulse/internal/app/system/authz"
	"github.com/dalemusser/workpulse/internal/app/system/inputval"
	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const endpoint = "assignments"

// StatsInvalidator drops cached calendar months after eligibility changes.
type StatsInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

type Handler struct {
	Assignments *assignmentstore.Store
	Users       *userstore.Store
	Projects    *projectstore.Store
	Roster      *attendancequeries.Source
	Stats       StatsInvalidator // nil when Redis is not configured
	Audit       *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, stats StatsInvalidator, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Assignments: assignmentstore.New(db),
		Users:       userstore.New(db),
		Projects:    projectstore.New(db),
		Roster:      attendancequeries.New(db),
		Stats:       stats,
		Audit:       auditLog,
		Log:         logger,
	}
}

type assignRequest struct {
	UserID    string `json:"userId" validate:"required,objectid"`
	ProjectID string `json:"projectId" validate:"required,objectid"`
}

type assignResponse struct {
	Assignment models.ProjectAssignment `json:"assignment"`
	Outcome    assignmentstore.Outcome  `json:"outcome"`
}

// ServeAssign handles POST /api/admin/assignments.
//
// 201 when a row is created, 200 when an inactive row is reactivated or the
// assignment was already active.
func (h *Handler) ServeAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		var fe inputval.FieldErrors
		if errors.As(err, &fe) {
			jsonutil.FieldErrors(w, endpoint, fe)
			return
		}
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to validate assignment", err)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(req.UserID)
	projectID, _ := primitive.ObjectIDFromHex(req.ProjectID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.Error(w, endpoint, http.StatusNotFound, "User not found")
			return
		}
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to load user", err)
		return
	}
	if _, err := h.Projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.Error(w, endpoint, http.StatusNotFound, "Project not found")
			return
		}
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to load project", err)
		return
	}

	a, outcome, err := h.Assignments.Assign(ctx, userID, projectID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to assign user", err)
		return
	}
	switch outcome {
	case assignmentstore.Created:
		h.invalidateStats(ctx)
		h.Audit.AssignmentChanged(ctx, r, audit.EventAssignmentCreated, actorID(r), userID, projectID)
	case assignmentstore.Reactivated:
		h.invalidateStats(ctx)
		h.Audit.AssignmentChanged(ctx, r, audit.EventAssignmentReactivated, actorID(r), userID, projectID)
	}

	status := http.StatusOK
	if outcome == assignmentstore.Created {
		status = http.StatusCreated
	}
	jsonutil.Write(w, status, assignResponse{Assignment: a, Outcome: outcome})
}

// ServeUnassign handles DELETE /api/admin/assignments/{userID}/{projectID}.
func (h *Handler) ServeUnassign(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid user id")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid project id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Assignments.Deactivate(ctx, userID, projectID); err != nil {
		if errors.Is(err, assignmentstore.ErrNotAssigned) {
			jsonutil.Error(w, endpoint, http.StatusNotFound, "Assignment not found")
			return
		}
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to remove assignment", err)
		return
	}
	h.invalidateStats(ctx)
	h.Audit.AssignmentDeactivated(ctx, r, actorID(r), userID, projectID)

	w.WriteHeader(http.StatusNoContent)
}

type rosterRow struct {
	UserID      string `json:"userId"`
	UserName    string `json:"user"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"project"`
	AssignedAt  string `json:"assignedAt"`
	IsActive    bool   `json:"isActive"`
}

// ServeList handles GET /api/admin/assignments: every assignment of a
// non-admin user, active first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Roster.Assignments(ctx)
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to fetch assignments", err)
		return
	}

	out := make([]rosterRow, 0, len(rows))
	for _, a := range rows {
		out = append(out, rosterRow{
			UserID:      a.UserID,
			UserName:    a.UserName,
			ProjectID:   a.ProjectID,
			ProjectName: a.ProjectName,
			AssignedAt:  a.AssignedAt.UTC().Format(time.RFC3339),
			IsActive:    a.IsActive,
		})
	}
	sortRoster(out)

	jsonutil.Write(w, http.StatusOK, out)
}

type projectRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"clientName,omitempty"`
	Status     string `json:"status"`
}

// ServeProjects handles GET /api/admin/assignments/projects, the picker list
// for the assign form. status is active (default), archived or all.
func (h *Handler) ServeProjects(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	switch status {
	case "":
		status = "active"
	case "all":
		status = ""
	case "active", "archived":
	default:
		jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	projects, err := h.Projects.List(ctx, status)
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to fetch projects", err)
		return
	}

	out := make([]projectRow, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectRow{
			ID:         p.ID.Hex(),
			Name:       p.Name,
			ClientName: p.ClientName,
			Status:     p.Status,
		})
	}
	jsonutil.Write(w, http.StatusOK, out)
}

func (h *Handler) invalidateStats(ctx context.Context) {
	if h.Stats == nil {
		return
	}
	if err := h.Stats.InvalidateAll(ctx); err != nil {
		h.Log.Warn("calendar cache invalidation failed", zap.Error(err))
	}
}

func actorID(r *http.Request) primitive.ObjectID {
	_, _, id, _ := authz.UserCtx(r)
	return id
}
