// internal/app/features/submissions/handler.go
package submissions

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record

import (
	"context"
	"errors"
	"net/http"
	"time"

	assignmentstore "github.com/dalemusser/workpulse/internal/app/store/assignments"
	reportstore "github.com/dalemusser/workpulse/internal/app/store/reports"
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/app/system/htmlsanitize"
	"github.com/dalemusser/workpulse/internal/app/system/inputval"
	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"github.com/dalemusser/workpulse/internal/app/system/paging"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StatsInvalidator drops cached calendar months. A report of either kind
// can change both calendars (userCount looks at EOD and memo together).
type StatsInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// Handler serves one report kind. EOD reports and memos get separate
// handlers mounted at /api/eod and /api/memos.
type Handler struct {
	Kind        reportkind.Kind
	Reports     *reportstore.Store
	Assignments *assignmentstore.Store
	Stats       StatsInvalidator // nil when Redis is not configured
	Log         *zap.Logger

	endpoint string
}

func NewHandler(db *mongo.Database, kind reportkind.Kind, stats StatsInvalidator, logger *zap.Logger) *Handler {
	return &Handler{
		Kind:        kind,
		Reports:     reportstore.New(db, kind),
		Assignments: assignmentstore.New(db),
		Stats:       stats,
		Log:         logger,
		endpoint:    "submissions." + kind.String(),
	}
}

type createRequest struct {
	ProjectID  string `json:"projectId" validate:"required,objectid"`
	ReportDate string `json:"reportDate" validate:"required,civildate"`
	Content    string `json:"content" validate:"required,notblank,max=20000"`
	MemoType   string `json:"memoType" validate:"omitempty,oneof=short universal"`
}

// ServeCreate handles POST /api/eod and POST /api/memos.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.endpoint, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		var fe inputval.FieldErrors
		if errors.As(err, &fe) {
			jsonutil.FieldErrors(w, h.endpoint, fe)
			return
		}
		jsonutil.ServerError(w, h.Log, h.endpoint, "Failed to validate report", err)
		return
	}
	switch {
	case h.Kind == reportkind.Memo && req.MemoType == "":
		jsonutil.FieldErrors(w, h.endpoint, map[string]string{"memoType": "memoType is a required field"})
		return
	case h.Kind == reportkind.EOD && req.MemoType != "":
		jsonutil.FieldErrors(w, h.endpoint, map[string]string{"memoType": "memoType is only allowed on memos"})
		return
	}

	content := htmlsanitize.Sanitize(req.Content)
	if content == "" {
		jsonutil.FieldErrors(w, h.endpoint, map[string]string{"content": "content cannot be blank"})
		return
	}

	// Both values were checked by the validator.
	projectID, _ := primitive.ObjectIDFromHex(req.ProjectID)
	reportDate, _ := time.Parse("2006-01-02", req.ReportDate)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	active, err := h.Assignments.IsActive(ctx, userID, projectID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, h.endpoint, "Failed to check assignment", err)
		return
	}
	if !active {
		jsonutil.Error(w, h.endpoint, http.StatusForbidden, "You are not assigned to this project")
		return
	}

	rep, err := h.Reports.Create(ctx, models.Report{
		UserID:     userID,
		ProjectID:  projectID,
		ReportDate: reportDate,
		MemoType:   req.MemoType,
		Content:    content,
	})
	if err != nil {
		jsonutil.ServerError(w, h.Log, h.endpoint, "Failed to save report", err)
		return
	}

	metrics.ReportsSubmitted.WithLabelValues(h.Kind.String()).Inc()
	h.invalidateStats(ctx)

	h.Log.Debug("report submitted",
		zap.String("kind", h.Kind.String()),
		zap.String("user_id", userID.Hex()),
		zap.String("project_id", projectID.Hex()),
		zap.String("report_date", req.ReportDate))

	jsonutil.Write(w, http.StatusCreated, rep)
}

type listResponse struct {
	Reports []models.Report `json:"reports"`
	HasMore bool            `json:"hasMore"`
}

// ServeList handles GET /api/eod and GET /api/memos: the caller's own
// reports, newest report date first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	limit := paging.ParseLimit(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Reports.ListByUser(ctx, userID, paging.LimitPlusOne(limit))
	if err != nil {
		jsonutil.ServerError(w, h.Log, h.endpoint, "Failed to fetch reports", err)
		return
	}
	hasMore := paging.TrimNewest(&rows, limit)

	jsonutil.Write(w, http.StatusOK, listResponse{Reports: rows, HasMore: hasMore})
}

func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Error(w, h.endpoint, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		jsonutil.Error(w, h.endpoint, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}
	return oid, true
}

func (h *Handler) invalidateStats(ctx context.Context) {
	if h.Stats == nil {
		return
	}
	if err := h.Stats.InvalidateAll(ctx); err != nil {
		h.Log.Warn("calendar cache invalidation failed", zap.Error(err))
	}
}
