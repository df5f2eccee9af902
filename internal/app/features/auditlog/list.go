// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/workpulse/internal/app/store/audit"
	"github.com/dalemusser/workpulse/internal/app/system/inputval"
	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"github.com/dalemusser/workpulse/internal/app/system/paging"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /api/admin/audit.
//
// Query parameters: category, event_type, start_date, end_date (YYYY-MM-DD,
// inclusive, UTC), user_id, project_id, page (1-based).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := listQuery{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event_type"),
		StartDate: query.Get(r, "start_date"),
		EndDate:   query.Get(r, "end_date"),
		UserID:    query.Get(r, "user_id"),
		ProjectID: query.Get(r, "project_id"),
	}
	if err := inputval.Struct(q); err != nil {
		var fe inputval.FieldErrors
		if errors.As(err, &fe) {
			jsonutil.FieldErrors(w, endpoint, fe)
			return
		}
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to validate filter", err)
		return
	}

	page := 1
	if p, err := strconv.Atoi(query.Get(r, "page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  q.Category,
		EventType: q.EventType,
		Limit:     paging.PageSize,
		Offset:    int64((page - 1) * paging.PageSize),
	}
	if q.StartDate != "" {
		t, _ := time.Parse("2006-01-02", q.StartDate)
		filter.StartTime = &t
	}
	if q.EndDate != "" {
		t, _ := time.Parse("2006-01-02", q.EndDate)
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}
	if q.UserID != "" {
		id, _ := primitive.ObjectIDFromHex(q.UserID)
		filter.UserID = &id
	}
	if q.ProjectID != "" {
		id, _ := primitive.ObjectIDFromHex(q.ProjectID)
		filter.ProjectID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to fetch audit events", err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to count audit events", err)
		return
	}

	items := h.items(ctx, events)

	totalPages := int((total + paging.PageSize - 1) / paging.PageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	jsonutil.Write(w, http.StatusOK, listResponse{
		Events:     items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	})
}

// ServeEventTypes handles GET /api/admin/audit/event-types.
func (h *Handler) ServeEventTypes(w http.ResponseWriter, r *http.Request) {
	jsonutil.Write(w, http.StatusOK, allCategories())
}

// items converts events to response rows with user and project names
// resolved.
func (h *Handler) items(ctx context.Context, events []audit.Event) []listItem {
	userNames, projectNames := h.resolveNames(ctx, events)

	out := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Category:  e.Category,
			EventType: e.EventType,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = nameOr(userNames, *e.ActorID)
		}
		if e.UserID != nil {
			item.TargetName = nameOr(userNames, *e.UserID)
		}
		if e.ProjectID != nil {
			item.ProjectName = nameOr(projectNames, *e.ProjectID)
		}
		out = append(out, item)
	}
	return out
}

// resolveNames batch-loads user and project names referenced by events.
// Lookup failures are logged and leave ids unresolved.
func (h *Handler) resolveNames(ctx context.Context, events []audit.Event) (users, projects map[primitive.ObjectID]string) {
	userIDs := make(map[primitive.ObjectID]struct{})
	projectIDs := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			userIDs[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			userIDs[*e.UserID] = struct{}{}
		}
		if e.ProjectID != nil {
			projectIDs[*e.ProjectID] = struct{}{}
		}
	}

	users = make(map[primitive.ObjectID]string, len(userIDs))
	if len(userIDs) > 0 {
		found, err := h.Users.GetByIDs(ctx, keys(userIDs))
		if err != nil {
			h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		}
		for _, u := range found {
			users[u.ID] = u.FullName
		}
	}

	projects = make(map[primitive.ObjectID]string, len(projectIDs))
	if len(projectIDs) > 0 {
		found, err := h.Projects.GetByIDs(ctx, keys(projectIDs))
		if err != nil {
			h.Log.Warn("failed to fetch project names for audit log", zap.Error(err))
		}
		for _, p := range found {
			projects[p.ID] = p.Name
		}
	}
	return users, projects
}

func keys(set map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func nameOr(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id.Hex()
}
