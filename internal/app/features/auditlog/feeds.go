// internal/app/features/auditlog/feeds.go
package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/workpulse/internal/app/store/audit"
	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"github.com/dalemusser/workpulse/internal/app/system/paging"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// failedLoginWindow is how far back /failed-logins looks when no "since"
// date is given.
const failedLoginWindow = 24 * time.Hour

// ServeRecent handles GET /api/admin/audit/recent?user_id=&limit=.
// Without user_id it returns the newest events of every kind.
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	limit := int64(paging.ParseLimit(r))

	var userID primitive.ObjectID
	if raw := query.Get(r, "user_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			jsonutil.FieldErrors(w, endpoint, map[string]string{"user_id": "user_id must be a valid id"})
			return
		}
		userID = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		events []audit.Event
		err    error
	)
	if userID.IsZero() {
		events, err = h.Events.GetRecent(ctx, limit)
	} else {
		events, err = h.Events.GetByUser(ctx, userID, limit)
	}
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to fetch audit events", err)
		return
	}

	jsonutil.Write(w, http.StatusOK, feedResponse{Events: h.items(ctx, events)})
}

// ServeFailedLogins handles GET /api/admin/audit/failed-logins?since=YYYY-MM-DD&limit=.
// since is a UTC date and defaults to the last 24 hours.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	limit := int64(paging.ParseLimit(r))

	since := time.Now().UTC().Add(-failedLoginWindow)
	if raw := query.Get(r, "since"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			jsonutil.FieldErrors(w, endpoint, map[string]string{"since": "since must be a date (YYYY-MM-DD)"})
			return
		}
		since = t
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.GetFailedLogins(ctx, since, limit)
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to fetch failed logins", err)
		return
	}

	jsonutil.Write(w, http.StatusOK, feedResponse{Events: h.items(ctx, events)})
}
