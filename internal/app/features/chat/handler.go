// internal/app/features/chat/handler.go
package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	assignmentstore "github.com/dalemusser/workpulse/internal/app/store/assignments"
	chatmessagestore "github.com/dalemusser/workpulse/internal/app/store/chatmessages"
	"github.com/dalemusser/workpulse/internal/app/system/authz"
	"github.com/dalemusser/workpulse/internal/app/system/htmlsanitize"
	"github.com/dalemusser/workpulse/internal/app/system/inputval"
	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"github.com/dalemusser/workpulse/internal/app/system/paging"
	"github.com/dalemusser/workpulse/internal/app/system/pubsub"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	endpoint = "chat"

	// EventMessageCreated is published to the project's room for every new message.
	EventMessageCreated = "message.created"
)

type Handler struct {
	Messages    *chatmessagestore.Store
	Assignments *assignmentstore.Store
	Publisher   pubsub.Publisher
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, pub pubsub.Publisher, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = pubsub.Nop{}
	}
	return &Handler{
		Messages:    chatmessagestore.New(db),
		Assignments: assignmentstore.New(db),
		Publisher:   pub,
		Log:         logger,
	}
}

type postRequest struct {
	Body string `json:"body" validate:"required,notblank,max=4000"`
}

type listResponse struct {
	Messages []models.ChatMessage `json:"messages"`
	HasMore  bool                 `json:"hasMore"`
}

// ServePost handles POST /api/projects/{projectID}/messages.
func (h *Handler) ServePost(w http.ResponseWriter, r *http.Request) {
	from, projectID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req postRequest
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
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to validate message", err)
		return
	}
	body := htmlsanitize.StripTags(req.Body)
	if body == "" {
		jsonutil.FieldErrors(w, endpoint, map[string]string{"body": "body cannot be blank"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	msg, err := h.Messages.Create(ctx, models.ChatMessage{
		ProjectID:  projectID,
		SenderID:   from.id,
		SenderName: from.name,
		Body:       body,
	})
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to save message", err)
		return
	}
	metrics.ChatMessages.Inc()

	// The message is stored; a failed broadcast only delays delivery until
	// clients next fetch the history.
	if err := h.Publisher.Publish(ctx, projectID.Hex(), EventMessageCreated, msg); err != nil {
		h.Log.Warn("chat publish failed",
			zap.String("project_id", projectID.Hex()),
			zap.String("message_id", msg.ID.Hex()),
			zap.Error(err))
	}

	jsonutil.Write(w, http.StatusCreated, msg)
}

// ServeList handles GET /api/projects/{projectID}/messages?before=&before_id=&limit=.
// Messages are returned oldest first; pass the first message's created_at
// as "before" and its id as "before_id" to page further back.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	before, err := paging.ParseBefore(r)
	if err != nil {
		jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid before cursor")
		return
	}
	cur := chatmessagestore.Cursor{Before: before}
	if s := query.Get(r, "before_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil || before.IsZero() {
			jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid before cursor")
			return
		}
		cur.BeforeID = id
	}
	limit := paging.ParseLimit(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Messages.ListByProject(ctx, projectID, cur, paging.LimitPlusOne(limit))
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to fetch messages", err)
		return
	}
	hasMore := paging.TrimOldest(&rows, limit)

	jsonutil.Write(w, http.StatusOK, listResponse{Messages: rows, HasMore: hasMore})
}

// caller is the signed-in user posting or reading a room.
type caller struct {
	id   primitive.ObjectID
	name string
}

// authorize resolves the project from the URL and checks that the caller is
// an admin or actively assigned to it.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (caller, primitive.ObjectID, bool) {
	_, name, userID, ok := authz.UserCtx(r)
	if !ok {
		jsonutil.Error(w, endpoint, http.StatusUnauthorized, "Unauthorized")
		return caller{}, primitive.NilObjectID, false
	}
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		jsonutil.Error(w, endpoint, http.StatusBadRequest, "Invalid project id")
		return caller{}, primitive.NilObjectID, false
	}
	c := caller{id: userID, name: name}
	if authz.IsAdmin(r) {
		return c, projectID, true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	active, err := h.Assignments.IsActive(ctx, userID, projectID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, endpoint, "Failed to check assignment", err)
		return caller{}, primitive.NilObjectID, false
	}
	if !active {
		jsonutil.Error(w, endpoint, http.StatusForbidden, "You are not assigned to this project")
		return caller{}, primitive.NilObjectID, false
	}
	return c, projectID, true
}
