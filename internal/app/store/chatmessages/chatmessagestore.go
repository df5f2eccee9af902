// internal/app/store/chatmessages/chatmessagestore.go
package chatmessagestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/indexes"
	"github.com/dalemusser/workpulse/internal/app/system/paging"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxPage caps how many messages one ListByProject call returns. It leaves
// room for the look-ahead row of a full page.
const MaxPage = paging.MaxPageSize + 1

var errEmptyBody = errors.New("message body is empty")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chat_messages")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_chat_project_created"),
		},
	})
}

// Create stores m with a fresh ID and timestamp.
func (s *Store) Create(ctx context.Context, m models.ChatMessage) (models.ChatMessage, error) {
	if m.Body == "" {
		return models.ChatMessage{}, errEmptyBody
	}
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ChatMessage{}, err
	}
	return m, nil
}

// Cursor marks the oldest message a client already holds. Messages sort by
// (CreatedAt, ID), so messages sharing a timestamp still page cleanly.
// A zero Before lists from the newest message; a zero BeforeID compares on
// the timestamp alone.
type Cursor struct {
	Before   time.Time
	BeforeID primitive.ObjectID
}

func (c Cursor) filter() bson.M {
	switch {
	case c.Before.IsZero():
		return nil
	case c.BeforeID.IsZero():
		return bson.M{"created_at": bson.M{"$lt": c.Before}}
	default:
		return bson.M{"$or": bson.A{
			bson.M{"created_at": bson.M{"$lt": c.Before}},
			bson.M{"created_at": c.Before, "_id": bson.M{"$lt": c.BeforeID}},
		}}
	}
}

// ListByProject returns up to limit messages older than the cursor, oldest
// first so callers can render them in order.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, cur Cursor, limit int64) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > MaxPage {
		limit = MaxPage
	}
	filter := bson.M{"project_id": projectID}
	for k, v := range cur.filter() {
		filter[k] = v
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	rows, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer rows.Close(ctx)

	out := []models.ChatMessage{}
	if err := rows.All(ctx, &out); err != nil {
		return nil, err
	}
	paging.Reverse(out)
	return out, nil
}
