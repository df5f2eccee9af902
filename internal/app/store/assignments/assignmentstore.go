// internal/app/store/assignments/assignmentstore.go
package assignmentstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/workpulse/internal/app/system/indexes"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotAssigned is returned by Deactivate when no active assignment exists.
var ErrNotAssigned = errors.New("user is not actively assigned to this project")

// Outcome describes what Assign did.
type Outcome string

const (
	Created       Outcome = "created"
	Reactivated   Outcome = "reactivated"
	AlreadyActive Outcome = "already_active"
)

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:   db.Collection("project_assignments"),
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureIndexes enforces one row per (user, project) and supports per-user
// and per-project listings.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_assignments_user_project"),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_assignments_project_active"),
		},
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "assigned_at", Value: 1}},
			Options: options.Index().SetName("idx_assignments_active_assignedat"),
		},
	})
}

// Assign makes userID an active member of projectID. A previously
// deactivated row is reactivated in place (AssignedAt is kept and
// LastActivatedAt is stamped); otherwise a new row is inserted.
func (s *Store) Assign(ctx context.Context, userID, projectID primitive.ObjectID) (models.ProjectAssignment, Outcome, error) {
	now := s.now()
	key := bson.M{"user_id": userID, "project_id": projectID}

	var a models.ProjectAssignment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "project_id": projectID, "is_active": false},
		bson.M{
			"$set":   bson.M{"is_active": true, "last_activated_at": now, "updated_at": now},
			"$unset": bson.M{"deactivated_at": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err == nil {
		return a, Reactivated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.ProjectAssignment{}, "", err
	}

	a = models.ProjectAssignment{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		ProjectID:  projectID,
		AssignedAt: now,
		IsActive:   true,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if !wafflemongo.IsDup(err) {
			return models.ProjectAssignment{}, "", err
		}
		// Row exists and is already active.
		var existing models.ProjectAssignment
		if err := s.c.FindOne(ctx, key).Decode(&existing); err != nil {
			return models.ProjectAssignment{}, "", err
		}
		return existing, AlreadyActive, nil
	}
	return a, Created, nil
}

// Deactivate marks the assignment inactive. Reporting history is kept.
func (s *Store) Deactivate(ctx context.Context, userID, projectID primitive.ObjectID) error {
	now := s.now()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "project_id": projectID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "deactivated_at": now, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotAssigned
	}
	return nil
}

// IsActive reports whether userID currently holds an active assignment on projectID.
func (s *Store) IsActive(ctx context.Context, userID, projectID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "project_id": projectID, "is_active": true}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// ListByUser returns a user's assignments, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, activeOnly bool) ([]models.ProjectAssignment, error) {
	filter := bson.M{"user_id": userID}
	if activeOnly {
		filter["is_active"] = true
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "assigned_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ProjectAssignment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActive returns the number of active assignments.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_active": true})
}
