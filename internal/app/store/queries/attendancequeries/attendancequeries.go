// Package attendancequeries reads the joined assignment and report
// snapshots the attendance calendar aggregates.
package attendancequeries

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record

import (
	"context"
	"time"

	"github.com/dalemusser/workpulse/internal/app/attendance"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Source implements attendance.Source over MongoDB. Both queries join the
// users collection and drop administrator accounts.
type Source struct {
	db *mongo.Database
}

var _ attendance.Source = (*Source)(nil)

func New(db *mongo.Database) *Source {
	return &Source{db: db}
}

func nonAdminMatch() bson.M {
	return bson.M{"$match": bson.M{
		"user.role": bson.M{"$nin": bson.A{models.RoleAdmin, models.RoleSuperAdmin}},
	}}
}

func lookupOne(from, localField, as string) bson.M {
	return bson.M{"$lookup": bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": "_id",
		"as":           as,
	}}
}

type assignmentRow struct {
	UserID          primitive.ObjectID `bson:"user_id"`
	ProjectID       primitive.ObjectID `bson:"project_id"`
	AssignedAt      time.Time          `bson:"assigned_at"`
	IsActive        bool               `bson:"is_active"`
	LastActivatedAt *time.Time         `bson:"last_activated_at"`
	UserName        string             `bson:"user_name"`
	ProjectName     string             `bson:"project_name"`
}

// Assignments returns every assignment (active or not) for non-admin users,
// joined to user and project names. Rows whose user or project no longer
// exists are dropped.
func (s *Source) Assignments(ctx context.Context) ([]attendance.Assignment, error) {
	pipeline := []bson.M{
		lookupOne("users", "user_id", "user"),
		{"$unwind": "$user"},
		nonAdminMatch(),
		lookupOne("projects", "project_id", "project"),
		{"$unwind": "$project"},
		{"$project": bson.M{
			"user_id":           1,
			"project_id":        1,
			"assigned_at":       1,
			"is_active":         1,
			"last_activated_at": 1,
			"user_name":         "$user.full_name",
			"project_name":      "$project.name",
		}},
	}

	cur, err := s.db.Collection("project_assignments").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []attendance.Assignment{}
	for cur.Next(ctx) {
		var row assignmentRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, attendance.Assignment{
			UserID:          row.UserID.Hex(),
			UserName:        row.UserName,
			ProjectID:       row.ProjectID.Hex(),
			ProjectName:     row.ProjectName,
			AssignedAt:      row.AssignedAt,
			IsActive:        row.IsActive,
			LastActivatedAt: row.LastActivatedAt,
		})
	}
	return out, cur.Err()
}

type submissionRow struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      primitive.ObjectID `bson:"user_id"`
	ProjectID   primitive.ObjectID `bson:"project_id"`
	ReportDate  time.Time          `bson:"report_date"`
	CreatedAt   time.Time          `bson:"created_at"`
	UserName    string             `bson:"user_name"`
	ProjectName string             `bson:"project_name"`
}

// Submissions returns reports of kind whose civil report date lies in
// [from, to], oldest first, joined to the submitting user (admins dropped)
// and, when it still exists, the project.
func (s *Source) Submissions(ctx context.Context, kind reportkind.Kind, from, to time.Time) ([]attendance.Submission, error) {
	lo := civil(from)
	hi := civil(to)

	pipeline := []bson.M{
		{"$match": bson.M{"report_date": bson.M{"$gte": lo, "$lte": hi}}},
		{"$sort": bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		lookupOne("users", "user_id", "user"),
		{"$unwind": "$user"},
		nonAdminMatch(),
		lookupOne("projects", "project_id", "project"),
		{"$unwind": bson.M{"path": "$project", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"user_id":      1,
			"project_id":   1,
			"report_date":  1,
			"created_at":   1,
			"user_name":    "$user.full_name",
			"project_name": bson.M{"$ifNull": bson.A{"$project.name", ""}},
		}},
	}

	cur, err := s.db.Collection(kind.Collection()).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []attendance.Submission{}
	for cur.Next(ctx) {
		var row submissionRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, attendance.Submission{
			ID:          row.ID.Hex(),
			UserID:      row.UserID.Hex(),
			UserName:    row.UserName,
			ProjectID:   row.ProjectID.Hex(),
			ProjectName: row.ProjectName,
			// The driver decodes dates in UTC, which keeps the stored
			// civil date intact.
			ReportDate: row.ReportDate.UTC(),
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, cur.Err()
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
