// internal/app/store/reports/reportstore.go
package reportstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/indexes"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrBadMemoType   = errors.New(`memo_type must be "short" or "universal"`)
	errMemoTypeOnEOD = errors.New("memo_type is only valid on memos")
)

// Store reads and writes one kind of report. EOD reports and memos live in
// separate collections with the same shape.
type Store struct {
	c    *mongo.Collection
	kind reportkind.Kind
}

func New(db *mongo.Database, kind reportkind.Kind) *Store {
	return &Store{c: db.Collection(kind.Collection()), kind: kind}
}

// EnsureIndexes supports date-window scans and per-user history.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "report_date", Value: 1}, {Key: "user_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_" + s.c.Name() + "_date_user_project"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "report_date", Value: -1}},
			Options: options.Index().SetName("idx_" + s.c.Name() + "_user_date"),
		},
	})
}

// CivilDate returns midnight UTC of t's calendar date as seen in t's own
// location. Report dates are always stored in this form.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create inserts r, normalizing ReportDate to a civil date and stamping
// CreatedAt when unset. Memos require a memo type; EOD reports reject one.
func (s *Store) Create(ctx context.Context, r models.Report) (models.Report, error) {
	switch s.kind {
	case reportkind.Memo:
		if r.MemoType != models.MemoTypeShort && r.MemoType != models.MemoTypeUniversal {
			return models.Report{}, ErrBadMemoType
		}
	default:
		if r.MemoType != "" {
			return models.Report{}, errMemoTypeOnEOD
		}
	}

	r.ID = primitive.NewObjectID()
	r.ReportDate = CivilDate(r.ReportDate)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// ListByUser returns a user's reports, newest report date first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "report_date", Value: -1}, {Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountOn returns how many reports were filed for day's civil date.
func (s *Store) CountOn(ctx context.Context, day time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"report_date": CivilDate(day)})
}
