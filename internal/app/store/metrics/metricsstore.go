package metricsstore

import (
	"context"
	"time"

	assignmentstore "github.com/dalemusser/workpulse/internal/app/store/assignments"
	projectstore "github.com/dalemusser/workpulse/internal/app/store/projects"
	reportstore "github.com/dalemusser/workpulse/internal/app/store/reports"
	userstore "github.com/dalemusser/workpulse/internal/app/store/users"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals exported as entity gauges.
type Counts struct {
	Projects          int64
	Admins            int64
	Members           int64
	ActiveAssignments int64
	EODReports        int64
	MemoReports       int64
	EODToday          int64
	MemoToday         int64
	ChatMessages      int64
}

// Map returns the counts keyed by the entity label used on /metrics.
func (c Counts) Map() map[string]int64 {
	return map[string]int64{
		"projects":           c.Projects,
		"admins":             c.Admins,
		"members":            c.Members,
		"active_assignments": c.ActiveAssignments,
		"eod_reports":        c.EODReports,
		"memo_reports":       c.MemoReports,
		"eod_reports_today":  c.EODToday,
		"memo_reports_today": c.MemoToday,
		"chat_messages":      c.ChatMessages,
	}
}

// FetchCounts returns the high-level document counts. today is the current
// instant in the configured zone; its calendar date picks the "today" counts.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchCounts(ctx context.Context, db *mongo.Database, today time.Time) Counts {
	var out Counts

	orZero := func(n int64, err error) int64 {
		if err != nil {
			return 0
		}
		return n
	}

	users := userstore.New(db)
	eod := reportstore.New(db, reportkind.EOD)
	memo := reportstore.New(db, reportkind.Memo)

	out.Projects = orZero(projectstore.New(db).Count(ctx, "active"))
	out.Admins = orZero(users.CountByRole(ctx, models.RoleAdmin)) +
		orZero(users.CountByRole(ctx, models.RoleSuperAdmin))
	out.Members = orZero(users.CountByRole(ctx, models.RoleMember))
	out.ActiveAssignments = orZero(assignmentstore.New(db).CountActive(ctx))
	out.EODReports = orZero(db.Collection(reportkind.EOD.Collection()).CountDocuments(ctx, bson.M{}))
	out.MemoReports = orZero(db.Collection(reportkind.Memo.Collection()).CountDocuments(ctx, bson.M{}))
	out.EODToday = orZero(eod.CountOn(ctx, today))
	out.MemoToday = orZero(memo.CountOn(ctx, today))
	out.ChatMessages = orZero(db.Collection("chat_messages").CountDocuments(ctx, bson.M{}))

	return out
}
