package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParams adds chi URL parameters (key, value pairs) to the request
// context for handler tests that read chi.URLParam.
func WithChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user with the given role. A non-empty
// password is stored as a bcrypt hash.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role, password string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("hash password: %v", err)
		}
		u.PasswordHash = string(hash)
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin, "")
}

// CreateMember inserts a member user.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleMember, "")
}

// CreateProject inserts an active project.
func (f *Fixtures) CreateProject(ctx context.Context, name string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateAssignment inserts a project assignment.
func (f *Fixtures) CreateAssignment(ctx context.Context, userID, projectID primitive.ObjectID, assignedAt time.Time, active bool) models.ProjectAssignment {
	f.t.Helper()

	a := models.ProjectAssignment{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		ProjectID:  projectID,
		AssignedAt: assignedAt.UTC(),
		IsActive:   active,
		UpdatedAt:  time.Now().UTC(),
	}
	if !active {
		at := time.Now().UTC()
		a.DeactivatedAt = &at
	}
	if _, err := f.db.Collection("project_assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}

// CreateReport inserts a report into collection (eod_reports or
// memo_reports). reportDate is normalised to midnight UTC.
func (f *Fixtures) CreateReport(ctx context.Context, collection string, userID, projectID primitive.ObjectID, reportDate, createdAt time.Time, memoType string) models.Report {
	f.t.Helper()

	r := models.Report{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		ProjectID:  projectID,
		ReportDate: time.Date(reportDate.Year(), reportDate.Month(), reportDate.Day(), 0, 0, 0, 0, time.UTC),
		MemoType:   memoType,
		Content:    "test report",
		CreatedAt:  createdAt.UTC(),
	}
	if _, err := f.db.Collection(collection).InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}
	return r
}
