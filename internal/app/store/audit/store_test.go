package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/workpulse/internal/app/store/audit"
	"github.com/dalemusser/workpulse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	base := time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC)

	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &userID, Success: true, Timestamp: base},
		{Category: audit.CategoryAdmin, EventType: audit.EventAssignmentCreated, UserID: &userID, ProjectID: &projectID, Success: true, Timestamp: base.Add(time.Hour)},
		{Category: audit.CategoryAdmin, EventType: audit.EventAssignmentDeactivated, UserID: &userID, ProjectID: &projectID, Success: true, Timestamp: base.Add(2 * time.Hour)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	got, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 admin events, got %d", len(got))
	}
	if got[0].EventType != audit.EventAssignmentDeactivated {
		t.Errorf("expected newest first, got %s", got[0].EventType)
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{ProjectID: &projectID, EventType: audit.EventAssignmentCreated})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 created event for project, got %d", n)
	}

	start := base.Add(30 * time.Minute)
	got, err = store.Query(ctx, audit.QueryFilter{StartTime: &start})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 events after start, got %d", len(got))
	}
}

func TestStore_GetFailedLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, et := range []string{
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedRateLimit,
	} {
		if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: et}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	got, err := store.GetFailedLogins(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("GetFailedLogins failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 failed logins, got %d", len(got))
	}
}
