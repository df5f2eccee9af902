package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/validators"
	"github.com/dalemusser/workpulse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "projects", "project_assignments", "eod_reports", "memo_reports", "chat_messages"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestEnsureAll_RejectsBadMemoType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	now := time.Now().UTC()
	_, err := db.Collection("memo_reports").InsertOne(ctx, bson.M{
		"user_id":     primitive.NewObjectID(),
		"project_id":  primitive.NewObjectID(),
		"report_date": now,
		"memo_type":   "novel",
		"created_at":  now,
	})
	if err == nil {
		t.Error("expected schema validation to reject memo_type=novel")
	}
}

func TestEnsureAll_AcceptsValidAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("project_assignments").InsertOne(ctx, bson.M{
		"user_id":     primitive.NewObjectID(),
		"project_id":  primitive.NewObjectID(),
		"assigned_at": time.Now().UTC(),
		"is_active":   true,
	})
	if err != nil {
		t.Errorf("expected valid assignment to insert, got %v", err)
	}
}
