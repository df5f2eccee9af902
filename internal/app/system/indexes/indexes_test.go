package indexes_test

import (
	"testing"

	"github.com/dalemusser/workpulse/internal/app/system/indexes"
	"github.com/dalemusser/workpulse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestKeySig(t *testing.T) {
	got := indexes.KeySig(bson.D{{Key: "user_id", Value: 1}, {Key: "report_date", Value: -1}})
	if got != "user_id:1, report_date:-1" {
		t.Errorf("unexpected signature %q", got)
	}
}

func listNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode: %v", err)
		}
		names[idx["name"].(string)] = true
	}
	return names
}

func TestEnsureSet_CreatesAndIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("widgets")
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_widgets_code")},
		{Keys: bson.D{{Key: "created_at", Value: 1}}, Options: options.Index().SetName("idx_widgets_created")},
	}

	if err := indexes.EnsureSet(ctx, coll, models); err != nil {
		t.Fatalf("first EnsureSet failed: %v", err)
	}
	if err := indexes.EnsureSet(ctx, coll, models); err != nil {
		t.Fatalf("second EnsureSet failed: %v", err)
	}

	names := listNames(t, coll)
	for _, want := range []string{"uniq_widgets_code", "idx_widgets_created"} {
		if !names[want] {
			t.Errorf("expected index %q, have %v", want, names)
		}
	}
}

func TestEnsureSet_RenamesIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("widgets")
	keys := bson.D{{Key: "code", Value: 1}}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: options.Index().SetName("old_name")}); err != nil {
		t.Fatalf("seed index: %v", err)
	}

	err := indexes.EnsureSet(ctx, coll, []mongo.IndexModel{{Keys: keys, Options: options.Index().SetName("new_name")}})
	if err != nil {
		t.Fatalf("EnsureSet failed: %v", err)
	}

	names := listNames(t, coll)
	if names["old_name"] || !names["new_name"] {
		t.Errorf("expected rename old_name -> new_name, have %v", names)
	}
}
