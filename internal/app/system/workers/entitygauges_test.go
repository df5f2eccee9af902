package workers

import (
	"testing"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"github.com/dalemusser/workpulse/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestEntityGauges_StartRefreshesImmediately(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProject(ctx, "Apollo")
	fixtures.CreateProject(ctx, "Gemini")
	fixtures.CreateMember(ctx, "Alice", "alice@example.com")

	w := NewEntityGauges(db, zap.NewNop(), time.Hour, nil)
	w.Start()
	defer w.Stop()

	if got := promtest.ToFloat64(metrics.Entities.WithLabelValues("projects")); got != 2 {
		t.Errorf("projects gauge: got %v, want 2", got)
	}
	if got := promtest.ToFloat64(metrics.Entities.WithLabelValues("members")); got != 1 {
		t.Errorf("members gauge: got %v, want 1", got)
	}
}

func TestEntityGauges_StopIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	w := NewEntityGauges(db, zap.NewNop(), time.Hour, nil)
	w.Start()
	w.Stop()
	w.Stop()
}
