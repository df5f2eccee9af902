// internal/app/system/workers/entitygauges.go
package workers

import (
	"context"
	"sync"
	"time"

	metricsstore "github.com/dalemusser/workpulse/internal/app/store/metrics"
	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EntityGauges is a background worker that refreshes the entity count gauges.
type EntityGauges struct {
	db       *mongo.Database
	log      *zap.Logger
	interval time.Duration
	loc      *time.Location
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEntityGauges creates a new gauge refresh worker.
//
// Parameters:
//   - db: the application database
//   - logger: zap logger for logging
//   - interval: how often to recount (e.g., 1 minute)
//   - loc: zone whose calendar date defines "today" (nil means UTC)
func NewEntityGauges(db *mongo.Database, logger *zap.Logger, interval time.Duration, loc *time.Location) *EntityGauges {
	if loc == nil {
		loc = time.UTC
	}
	return &EntityGauges{
		db:       db,
		log:      logger,
		interval: interval,
		loc:      loc,
		stopCh:   make(chan struct{}),
	}
}

// Start refreshes the gauges once and then begins the background loop.
func (w *EntityGauges) Start() {
	w.refresh()
	w.wg.Add(1)
	go w.run()
	w.log.Info("entity gauge worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *EntityGauges) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("entity gauge worker stopped")
	})
}

func (w *EntityGauges) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *EntityGauges) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts := metricsstore.FetchCounts(ctx, w.db, time.Now().In(w.loc))
	for entity, n := range counts.Map() {
		metrics.Entities.WithLabelValues(entity).Set(float64(n))
	}
	w.log.Debug("entity gauges refreshed", zap.Any("counts", counts))
}
