// internal/app/features/stats/handler.go
package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/workpulse/internal/app/attendance"
	"github.com/dalemusser/workpulse/internal/app/store/statscache"
	"github.com/dalemusser/workpulse/internal/app/system/jsonutil"
	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"github.com/dalemusser/workpulse/internal/app/system/normalize"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/dalemusser/workpulse/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const (
	calendarEndpoint   = "stats.calendar"
	dayDetailsEndpoint = "stats.day_details"
)

// Calendar is the aggregation the handlers serve. *attendance.Engine
// satisfies it.
type Calendar interface {
	Month(ctx context.Context, month time.Time, kind reportkind.Kind) ([]attendance.DayStat, error)
	DayDetails(ctx context.Context, day time.Time, kind reportkind.Kind) ([]attendance.DayDetailRow, error)
	Location() *time.Location
	Today() time.Time
}

// MonthCache stores finished months. *statscache.Cache satisfies it.
type MonthCache interface {
	Get(ctx context.Context, kind reportkind.Kind, month time.Time) ([]attendance.DayStat, bool, error)
	Set(ctx context.Context, kind reportkind.Kind, month time.Time, stats []attendance.DayStat) error
}

type Handler struct {
	Calendar Calendar
	Cache    MonthCache // nil when Redis is not configured
	Log      *zap.Logger
}

func NewHandler(cal Calendar, cache MonthCache, logger *zap.Logger) *Handler {
	return &Handler{Calendar: cal, Cache: cache, Log: logger}
}

// ServeCalendar handles GET /api/admin/stats/calendar?month=YYYY-MM&type=eod|memo.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	monthParam := normalize.QueryParam(q.Get("month"))
	if monthParam == "" {
		jsonutil.Error(w, calendarEndpoint, http.StatusBadRequest, "Month is required")
		return
	}
	loc := h.Calendar.Location()
	month, err := attendance.ParseMonth(monthParam, loc)
	if err != nil {
		jsonutil.Error(w, calendarEndpoint, http.StatusBadRequest, "Invalid month")
		return
	}
	kind, err := reportkind.Parse(q.Get("type"))
	if err != nil {
		jsonutil.Error(w, calendarEndpoint, http.StatusBadRequest, "Invalid type")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "calendar month")
	defer cancel()

	cacheable := h.Cache != nil && statscache.Cacheable(month, h.Calendar.Today(), loc)
	if cacheable {
		cached, found, err := h.Cache.Get(ctx, kind, month)
		if err != nil {
			h.Log.Warn("calendar cache read failed", zap.String("month", monthParam), zap.Error(err))
		} else if found {
			jsonutil.Write(w, http.StatusOK, cached)
			return
		}
	}

	start := time.Now()
	days, err := h.Calendar.Month(ctx, month, kind)
	metrics.ObserveSince(metrics.CalendarDuration.WithLabelValues(kind.String()), start)
	if err != nil {
		jsonutil.ServerError(w, h.Log.With(zap.String("month", monthParam), zap.String("type", kind.String())),
			calendarEndpoint, "Failed to fetch stats", err)
		return
	}

	if cacheable {
		if err := h.Cache.Set(ctx, kind, month, days); err != nil {
			h.Log.Warn("calendar cache write failed", zap.String("month", monthParam), zap.Error(err))
		}
	}

	jsonutil.Write(w, http.StatusOK, days)
}

// ServeDayDetails handles GET /api/admin/stats/day-details?date=YYYY-MM-DD&type=eod|memo.
func (h *Handler) ServeDayDetails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	dateParam := normalize.QueryParam(q.Get("date"))
	if dateParam == "" {
		jsonutil.Error(w, dayDetailsEndpoint, http.StatusBadRequest, "Date is required")
		return
	}
	day, err := attendance.ParseDay(dateParam, h.Calendar.Location())
	if err != nil {
		jsonutil.Error(w, dayDetailsEndpoint, http.StatusBadRequest, "Invalid date")
		return
	}
	kind, err := reportkind.Parse(q.Get("type"))
	if err != nil {
		jsonutil.Error(w, dayDetailsEndpoint, http.StatusBadRequest, "Invalid type")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "day details")
	defer cancel()

	start := time.Now()
	rows, err := h.Calendar.DayDetails(ctx, day, kind)
	metrics.ObserveSince(metrics.DayDetailsDuration.WithLabelValues(kind.String()), start)
	if err != nil {
		jsonutil.ServerError(w, h.Log.With(zap.String("date", dateParam), zap.String("type", kind.String())),
			dayDetailsEndpoint, "Failed to fetch day details", err)
		return
	}

	jsonutil.Write(w, http.StatusOK, rows)
}
