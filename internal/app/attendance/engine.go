package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"golang.org/x/sync/errgroup"
)

// Engine fetches snapshots from a Source and aggregates them.
type Engine struct {
	src Source
	loc *time.Location
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the zone whose midnight defines "today" and calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New returns an Engine reading from src. Defaults: time.Local and time.Now.
func New(src Source, opts ...Option) *Engine {
	e := &Engine{src: src, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the engine's calendar zone.
func (e *Engine) Location() *time.Location { return e.loc }

// Today returns midnight of the current day in the engine's zone.
func (e *Engine) Today() time.Time { return StartOfDay(e.now(), e.loc) }

// Month returns one DayStat per day of the calendar grid around month.
// The EOD, memo and assignment snapshots are fetched concurrently; the first
// failure cancels the others and is returned.
func (e *Engine) Month(ctx context.Context, month time.Time, kind reportkind.Kind) ([]DayStat, error) {
	start, end := GridRange(month, e.loc)

	var (
		eods, memos []Submission
		assignments []Assignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := e.src.Submissions(gctx, reportkind.EOD, start, end)
		if err != nil {
			return fmt.Errorf("fetch eod reports: %w", err)
		}
		eods = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.src.Submissions(gctx, reportkind.Memo, start, end)
		if err != nil {
			return fmt.Errorf("fetch memo reports: %w", err)
		}
		memos = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.src.Assignments(gctx)
		if err != nil {
			return fmt.Errorf("fetch assignments: %w", err)
		}
		assignments = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildMonth(MonthInput{
		Start:       start,
		End:         end,
		Today:       e.Today(),
		Location:    e.loc,
		Kind:        kind,
		EOD:         eods,
		Memo:        memos,
		Assignments: assignments,
	}), nil
}

// DayDetails returns the roster for day. Days after today yield an empty,
// non-nil slice without touching the Source.
func (e *Engine) DayDetails(ctx context.Context, day time.Time, kind reportkind.Kind) ([]DayDetailRow, error) {
	target := StartOfDay(day, e.loc)
	if target.After(e.Today()) {
		return []DayDetailRow{}, nil
	}

	var (
		subs        []Submission
		assignments []Assignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := e.src.Assignments(gctx)
		if err != nil {
			return fmt.Errorf("fetch assignments: %w", err)
		}
		assignments = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.src.Submissions(gctx, kind, target, target)
		if err != nil {
			return fmt.Errorf("fetch %s reports: %w", kind, err)
		}
		subs = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildDayDetails(DayInput{
		Day:         target,
		Location:    e.loc,
		Submissions: subs,
		Assignments: assignments,
	}), nil
}
