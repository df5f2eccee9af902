package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(s string) func() time.Time {
	t := at(s)
	return func() time.Time { return t }
}

// fakeSource serves canned rows and records the windows it was asked for.
type fakeSource struct {
	mu          sync.Mutex
	assignments []Assignment
	reports     map[reportkind.Kind][]Submission
	err         error
	calls       []fakeCall
}

type fakeCall struct {
	kind     reportkind.Kind
	from, to time.Time
}

func (f *fakeSource) Assignments(ctx context.Context) ([]Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assignments, nil
}

func (f *fakeSource) Submissions(ctx context.Context, kind reportkind.Kind, from, to time.Time) ([]Submission, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{kind, from, to})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []Submission
	for _, s := range f.reports[kind] {
		k := calendarKey(s.ReportDate)
		if k >= from.Format(DayLayout) && k <= to.Format(DayLayout) {
			out = append(out, s)
		}
	}
	return out, nil
}

func statFor(stats []DayStat, d string) DayStat {
	for _, s := range stats {
		if s.Date.Format(DayLayout) == d {
			return s
		}
	}
	panic("no stat for " + d)
}
