package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func januaryInput(kind reportkind.Kind) MonthInput {
	start, end := GridRange(day("2026-01-01"), time.UTC)
	return MonthInput{
		Start:    start,
		End:      end,
		Today:    day("2026-01-20"),
		Location: time.UTC,
		Kind:     kind,
	}
}

func TestBuildMonth_MissedOnWeekday(t *testing.T) {
	in := januaryInput(reportkind.EOD)
	in.Assignments = []Assignment{
		{UserID: "u1", ProjectID: "p1", AssignedAt: at("2026-01-05 09:00"), IsActive: true},
	}

	stats := BuildMonth(in)

	require.Len(t, stats, 35)
	tue := statFor(stats, "2026-01-13")
	assert.False(t, tue.IsWeekend)
	assert.False(t, tue.IsFuture)
	assert.Equal(t, 1, tue.MissedCount)
	assert.Equal(t, 0, tue.SubmittedCount)
	assert.Equal(t, 1, tue.ProjectCount)
}

func TestBuildMonth_WeekendNeverMissed(t *testing.T) {
	in := januaryInput(reportkind.EOD)
	in.Assignments = []Assignment{
		{UserID: "u1", ProjectID: "p1", AssignedAt: at("2026-01-05 09:00"), IsActive: true},
	}

	stats := BuildMonth(in)

	for _, d := range []string{"2026-01-10", "2026-01-11", "2026-01-17", "2026-01-18"} {
		s := statFor(stats, d)
		assert.True(t, s.IsWeekend, d)
		assert.Equal(t, 0, s.MissedCount, d)
		assert.Equal(t, 1, s.ProjectCount, "projects still counted on %s", d)
	}
}

func TestBuildMonth_DuplicateMemosCountOnce(t *testing.T) {
	in := januaryInput(reportkind.Memo)
	in.Assignments = []Assignment{
		{UserID: "u1", ProjectID: "p1", AssignedAt: at("2026-01-01 09:00"), IsActive: true},
	}
	in.Memo = []Submission{
		{ID: "m1", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-14"), CreatedAt: at("2026-01-14 10:00")},
		{ID: "m2", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-14"), CreatedAt: at("2026-01-14 17:00")},
	}

	s := statFor(BuildMonth(in), "2026-01-14")

	assert.Equal(t, 1, s.SubmittedCount)
	assert.Equal(t, 0, s.MissedCount)
}

func TestBuildMonth_FutureDaysAreZero(t *testing.T) {
	in := januaryInput(reportkind.EOD)
	in.Assignments = []Assignment{
		{UserID: "u1", ProjectID: "p1", AssignedAt: at("2026-01-01 09:00"), IsActive: true},
	}
	// A report dated in the future still must not show up.
	in.EOD = []Submission{
		{ID: "e1", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-22"), CreatedAt: at("2026-01-19 10:00")},
	}
	in.Memo = []Submission{
		{ID: "m1", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-22"), CreatedAt: at("2026-01-19 10:00")},
	}

	stats := BuildMonth(in)

	for _, s := range stats {
		if !s.Date.After(in.Today) {
			assert.False(t, s.IsFuture, s.Date.Format(DayLayout))
			continue
		}
		assert.True(t, s.IsFuture, s.Date.Format(DayLayout))
		assert.Zero(t, s.SubmittedCount)
		assert.Zero(t, s.MissedCount)
		assert.Zero(t, s.UserCount)
		assert.Zero(t, s.ProjectCount)
	}
	// Today itself is not in the future.
	assert.Equal(t, 1, statFor(stats, "2026-01-20").MissedCount)
}

func TestBuildMonth_EligibilityUsesAssignedAtAndCurrentState(t *testing.T) {
	reactivated := at("2026-01-15 08:00")
	in := januaryInput(reportkind.EOD)
	in.Assignments = []Assignment{
		// Assigned mid-month: expected from the 8th onwards.
		{UserID: "u1", ProjectID: "p1", AssignedAt: at("2026-01-08 16:30"), IsActive: true},
		// Reactivated on the 15th: lastActivatedAt does not narrow eligibility.
		{UserID: "u2", ProjectID: "p1", AssignedAt: at("2026-01-02 09:00"), IsActive: true, LastActivatedAt: &reactivated},
		// Inactive now: never expected, even on days it was historically active.
		{UserID: "u3", ProjectID: "p2", AssignedAt: at("2026-01-01 09:00"), IsActive: false},
	}

	stats := BuildMonth(in)

	assert.Equal(t, 1, statFor(stats, "2026-01-07").MissedCount) // only u2
	assert.Equal(t, 2, statFor(stats, "2026-01-08").MissedCount) // assigned-at day counts
	assert.Equal(t, 2, statFor(stats, "2026-01-13").MissedCount)
	assert.Equal(t, 1, statFor(stats, "2026-01-13").ProjectCount)
	assert.Equal(t, 0, statFor(stats, "2026-01-01").MissedCount)
}

func TestBuildMonth_UserCountNeedsBothKinds(t *testing.T) {
	for _, kind := range reportkind.All() {
		t.Run(kind.String(), func(t *testing.T) {
			in := januaryInput(kind)
			in.EOD = []Submission{
				{ID: "e1", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-14")},
				{ID: "e2", UserID: "u2", ProjectID: "p1", ReportDate: day("2026-01-14")},
				{ID: "e3", UserID: "u1", ProjectID: "p2", ReportDate: day("2026-01-14")},
			}
			in.Memo = []Submission{
				{ID: "m1", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-14")},
				{ID: "m2", UserID: "u3", ProjectID: "p1", ReportDate: day("2026-01-14")},
			}

			s := statFor(BuildMonth(in), "2026-01-14")

			assert.Equal(t, 1, s.UserCount)
			if kind == reportkind.EOD {
				assert.Equal(t, 3, s.SubmittedCount)
			} else {
				assert.Equal(t, 2, s.SubmittedCount)
			}
		})
	}
}

func TestBuildMonth_SubmissionsFromUnassignedPairsStillCount(t *testing.T) {
	in := januaryInput(reportkind.EOD)
	in.Assignments = []Assignment{
		{UserID: "u1", ProjectID: "p1", AssignedAt: at("2026-01-01 09:00"), IsActive: true},
	}
	in.EOD = []Submission{
		{ID: "e1", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-14")},
		{ID: "e2", UserID: "u9", ProjectID: "p9", ReportDate: day("2026-01-14")},
	}

	s := statFor(BuildMonth(in), "2026-01-14")

	assert.Equal(t, 2, s.SubmittedCount)
	assert.Equal(t, 0, s.MissedCount)
	assert.Equal(t, 1, s.ProjectCount)
}

func TestBuildMonth_AssignedAtUsesLocationDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start, end := GridRange(time.Date(2026, 1, 1, 0, 0, 0, 0, ny), ny)
	in := MonthInput{
		Start:    start,
		End:      end,
		Today:    time.Date(2026, 1, 20, 0, 0, 0, 0, ny),
		Location: ny,
		Kind:     reportkind.EOD,
		// 03:00 UTC on the 14th is the evening of the 13th in New York.
		Assignments: []Assignment{
			{UserID: "u1", ProjectID: "p1", AssignedAt: time.Date(2026, 1, 14, 3, 0, 0, 0, time.UTC), IsActive: true},
		},
	}

	stats := BuildMonth(in)

	assert.Equal(t, 0, statFor(stats, "2026-01-12").MissedCount)
	assert.Equal(t, 1, statFor(stats, "2026-01-13").MissedCount)
}

func TestBuildMonth_OrderedAscending(t *testing.T) {
	stats := BuildMonth(januaryInput(reportkind.EOD))

	for i := 1; i < len(stats); i++ {
		assert.True(t, stats[i].Date.After(stats[i-1].Date))
	}
	assert.Equal(t, "2025-12-28", stats[0].Date.Format(DayLayout))
	assert.Equal(t, "2026-01-31", stats[len(stats)-1].Date.Format(DayLayout))
}

func TestEngineMonth_FetchesGridWindow(t *testing.T) {
	src := &fakeSource{
		assignments: []Assignment{
			{UserID: "u1", ProjectID: "p1", AssignedAt: at("2026-01-05 09:00"), IsActive: true},
		},
		reports: map[reportkind.Kind][]Submission{
			reportkind.EOD: {
				{ID: "e1", UserID: "u1", ProjectID: "p1", ReportDate: day("2026-01-12"), CreatedAt: at("2026-01-12 18:00")},
			},
		},
	}
	eng := New(src, WithLocation(time.UTC), WithClock(fixedClock("2026-01-20 15:00")))

	stats, err := eng.Month(context.Background(), day("2026-01-01"), reportkind.EOD)
	require.NoError(t, err)

	require.Len(t, src.calls, 2)
	for _, c := range src.calls {
		assert.Equal(t, "2025-12-28", c.from.Format(DayLayout))
		assert.Equal(t, "2026-01-31", c.to.Format(DayLayout))
	}
	assert.Equal(t, 1, statFor(stats, "2026-01-12").SubmittedCount)
	assert.Equal(t, 0, statFor(stats, "2026-01-12").MissedCount)
	assert.Equal(t, 1, statFor(stats, "2026-01-13").MissedCount)
}

func TestEngineMonth_PropagatesSourceErrors(t *testing.T) {
	boom := errors.New("connection reset")
	eng := New(&fakeSource{err: boom}, WithLocation(time.UTC), WithClock(fixedClock("2026-01-20 15:00")))

	stats, err := eng.Month(context.Background(), day("2026-01-01"), reportkind.EOD)

	assert.Nil(t, stats)
	assert.ErrorIs(t, err, boom)
}
