package attendance

import (
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
)

// MonthInput is everything BuildMonth needs. Start and End are midnights in
// Location; Today is midnight of the current day in Location.
type MonthInput struct {
	Start, End  time.Time
	Today       time.Time
	Location    *time.Location
	Kind        reportkind.Kind
	EOD         []Submission
	Memo        []Submission
	Assignments []Assignment
}

// BuildMonth computes one DayStat per day from Start through End.
//
// For each day D:
//   - submitted pairs are the distinct (user, project) pairs with a report of
//     Kind dated D; several rows for one pair count once
//   - userCount is the number of users with both an EOD and a memo dated D,
//     whatever Kind is
//   - an assignment is expected on D when it is active now and was assigned
//     on or before D; missedCount counts expected pairs with no submission,
//     and is zero on weekends
//   - projectCount is the number of distinct projects among expected pairs
//   - days after Today report zero for every count
func BuildMonth(in MonthInput) []DayStat {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}

	eodByDay := groupByDay(in.EOD)
	memoByDay := groupByDay(in.Memo)

	type eligible struct {
		pair        pair
		assignedKey string
	}
	var active []eligible
	for _, a := range in.Assignments {
		if !a.IsActive {
			continue
		}
		active = append(active, eligible{pair: assignmentPair(a), assignedKey: instantKey(a.AssignedAt, loc)})
	}

	days := Days(in.Start, in.End)
	out := make([]DayStat, 0, len(days))
	for _, day := range days {
		key := day.Format(DayLayout)
		stat := DayStat{
			Date:      day,
			IsWeekend: IsWeekend(day),
			IsFuture:  day.After(in.Today),
		}
		if stat.IsFuture {
			out = append(out, stat)
			continue
		}

		current := eodByDay[key]
		if in.Kind == reportkind.Memo {
			current = memoByDay[key]
		}
		submitted := make(map[pair]struct{}, len(current))
		for _, s := range current {
			submitted[submissionPair(s)] = struct{}{}
		}

		projects := make(map[string]struct{})
		missed := make(map[pair]struct{})
		for _, a := range active {
			if a.assignedKey > key {
				continue
			}
			projects[a.pair.projectID] = struct{}{}
			if _, ok := submitted[a.pair]; !ok {
				missed[a.pair] = struct{}{}
			}
		}

		stat.SubmittedCount = len(submitted)
		stat.UserCount = countUsersInBoth(eodByDay[key], memoByDay[key])
		stat.ProjectCount = len(projects)
		if !stat.IsWeekend {
			stat.MissedCount = len(missed)
		}
		out = append(out, stat)
	}
	return out
}

func groupByDay(rows []Submission) map[string][]Submission {
	out := make(map[string][]Submission)
	for _, s := range rows {
		k := calendarKey(s.ReportDate)
		out[k] = append(out[k], s)
	}
	return out
}

func countUsersInBoth(eods, memos []Submission) int {
	eodUsers := make(map[string]struct{}, len(eods))
	for _, s := range eods {
		eodUsers[s.UserID] = struct{}{}
	}
	both := make(map[string]struct{})
	for _, s := range memos {
		if _, ok := eodUsers[s.UserID]; ok {
			both[s.UserID] = struct{}{}
		}
	}
	return len(both)
}
