package attendance

import (
	"sort"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
)

// DayInput is everything BuildDayDetails needs. Day is a midnight in Location.
type DayInput struct {
	Day         time.Time
	Location    *time.Location
	Submissions []Submission
	Assignments []Assignment
}

// BuildDayDetails lists every pair expected to report on Day with its status,
// followed by submissions from pairs that are no longer actively assigned.
//
// Inactive pairs are never reported as missed; they appear only when they
// filed a report that day, so removing someone from a project does not erase
// what they submitted. When a pair filed more than one report the first one
// in Submissions order is shown.
//
// Rows are ordered submitted before missed, then by user name and project name.
func BuildDayDetails(in DayInput) []DayDetailRow {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	key := in.Day.Format(DayLayout)

	byPair := make(map[pair]Submission)
	var order []pair
	for _, s := range in.Submissions {
		if calendarKey(s.ReportDate) != key {
			continue
		}
		p := submissionPair(s)
		if _, seen := byPair[p]; seen {
			continue
		}
		byPair[p] = s
		order = append(order, p)
	}

	rows := make([]DayDetailRow, 0, len(in.Assignments)+len(order))
	activePairs := make(map[pair]struct{})
	for _, a := range in.Assignments {
		if !a.IsActive || instantKey(a.AssignedAt, loc) > key {
			continue
		}
		p := assignmentPair(a)
		if _, dup := activePairs[p]; dup {
			continue
		}
		activePairs[p] = struct{}{}

		row := DayDetailRow{
			User:        a.UserName,
			Project:     a.ProjectName,
			SubmittedAt: "-",
			Status:      StatusMissed,
			ProjectID:   a.ProjectID,
			UserID:      a.UserID,
			IsActive:    true,
		}
		if s, ok := byPair[p]; ok {
			id := s.ID
			row.SubmittedAt = s.CreatedAt.In(loc).Format(TimeLayout)
			row.Status = StatusSubmitted
			row.ID = &id
		}
		rows = append(rows, row)
	}

	for _, p := range order {
		if _, ok := activePairs[p]; ok {
			continue
		}
		s := byPair[p]
		id := s.ID
		rows = append(rows, DayDetailRow{
			User:        s.UserName,
			Project:     s.ProjectName,
			SubmittedAt: s.CreatedAt.In(loc).Format(TimeLayout),
			Status:      StatusSubmitted,
			ID:          &id,
			ProjectID:   s.ProjectID,
			UserID:      s.UserID,
			IsActive:    false,
		})
	}

	sortRows(rows)
	return rows
}

func sortRows(rows []DayDetailRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := statusRank(rows[i].Status), statusRank(rows[j].Status)
		if ri != rj {
			return ri < rj
		}
		ui, uj := text.Fold(rows[i].User), text.Fold(rows[j].User)
		if ui != uj {
			return ui < uj
		}
		return text.Fold(rows[i].Project) < text.Fold(rows[j].Project)
	})
}

func statusRank(s Status) int {
	if s == StatusSubmitted {
		return 0
	}
	return 1
}
