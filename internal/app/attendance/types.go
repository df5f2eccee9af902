// Package attendance computes the admin attendance calendar: per-day counts
// of submitted and missed reports, and the per-day roster behind them.
//
// The package is pure aggregation over snapshots read through Source. It
// never writes, caches, or retries.
package attendance

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) of a user, carried here as its hex string

import (
	"context"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
)

// Assignment is the current state of one user's membership in one project,
// joined to the user and project names.
type Assignment struct {
	UserID          string
	UserName        string
	ProjectID       string
	ProjectName     string
	AssignedAt      time.Time
	IsActive        bool
	LastActivatedAt *time.Time // never consulted for eligibility
}

// Submission is one filed report row, joined to the user and project names.
//
// ReportDate is read for its calendar fields only (year, month, day as
// stored); its clock time and location are ignored. CreatedAt is an instant.
type Submission struct {
	ID          string
	UserID      string
	UserName    string
	ProjectID   string
	ProjectName string
	ReportDate  time.Time
	CreatedAt   time.Time
}

// Source reads the snapshots the engine aggregates. Implementations must
// exclude administrator accounts from both methods.
type Source interface {
	// Assignments returns every assignment (active or not), regardless of date.
	Assignments(ctx context.Context) ([]Assignment, error)
	// Submissions returns reports of kind whose report date lies in
	// [from, to], compared by calendar date.
	Submissions(ctx context.Context, kind reportkind.Kind, from, to time.Time) ([]Submission, error)
}

// DayStat summarizes one calendar day.
type DayStat struct {
	Date           time.Time `json:"date"`
	SubmittedCount int       `json:"submittedCount"`
	MissedCount    int       `json:"missedCount"`
	UserCount      int       `json:"userCount"`
	ProjectCount   int       `json:"projectCount"`
	IsWeekend      bool      `json:"isWeekend"`
	IsFuture       bool      `json:"isFuture"`
}

// Status of a roster row.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusMissed    Status = "missed"
)

// DayDetailRow is one (user, project) line of a day's roster.
type DayDetailRow struct {
	User        string  `json:"user"`
	Project     string  `json:"project"`
	SubmittedAt string  `json:"submittedAt"` // "3:04 PM" or "-"
	Status      Status  `json:"status"`
	ID          *string `json:"id"`
	ProjectID   string  `json:"projectId"`
	UserID      string  `json:"userId"`
	IsActive    bool    `json:"isActive"`
}

// pair identifies a (user, project) combination.
type pair struct {
	userID    string
	projectID string
}

func assignmentPair(a Assignment) pair { return pair{a.UserID, a.ProjectID} }
func submissionPair(s Submission) pair { return pair{s.UserID, s.ProjectID} }
