// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memo sub-types. A user may file both on the same day for the same project;
// attendance counts them as one submission.
const (
	MemoTypeShort     = "short"
	MemoTypeUniversal = "universal"
)

// Report is an end-of-day report or a memo.
//
// EOD reports live in `eod_reports` and memos in `memo_reports`; both share
// this shape. ReportDate is a calendar date stored as midnight UTC, while
// CreatedAt is the instant the report was filed.
type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`

	ReportDate time.Time `bson:"report_date" json:"report_date"`
	MemoType   string    `bson:"memo_type,omitempty" json:"memo_type,omitempty"`
	Content    string    `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
