// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectAssignment is a user's membership in a project.
//
// It models a document in the `project_assignments` collection. There is at
// most one document per (user_id, project_id); removing a user from a project
// flips IsActive instead of deleting the row so that reporting history keeps
// its assignment context. LastActivatedAt records the most recent
// reactivation and is informational only: attendance eligibility uses
// AssignedAt and the current IsActive flag.
type ProjectAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`

	AssignedAt      time.Time  `bson:"assigned_at" json:"assigned_at"`
	IsActive        bool       `bson:"is_active" json:"is_active"`
	LastActivatedAt *time.Time `bson:"last_activated_at,omitempty" json:"last_activated_at,omitempty"`
	DeactivatedAt   *time.Time `bson:"deactivated_at,omitempty" json:"deactivated_at,omitempty"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
