// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/workpulse/internal/app/store/audit"
)

// listItem is a single audit event with names resolved.
type listItem struct {
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	Category    string            `json:"category"`
	EventType   string            `json:"eventType"`
	ActorName   string            `json:"actor,omitempty"`   // resolved from ActorID
	TargetName  string            `json:"user,omitempty"`    // resolved from UserID
	ProjectName string            `json:"project,omitempty"` // resolved from ProjectID
	IP          string            `json:"ip"`
	Success     bool              `json:"success"`
	Reason      string            `json:"failureReason,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events     []listItem `json:"events"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Total      int64      `json:"total"`
}

// feedResponse is the body of the unpaged event feeds.
type feedResponse struct {
	Events []listItem `json:"events"`
}

// listQuery holds the filter parameters accepted by ServeList.
type listQuery struct {
	Category  string `json:"category" validate:"omitempty,oneof=auth admin"`
	EventType string `json:"event_type" validate:"omitempty,max=64"`
	StartDate string `json:"start_date" validate:"omitempty,civildate"`
	EndDate   string `json:"end_date" validate:"omitempty,civildate"`
	UserID    string `json:"user_id" validate:"omitempty,objectid"`
	ProjectID string `json:"project_id" validate:"omitempty,objectid"`
}

type categoryOption struct {
	Value      string   `json:"value"`
	Label      string   `json:"label"`
	EventTypes []string `json:"eventTypes"`
}

// allCategories returns the categories with their event types.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication", EventTypes: eventTypesForCategory(audit.CategoryAuth)},
		{Value: audit.CategoryAdmin, Label: "Administration", EventTypes: eventTypesForCategory(audit.CategoryAdmin)},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
	}

	adminEvents := []string{
		audit.EventAssignmentCreated,
		audit.EventAssignmentReactivated,
		audit.EventAssignmentDeactivated,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return nil
	}
}
