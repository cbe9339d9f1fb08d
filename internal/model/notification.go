package model

import "time"

// NotificationKind identifies which rule produced a notification.
type NotificationKind string

const (
	KindDomainExpiry NotificationKind = "domain-expiry"
	KindServerExpiry NotificationKind = "server-expiry"
	KindDeadline     NotificationKind = "deadline"
)

// Severity is the urgency of a notification, independent of its read flag.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Notification is an alert derived from a project's expiry or deadline
// dates. It is rebuilt on every derivation pass; only ID is stable.
type Notification struct {
	// ID is "{kind}-{projectID}", stable across derivation passes.
	ID string `json:"id"`

	Kind     NotificationKind `json:"kind"`
	Severity Severity         `json:"severity"`

	// DueDate is the triggering date copied from the project.
	DueDate time.Time `json:"dueDate"`

	// DaysRemaining is the whole-day distance from the derivation time.
	DaysRemaining int `json:"daysRemaining"`

	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`

	// Title and Message are the human-readable texts shown in the panel.
	Title   string `json:"title"`
	Message string `json:"message"`

	// Read indicates whether the user has acknowledged this notification.
	Read bool `json:"read"`
}
