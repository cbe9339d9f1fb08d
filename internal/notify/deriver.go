package notify

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nhle/project-dashboard/internal/model"
)

// rule describes one trigger field and how its distance maps to severity.
type rule struct {
	kind   model.NotificationKind
	field  string
	value  func(model.Project) string
	window int // inclusive upper bound in days
	high   int
	medium int
	title  string
	text   func(p model.Project, days int) string
}

var rules = []rule{
	{
		kind:   model.KindDomainExpiry,
		field:  "domainExpDate",
		value:  func(p model.Project) string { return p.DomainExpDate },
		window: 30,
		high:   7,
		medium: 15,
		title:  "Domain Expiring Soon",
		text: func(p model.Project, days int) string {
			name := p.DomainName
			if name == "" {
				name = "Unknown"
			}
			return fmt.Sprintf("Domain %s expires in %d days", name, days)
		},
	},
	{
		kind:   model.KindServerExpiry,
		field:  "serverExpDate",
		value:  func(p model.Project) string { return p.ServerExpDate },
		window: 30,
		high:   7,
		medium: 15,
		title:  "Server Expiring Soon",
		text: func(p model.Project, days int) string {
			return fmt.Sprintf("Server for %s expires in %d days", p.ProjectName, days)
		},
	},
	{
		kind:   model.KindDeadline,
		field:  "assignedDeliveryDate",
		value:  func(p model.Project) string { return p.AssignedDeliveryDate },
		window: 7,
		high:   2,
		medium: 5,
		title:  "Project Deadline Approaching",
		text: func(p model.Project, days int) string {
			return fmt.Sprintf("%s deadline in %d days", p.ProjectName, days)
		},
	},
}

// Derive builds the notifications active at now, latest due date first.
//
// A trigger date that fails to parse skips only that project's rule; the
// returned error joins one InvalidDateError per skipped rule and is returned
// alongside the entries that could be derived.
func Derive(projects []model.Project, now time.Time) ([]model.Notification, error) {
	var (
		entries []model.Notification
		errs    []error
	)

	for _, p := range projects {
		for _, r := range rules {
			raw := r.value(p)
			if raw == "" {
				continue
			}

			due, err := model.ParseDate(raw)
			if err != nil {
				errs = append(errs, &InvalidDateError{
					ProjectID: p.ID,
					Field:     r.field,
					Value:     raw,
					Err:       err,
				})
				continue
			}

			days := DaysUntil(due, now)
			if days < 0 || days > r.window {
				continue
			}

			entries = append(entries, model.Notification{
				ID:            EntryID(r.kind, p.ID),
				Kind:          r.kind,
				Severity:      r.severity(days),
				DueDate:       due,
				DaysRemaining: days,
				ProjectID:     p.ID,
				ProjectName:   p.ProjectName,
				Title:         r.title,
				Message:       r.text(p, days),
			})
		}
	}

	// Only the calendar date orders entries; same-day due dates keep input order.
	sort.SliceStable(entries, func(i, j int) bool {
		return calendarDay(entries[i].DueDate).After(calendarDay(entries[j].DueDate))
	})

	return entries, errors.Join(errs...)
}

// EntryID returns the stable identifier of the notification a rule
// produces for a project.
func EntryID(kind model.NotificationKind, projectID string) string {
	return string(kind) + "-" + projectID
}

// DaysUntil returns the number of calendar days from now to due. Both
// instants are reduced to their calendar date before subtracting, so the
// result is exact and never depends on time of day.
func DaysUntil(due, now time.Time) int {
	return int(calendarDay(due).Sub(calendarDay(now)).Hours() / 24)
}

// calendarDay maps t to midnight UTC of its date in t's own location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeverityFor classifies days remaining for the given kind.
func SeverityFor(kind model.NotificationKind, days int) model.Severity {
	for _, r := range rules {
		if r.kind == kind {
			return r.severity(days)
		}
	}
	return model.SeverityLow
}

func (r rule) severity(days int) model.Severity {
	switch {
	case days <= r.high:
		return model.SeverityHigh
	case days <= r.medium:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
