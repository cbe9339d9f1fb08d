package service

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	"github.com/nhle/project-dashboard/internal/store"
)

// ErrUnknownNotification is returned when acknowledging an id that is not in
// the last derived list.
var ErrUnknownNotification = errors.New("notification not found")

// Dashboard holds the use cases shared by the HTTP API and the CLI.
// Read state lives for the lifetime of the Dashboard value.
type Dashboard struct {
	store store.Store
	now   func() time.Time

	mu   gosync.Mutex
	read *notify.ReadState
	// last is the most recent list handed to a caller.
	last []model.Notification
}

// NewDashboard wires a Dashboard to s. A nil now uses time.Now.
func NewDashboard(s store.Store, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{
		store: s,
		now:   now,
		read:  notify.NewReadState(),
	}
}

// NotificationList is one derivation pass with read state applied.
type NotificationList struct {
	Entries   []model.Notification
	Unread    int
	DerivedAt time.Time

	// Problems lists the trigger dates that could not be parsed.
	Problems []*notify.InvalidDateError
}

// Notifications derives the current notification list from all projects.
func (d *Dashboard) Notifications(ctx context.Context) (NotificationList, error) {
	projects, err := d.store.GetProjects(ctx, store.ProjectFilter{})
	if err != nil {
		return NotificationList{}, fmt.Errorf("loading projects: %w", err)
	}

	now := d.now()
	entries, derr := notify.Derive(projects, now)

	d.mu.Lock()
	d.last = entries
	entries = d.read.Apply(entries)
	unread := d.read.UnreadCount(entries)
	d.mu.Unlock()

	if entries == nil {
		entries = []model.Notification{}
	}

	return NotificationList{
		Entries:   entries,
		Unread:    unread,
		DerivedAt: now,
		Problems:  notify.InvalidDates(derr),
	}, nil
}

// Acknowledge marks one entry of the last derived list read.
func (d *Dashboard) Acknowledge(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.read.AcknowledgeListed(d.last, id) {
		return fmt.Errorf("%w: %s", ErrUnknownNotification, id)
	}
	return nil
}

// AcknowledgeAll marks every entry of the last derived list read and returns
// how many there were. Entries derived since then are left unread.
func (d *Dashboard) AcknowledgeAll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.read.AcknowledgeAll(d.last)
	return len(d.last)
}

// ListProjects returns the projects matching filter and the total count
// ignoring paging.
func (d *Dashboard) ListProjects(ctx context.Context, filter store.ProjectFilter) ([]model.Project, int, error) {
	projects, err := d.store.GetProjects(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	count, err := d.store.GetProjectCount(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return projects, count, nil
}

// GetProject returns a project by id.
func (d *Dashboard) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return d.store.GetProjectByID(ctx, id)
}

// CreateProject stores a new project.
func (d *Dashboard) CreateProject(ctx context.Context, p model.Project) (*model.Project, error) {
	return d.store.CreateProject(ctx, p)
}

// UpdateProject replaces the project with the given id.
func (d *Dashboard) UpdateProject(ctx context.Context, id string, p model.Project) (*model.Project, error) {
	p.ID = id
	return d.store.UpdateProject(ctx, p)
}

// DeleteProject removes a project.
func (d *Dashboard) DeleteProject(ctx context.Context, id string) error {
	return d.store.DeleteProject(ctx, id)
}

// Stats summarises the portfolio as of now.
func (d *Dashboard) Stats(ctx context.Context) (model.ProjectStats, error) {
	return d.store.GetProjectStats(ctx, d.now())
}
