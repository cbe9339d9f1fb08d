package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/project-dashboard/internal/model"
)

// ErrNotFound is returned when a project id does not exist.
var ErrNotFound = errors.New("not found")

// ProjectFilter controls filtering, sorting, and pagination for project queries.
type ProjectFilter struct {
	Query    string // case-insensitive match on project name, client name, email
	Status   string // system status, or "" for all
	SortBy   string // "project_name", "client_name", "status", "created_at", "updated_at", "assigned_delivery_date"
	SortDesc bool
	Limit    int
	Offset   int
}

// Store defines the persistence interface for projects.
type Store interface {
	CreateProject(ctx context.Context, project model.Project) (*model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	GetProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error)
	GetProjectCount(ctx context.Context, filter ProjectFilter) (int, error)

	// GetProjectStats summarises the portfolio; expiry counts are
	// evaluated against asOf.
	GetProjectStats(ctx context.Context, asOf time.Time) (model.ProjectStats, error)

	Close() error
}
