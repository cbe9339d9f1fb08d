package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nhle/project-dashboard/internal/model"
)

const projectsTable = "projects"

var allowedProjectSorts = map[string]bool{
	"project_name":           true,
	"client_name":            true,
	"status":                 true,
	"created_at":             true,
	"updated_at":             true,
	"assigned_delivery_date": true,
	"domain_exp_date":        true,
	"server_exp_date":        true,
}

// editableColumns maps every user-editable column to its value.
func editableColumns(p model.Project) map[string]any {
	return map[string]any{
		"client_name":                p.ClientName,
		"project_name":               p.ProjectName,
		"country":                    p.Country,
		"phone_number":               p.PhoneNumber,
		"email":                      p.Email,
		"client_logo":                p.ClientLogo,
		"about_client":               p.AboutClient,
		"client_approach_date":       p.ClientApproachDate,
		"nature_of_project":          p.NatureOfProject,
		"work_type":                  p.WorkType,
		"work_assigned_date":         p.WorkAssignedDate,
		"assigned_delivery_date":     p.AssignedDeliveryDate,
		"domain_status":              p.DomainStatus,
		"domain_name":                p.DomainName,
		"domain_owner":               p.DomainOwner,
		"domain_purchased_from":      p.DomainPurchasedFrom,
		"domain_purchase_date":       p.DomainPurchaseDate,
		"domain_exp_date":            p.DomainExpDate,
		"server_status":              p.ServerStatus,
		"server_type":                p.ServerType,
		"server_name":                p.ServerName,
		"server_owner":               p.ServerOwner,
		"server_acquired_date":       p.ServerAcquiredDate,
		"server_exp_date":            p.ServerExpDate,
		"scope_description":          p.ScopeDescription,
		"uxui_assistant":             p.UXUIAssistant,
		"work_start_date":            p.WorkStartDate,
		"delivered_date":             p.DeliveredDate,
		"development_assigned_by":    p.DevelopmentAssignedBy,
		"dev_work_start_date":        p.DevWorkStartDate,
		"dev_assigned_delivery_date": p.DevAssignedDeliveryDate,
		"dev_delivered_date":         p.DevDeliveredDate,
		"work_status":                p.WorkStatus,
		"status_updated_date":        p.StatusUpdatedDate,
		"handed_over_date":           p.HandedOverDate,
		"project_review_date":        p.ProjectReviewDate,
		"total_days_spent":           p.TotalDaysSpent,
		"saved_days":                 p.SavedDays,
		"over_spend_days":            p.OverSpendDays,
		"spent_manpower_cost":        p.SpentManpowerCost,
		"status":                     p.Status,
	}
}

// CreateProject validates and inserts a new project, assigning an id when
// none is set. The stored project is returned.
func (s *SQLiteStore) CreateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	if project.Status == "" {
		project.Status = model.ProjectStatusActive
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	cols := editableColumns(project)
	cols["id"] = project.ID
	cols["created_at"] = now
	cols["updated_at"] = now

	query, args, err := sq.Insert(projectsTable).SetMap(cols).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return s.GetProjectByID(ctx, project.ID)
}

// UpdateProject replaces the editable fields of an existing project.
func (s *SQLiteStore) UpdateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	if project.Status == "" {
		project.Status = model.ProjectStatusActive
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	query, args, err := sq.Update(projectsTable).
		SetMap(editableColumns(project)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": project.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating project %s: %w", project.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("project %s: %w", project.ID, ErrNotFound)
	}

	return s.GetProjectByID(ctx, project.ID)
}

// DeleteProject removes a project.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetProjectByID retrieves a single project by its ID.
func (s *SQLiteStore) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := s.db.GetContext(ctx, &p, "SELECT * FROM projects WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return &p, nil
}

// GetProjects retrieves projects matching the filter.
func (s *SQLiteStore) GetProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	sortBy := "updated_at"
	if allowedProjectSorts[filter.SortBy] {
		sortBy = filter.SortBy
	}
	direction := "ASC"
	if filter.SortDesc || filter.SortBy == "" {
		direction = "DESC"
	}

	builder := applyProjectFilter(sq.Select("*").From(projectsTable), filter).
		OrderBy(sortBy+" "+direction, "id ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building project query: %w", err)
	}

	projects := []model.Project{}
	if err := s.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	return projects, nil
}

// GetProjectCount returns the number of projects matching the filter,
// ignoring limit and offset.
func (s *SQLiteStore) GetProjectCount(ctx context.Context, filter ProjectFilter) (int, error) {
	query, args, err := applyProjectFilter(sq.Select("COUNT(*)").From(projectsTable), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return count, nil
}

// GetProjectStats summarises the portfolio. A domain or server counts as
// expired when flagged so or when its expiry date is before asOf.
func (s *SQLiteStore) GetProjectStats(ctx context.Context, asOf time.Time) (model.ProjectStats, error) {
	today := model.FormatDate(asOf)

	const query = `
		SELECT
			COUNT(*) AS total_projects,
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS pending_projects,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_projects,
			COALESCE(SUM(CASE WHEN status = 'on-hold' THEN 1 ELSE 0 END), 0) AS on_hold_projects,
			COALESCE(SUM(CASE WHEN domain_status = 'expired'
				OR (domain_exp_date != '' AND date(domain_exp_date) < date(?)) THEN 1 ELSE 0 END), 0) AS expired_domains,
			COALESCE(SUM(CASE WHEN server_status = 'expired'
				OR (server_exp_date != '' AND date(server_exp_date) < date(?)) THEN 1 ELSE 0 END), 0) AS expired_servers
		FROM projects`

	var stats model.ProjectStats
	if err := s.db.GetContext(ctx, &stats, query, today, today); err != nil {
		return model.ProjectStats{}, fmt.Errorf("computing project stats: %w", err)
	}
	return stats, nil
}

func applyProjectFilter(b sq.SelectBuilder, filter ProjectFilter) sq.SelectBuilder {
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": filter.Status})
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		b = b.Where(sq.Or{
			sq.Expr(`LOWER(project_name) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(client_name) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(email) LIKE ? ESCAPE '\'`, pattern),
		})
	}
	return b
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
