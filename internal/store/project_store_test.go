package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/store"
	"github.com/nhle/project-dashboard/tests/testutil"
)

func TestCreateProject_AssignsIDAndDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, model.Project{
		ProjectName:   "Storefront",
		ClientName:    "Acme",
		DomainExpDate: "2024-05-01",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.ProjectStatusActive, created.Status)
	assert.Equal(t, "2024-05-01", created.DomainExpDate)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestCreateProject_RejectsInvalid(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.CreateProject(context.Background(), model.Project{ProjectName: " "})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))

	_, err = s.CreateProject(context.Background(), model.Project{ProjectName: "Bad dates", ServerExpDate: "next week"})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestGetProjectByID_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetProjectByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateProject(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, model.Project{ProjectName: "Portal", Email: "a@b.example"})
	require.NoError(t, err)

	created.ProjectName = "Portal v2"
	created.Status = model.ProjectStatusOnHold
	created.TotalDaysSpent = 12
	created.SpentManpowerCost = 999.5

	updated, err := s.UpdateProject(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, "Portal v2", updated.ProjectName)
	assert.Equal(t, model.ProjectStatusOnHold, updated.Status)
	assert.Equal(t, 12, updated.TotalDaysSpent)
	assert.InDelta(t, 999.5, updated.SpentManpowerCost, 0.001)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestUpdateProject_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.UpdateProject(context.Background(), model.Project{ID: "ghost", ProjectName: "Ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteProject(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, model.Project{ProjectName: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(ctx, created.ID))
	_, err = s.GetProjectByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteProject(ctx, created.ID), store.ErrNotFound)
}

func TestGetProjects_SearchAndStatus(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for _, p := range []model.Project{
		{ProjectName: "Alpha Site", ClientName: "Orbit", Email: "x@orbit.example"},
		{ProjectName: "Beta App", ClientName: "Acme Corp", Email: "y@acme.example", Status: model.ProjectStatusCompleted},
		{ProjectName: "Gamma", ClientName: "Zeta", Email: "ALPHA@zeta.example", Status: model.ProjectStatusOnHold},
	} {
		_, err := s.CreateProject(ctx, p)
		require.NoError(t, err)
	}

	names := func(ps []model.Project) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ProjectName
		}
		return out
	}

	all, err := s.GetProjects(ctx, store.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := s.GetProjects(ctx, store.ProjectFilter{Query: "alpha"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alpha Site", "Gamma"}, names(byName))

	byClient, err := s.GetProjects(ctx, store.ProjectFilter{Query: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta App"}, names(byClient))

	completed, err := s.GetProjects(ctx, store.ProjectFilter{Status: model.ProjectStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta App"}, names(completed))

	for _, q := range []string{"%", "_", "a_p", `\`} {
		got, err := s.GetProjects(ctx, store.ProjectFilter{Query: q})
		require.NoError(t, err)
		assert.Empty(t, got, "query %q", q)

		count, err := s.GetProjectCount(ctx, store.ProjectFilter{Query: q})
		require.NoError(t, err)
		assert.Zero(t, count, "query %q", q)
	}

	none, err := s.GetProjects(ctx, store.ProjectFilter{Query: "nothing-matches"})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)

	count, err := s.GetProjectCount(ctx, store.ProjectFilter{Query: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetProjects_SortAndPaging(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		_, err := s.CreateProject(ctx, model.Project{ProjectName: name})
		require.NoError(t, err)
	}

	sorted, err := s.GetProjects(ctx, store.ProjectFilter{SortBy: "project_name"})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "Alpha", sorted[0].ProjectName)
	assert.Equal(t, "Charlie", sorted[2].ProjectName)

	page, err := s.GetProjects(ctx, store.ProjectFilter{SortBy: "project_name", SortDesc: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Bravo", page[0].ProjectName)

	// Unknown sort columns fall back to the default ordering.
	_, err = s.GetProjects(ctx, store.ProjectFilter{SortBy: "id; DROP TABLE projects"})
	require.NoError(t, err)
	count, err := s.GetProjectCount(ctx, store.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetProjectStats(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	asOf := time.Date(2024, time.April, 20, 9, 0, 0, 0, time.UTC)

	for _, p := range []model.Project{
		{ProjectName: "A", DomainExpDate: "2024-04-19"},
		{ProjectName: "B", Status: model.ProjectStatusCompleted, DomainStatus: model.AssetStatusExpired},
		{ProjectName: "C", Status: model.ProjectStatusOnHold, ServerExpDate: "2024-01-01"},
		{ProjectName: "D", Status: model.ProjectStatusCancelled, DomainExpDate: "2024-04-20", ServerExpDate: "2024-06-01"},
	} {
		_, err := s.CreateProject(ctx, p)
		require.NoError(t, err)
	}

	stats, err := s.GetProjectStats(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStats{
		TotalProjects:     4,
		PendingProjects:   1,
		CompletedProjects: 1,
		OnHoldProjects:    1,
		ExpiredDomains:    2,
		ExpiredServers:    1,
	}, stats)
}

func TestGetProjectStats_Empty(t *testing.T) {
	s := testutil.NewTestStore(t)

	stats, err := s.GetProjectStats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStats{}, stats)
}

func TestSchemaVersion(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}
