package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	"github.com/nhle/project-dashboard/internal/store"
	"github.com/nhle/project-dashboard/tests/testutil"
)

func TestDemoProjects_Valid(t *testing.T) {
	now := time.Date(2024, time.April, 20, 12, 0, 0, 0, time.UTC)
	for _, p := range store.DemoProjects(now) {
		assert.NoError(t, p.Validate(), p.ProjectName)
	}
}

func TestDemoProjects_CoverEverySeverity(t *testing.T) {
	now := time.Date(2024, time.April, 20, 12, 0, 0, 0, time.UTC)

	entries, err := notify.Derive(store.DemoProjects(now), now)
	require.NoError(t, err)

	seen := make(map[model.NotificationKind]map[model.Severity]bool)
	for _, n := range entries {
		if seen[n.Kind] == nil {
			seen[n.Kind] = make(map[model.Severity]bool)
		}
		seen[n.Kind][n.Severity] = true
	}

	for _, kind := range []model.NotificationKind{model.KindDomainExpiry, model.KindServerExpiry, model.KindDeadline} {
		for _, sev := range []model.Severity{model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
			assert.True(t, seen[kind][sev], "%s %s", kind, sev)
		}
	}
}

func TestSeed(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	now := time.Now()

	n, err := store.Seed(ctx, s, now)
	require.NoError(t, err)
	assert.Equal(t, len(store.DemoProjects(now)), n)

	count, err := s.GetProjectCount(ctx, store.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, n, count)
}
