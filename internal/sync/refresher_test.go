package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	"github.com/nhle/project-dashboard/internal/store"
)

type fakeLister struct {
	mu       gosync.Mutex
	projects []model.Project
	err      error
	calls    int
}

func (f *fakeLister) GetProjects(_ context.Context, _ store.ProjectFilter) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.projects, f.err
}

func (f *fakeLister) set(projects []model.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = projects
}

var fixedNow = time.Date(2024, time.April, 20, 8, 0, 0, 0, time.UTC)

func newTestRefresher(l ProjectLister) (*Refresher, *logtest.Hook) {
	log, hook := logtest.NewNullLogger()
	r := New(l, time.Hour,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(log),
	)
	return r, hook
}

func TestRefreshNow(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		{ID: "p1", ProjectName: "One", DomainExpDate: "2024-04-25"},
		{ID: "p2", ProjectName: "Two", AssignedDeliveryDate: "2024-04-21"},
	}}
	r, _ := newTestRefresher(lister)

	msg := r.RefreshNow(context.Background())
	require.NoError(t, msg.Err)
	assert.Equal(t, fixedNow, msg.DerivedAt)
	require.Len(t, msg.Entries, 2)
	assert.Equal(t, "domain-expiry-p1", msg.Entries[0].ID)
	assert.Equal(t, "deadline-p2", msg.Entries[1].ID)

	status := r.Status()
	assert.Equal(t, RefreshIdle, status.State)
	assert.Equal(t, 2, status.LastCount)
}

func TestRefreshNow_ListerError(t *testing.T) {
	boom := errors.New("disk on fire")
	r, hook := newTestRefresher(&fakeLister{err: boom})

	msg := r.RefreshNow(context.Background())
	assert.ErrorIs(t, msg.Err, boom)
	assert.Empty(t, msg.Entries)
	assert.Equal(t, RefreshError, r.Status().State)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRefreshNow_InvalidDateKeepsOtherEntries(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		{ID: "bad", ProjectName: "Bad", ServerExpDate: "whenever"},
		{ID: "ok", ProjectName: "Ok", ServerExpDate: "2024-04-22"},
	}}
	r, hook := newTestRefresher(lister)

	msg := r.RefreshNow(context.Background())
	assert.True(t, notify.IsInvalidDate(msg.Err))
	require.Len(t, msg.Entries, 1)
	assert.Equal(t, "server-expiry-ok", msg.Entries[0].ID)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
	assert.Equal(t, "bad", hook.Entries[0].Data["project"])
}

func TestStart_DeliversInitialAndTriggeredPasses(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		{ID: "p1", ProjectName: "One", DomainExpDate: "2024-04-25"},
	}}
	r, _ := newTestRefresher(lister)
	t.Cleanup(r.Stop)

	cmd := r.Start()
	require.NotNil(t, cmd)
	assert.Nil(t, r.Start(), "second Start is a no-op")

	first, ok := cmd().(NotificationsMsg)
	require.True(t, ok)
	require.Len(t, first.Entries, 1)

	lister.set(append(lister.projects, model.Project{ID: "p2", ProjectName: "Two", AssignedDeliveryDate: "2024-04-20"}))
	r.Trigger()

	second, ok := r.WaitForNextResult()().(NotificationsMsg)
	require.True(t, ok)
	assert.Len(t, second.Entries, 2)
}

func TestNew_DefaultInterval(t *testing.T) {
	r := New(&fakeLister{}, 0)
	assert.Equal(t, defaultInterval, r.interval)
}

func TestStop_Idempotent(t *testing.T) {
	r, _ := newTestRefresher(&fakeLister{})
	r.Stop()

	_ = r.Start()
	r.Stop()
	assert.NotPanics(t, r.Stop)
}
