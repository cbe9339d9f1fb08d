package detail

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/keys"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/store"
	"github.com/nhle/project-dashboard/tests/testutil"
)

var fixedNow = time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)

func newModel(t *testing.T) (Model, store.Store) {
	t.Helper()
	s := testutil.NewTestStore(t)
	return New(s, keys.DefaultKeyMap(), func() time.Time { return fixedNow }, 100, 200), s
}

func TestLoad_RendersSections(t *testing.T) {
	m, s := newModel(t)
	created, err := s.CreateProject(context.Background(), model.Project{
		ProjectName:   "Storefront",
		ClientName:    "Acme",
		DomainName:    "acme.example",
		DomainExpDate: "2024-04-25",
		ServerExpDate: "2024-04-19",
	})
	require.NoError(t, err)

	msg := m.Load(created.ID)()
	m, _ = m.Update(msg)

	view := m.View()
	assert.Contains(t, view, "Storefront")
	assert.Contains(t, view, "acme.example")
	assert.Contains(t, view, "Apr 25, 2024 (in 5 days)")
	assert.Contains(t, view, "Apr 19, 2024 (1 day ago)")
	assert.Contains(t, view, "Metrics")
}

func TestLoad_NotFound(t *testing.T) {
	m, _ := newModel(t)
	m, _ = m.Update(m.Load("missing")())
	assert.Contains(t, m.View(), "Could not load project")
}

func TestActions(t *testing.T) {
	m, _ := newModel(t)
	m.SetProject(&model.Project{ID: "p-1", ProjectName: "Storefront"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionEdit, ProjectID: "p-1"}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionDelete, ProjectID: "p-1"}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestCountdown(t *testing.T) {
	m, _ := newModel(t)
	assert.Equal(t, "Apr 20, 2024 (today)", m.countdown("2024-04-20"))
	assert.Equal(t, "Apr 21, 2024 (tomorrow)", m.countdown("2024-04-21"))
	assert.Equal(t, "Apr 10, 2024 (10 days ago)", m.countdown("2024-04-10"))
	assert.Equal(t, "soon (invalid date)", m.countdown("soon"))
	assert.Empty(t, m.countdown(""))
}
