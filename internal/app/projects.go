package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/store"
)

// projectSavedMsg is sent after a project is created or updated.
type projectSavedMsg struct {
	project *model.Project
	err     error
}

// projectDeletedMsg is sent after a project is deleted.
type projectDeletedMsg struct {
	name string
	err  error
}

// seededMsg is sent after demo projects are inserted.
type seededMsg struct {
	count int
	err   error
}

// saveProject persists a project from the form.
func (m *Model) saveProject(p model.Project, edit bool) tea.Cmd {
	s := m.store
	log := m.log
	return func() tea.Msg {
		ctx := context.Background()
		var (
			saved *model.Project
			err   error
		)
		if edit {
			saved, err = s.UpdateProject(ctx, p)
		} else {
			saved, err = s.CreateProject(ctx, p)
		}
		if err != nil {
			log.WithError(err).WithField("project", p.ID).Error("saving project")
		}
		return projectSavedMsg{project: saved, err: err}
	}
}

// deleteProject removes a project by ID.
func (m *Model) deleteProject(id, name string) tea.Cmd {
	s := m.store
	log := m.log
	return func() tea.Msg {
		err := s.DeleteProject(context.Background(), id)
		if err != nil {
			log.WithError(err).WithField("project", id).Error("deleting project")
		}
		return projectDeletedMsg{name: name, err: err}
	}
}

// seed inserts the demo portfolio.
func (m *Model) seed() tea.Cmd {
	s := m.store
	now := m.now
	return func() tea.Msg {
		n, err := store.Seed(context.Background(), s, now())
		return seededMsg{count: n, err: err}
	}
}
