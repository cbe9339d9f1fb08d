package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99designs/keyring"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/api"
	"github.com/nhle/project-dashboard/internal/credential"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	appsync "github.com/nhle/project-dashboard/internal/sync"
	"github.com/nhle/project-dashboard/internal/ui/command"
	"github.com/nhle/project-dashboard/internal/ui/config"
	"github.com/nhle/project-dashboard/internal/ui/login"
	"github.com/nhle/project-dashboard/internal/ui/notifications"
	"github.com/nhle/project-dashboard/tests/testutil"
)

var fixedNow = time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)

type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (*api.Token, error) {
	return &api.Token{Access: "access", Refresh: "refresh"}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{
		Store:  testutil.NewTestStore(t),
		Auth:   stubAuth{},
		Tokens: credential.New(keyring.NewArrayKeyring(nil)),
		Now:    func() time.Time { return fixedNow },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func entries(n int) []model.Notification {
	out := make([]model.Notification, n)
	for i := range out {
		out[i] = model.Notification{
			ID:       notify.EntryID(model.KindDeadline, string(rune('a'+i))),
			Kind:     model.KindDeadline,
			Severity: model.SeverityHigh,
			DueDate:  fixedNow.AddDate(0, 0, 1),
			Title:    "Project Deadline Approaching",
			Message:  "deadline in 1 days",
		}
	}
	return out
}

func TestNotifications_BadgeAndReadState(t *testing.T) {
	m := newTestModel(t)
	derived := entries(3)

	m, cmd := update(t, m, appsync.NotificationsMsg{Entries: derived, DerivedAt: fixedNow})
	assert.NotNil(t, cmd, "refresher must be re-armed")
	assert.Equal(t, 3, m.Unread())
	assert.Contains(t, m.View(), "Project Dashboard")

	m, _ = update(t, m, notifications.AcknowledgeMsg{ID: derived[0].ID})
	assert.Equal(t, 2, m.Unread())

	// Re-derivation produces fresh entries; the acknowledged one stays read.
	m, _ = update(t, m, appsync.NotificationsMsg{Entries: entries(3), DerivedAt: fixedNow})
	assert.Equal(t, 2, m.Unread())

	m, _ = update(t, m, notifications.AcknowledgeAllMsg{})
	assert.Equal(t, 0, m.Unread())
	for _, n := range m.notifications.Entries() {
		assert.True(t, n.Read)
	}
}

func TestNotifications_BadgeCapsAtNine(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, appsync.NotificationsMsg{Entries: entries(12)})
	assert.Equal(t, 12, m.Unread())
	assert.Contains(t, m.View(), "9+")
}

func TestNotifications_RefreshFailureKeepsEntries(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, appsync.NotificationsMsg{Entries: entries(2)})
	m, _ = update(t, m, appsync.NotificationsMsg{Err: errors.New("database is locked")})

	assert.Equal(t, 2, m.Unread())
	assert.Contains(t, m.keyHints(), "database is locked")
}

func TestNotifications_InvalidDateWarnings(t *testing.T) {
	m := newTestModel(t)
	bad := &notify.InvalidDateError{ProjectID: "p1", Field: "domainExpDate", Value: "soon", Err: model.ErrInvalidDate}
	m, _ = update(t, m, appsync.NotificationsMsg{Entries: entries(1), Err: bad})

	assert.Equal(t, 1, m.Unread())
	require.Len(t, m.warnings, 1)
	assert.Contains(t, m.warnings[0], "domainExpDate")
}

func TestGlobalKeys_OpenAndCloseNotifications(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	assert.Equal(t, ViewNotifications, m.CurrentView())
	assert.Contains(t, m.View(), "No notifications")

	m, _ = update(t, m, notifications.CloseMsg{})
	assert.Equal(t, ViewList, m.CurrentView())
}

func TestGlobalKeys_HelpToggle(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, ViewHelp, m.CurrentView())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, ViewList, m.CurrentView())
}

func TestCommand_SeedReloads(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, command.CommandMsg{Name: command.Seed})
	require.NotNil(t, cmd)

	msg := cmd()
	seeded, ok := msg.(seededMsg)
	require.True(t, ok)
	require.NoError(t, seeded.err)
	assert.Positive(t, seeded.count)

	m, cmd = update(t, m, seeded)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.keyHints(), "demo projects")
}

func TestLogin_SuccessSetsSession(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	assert.NotNil(t, cmd)
	assert.Equal(t, ViewLogin, m.CurrentView())

	m, _ = update(t, m, login.ResultMsg{Username: "alice"})
	assert.Equal(t, ViewList, m.CurrentView())
	assert.Equal(t, "alice", m.session)
	assert.Contains(t, m.refreshStatus(), "alice")

	m, _ = update(t, m, command.CommandMsg{Name: command.Logout})
	assert.Empty(t, m.session)
}

func TestCommand_SettingsOpensAndCloses(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, command.CommandMsg{Name: command.Settings})
	assert.Equal(t, ViewSettings, m.CurrentView())
	assert.Contains(t, m.View(), "Settings")
	assert.Equal(t, "e edit | esc back", m.keyHints())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, ViewList, m.CurrentView())

	_, ok := cmd().(config.ConfigDoneMsg)
	assert.True(t, ok)
}

func TestCheckSession(t *testing.T) {
	tokens := credential.New(keyring.NewArrayKeyring(nil))
	m := New(Options{
		Store:  testutil.NewTestStore(t),
		Tokens: tokens,
		Now:    func() time.Time { return fixedNow },
	})

	assert.Equal(t, sessionMsg{}, m.checkSession()())

	require.NoError(t, tokens.SaveToken(api.Token{Access: "not-a-jwt"}))
	assert.Equal(t, sessionMsg{username: "signed in"}, m.checkSession()())
}
