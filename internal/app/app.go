package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/project-dashboard/internal/keys"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	"github.com/nhle/project-dashboard/internal/store"
	appsync "github.com/nhle/project-dashboard/internal/sync"
	"github.com/nhle/project-dashboard/internal/ui"
	"github.com/nhle/project-dashboard/internal/ui/command"
	"github.com/nhle/project-dashboard/internal/ui/config"
	"github.com/nhle/project-dashboard/internal/ui/detail"
	helpview "github.com/nhle/project-dashboard/internal/ui/help"
	"github.com/nhle/project-dashboard/internal/ui/login"
	"github.com/nhle/project-dashboard/internal/ui/notifications"
	"github.com/nhle/project-dashboard/internal/ui/projectform"
	"github.com/nhle/project-dashboard/internal/ui/projectlist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewForm
	ViewNotifications
	ViewLogin
	ViewHelp
	ViewCommand
	ViewSettings
)

const appTitle = "Project Dashboard"

// Options configures the root model.
type Options struct {
	Store store.Store

	// Auth and Tokens back the login view. Either may be nil, in which case
	// login is unavailable.
	Auth   login.Authenticator
	Tokens TokenStore

	// ConfigPath and Config back the settings view.
	ConfigPath string
	Config     *model.AppConfig

	Log             logrus.FieldLogger
	Now             func() time.Time
	RefreshInterval time.Duration
}

// Model is the root Bubble Tea model that manages view routing,
// layout, notification read state and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	auth         login.Authenticator
	tokens       TokenStore
	log          logrus.FieldLogger
	now          func() time.Time
	keys         *keys.KeyMap

	projectList   projectlist.Model
	detail        detail.Model
	form          projectform.Model
	notifications notifications.Model
	loginView     login.Model
	helpView      helpview.Model
	commandView   command.Model
	settings      config.Model

	refresher *appsync.Refresher
	readState *notify.ReadState

	// entries is the latest derivation before read state is applied.
	entries  []model.Notification
	warnings []string
	unread   int

	session string
	flash   string
	ready   bool
}

// New creates a new root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := appsync.New(opts.Store, opts.RefreshInterval,
		appsync.WithClock(now),
		appsync.WithLogger(log),
	)

	return Model{
		currentView:   ViewList,
		store:         opts.Store,
		auth:          opts.Auth,
		tokens:        opts.Tokens,
		log:           log,
		now:           now,
		keys:          k,
		projectList:   projectlist.New(opts.Store, k, now, 80, 24),
		detail:        detail.New(opts.Store, k, now, 80, 24),
		form:          projectform.New(80, 24),
		notifications: notifications.New(k, 80, 24),
		loginView:     login.New(opts.Auth, opts.Tokens, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		commandView:   command.NewModel(80, 24),
		settings:      config.New(opts.ConfigPath, opts.Config, k, 80, 24),
		refresher:     r,
		readState:     notify.NewReadState(),
	}
}

// Init loads the project list, starts the notification refresher and
// checks for a stored session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.projectList.Init(),
		m.refresher.Start(),
		m.checkSession(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.projectList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.form.SetSize(w, h)
		m.notifications.SetSize(w, h)
		m.loginView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.settings.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.NotificationsMsg:
		m.applyNotifications(msg)
		return m, m.refresher.WaitForNextResult()

	case projectlist.ProjectsLoadedMsg:
		var cmd tea.Cmd
		m.projectList, cmd = m.projectList.Update(msg)
		return m, cmd

	case projectlist.SelectedProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetLoading(true)
		return m, m.detail.Load(msg.ID)

	case projectlist.EditProjectMsg:
		cmd := m.openForm(msg.Project)
		return m, cmd

	case projectlist.DeleteConfirmedMsg:
		cmd := m.deleteProject(msg.ID, msg.Name)
		return m, cmd

	case detail.DetailLoadedMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		p := m.detail.Project()
		if p == nil || p.ID != msg.ProjectID {
			return m, nil
		}
		switch msg.Action {
		case detail.ActionEdit:
			cmd := m.openForm(p)
			return m, cmd
		case detail.ActionDelete:
			m.currentView = ViewList
			cmd := m.projectList.ConfirmDelete(*p)
			return m, cmd
		}
		return m, nil

	case projectform.ProjectSubmittedMsg:
		m.currentView = m.formReturnView()
		cmd := m.saveProject(msg.Project, msg.Edit)
		return m, cmd

	case projectform.FormCancelMsg:
		m.currentView = m.formReturnView()
		return m, nil

	case projectSavedMsg:
		if msg.err != nil {
			m.flash = "Save failed: " + msg.err.Error()
			return m, nil
		}
		m.flash = fmt.Sprintf("Saved %q", msg.project.ProjectName)
		cmds := []tea.Cmd{m.projectList.Load(), m.refresher.Trigger()}
		if m.currentView == ViewDetail {
			m.detail.SetProject(msg.project)
		}
		return m, tea.Batch(cmds...)

	case projectDeletedMsg:
		if msg.err != nil {
			m.flash = "Delete failed: " + msg.err.Error()
			return m, nil
		}
		m.flash = fmt.Sprintf("Deleted %q", msg.name)
		return m, tea.Batch(m.projectList.Load(), m.refresher.Trigger())

	case seededMsg:
		if msg.err != nil {
			m.flash = "Seed failed: " + msg.err.Error()
			return m, nil
		}
		m.flash = fmt.Sprintf("Inserted %d demo projects", msg.count)
		return m, tea.Batch(m.projectList.Load(), m.refresher.Trigger())

	case notifications.AcknowledgeMsg:
		m.readState.AcknowledgeListed(m.entries, msg.ID)
		m.syncReadState()
		return m, nil

	case notifications.AcknowledgeAllMsg:
		m.readState.AcknowledgeAll(m.entries)
		m.syncReadState()
		return m, nil

	case notifications.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case sessionMsg:
		m.session = msg.username
		return m, nil

	case login.ResultMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		if msg.Err != nil {
			m.log.WithError(msg.Err).Warn("login failed")
			return m, cmd
		}
		m.session = msg.Username
		m.flash = "Signed in as " + msg.Username
		m.currentView = ViewList
		return m, nil

	case login.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case config.ConfigDoneMsg:
		m.currentView = m.previousView
		return m, nil

	case config.SettingsSavedMsg:
		m.log.WithField("path", msg.Path).Info("settings saved")
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work outside the focused view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.refresher.Stop()
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	case ViewCommand, ViewLogin:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	case ViewForm:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.formReturnView()
			return m, nil, true
		}
		return m, nil, false
	case ViewList:
		if m.projectList.Searching() {
			return m, nil, false
		}
	case ViewDetail:
	default:
		return m, nil, false
	}

	// Only the list and detail views reach here.
	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewList:
		m.refresher.Stop()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Notifications):
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return m, nil, true

	case key.Matches(msg, m.keys.Refresh):
		m.flash = ""
		return m, tea.Batch(m.projectList.Load(), m.refresher.Trigger()), true

	case key.Matches(msg, m.keys.Login):
		cmd := m.openLogin()
		return m, cmd, true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.projectList, cmd = m.projectList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewNotifications:
		m.notifications, cmd = m.notifications.Update(msg)
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

// applyNotifications stores a derivation result and reapplies read state.
func (m *Model) applyNotifications(msg appsync.NotificationsMsg) {
	m.warnings = nil
	if msg.Err != nil {
		problems := notify.InvalidDates(msg.Err)
		for _, p := range problems {
			m.warnings = append(m.warnings, p.Error())
		}
		if len(problems) == 0 {
			// The snapshot read failed; keep the previous entries.
			m.flash = "Notification refresh failed: " + msg.Err.Error()
			m.syncReadState()
			return
		}
	}
	m.entries = msg.Entries
	m.syncReadState()
}

// syncReadState pushes entries with read flags applied into the panel and
// recomputes the badge.
func (m *Model) syncReadState() {
	m.notifications.SetEntries(m.readState.Apply(m.entries), m.warnings)
	m.unread = m.readState.UnreadCount(m.entries)
}

func (m *Model) openForm(p *model.Project) tea.Cmd {
	if m.currentView != ViewForm {
		m.previousView = m.currentView
	}
	m.currentView = ViewForm
	if p == nil {
		return m.form.StartCreate()
	}
	return m.form.StartEdit(*p)
}

func (m Model) formReturnView() ViewState {
	if m.previousView == ViewDetail {
		return ViewDetail
	}
	return ViewList
}

func (m *Model) openLogin() tea.Cmd {
	if m.auth == nil || m.tokens == nil {
		m.flash = "Login is unavailable: no credential store"
		return nil
	}
	m.previousView = m.currentView
	m.currentView = ViewLogin
	return m.loginView.Start()
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	switch cmd.Name {
	case command.Refresh:
		return tea.Batch(m.projectList.Load(), m.refresher.Trigger())
	case command.New:
		return m.openForm(nil)
	case command.Notifications:
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return nil
	case command.ReadAll:
		m.readState.AcknowledgeAll(m.entries)
		m.syncReadState()
		return nil
	case command.Login:
		return m.openLogin()
	case command.Logout:
		return m.logout()
	case command.Seed:
		return m.seed()
	case command.Settings:
		m.previousView = m.currentView
		m.currentView = ViewSettings
		return nil
	case command.Clear:
		return m.projectList.ClearFilters()
	case command.Quit:
		m.refresher.Stop()
		return tea.Quit
	default:
		return nil
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(appTitle, notify.BadgeLabel(m.unread), m.refreshStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.projectList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewForm:
		return m.form.View()
	case ViewNotifications:
		return m.notifications.View()
	case ViewLogin:
		return m.loginView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

// refreshStatus returns a short string describing the refresher and session.
func (m Model) refreshStatus() string {
	var s string
	status := m.refresher.Status()
	switch status.State {
	case appsync.RefreshRunning:
		s = "refreshing"
	case appsync.RefreshError:
		s = "refresh failed"
	default:
		s = "idle"
		if !status.LastRun.IsZero() {
			s = "updated " + status.LastRun.Format("15:04")
		}
	}

	if m.session != "" {
		s += " | " + m.session
	}
	return s
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | e edit | d delete | j/k scroll"
	case ViewForm:
		return "enter next | shift+tab previous | esc cancel"
	case ViewNotifications:
		return "enter/m mark read | A mark all read | j/k move | esc back"
	case ViewLogin:
		return "enter submit | esc cancel"
	case ViewSettings:
		if m.settings.Mode() == config.ModeEdit {
			return "enter next | shift+tab previous | esc cancel"
		}
		return "e edit | esc back"
	default:
		if m.flash != "" {
			return m.flash
		}
		if summary := m.projectList.FilterSummary(); summary != "" {
			return summary + " | :clear reset"
		}
		return "q quit | ? help | n new | / search | s status | tab sort | b notifications"
	}
}

// Unread returns the number of unread notifications behind the badge.
func (m Model) Unread() int {
	return m.unread
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}
