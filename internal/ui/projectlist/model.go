package projectlist

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/keys"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/store"
	"github.com/nhle/project-dashboard/internal/theme"
)

// ProjectsLoadedMsg carries a fresh page of projects and the summary counts.
type ProjectsLoadedMsg struct {
	Projects []model.Project
	Stats    model.ProjectStats
	Err      error
}

// SelectedProjectMsg is sent when the user opens a project.
type SelectedProjectMsg struct {
	ID string
}

// EditProjectMsg asks the parent to open the form for a project. A nil
// Project means create.
type EditProjectMsg struct {
	Project *model.Project
}

// DeleteConfirmedMsg is sent after the user confirms a deletion.
type DeleteConfirmedMsg struct {
	ID   string
	Name string
}

// sortModes defines the available sort columns cycled by Tab.
var sortModes = []string{
	"updated_at",
	"project_name",
	"client_name",
	"assigned_delivery_date",
	"created_at",
}

// statusFilters is the cycle order for the status filter; "" shows all.
var statusFilters = append([]string{""}, model.ProjectStatuses...)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeConfirmDelete
)

type confirmBindings struct {
	ok bool
}

// Model is the project list view with its stat cards header.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	now         func() time.Time
	filter      store.ProjectFilter
	statusIndex int
	sortIndex   int
	mode        mode
	searchInput textinput.Model
	confirm     *huh.Form
	cb          *confirmBindings
	pending     *model.Project
	stats       model.ProjectStats
	loadErr     error
	width       int
	height      int
}

// New creates a new project list model.
func New(s store.Store, k *keys.KeyMap, now func() time.Time, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, listHeight(height))
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search by project, client or email..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:  l,
		store: s,
		keys:  k,
		now:   now,
		filter: store.ProjectFilter{
			SortBy:   sortModes[0],
			SortDesc: true,
		},
		searchInput: si,
		cb:          &confirmBindings{},
		width:       width,
		height:      height,
	}
}

// listHeight leaves room for the stat cards and the search bar.
func listHeight(height int) int {
	h := height - 6
	if h < 3 {
		h = 3
	}
	return h
}

// Init returns a command that loads the initial projects.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Update handles messages for the project list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProjectsLoadedMsg:
		m.loadErr = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.stats = msg.Stats
		items := make([]list.Item, len(msg.Projects))
		for i, p := range msg.Projects {
			items[i] = ProjectItem{Project: p}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.handleSearchKeys(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.mode == modeConfirmDelete {
		return m.updateConfirm(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.filter.Query = m.searchInput.Value()
		return m, m.Load()

	case "esc":
		m.mode = modeList
		m.searchInput.Reset()
		m.filter.Query = ""
		return m, m.Load()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		p, ok := m.SelectedProject()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedProjectMsg{ID: p.ID} }

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.filter.Query)
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return EditProjectMsg{} }

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.SelectedProject()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditProjectMsg{Project: &p} }

	case key.Matches(msg, m.keys.Delete):
		p, ok := m.SelectedProject()
		if !ok {
			return m, nil
		}
		cmd := m.startConfirm(p)
		return m, cmd

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusIndex = (m.statusIndex + 1) % len(statusFilters)
		m.filter.Status = statusFilters[m.statusIndex]
		return m, m.Load()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.filter.SortBy = sortModes[m.sortIndex]
		m.filter.SortDesc = m.filter.SortBy == "updated_at" || m.filter.SortBy == "created_at"
		return m, m.Load()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// ConfirmDelete opens the delete confirmation for p.
func (m *Model) ConfirmDelete(p model.Project) tea.Cmd {
	return m.startConfirm(p)
}

func (m *Model) startConfirm(p model.Project) tea.Cmd {
	m.mode = modeConfirmDelete
	m.pending = &p
	m.cb.ok = false
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", p.ProjectName)).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.cb.ok),
		),
	).WithWidth(min(m.width-4, 60))
	return m.confirm.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirm == nil {
		m.mode = modeList
		return m, nil
	}

	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		m.mode = modeList
		p := m.pending
		m.pending = nil
		m.confirm = nil
		if m.cb.ok && p != nil {
			return m, func() tea.Msg { return DeleteConfirmedMsg{ID: p.ID, Name: p.ProjectName} }
		}
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		m.pending = nil
		m.confirm = nil
		return m, nil
	}

	return m, cmd
}

// View renders the stat cards above the list.
func (m Model) View() string {
	cards := m.renderStatCards()

	var body string
	switch {
	case m.mode == modeConfirmDelete && m.confirm != nil:
		body = theme.DetailPanelStyle.Render(m.confirm.View())
	case m.loadErr != nil:
		body = lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Padding(1, 2).
			Render("Failed to load projects: " + m.loadErr.Error())
	case len(m.list.Items()) == 0:
		body = m.renderEmptyState()
	default:
		body = m.list.View()
	}

	if m.mode == modeSearch {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, cards, searchBar, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, body)
}

type statCard struct {
	title  string
	value  int
	accent lipgloss.TerminalColor
}

func (m Model) renderStatCards() string {
	cards := []statCard{
		{"Total Projects", m.stats.TotalProjects, theme.ColorBlue},
		{"Pending", m.stats.PendingProjects, theme.ColorYellow},
		{"Completed", m.stats.CompletedProjects, theme.ColorGreen},
		{"On Hold", m.stats.OnHoldProjects, theme.ColorMagenta},
		{"Expired Domains", m.stats.ExpiredDomains, theme.ColorRed},
		{"Server Issues", m.stats.ExpiredServers, theme.ColorGray},
	}

	cardWidth := m.width/len(cards) - 2
	if cardWidth < 12 {
		cardWidth = 12
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		value := lipgloss.NewStyle().Bold(true).Foreground(c.accent).Render(strconv.Itoa(c.value))
		title := lipgloss.NewStyle().Foreground(theme.ColorGray).Render(c.title)
		rendered[i] = theme.StatCardStyle(c.accent).
			Width(cardWidth).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderEmptyState shows guidance text when no projects are listed.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(listHeight(m.height)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Query != "" || m.filter.Status != "" {
		return style.Render("No matching projects.\nTry adjusting your search or status filter.")
	}
	return style.Render("No projects yet.\n\nPress n to add one, or run `dashboard seed` for demo data.")
}

// Load returns a tea.Cmd that queries projects and stats with the current filter.
func (m Model) Load() tea.Cmd {
	filter := m.filter
	s := m.store
	now := m.now
	return func() tea.Msg {
		ctx := context.Background()
		projects, err := s.GetProjects(ctx, filter)
		if err != nil {
			return ProjectsLoadedMsg{Err: err}
		}
		stats, err := s.GetProjectStats(ctx, now())
		if err != nil {
			return ProjectsLoadedMsg{Err: err}
		}
		return ProjectsLoadedMsg{Projects: projects, Stats: stats}
	}
}

// SelectedProject returns the project under the cursor.
func (m Model) SelectedProject() (model.Project, bool) {
	item, ok := m.list.SelectedItem().(ProjectItem)
	if !ok {
		return model.Project{}, false
	}
	return item.Project, true
}

// Searching reports whether the search input has focus, so global keys
// must not be intercepted.
func (m Model) Searching() bool {
	return m.mode == modeSearch || m.mode == modeConfirmDelete
}

// ClearFilters drops the search and status filter.
func (m *Model) ClearFilters() tea.Cmd {
	m.filter.Query = ""
	m.filter.Status = ""
	m.statusIndex = 0
	m.searchInput.Reset()
	return m.Load()
}

// FilterSummary describes the active search and status filter.
func (m Model) FilterSummary() string {
	var parts []string
	if m.filter.Query != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.filter.Query))
	}
	if m.filter.Status != "" {
		parts = append(parts, "status: "+theme.StatusLabel(m.filter.Status))
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " | " + p
	}
	return out
}

// Filter returns the active filter.
func (m Model) Filter() store.ProjectFilter {
	return m.filter
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, listHeight(height))
	m.searchInput.Width = width - 4
}
