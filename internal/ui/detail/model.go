package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/keys"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	"github.com/nhle/project-dashboard/internal/store"
	"github.com/nhle/project-dashboard/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// DetailLoadedMsg carries the loaded project.
type DetailLoadedMsg struct {
	Project *model.Project
	Err     error
}

// ActionMsg signals the parent to execute an action on the current project.
type ActionMsg struct {
	Action    string
	ProjectID string
}

// Actions carried by ActionMsg.
const (
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Model is the project detail view component.
type Model struct {
	project  *model.Project
	err      error
	viewport viewport.Model
	store    store.Store
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(s store.Store, keys *keys.KeyMap, now func() time.Time, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     keys,
		now:      now,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Load returns a command that fetches the project with the given id.
func (m Model) Load(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		p, err := s.GetProjectByID(context.Background(), id)
		return DetailLoadedMsg{Project: p, Err: err}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		m.err = msg.Err
		m.project = msg.Project
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Edit):
			if m.project != nil {
				return m, m.action(ActionEdit)
			}

		case key.Matches(msg, m.keys.Delete):
			if m.project != nil {
				return m, m.action(ActionDelete)
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	id := m.project.ID
	return func() tea.Msg {
		return ActionMsg{Action: name, ProjectID: id}
	}
}

// View renders the detail view.
func (m Model) View() string {
	centered := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return centered.Render("Loading project...")
	case m.err != nil:
		return centered.Foreground(theme.ColorRed).Render("Could not load project: " + m.err.Error())
	case m.project == nil:
		return centered.Render("No project selected")
	}

	return m.viewport.View()
}

type field struct {
	label string
	value string
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.project == nil {
		return ""
	}

	p := m.project
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(p.ProjectName))

	badges := []string{theme.StatusStyle(p.Status).Render(theme.StatusLabel(p.Status))}
	if p.NatureOfProject != "" {
		badges = append(badges, "  ", lipgloss.NewStyle().Foreground(theme.ColorMagenta).Render(strings.ToUpper(p.NatureOfProject)))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badges...), "")

	sections = append(sections, m.section("Client", []field{
		{"Client", p.ClientName},
		{"Country", p.Country},
		{"Phone", p.PhoneNumber},
		{"Email", p.Email},
		{"Approached", displayDate(p.ClientApproachDate)},
		{"About", p.AboutClient},
	})...)

	sections = append(sections, m.section("Domain", []field{
		{"Name", p.DomainName},
		{"Status", p.DomainStatus},
		{"Owner", p.DomainOwner},
		{"Purchased From", p.DomainPurchasedFrom},
		{"Purchased", displayDate(p.DomainPurchaseDate)},
		{"Expires", m.countdown(p.DomainExpDate)},
	})...)

	sections = append(sections, m.section("Server", []field{
		{"Name", p.ServerName},
		{"Type", p.ServerType},
		{"Status", p.ServerStatus},
		{"Owner", p.ServerOwner},
		{"Acquired", displayDate(p.ServerAcquiredDate)},
		{"Expires", m.countdown(p.ServerExpDate)},
	})...)

	sections = append(sections, m.section("Timeline", []field{
		{"Work Type", p.WorkType},
		{"Assigned", displayDate(p.WorkAssignedDate)},
		{"Deadline", m.countdown(p.AssignedDeliveryDate)},
		{"UX/UI", p.UXUIAssistant},
		{"Work Started", displayDate(p.WorkStartDate)},
		{"Delivered", displayDate(p.DeliveredDate)},
		{"Dev Assigned By", p.DevelopmentAssignedBy},
		{"Dev Started", displayDate(p.DevWorkStartDate)},
		{"Dev Deadline", displayDate(p.DevAssignedDeliveryDate)},
		{"Dev Delivered", displayDate(p.DevDeliveredDate)},
		{"Work Status", p.WorkStatus},
		{"Status Updated", displayDate(p.StatusUpdatedDate)},
		{"Handed Over", displayDate(p.HandedOverDate)},
		{"Review", displayDate(p.ProjectReviewDate)},
	})...)

	sections = append(sections, m.section("Metrics", []field{
		{"Days Spent", fmt.Sprintf("%d", p.TotalDaysSpent)},
		{"Saved Days", fmt.Sprintf("%d", p.SavedDays)},
		{"Over-spend Days", fmt.Sprintf("%d", p.OverSpendDays)},
		{"Manpower Cost", fmt.Sprintf("%.2f", p.SpentManpowerCost)},
	})...)

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Scope of Work"))

	scope := p.ScopeDescription
	if scope == "" {
		scope = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, scope)

	if !p.UpdatedAt.IsZero() {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
			"Last updated "+p.UpdatedAt.Local().Format("2006-01-02 15:04"),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// section renders a titled block of label/value rows, skipping empty values.
func (m Model) section(title string, fields []field) []string {
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(17)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	rows := []string{theme.SectionStyle.Render(title)}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		rows = append(rows, metaStyle.Render(f.label+":")+valStyle.Render(f.value))
	}
	if len(rows) == 1 {
		rows = append(rows, lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).Render("Not set"))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	rows = append(rows, "", sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1))), "")
	return rows
}

// countdown renders a date followed by its distance from today.
func (m Model) countdown(s string) string {
	if s == "" {
		return ""
	}
	due, err := model.ParseDate(s)
	if err != nil {
		return s + " (invalid date)"
	}

	days := notify.DaysUntil(due, m.now())
	var rel string
	switch {
	case days == 0:
		rel = "today"
	case days == 1:
		rel = "tomorrow"
	case days > 1:
		rel = fmt.Sprintf("in %d days", days)
	case days == -1:
		rel = "1 day ago"
	default:
		rel = fmt.Sprintf("%d days ago", -days)
	}
	return fmt.Sprintf("%s (%s)", due.Format("Jan 2, 2006"), rel)
}

func displayDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// SetProject updates the project being displayed and re-renders the content.
func (m *Model) SetProject(p *model.Project) {
	m.project = p
	m.err = nil
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Project returns the project on display, if any.
func (m Model) Project() *model.Project {
	return m.project
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
