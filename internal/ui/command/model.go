package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/theme"
)

// Palette verbs understood by the root model.
const (
	Refresh       = "refresh"
	New           = "new"
	Notifications = "notifications"
	ReadAll       = "read-all"
	Login         = "login"
	Logout        = "logout"
	Seed          = "seed"
	Clear         = "clear"
	Settings      = "settings"
	Quit          = "quit"
)

// descriptions doubles as the set of known verbs.
var descriptions = map[string]string{
	Refresh:       "reload projects and re-derive notifications",
	New:           "create a project",
	Notifications: "open the notifications panel",
	ReadAll:       "mark every notification as read",
	Login:         "sign in to the backend",
	Logout:        "forget the stored token",
	Seed:          "insert demo projects",
	Clear:         "clear search and status filter",
	Settings:      "view and edit settings",
	Quit:          "exit the dashboard",
}

// aliases map short forms onto verbs.
var aliases = map[string]string{
	"r":      Refresh,
	"n":      New,
	"notifs": Notifications,
	"q":      Quit,
	"exit":   Quit,
}

// CommandMsg is emitted when the user executes a known command.
type CommandMsg struct {
	Name string
	Args []string
}

// Parse resolves a palette line into a command.
func Parse(line string) (CommandMsg, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandMsg{}, fmt.Errorf("empty command")
	}

	name := strings.ToLower(fields[0])
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if _, ok := descriptions[name]; !ok {
		return CommandMsg{}, fmt.Errorf("unknown command %q", fields[0])
	}
	return CommandMsg{Name: name, Args: fields[1:]}, nil
}

// Verbs returns the known verbs with their descriptions, sorted by verb.
func Verbs() [][2]string {
	out := make([][2]string, 0, len(descriptions))
	for name, desc := range descriptions {
		out = append(out, [2]string{name, desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    error
	width  int
	height int
}

// NewModel creates a new command palette model.
func NewModel(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.err = nil
			if line == "" {
				return m, nil
			}
			parsed, err := Parse(line)
			if err != nil {
				m.err = err
				return m, nil
			}
			return m, func() tea.Msg {
				return parsed
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Command Palette"), m.input.View()}

	if m.err != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.err.Error()))
	}
	if hints := m.suggestions(); hints != "" {
		parts = append(parts, "", hints)
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// suggestions lists the verbs that start with the current input.
func (m Model) suggestions() string {
	prefix := strings.ToLower(strings.TrimSpace(m.input.Value()))
	var lines []string
	for _, v := range Verbs() {
		if strings.HasPrefix(v[0], prefix) {
			lines = append(lines, fmt.Sprintf("%-14s %s", v[0], theme.DimmedStyle.Render(v[1])))
		}
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.err = nil
	return m.input.Focus()
}
