package notifications

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/keys"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/theme"
)

// AcknowledgeMsg asks the parent to mark one notification as read.
type AcknowledgeMsg struct {
	ID string
}

// AcknowledgeAllMsg asks the parent to mark every notification as read.
type AcknowledgeAllMsg struct{}

// CloseMsg signals the parent to close the panel.
type CloseMsg struct{}

// Model is the notifications panel. Entries arrive with their read flag
// already applied; the panel never changes read state itself.
type Model struct {
	entries  []model.Notification
	warnings []string
	cursor   int
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates an empty notifications panel.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetEntries replaces the entries on display, keeping the cursor on the
// same notification when it is still present.
func (m *Model) SetEntries(entries []model.Notification, warnings []string) {
	var currentID string
	if m.cursor < len(m.entries) {
		currentID = m.entries[m.cursor].ID
	}

	m.entries = entries
	m.warnings = warnings
	m.cursor = 0
	for i, n := range entries {
		if n.ID == currentID {
			m.cursor = i
			break
		}
	}
}

// Entries returns the entries on display.
func (m Model) Entries() []model.Notification {
	return m.entries
}

// Update handles key input for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Acknowledge):
		if m.cursor < len(m.entries) {
			id := m.entries[m.cursor].ID
			return m, func() tea.Msg { return AcknowledgeMsg{ID: id} }
		}
	case key.Matches(keyMsg, m.keys.AcknowledgeAll):
		if len(m.entries) > 0 {
			return m, func() tea.Msg { return AcknowledgeAllMsg{} }
		}
	case key.Matches(keyMsg, m.keys.Back), key.Matches(keyMsg, m.keys.Notifications):
		return m, func() tea.Msg { return CloseMsg{} }
	}
	return m, nil
}

// View renders the panel.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render(fmt.Sprintf("Notifications (%d)", len(m.entries)))

	if len(m.entries) == 0 {
		empty := lipgloss.NewStyle().
			Width(m.width).
			Height(max(m.height-2, 1)).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications")
		return lipgloss.JoinVertical(lipgloss.Left, title, m.renderWarnings(), empty)
	}

	rows := []string{title, ""}
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		rows = append(rows, m.renderEntry(m.entries[i], i == m.cursor), "")
	}
	if w := m.renderWarnings(); w != "" {
		rows = append(rows, w)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// entryHeight is the number of lines one entry occupies including spacing.
const entryHeight = 4

func (m Model) visibleRange() (int, int) {
	per := max((m.height-4)/entryHeight, 1)
	start := 0
	if m.cursor >= per {
		start = m.cursor - per + 1
	}
	end := min(start+per, len(m.entries))
	return start, end
}

func (m Model) renderEntry(n model.Notification, selected bool) string {
	marker := "  "
	if selected {
		marker = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("▸ ")
	}

	dot := lipgloss.NewStyle().Foreground(theme.SeverityColor(n.Severity)).Render("●")
	if n.Read {
		dot = theme.DimmedStyle.Render("○")
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	msgStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	if n.Read {
		titleStyle = theme.DimmedStyle
		msgStyle = theme.DimmedStyle
	}

	severity := theme.SeverityStyle(n.Severity).Render(strings.ToUpper(string(n.Severity)))
	due := theme.DimmedStyle.Render(n.DueDate.Format("Jan 2, 2006"))

	line1 := marker + dot + " " + titleStyle.Render(n.Title) + "  " + severity
	line2 := "    " + msgStyle.Render(n.Message)
	line3 := "    " + due

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2, line3)
}

func (m Model) renderWarnings() string {
	if len(m.warnings) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(theme.ColorYellow)
	lines := make([]string, len(m.warnings))
	for i, w := range m.warnings {
		lines[i] = style.Render("! " + w)
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
