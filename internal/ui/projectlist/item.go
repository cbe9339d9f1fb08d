package projectlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/theme"
)

// ProjectItem wraps a model.Project so it can be used in a bubbles/list.
type ProjectItem struct {
	Project model.Project
}

// FilterValue returns the string used for fuzzy filtering.
func (i ProjectItem) FilterValue() string { return i.Project.ProjectName }

// Title returns the project name.
func (i ProjectItem) Title() string { return i.Project.ProjectName }

// Description returns the client and contact line.
func (i ProjectItem) Description() string {
	parts := []string{i.Project.ClientName}
	if i.Project.Email != "" {
		parts = append(parts, i.Project.Email)
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for project rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws one project row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(ProjectItem)
	if !ok {
		return
	}
	p := pi.Project

	status := theme.StatusStyle(p.Status).Render(fmt.Sprintf("%-9s", theme.StatusLabel(p.Status)))
	client := lipgloss.NewStyle().Foreground(theme.ColorGray).Render(p.ClientName)
	approach := lipgloss.NewStyle().Foreground(theme.ColorGray).Render(displayDate(p.ClientApproachDate))

	avatar := lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(fmt.Sprintf("%-2s", initials(p.ClientName)))

	line := fmt.Sprintf("%2d %s %s %s  %s  %s", index+1, avatar, status, p.ProjectName, client, approach)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// displayDate renders a stored date as "Jan 2, 2006", leaving unparseable
// values untouched.
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

// initials returns up to two initials of a client name.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		r := []rune(w)
		out = append(out, r[0])
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}
