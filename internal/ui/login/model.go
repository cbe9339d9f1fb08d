package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/api"
	"github.com/nhle/project-dashboard/internal/theme"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.Token, error)
}

// TokenSaver persists a token after a successful login.
type TokenSaver interface {
	SaveToken(token api.Token) error
}

// ResultMsg reports the outcome of a login attempt.
type ResultMsg struct {
	Username string
	Err      error
}

// CancelMsg is dispatched when the user leaves the form.
type CancelMsg struct{}

// loginTimeout bounds the whole login round-trip including retries.
const loginTimeout = 45 * time.Second

type formBindings struct {
	username string
	password string
}

// Model is the login form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	auth       Authenticator
	tokens     TokenSaver
	submitting bool
	lastErr    error
	width      int
	height     int
}

// New creates a login form bound to an authenticator and token store.
func New(auth Authenticator, tokens TokenSaver, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		auth:   auth,
		tokens: tokens,
		width:  width,
		height: height,
	}
}

// Start resets the form. The username is kept after a failed attempt.
func (m *Model) Start() tea.Cmd {
	m.fb.password = ""
	m.submitting = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(required("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(required("Password")),
		),
	).WithWidth(min(max(m.width-4, 30), 60))
	return m.form.Init()
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if res, ok := msg.(ResultMsg); ok {
		m.submitting = false
		m.lastErr = res.Err
		if res.Err != nil {
			if res.Username != "" {
				m.fb.username = res.Username
			}
			cmd := m.Start()
			return m, cmd
		}
		return m, nil
	}

	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitting = true
		return m, m.submit(strings.TrimSpace(m.fb.username), m.fb.password)
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

func (m Model) submit(username, password string) tea.Cmd {
	auth := m.auth
	tokens := m.tokens
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		token, err := auth.Login(ctx, username, password)
		if err != nil {
			return ResultMsg{Username: username, Err: err}
		}
		if err := tokens.SaveToken(*token); err != nil {
			return ResultMsg{Username: username, Err: fmt.Errorf("saving token: %w", err)}
		}
		return ResultMsg{Username: username}
	}
}

// View renders the login form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Sign in")}
	if m.lastErr != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(errorText(m.lastErr)), "")
	}
	switch {
	case m.submitting:
		parts = append(parts, theme.DimmedStyle.Render("Signing in..."))
	case m.form != nil:
		parts = append(parts, m.form.View())
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// errorText turns a login failure into a message for the form.
func errorText(err error) string {
	if api.IsAuthError(err) {
		return err.Error()
	}
	return "Login failed: " + err.Error()
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
