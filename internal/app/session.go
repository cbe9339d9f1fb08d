package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-dashboard/internal/api"
	"github.com/nhle/project-dashboard/internal/credential"
)

// TokenStore persists the API token between runs.
type TokenStore interface {
	SaveToken(token api.Token) error
	LoadToken() (*api.Token, error)
	ClearToken() error
}

// sessionMsg reports who is signed in; empty means nobody.
type sessionMsg struct {
	username string
}

// checkSession looks for a stored, unexpired token.
func (m Model) checkSession() tea.Cmd {
	tokens := m.tokens
	now := m.now
	log := m.log
	if tokens == nil {
		return nil
	}
	return func() tea.Msg {
		token, err := tokens.LoadToken()
		if err != nil {
			if !errors.Is(err, credential.ErrNoToken) {
				log.WithError(err).Warn("reading stored token")
			}
			return sessionMsg{}
		}
		if !credential.LoggedIn(token.Access, now()) {
			return sessionMsg{}
		}
		return sessionMsg{username: sessionLabel(token.Access)}
	}
}

// sessionLabel names the signed-in user for the header.
func sessionLabel(access string) string {
	claims, err := credential.ParseClaims(access)
	switch {
	case err != nil:
		return "signed in"
	case claims.Subject != "":
		return claims.Subject
	case claims.UserID != nil:
		return fmt.Sprintf("user %v", claims.UserID)
	default:
		return "signed in"
	}
}

func (m *Model) logout() tea.Cmd {
	if m.tokens == nil {
		return nil
	}
	if err := m.tokens.ClearToken(); err != nil {
		m.flash = "Logout failed: " + err.Error()
		return nil
	}
	m.session = ""
	m.flash = "Signed out"
	return nil
}
