package login

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/api"
)

type fakeAuth struct {
	token *api.Token
	err   error
	user  string
	pass  string
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*api.Token, error) {
	f.user, f.pass = username, password
	return f.token, f.err
}

type fakeTokens struct {
	saved *api.Token
	err   error
}

func (f *fakeTokens) SaveToken(token api.Token) error {
	if f.err != nil {
		return f.err
	}
	f.saved = &token
	return nil
}

func TestSubmit_SavesToken(t *testing.T) {
	auth := &fakeAuth{token: &api.Token{Access: "a", Refresh: "r"}}
	tokens := &fakeTokens{}
	m := New(auth, tokens, 80, 24)

	msg := m.submit("alice", "secret")()
	res, ok := msg.(ResultMsg)
	require.True(t, ok)
	assert.NoError(t, res.Err)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "secret", auth.pass)
	require.NotNil(t, tokens.saved)
	assert.Equal(t, "a", tokens.saved.Access)
}

func TestSubmit_AuthFailure(t *testing.T) {
	auth := &fakeAuth{err: &api.AuthError{Message: "No active account found"}}
	tokens := &fakeTokens{}
	m := New(auth, tokens, 80, 24)
	m.Start()

	res := m.submit("alice", "wrong")().(ResultMsg)
	require.Error(t, res.Err)
	assert.Nil(t, tokens.saved)

	m, cmd := m.Update(res)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "No active account found")
	assert.Equal(t, "alice", m.fb.username)
}

func TestSubmit_SaveFailure(t *testing.T) {
	auth := &fakeAuth{token: &api.Token{Access: "a"}}
	tokens := &fakeTokens{err: errors.New("locked")}
	m := New(auth, tokens, 80, 24)

	res := m.submit("alice", "secret")().(ResultMsg)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "saving token")
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "authentication failed: bad", errorText(&api.AuthError{Message: "bad"}))
	assert.Equal(t, "Login failed: boom", errorText(errors.New("boom")))
}
