package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line    string
		want    CommandMsg
		wantErr bool
	}{
		{line: "refresh", want: CommandMsg{Name: Refresh, Args: []string{}}},
		{line: "  Q ", want: CommandMsg{Name: Quit, Args: []string{}}},
		{line: "seed now", want: CommandMsg{Name: Seed, Args: []string{"now"}}},
		{line: "notifs", want: CommandMsg{Name: Notifications, Args: []string{}}},
		{line: "", wantErr: true},
		{line: "frobnicate", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerbs_Sorted(t *testing.T) {
	verbs := Verbs()
	require.NotEmpty(t, verbs)
	for i := 1; i < len(verbs); i++ {
		assert.Less(t, verbs[i-1][0], verbs[i][0])
	}
}

func TestModel_EnterEmitsCommand(t *testing.T) {
	m := NewModel(80, 10)
	m.input.SetValue("logout")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Name: Logout, Args: []string{}}, cmd())
	assert.Empty(t, m.input.Value())
}

func TestModel_UnknownShowsError(t *testing.T) {
	m := NewModel(80, 10)
	m.input.SetValue("bogus")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), `unknown command "bogus"`)
}

func TestModel_Suggestions(t *testing.T) {
	m := NewModel(80, 10)
	m.input.SetValue("lo")
	s := m.suggestions()
	assert.Contains(t, s, Login)
	assert.Contains(t, s, Logout)
	assert.NotContains(t, s, Refresh)
}
