package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/sebdah/goldie/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/credential"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/store"
	"github.com/nhle/project-dashboard/tests/testutil"
)

var fixedNow = time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)

// fixedStore serves a constant project list.
type fixedStore struct {
	store.Store
	projects []model.Project
	stats    model.ProjectStats
}

func (s *fixedStore) GetProjects(context.Context, store.ProjectFilter) ([]model.Project, error) {
	return s.projects, nil
}

func (s *fixedStore) GetProjectStats(context.Context, time.Time) (model.ProjectStats, error) {
	return s.stats, nil
}

func (s *fixedStore) Close() error { return nil }

// keepOpen hides Close so a real store outlives the command under test.
type keepOpen struct {
	store.Store
}

func (keepOpen) Close() error { return nil }

func goldenProjects() []model.Project {
	return []model.Project{
		{
			ID:                   "p-storefront",
			ProjectName:          "Storefront",
			DomainName:           "acme.example",
			DomainExpDate:        "2024-04-25",
			AssignedDeliveryDate: "2024-04-22",
		},
		{
			ID:            "p-portal",
			ProjectName:   "Client Portal",
			ServerExpDate: "2024-05-05",
			DomainExpDate: "2024-05-15",
		},
		{
			ID:                   "p-broken",
			ProjectName:          "Broken",
			DomainExpDate:        "soon",
			AssignedDeliveryDate: "2024-04-26",
		},
	}
}

type harness struct {
	st   store.Store
	ring *credential.Keyring
}

func newHarness(st store.Store) *harness {
	return &harness{st: st, ring: credential.New(keyring.NewArrayKeyring(nil))}
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	d := deps{
		now: func() time.Time { return fixedNow },
		openStore: func(*model.AppConfig, *logrus.Logger) (store.Store, error) {
			return h.st, nil
		},
		openKeyring: func(*model.AppConfig) (*credential.Keyring, error) {
			return h.ring, nil
		},
	}

	cmd := newRootCommand(d)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	cmd.SetArgs(append([]string{"--config", cfg}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dashboard", cmd.Use)

	for _, name := range []string{"notifications", "stats", "seed", "serve", "login", "logout", "whoami"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(&fixedStore{})
	_, _, err := h.run(t, "--format", "yaml", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestNotifications_Text(t *testing.T) {
	h := newHarness(&fixedStore{projects: goldenProjects()})

	stdout, stderr, err := h.run(t, "notifications", "--now", "2024-04-20")
	require.NoError(t, err)
	assert.Contains(t, stderr, `warning: project p-broken: domainExpDate "soon" is not a calendar date`)

	newGoldie(t).Assert(t, "notifications_text", []byte(stdout))
}

func TestNotifications_JSON(t *testing.T) {
	h := newHarness(&fixedStore{projects: goldenProjects()})

	stdout, _, err := h.run(t, "--format", "json", "notifications", "--now", "2024-04-20")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "notifications_json", []byte(stdout))
}

func TestNotifications_Empty(t *testing.T) {
	h := newHarness(&fixedStore{})

	stdout, _, err := h.run(t, "notifications")
	require.NoError(t, err)
	assert.Equal(t, "No notifications\n", stdout)
}

func TestNotifications_BadNow(t *testing.T) {
	h := newHarness(&fixedStore{})
	_, _, err := h.run(t, "notifications", "--now", "tomorrow")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidDate)
}

func TestStats_Text(t *testing.T) {
	h := newHarness(&fixedStore{stats: model.ProjectStats{
		TotalProjects:     5,
		PendingProjects:   2,
		CompletedProjects: 1,
		OnHoldProjects:    1,
		ExpiredDomains:    1,
		ExpiredServers:    0,
	}})

	stdout, _, err := h.run(t, "stats")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "stats_text", []byte(stdout))
}

func TestSeed_UsesStore(t *testing.T) {
	st := testutil.NewTestStore(t)
	h := newHarness(keepOpen{st})

	stdout, _, err := h.run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "demo projects")

	projects, err := st.GetProjects(context.Background(), store.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, projects, len(store.DemoProjects(fixedNow)))
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	h := newHarness(&fixedStore{})

	stdout, _, err := h.run(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in\n", stdout)
}

func TestLoginWhoamiLogout(t *testing.T) {
	exp := fixedNow.Add(time.Hour).Truncate(time.Second)
	access, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwtlib.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/token/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"` + access + `","refresh":"r"}`))
	}))
	defer srv.Close()
	t.Setenv("DASHBOARD_API_BASE_URL", srv.URL)

	h := newHarness(&fixedStore{})

	stdout, _, err := h.run(t, "login", "-u", "alice", "-p", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Logged in as alice\n", stdout)

	stdout, _, err = h.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as alice")
	assert.Contains(t, stdout, exp.UTC().Format(time.RFC3339))

	_, _, err = h.run(t, "logout")
	require.NoError(t, err)

	stdout, _, err = h.run(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in\n", stdout)
}

func TestDescribeToken_Expired(t *testing.T) {
	access, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"user_id": 42,
		"exp":     fixedNow.Add(-time.Minute).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	res := describeToken(access, fixedNow)
	assert.False(t, res.LoggedIn)
	assert.Equal(t, "user 42", res.User)
	require.NotNil(t, res.ExpiresAt)
}
