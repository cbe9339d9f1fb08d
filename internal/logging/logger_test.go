package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-dashboard/internal/model"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
}

func TestNew_Stderr(t *testing.T) {
	log, closer, err := New(model.LogConfig{Level: "error"})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, os.Stderr, log.Out)
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dashboard.log")

	log, closer, err := New(model.LogConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	log.WithField("project", "p1").Info("refreshed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "refreshed", line["msg"])
	assert.Equal(t, "p1", line["project"])
	assert.Equal(t, "info", line["level"])
}
