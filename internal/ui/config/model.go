package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/keys"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/theme"
)

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeView ConfigMode = iota // Show current settings
	ModeEdit                   // huh form is active
)

// ConfigDoneMsg signals the settings view should close.
type ConfigDoneMsg struct{}

// SettingsSavedMsg signals the configuration file was written.
type SettingsSavedMsg struct {
	Config model.AppConfig
	Path   string
}

// SaveFunc persists a configuration to path.
type SaveFunc func(path string, cfg *model.AppConfig) error

type savedInternalMsg struct {
	cfg model.AppConfig
	err error
}

type formBindings struct {
	baseURL  string
	timeout  string
	refresh  string
	logLevel string
	logFmt   string
	logFile  string
	addr     string
}

// Model is the Bubble Tea model for the settings view.
type Model struct {
	mode ConfigMode
	path string
	cfg  model.AppConfig
	save SaveFunc

	form *huh.Form
	fb   *formBindings

	statusMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates a settings view for the configuration stored at path.
// A nil cfg shows the defaults.
func New(path string, cfg *model.AppConfig, k *keys.KeyMap, width, height int) Model {
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	return Model{
		mode:   ModeView,
		path:   path,
		cfg:    *cfg,
		save:   model.SaveConfig,
		fb:     &formBindings{},
		keys:   k,
		width:  width,
		height: height,
	}
}

// WithSaver replaces the function used to write the configuration.
func (m Model) WithSaver(fn SaveFunc) Model {
	m.save = fn
	return m
}

// Config returns the settings currently shown.
func (m Model) Config() model.AppConfig {
	return m.cfg
}

// Mode returns the current mode.
func (m Model) Mode() ConfigMode {
	return m.mode
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case savedInternalMsg:
		m.mode = ModeView
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error saving settings: %v", msg.err)
			return m, nil
		}
		m.cfg = msg.cfg
		m.statusMsg = "Saved. Restart the dashboard to apply."
		saved := SettingsSavedMsg{Config: msg.cfg, Path: m.path}
		return m, func() tea.Msg { return saved }

	case tea.KeyMsg:
		if m.mode == ModeView {
			return m.handleViewKeys(msg)
		}
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeView
			m.form = nil
			return m, nil
		}
	}

	if m.mode == ModeEdit {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleViewKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		cmd := m.startEdit()
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}
	return m, nil
}

func (m *Model) startEdit() tea.Cmd {
	*m.fb = formBindings{
		baseURL:  m.cfg.API.BaseURL,
		timeout:  strconv.Itoa(m.cfg.API.TimeoutSec),
		refresh:  strconv.Itoa(m.cfg.Display.RefreshIntervalSec),
		logLevel: strings.ToLower(m.cfg.Log.Level),
		logFmt:   strings.ToLower(m.cfg.Log.Format),
		logFile:  m.cfg.Log.File,
		addr:     m.cfg.Server.Addr,
	}
	m.statusMsg = ""
	m.mode = ModeEdit
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	fb := m.fb

	api := huh.NewGroup(
		huh.NewInput().
			Title("API Base URL").
			Value(&fb.baseURL).
			Validate(validateURL),
		huh.NewInput().
			Title("Request Timeout (seconds)").
			Value(&fb.timeout).
			Validate(validatePositive("timeout")),
	).Title("Backend")

	display := huh.NewGroup(
		huh.NewInput().
			Title("Refresh Interval (seconds)").
			Value(&fb.refresh).
			Validate(validatePositive("refresh interval")),
		huh.NewInput().
			Title("API Listen Address").
			Placeholder("127.0.0.1:8080").
			Value(&fb.addr).
			Validate(validateRequired("listen address")),
	).Title("Dashboard")

	logging := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Log Level").
			Options(
				huh.NewOption("Debug", "debug"),
				huh.NewOption("Info", "info"),
				huh.NewOption("Warn", "warn"),
				huh.NewOption("Error", "error"),
			).
			Value(&fb.logLevel),
		huh.NewSelect[string]().
			Title("Log Format").
			Options(
				huh.NewOption("Text", "text"),
				huh.NewOption("JSON", "json"),
			).
			Value(&fb.logFmt),
		huh.NewInput().
			Title("Log File").
			Description("Leave empty to log to stderr.").
			Value(&fb.logFile),
	).Title("Logging")

	return huh.NewForm(api, display, logging).
		WithWidth(m.formWidth()).
		WithShowHelp(true)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeView
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.saveConfig(m.formConfig())
	case huh.StateAborted:
		m.form = nil
		m.mode = ModeView
		return m, nil
	}
	return m, cmd
}

// formConfig applies the form values on top of the current settings.
func (m Model) formConfig() model.AppConfig {
	cfg := m.cfg
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(m.fb.baseURL), "/")
	if n, err := strconv.Atoi(strings.TrimSpace(m.fb.timeout)); err == nil && n > 0 {
		cfg.API.TimeoutSec = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(m.fb.refresh)); err == nil && n > 0 {
		cfg.Display.RefreshIntervalSec = n
	}
	cfg.Log.Level = m.fb.logLevel
	cfg.Log.Format = m.fb.logFmt
	cfg.Log.File = strings.TrimSpace(m.fb.logFile)
	cfg.Server.Addr = strings.TrimSpace(m.fb.addr)
	return cfg
}

func (m Model) saveConfig(cfg model.AppConfig) tea.Cmd {
	save, path := m.save, m.path
	return func() tea.Msg {
		if path == "" {
			return savedInternalMsg{cfg: cfg, err: fmt.Errorf("no config path")}
		}
		err := save(path, &cfg)
		return savedInternalMsg{cfg: cfg, err: err}
	}
}

// --- View ---

// View renders the settings view.
func (m Model) View() string {
	if m.mode == ModeEdit && m.form != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Width(m.width).
			Render(m.form.View())
	}
	return m.viewSettings()
}

func (m Model) viewSettings() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	logFile := m.cfg.Log.File
	if logFile == "" {
		logFile = "stderr"
	}
	rows := [][2]string{
		{"Config file", m.path},
		{"API base URL", m.cfg.API.BaseURL},
		{"Timeout", fmt.Sprintf("%ds", m.cfg.API.TimeoutSec)},
		{"Refresh interval", fmt.Sprintf("%ds", m.cfg.Display.RefreshIntervalSec)},
		{"Database", m.cfg.Database.Path},
		{"Listen address", m.cfg.Server.Addr},
		{"Log level", m.cfg.Log.Level},
		{"Log format", m.cfg.Log.Format},
		{"Log file", logFile},
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(18)
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]))
		b.WriteString(r[1])
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		statusStyle := lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true)
		b.WriteString(statusStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("e edit | esc back"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Render(b.String())
}

// --- Helpers ---

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}

func validatePositive(fieldName string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive number of seconds", fieldName)
		}
		return nil
	}
}
