package projectform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/theme"
)

// ProjectSubmittedMsg is dispatched when the form is completed. Project.ID
// is empty for a new project.
type ProjectSubmittedMsg struct {
	Project model.Project
	Edit    bool
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	projectName string
	status      string
	nature      string
	workType    string

	clientName   string
	country      string
	phone        string
	email        string
	aboutClient  string
	approachDate string

	domainStatus    string
	domainName      string
	domainOwner     string
	domainVendor    string
	domainPurchased string
	domainExpires   string

	serverStatus   string
	serverType     string
	serverName     string
	serverOwner    string
	serverAcquired string
	serverExpires  string

	workAssigned   string
	deliveryDate   string
	scope          string
	uxuiAssistant  string
	workStart      string
	delivered      string
	devAssignedBy  string
	devStart       string
	devDelivery    string
	devDelivered   string
	workStatus     string
	statusUpdated  string
	handedOver     string
	reviewDate     string

	totalDays string
	savedDays string
	overDays  string
	cost      string
}

// Model is the Bubble Tea model for the project create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	base     model.Project
	editMode bool
	width    int
	height   int
}

// New creates a new project form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new project.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.base = model.Project{Status: model.ProjectStatusActive}
	m.load(m.base)
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing project.
func (m *Model) StartEdit(p model.Project) tea.Cmd {
	m.editMode = true
	m.base = p
	m.load(p)
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing project.
func (m Model) Editing() bool {
	return m.editMode
}

// Update handles messages for the project form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the project form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.editMode {
		titleText = "Edit Project: " + m.base.ProjectName
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) load(p model.Project) {
	*m.fb = formBindings{
		projectName: p.ProjectName,
		status:      p.Status,
		nature:      p.NatureOfProject,
		workType:    p.WorkType,

		clientName:   p.ClientName,
		country:      p.Country,
		phone:        p.PhoneNumber,
		email:        p.Email,
		aboutClient:  p.AboutClient,
		approachDate: p.ClientApproachDate,

		domainStatus:    p.DomainStatus,
		domainName:      p.DomainName,
		domainOwner:     p.DomainOwner,
		domainVendor:    p.DomainPurchasedFrom,
		domainPurchased: p.DomainPurchaseDate,
		domainExpires:   p.DomainExpDate,

		serverStatus:   p.ServerStatus,
		serverType:     p.ServerType,
		serverName:     p.ServerName,
		serverOwner:    p.ServerOwner,
		serverAcquired: p.ServerAcquiredDate,
		serverExpires:  p.ServerExpDate,

		workAssigned:  p.WorkAssignedDate,
		deliveryDate:  p.AssignedDeliveryDate,
		scope:         p.ScopeDescription,
		uxuiAssistant: p.UXUIAssistant,
		workStart:     p.WorkStartDate,
		delivered:     p.DeliveredDate,
		devAssignedBy: p.DevelopmentAssignedBy,
		devStart:      p.DevWorkStartDate,
		devDelivery:   p.DevAssignedDeliveryDate,
		devDelivered:  p.DevDeliveredDate,
		workStatus:    p.WorkStatus,
		statusUpdated: p.StatusUpdatedDate,
		handedOver:    p.HandedOverDate,
		reviewDate:    p.ProjectReviewDate,

		totalDays: strconv.Itoa(p.TotalDaysSpent),
		savedDays: strconv.Itoa(p.SavedDays),
		overDays:  strconv.Itoa(p.OverSpendDays),
		cost:      strconv.FormatFloat(p.SpentManpowerCost, 'f', -1, 64),
	}
	if m.fb.status == "" {
		m.fb.status = model.ProjectStatusActive
	}
}

func (m *Model) buildForm() *huh.Form {
	fb := m.fb

	overview := huh.NewGroup(
		huh.NewInput().
			Title("Project Name").
			Placeholder("e.g. E-Commerce Platform").
			Value(&fb.projectName).
			Validate(validateRequired("Project name")),
		huh.NewSelect[string]().
			Title("Status").
			Options(statusOptions()...).
			Value(&fb.status),
		huh.NewSelect[string]().
			Title("Nature of Project").
			Options(
				huh.NewOption("Not set", ""),
				huh.NewOption("Web", model.NatureWeb),
				huh.NewOption("Mobile", model.NatureMobile),
				huh.NewOption("Software", model.NatureSoftware),
			).
			Value(&fb.nature),
		huh.NewInput().Title("Work Type").Value(&fb.workType),
	).Title("Overview")

	client := huh.NewGroup(
		huh.NewInput().Title("Client Name").Value(&fb.clientName),
		huh.NewInput().Title("Country").Value(&fb.country),
		huh.NewInput().Title("Phone Number").Value(&fb.phone),
		huh.NewInput().Title("Email").Value(&fb.email).Validate(validateOptionalEmail),
		huh.NewText().Title("About Client").Value(&fb.aboutClient),
		dateInput("Client Approach Date", &fb.approachDate),
	).Title("Client")

	domain := huh.NewGroup(
		assetStatusSelect("Domain Status", &fb.domainStatus),
		huh.NewInput().Title("Domain Name").Placeholder("example.com").Value(&fb.domainName),
		ownerSelect("Domain Owner", &fb.domainOwner),
		huh.NewInput().Title("Purchased From").Value(&fb.domainVendor),
		dateInput("Purchase Date", &fb.domainPurchased),
		dateInput("Expiry Date", &fb.domainExpires),
	).Title("Domain")

	server := huh.NewGroup(
		assetStatusSelect("Server Status", &fb.serverStatus),
		huh.NewInput().Title("Server Type").Placeholder("VPS, shared, cloud...").Value(&fb.serverType),
		huh.NewInput().Title("Server Name").Value(&fb.serverName),
		ownerSelect("Server Owner", &fb.serverOwner),
		dateInput("Acquired Date", &fb.serverAcquired),
		dateInput("Expiry Date", &fb.serverExpires),
	).Title("Server")

	timeline := huh.NewGroup(
		dateInput("Work Assigned", &fb.workAssigned),
		dateInput("Delivery Deadline", &fb.deliveryDate),
		huh.NewText().Title("Scope of Work").Value(&fb.scope),
		huh.NewInput().Title("UX/UI Assistant").Value(&fb.uxuiAssistant),
		dateInput("Work Start", &fb.workStart),
		dateInput("Delivered", &fb.delivered),
		huh.NewInput().Title("Development Assigned By").Value(&fb.devAssignedBy),
		dateInput("Dev Work Start", &fb.devStart),
		dateInput("Dev Delivery Deadline", &fb.devDelivery),
		dateInput("Dev Delivered", &fb.devDelivered),
		huh.NewInput().Title("Work Status").Value(&fb.workStatus),
		dateInput("Status Updated", &fb.statusUpdated),
		dateInput("Handed Over", &fb.handedOver),
		dateInput("Project Review", &fb.reviewDate),
	).Title("Timeline")

	metrics := huh.NewGroup(
		huh.NewInput().Title("Total Days Spent").Value(&fb.totalDays).Validate(validateCount),
		huh.NewInput().Title("Saved Days").Value(&fb.savedDays).Validate(validateCount),
		huh.NewInput().Title("Over-spend Days").Value(&fb.overDays).Validate(validateCount),
		huh.NewInput().Title("Spent Manpower Cost").Value(&fb.cost).Validate(validateAmount),
	).Title("Metrics")

	return huh.NewForm(overview, client, domain, server, timeline, metrics).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight())
}

func statusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.ProjectStatuses))
	for i, s := range model.ProjectStatuses {
		opts[i] = huh.NewOption(theme.StatusLabel(s), s)
	}
	return opts
}

func assetStatusSelect(title string, v *string) huh.Field {
	return huh.NewSelect[string]().
		Title(title).
		Options(
			huh.NewOption("Not set", ""),
			huh.NewOption("Active", model.AssetStatusActive),
			huh.NewOption("Pending", model.AssetStatusPending),
			huh.NewOption("Expired", model.AssetStatusExpired),
		).
		Value(v)
}

func ownerSelect(title string, v *string) huh.Field {
	return huh.NewSelect[string]().
		Title(title).
		Options(
			huh.NewOption("Not set", ""),
			huh.NewOption("Extech", model.OwnerExtech),
			huh.NewOption("Client", model.OwnerClient),
		).
		Value(v)
}

func dateInput(title string, v *string) huh.Field {
	return huh.NewInput().
		Title(title).
		Placeholder("YYYY-MM-DD (optional)").
		Value(v).
		Validate(validateOptionalDate)
}

// Project builds a project from the current field values on top of the
// project being edited.
func (m Model) Project() model.Project {
	fb := m.fb
	p := m.base

	p.ProjectName = strings.TrimSpace(fb.projectName)
	p.Status = fb.status
	p.NatureOfProject = fb.nature
	p.WorkType = strings.TrimSpace(fb.workType)

	p.ClientName = strings.TrimSpace(fb.clientName)
	p.Country = strings.TrimSpace(fb.country)
	p.PhoneNumber = strings.TrimSpace(fb.phone)
	p.Email = strings.TrimSpace(fb.email)
	p.AboutClient = fb.aboutClient
	p.ClientApproachDate = normalizeDate(fb.approachDate)

	p.DomainStatus = fb.domainStatus
	p.DomainName = strings.TrimSpace(fb.domainName)
	p.DomainOwner = fb.domainOwner
	p.DomainPurchasedFrom = strings.TrimSpace(fb.domainVendor)
	p.DomainPurchaseDate = normalizeDate(fb.domainPurchased)
	p.DomainExpDate = normalizeDate(fb.domainExpires)

	p.ServerStatus = fb.serverStatus
	p.ServerType = strings.TrimSpace(fb.serverType)
	p.ServerName = strings.TrimSpace(fb.serverName)
	p.ServerOwner = fb.serverOwner
	p.ServerAcquiredDate = normalizeDate(fb.serverAcquired)
	p.ServerExpDate = normalizeDate(fb.serverExpires)

	p.WorkAssignedDate = normalizeDate(fb.workAssigned)
	p.AssignedDeliveryDate = normalizeDate(fb.deliveryDate)
	p.ScopeDescription = fb.scope
	p.UXUIAssistant = strings.TrimSpace(fb.uxuiAssistant)
	p.WorkStartDate = normalizeDate(fb.workStart)
	p.DeliveredDate = normalizeDate(fb.delivered)
	p.DevelopmentAssignedBy = strings.TrimSpace(fb.devAssignedBy)
	p.DevWorkStartDate = normalizeDate(fb.devStart)
	p.DevAssignedDeliveryDate = normalizeDate(fb.devDelivery)
	p.DevDeliveredDate = normalizeDate(fb.devDelivered)
	p.WorkStatus = strings.TrimSpace(fb.workStatus)
	p.StatusUpdatedDate = normalizeDate(fb.statusUpdated)
	p.HandedOverDate = normalizeDate(fb.handedOver)
	p.ProjectReviewDate = normalizeDate(fb.reviewDate)

	p.TotalDaysSpent = parseCount(fb.totalDays)
	p.SavedDays = parseCount(fb.savedDays)
	p.OverSpendDays = parseCount(fb.overDays)
	p.SpentManpowerCost = parseAmount(fb.cost)

	return p
}

func (m Model) handleSubmit() tea.Cmd {
	p := m.Project()
	edit := m.editMode
	return func() tea.Msg { return ProjectSubmittedMsg{Project: p, Edit: edit} }
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

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// normalizeDate rewrites any accepted date input as YYYY-MM-DD. Input that
// cannot be parsed is kept so validation reports it.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return s
	}
	return model.FormatDate(t)
}

func parseCount(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseAmount(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := model.ParseDate(s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validateCount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number of days")
	}
	return nil
}

func validateAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("must be a non-negative amount")
	}
	return nil
}
