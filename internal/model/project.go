package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Nature-of-project constants.
const (
	NatureWeb      = "web"
	NatureMobile   = "mobile"
	NatureSoftware = "software"
)

// Domain and server status constants.
const (
	AssetStatusActive  = "active"
	AssetStatusExpired = "expired"
	AssetStatusPending = "pending"
)

// Owner constants for domain and server assets.
const (
	OwnerExtech = "extech"
	OwnerClient = "client"
)

// Project lifecycle status constants.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on-hold"
	ProjectStatusCancelled = "cancelled"
)

// ProjectStatuses lists the lifecycle statuses in display order.
var ProjectStatuses = []string{
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
	ProjectStatusCancelled,
}

// Project is a client project tracked by the dashboard. Date fields hold
// calendar dates as strings (YYYY-MM-DD); an empty string means the date
// has not been set.
type Project struct {
	ID string `json:"id" db:"id"`

	// Client
	ClientName         string `json:"clientName" db:"client_name"`
	ProjectName        string `json:"projectName" db:"project_name"`
	Country            string `json:"country" db:"country"`
	PhoneNumber        string `json:"phoneNumber" db:"phone_number"`
	Email              string `json:"email" db:"email"`
	ClientLogo         string `json:"clientLogo,omitempty" db:"client_logo"`
	AboutClient        string `json:"aboutClient" db:"about_client"`
	ClientApproachDate string `json:"clientApproachDate" db:"client_approach_date"`

	// Work assignment
	NatureOfProject      string `json:"natureOfProject" db:"nature_of_project"`
	WorkType             string `json:"workType,omitempty" db:"work_type"`
	WorkAssignedDate     string `json:"workAssignedDate" db:"work_assigned_date"`
	AssignedDeliveryDate string `json:"assignedDeliveryDate" db:"assigned_delivery_date"`

	// Domain
	DomainStatus        string `json:"domainStatus" db:"domain_status"`
	DomainName          string `json:"domainName" db:"domain_name"`
	DomainOwner         string `json:"domainOwner" db:"domain_owner"`
	DomainPurchasedFrom string `json:"domainPurchasedFrom" db:"domain_purchased_from"`
	DomainPurchaseDate  string `json:"domainPurchaseDate" db:"domain_purchase_date"`
	DomainExpDate       string `json:"domainExpDate" db:"domain_exp_date"`

	// Server
	ServerStatus       string `json:"serverStatus" db:"server_status"`
	ServerType         string `json:"serverType" db:"server_type"`
	ServerName         string `json:"serverName" db:"server_name"`
	ServerOwner        string `json:"serverOwner" db:"server_owner"`
	ServerAcquiredDate string `json:"serverAcquiredDate" db:"server_acquired_date"`
	ServerExpDate      string `json:"serverExpDate" db:"server_exp_date"`

	// Scope of work
	ScopeDescription string `json:"scopeDescription" db:"scope_description"`
	UXUIAssistant    string `json:"uxuiAssistant" db:"uxui_assistant"`
	WorkStartDate    string `json:"workStartDate" db:"work_start_date"`
	DeliveredDate    string `json:"deliveredDate,omitempty" db:"delivered_date"`

	// Development
	DevelopmentAssignedBy   string `json:"developmentAssignedBy" db:"development_assigned_by"`
	DevWorkStartDate        string `json:"devWorkStartDate" db:"dev_work_start_date"`
	DevAssignedDeliveryDate string `json:"devAssignedDeliveryDate" db:"dev_assigned_delivery_date"`
	DevDeliveredDate        string `json:"devDeliveredDate,omitempty" db:"dev_delivered_date"`

	// Work status
	WorkStatus        string `json:"workStatus" db:"work_status"`
	StatusUpdatedDate string `json:"statusUpdatedDate" db:"status_updated_date"`
	HandedOverDate    string `json:"handedOverDate,omitempty" db:"handed_over_date"`
	ProjectReviewDate string `json:"projectReviewDate,omitempty" db:"project_review_date"`

	// Metrics
	TotalDaysSpent    int     `json:"totalDaysSpent" db:"total_days_spent"`
	SavedDays         int     `json:"savedDays" db:"saved_days"`
	OverSpendDays     int     `json:"overSpendDays" db:"over_spend_days"`
	SpentManpowerCost float64 `json:"spentManpowerCost" db:"spent_manpower_cost"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ValidationError reports a single invalid project field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err (or any error in its chain) is a
// ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// dateFields returns the project's date fields keyed by their JSON name.
func (p Project) dateFields() [][2]string {
	return [][2]string{
		{"clientApproachDate", p.ClientApproachDate},
		{"workAssignedDate", p.WorkAssignedDate},
		{"assignedDeliveryDate", p.AssignedDeliveryDate},
		{"domainPurchaseDate", p.DomainPurchaseDate},
		{"domainExpDate", p.DomainExpDate},
		{"serverAcquiredDate", p.ServerAcquiredDate},
		{"serverExpDate", p.ServerExpDate},
		{"workStartDate", p.WorkStartDate},
		{"deliveredDate", p.DeliveredDate},
		{"devWorkStartDate", p.DevWorkStartDate},
		{"devAssignedDeliveryDate", p.DevAssignedDeliveryDate},
		{"devDeliveredDate", p.DevDeliveredDate},
		{"statusUpdatedDate", p.StatusUpdatedDate},
		{"handedOverDate", p.HandedOverDate},
		{"projectReviewDate", p.ProjectReviewDate},
	}
}

// Validate checks required fields, enumerations, and date formats.
// All problems are reported together.
func (p Project) Validate() error {
	var errs []error

	if strings.TrimSpace(p.ProjectName) == "" {
		errs = append(errs, &ValidationError{Field: "projectName", Message: "must not be empty"})
	}

	enums := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"status", p.Status, ProjectStatuses},
		{"natureOfProject", p.NatureOfProject, []string{NatureWeb, NatureMobile, NatureSoftware}},
		{"domainStatus", p.DomainStatus, []string{AssetStatusActive, AssetStatusExpired, AssetStatusPending}},
		{"serverStatus", p.ServerStatus, []string{AssetStatusActive, AssetStatusExpired, AssetStatusPending}},
		{"domainOwner", p.DomainOwner, []string{OwnerExtech, OwnerClient}},
		{"serverOwner", p.ServerOwner, []string{OwnerExtech, OwnerClient}},
	}
	for _, e := range enums {
		if e.value == "" || contains(e.allowed, e.value) {
			continue
		}
		errs = append(errs, &ValidationError{
			Field:   e.field,
			Message: fmt.Sprintf("%q is not one of %s", e.value, strings.Join(e.allowed, ", ")),
		})
	}

	for _, f := range p.dateFields() {
		if f[1] == "" {
			continue
		}
		if _, err := ParseDate(f[1]); err != nil {
			errs = append(errs, &ValidationError{Field: f[0], Message: err.Error()})
		}
	}

	return errors.Join(errs...)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
