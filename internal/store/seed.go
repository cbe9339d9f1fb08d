package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/project-dashboard/internal/model"
)

// DemoProjects returns a sample portfolio whose dates are relative to now,
// so every notification rule and severity band shows up on a fresh install.
func DemoProjects(now time.Time) []model.Project {
	day := func(n int) string {
		return model.FormatDate(now.AddDate(0, 0, n))
	}

	return []model.Project{
		{
			ClientName:           "Acme Retail",
			ProjectName:          "E-Commerce Platform",
			Country:              "United States",
			PhoneNumber:          "+1 555 0100",
			Email:                "ops@acme-retail.example",
			AboutClient:          "Regional retail chain moving its catalogue online.",
			ClientApproachDate:   day(-120),
			NatureOfProject:      model.NatureWeb,
			WorkType:             "Full build",
			WorkAssignedDate:     day(-100),
			AssignedDeliveryDate: day(2),
			DomainStatus:         model.AssetStatusActive,
			DomainName:           "acme-retail.example",
			DomainOwner:          model.OwnerExtech,
			DomainPurchasedFrom:  "Namecheap",
			DomainPurchaseDate:   day(-360),
			DomainExpDate:        day(5),
			ServerStatus:         model.AssetStatusActive,
			ServerType:           "VPS",
			ServerName:           "acme-prod-1",
			ServerOwner:          model.OwnerExtech,
			ServerAcquiredDate:   day(-345),
			ServerExpDate:        day(20),
			ScopeDescription:     "Storefront, checkout and order back office.",
			WorkStartDate:        day(-95),
			WorkStatus:           "In development",
			TotalDaysSpent:       95,
			SpentManpowerCost:    18250,
			Status:               model.ProjectStatusActive,
		},
		{
			ClientName:           "Northwind Bank",
			ProjectName:          "Mobile Banking App",
			Country:              "United Kingdom",
			Email:                "it@northwind.example",
			NatureOfProject:      model.NatureMobile,
			WorkAssignedDate:     day(-60),
			AssignedDeliveryDate: day(4),
			DomainStatus:         model.AssetStatusActive,
			DomainName:           "northwind.example",
			DomainOwner:          model.OwnerClient,
			DomainExpDate:        day(12),
			ServerStatus:         model.AssetStatusActive,
			ServerType:           "Cloud",
			ServerName:           "nw-api",
			ServerOwner:          model.OwnerClient,
			ServerExpDate:        day(6),
			WorkStatus:           "Testing",
			TotalDaysSpent:       58,
			OverSpendDays:        3,
			SpentManpowerCost:    22400.5,
			Status:               model.ProjectStatusActive,
		},
		{
			ClientName:           "Globex",
			ProjectName:          "Inventory Suite",
			Country:              "Germany",
			Email:                "procurement@globex.example",
			NatureOfProject:      model.NatureSoftware,
			AssignedDeliveryDate: day(7),
			DomainStatus:         model.AssetStatusPending,
			DomainName:           "globex-inventory.example",
			DomainOwner:          model.OwnerExtech,
			DomainExpDate:        day(25),
			WorkStatus:           "Waiting on client",
			Status:               model.ProjectStatusOnHold,
		},
		{
			ClientName:        "Initech",
			ProjectName:       "Corporate Website",
			Country:           "Canada",
			Email:             "marketing@initech.example",
			NatureOfProject:   model.NatureWeb,
			DomainStatus:      model.AssetStatusExpired,
			DomainName:        "initech.example",
			DomainOwner:       model.OwnerClient,
			DomainExpDate:     day(-10),
			ServerStatus:      model.AssetStatusActive,
			ServerName:        "initech-web",
			ServerOwner:       model.OwnerExtech,
			ServerExpDate:     day(40),
			DeliveredDate:     day(-30),
			HandedOverDate:    day(-28),
			WorkStatus:        "Delivered",
			TotalDaysSpent:    40,
			SavedDays:         5,
			SpentManpowerCost: 7600,
			Status:            model.ProjectStatusCompleted,
		},
		{
			ClientName:           "Umbrella Travel",
			ProjectName:          "Booking Portal",
			Country:              "Australia",
			Email:                "hello@umbrella-travel.example",
			NatureOfProject:      model.NatureWeb,
			AssignedDeliveryDate: day(30),
			ServerStatus:         model.AssetStatusActive,
			ServerType:           "Shared",
			ServerName:           "umbrella-shared",
			ServerOwner:          model.OwnerExtech,
			ServerExpDate:        day(10),
			WorkStatus:           "Design",
			Status:               model.ProjectStatusActive,
		},
	}
}

// Seed inserts DemoProjects(now) and returns how many were created.
func Seed(ctx context.Context, s Store, now time.Time) (int, error) {
	created := 0
	for _, p := range DemoProjects(now) {
		if _, err := s.CreateProject(ctx, p); err != nil {
			return created, fmt.Errorf("seeding %s: %w", p.ProjectName, err)
		}
		created++
	}
	return created, nil
}
