package seed

import (
	"context"

	contractController "elvalg/internal/controllers/contract"
	leadController "elvalg/internal/controllers/lead"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
	"elvalg/internal/repositories"
)

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

// Seed adds development leads and contracts through the controllers so zones
// and reminder dates are derived the same way as in production. It does
// nothing when leads already exist.
func Seed(
	ctx context.Context,
	repos repositories.Repositories,
	leads *leadController.LeadController,
	contracts *contractController.ContractController,
	log logger.Logger,
) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	existing, err := repos.Leads.List(ctx, 1, 0)
	if err != nil {
		return log.Err("failed to check existing leads", err)
	}
	if len(existing) > 0 {
		log.Info("Leads already exist, skipping seed")
		return nil
	}

	leadRequests := []CreateLeadRequest{
		{
			Name:          "Kari Nordmann",
			Email:         "kari.nordmann@example.no",
			Phone:         stringPtr("+47 912 34 567"),
			PostalCode:    "0150",
			Source:        "forside",
			Newsletter:    true,
			Consumption:   intPtr(16000),
			CurrentVendor: stringPtr("Fjordkraft"),
		}, {
			Name:       "Ola Hansen",
			Email:      "ola.hansen@example.no",
			PostalCode: "5003",
			Source:     "kampanje",
		}, {
			Name:          "Ingrid Berg",
			Email:         "ingrid.berg@example.no",
			PostalCode:    "9008",
			Source:        "forside",
			Consumption:   intPtr(22000),
			CurrentVendor: stringPtr("Tibber"),
		}, {
			Name:       "Per Lie",
			Email:      "per.lie@example.no",
			PostalCode: "99999",
			PriceZone:  "NO3",
			Source:     "chat",
		},
	}

	for _, request := range leadRequests {
		lead, err := leads.Create(ctx, request)
		if err != nil {
			log.Er("failed to seed lead", err, "email", request.Email)
			continue
		}
		log.Info("Seeded lead", "leadID", lead.ID, "priceZone", lead.PriceZone)
	}

	today := contracts.Today()
	contractRequests := []RegisterContractRequest{
		{
			CustomerName: "Kari Nordmann",
			Email:        "kari.nordmann@example.no",
			PostalCode:   "0150",
			Supplier:     "Fjordkraft",
			StartDate:    today.AddDays(-335).String(),
			Duration:     "12",
		}, {
			CustomerName: "Ola Hansen",
			Email:        "ola.hansen@example.no",
			PostalCode:   "5003",
			Supplier:     "Tibber",
			StartDate:    today.AddDays(-200).String(),
			Duration:     "24",
		}, {
			CustomerName: "Ingrid Berg",
			Email:        "ingrid.berg@example.no",
			PostalCode:   "9008",
			Supplier:     "Fortum",
			StartDate:    today.AddDays(-30).String(),
			Duration:     "variable",
		},
	}

	for _, request := range contractRequests {
		contract, err := contracts.Register(ctx, request)
		if err != nil {
			log.Er("failed to seed contract", err, "email", request.Email)
			continue
		}
		log.Info("Seeded contract", "contractID", contract.ID, "reminderStatus", contract.ReminderStatus)
	}

	return nil
}
