package leadController

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"elvalg/internal/controllers"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
	"elvalg/internal/pricezone"
	"elvalg/internal/repositories"
	"elvalg/internal/services"
	"elvalg/internal/websockets"
)

type Broadcaster interface {
	Broadcast(messageType string, data any)
}

type Subscriber interface {
	Subscribe(ctx context.Context, email, source string) (*NewsletterSubscriber, error)
}

type LeadController struct {
	leadRepo           repositories.LeadRepository
	subscriber         Subscriber
	transactionService *services.TransactionService
	broadcaster        Broadcaster
	log                logger.Logger
}

func New(
	leadRepo repositories.LeadRepository,
	subscriber Subscriber,
	transactionService *services.TransactionService,
	broadcaster Broadcaster,
) *LeadController {
	return &LeadController{
		leadRepo:           leadRepo,
		subscriber:         subscriber,
		transactionService: transactionService,
		broadcaster:        broadcaster,
		log:                logger.New("LeadController"),
	}
}

// Create stores a lead in the price zone of its postal code. When the code
// cannot be resolved the visitor's manual zone choice is used, and without
// one the lead is refused with ErrZoneRequired.
func (lc *LeadController) Create(ctx context.Context, request CreateLeadRequest) (*Lead, error) {
	log := lc.log.Function("Create")

	lead, err := lc.buildLead(request)
	if err != nil {
		return nil, err
	}

	err = lc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if err := lc.leadRepo.Create(txCtx, lead); err != nil {
			return err
		}

		if lead.Newsletter {
			if _, err := lc.subscriber.Subscribe(txCtx, lead.Email, "lead"); err != nil {
				return log.Err("failed to subscribe lead to newsletter", err, "leadID", lead.ID)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Lead created", "leadID", lead.ID, "priceZone", lead.PriceZone, "manual", lead.ZoneManual)
	lc.broadcaster.Broadcast(websockets.EventLeadCreated, leadEvent(lead))

	return lead, nil
}

func (lc *LeadController) buildLead(request CreateLeadRequest) (*Lead, error) {
	name, err := controllers.Required("name", request.Name)
	if err != nil {
		return nil, err
	}

	email, err := controllers.NormalizeEmail(request.Email)
	if err != nil {
		return nil, err
	}

	postalCode, ok := pricezone.Normalize(request.PostalCode)
	if !ok {
		return nil, controllers.Invalid("postalCode", "must be 4 or 5 digits")
	}

	if request.Consumption != nil && *request.Consumption < 0 {
		return nil, controllers.Invalid("consumption", "must not be negative")
	}

	lead := &Lead{
		Name:          name,
		Email:         email,
		Phone:         trimmed(request.Phone),
		PostalCode:    postalCode,
		Source:        strings.TrimSpace(request.Source),
		Newsletter:    request.Newsletter,
		Consumption:   request.Consumption,
		CurrentVendor: trimmed(request.CurrentVendor),
	}

	zone := pricezone.Resolve(postalCode)
	if !zone.Resolved() {
		if request.PriceZone == "" {
			return nil, controllers.ErrZoneRequired
		}
		manual, ok := pricezone.ParseZone(request.PriceZone)
		if !ok {
			return nil, controllers.Invalid("priceZone", "must be one of NO1-NO5")
		}
		zone = manual
		lead.ZoneManual = true
	}
	lead.PriceZone = string(zone)

	return lead, nil
}

func (lc *LeadController) List(ctx context.Context, limit, offset int) ([]*Lead, error) {
	leads, err := lc.leadRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, lc.log.Function("List").Err("failed to list leads", err)
	}
	return leads, nil
}

var csvHeaders = []string{
	"id", "created_at", "name", "email", "phone", "postal_code", "price_zone",
	"zone_manual", "source", "newsletter", "consumption_kwh", "current_vendor",
}

// ExportCSV writes every lead, newest first.
func (lc *LeadController) ExportCSV(ctx context.Context, w io.Writer) error {
	log := lc.log.Function("ExportCSV")

	leads, err := lc.leadRepo.List(ctx, 0, 0)
	if err != nil {
		return log.Err("failed to list leads for export", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders); err != nil {
		return log.Err("failed to write csv header", err)
	}

	for _, lead := range leads {
		consumption := ""
		if lead.Consumption != nil {
			consumption = strconv.Itoa(*lead.Consumption)
		}

		record := []string{
			lead.ID,
			lead.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			lead.Name,
			lead.Email,
			deref(lead.Phone),
			lead.PostalCode,
			lead.PriceZone,
			strconv.FormatBool(lead.ZoneManual),
			lead.Source,
			strconv.FormatBool(lead.Newsletter),
			consumption,
			deref(lead.CurrentVendor),
		}
		if err := writer.Write(record); err != nil {
			return log.Err("failed to write csv record", err, "leadID", lead.ID)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return log.Err("failed to flush csv", err)
	}

	log.Info("Exported leads", "count", len(leads))
	return nil
}

func leadEvent(lead *Lead) map[string]any {
	return map[string]any{
		"id":         lead.ID,
		"name":       lead.Name,
		"postalCode": lead.PostalCode,
		"priceZone":  lead.PriceZone,
		"source":     lead.Source,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
