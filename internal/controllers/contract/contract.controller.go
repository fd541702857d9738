package contractController

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"elvalg/internal/clients"
	"elvalg/internal/controllers"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
	"elvalg/internal/pricezone"
	"elvalg/internal/reminder"
	"elvalg/internal/repositories"
	"elvalg/internal/utils"
	"elvalg/internal/websockets"

	"cloud.google.com/go/civil"
)

type Broadcaster interface {
	Broadcast(messageType string, data any)
}

type ContractController struct {
	contractRepo repositories.ContractRepository
	messenger    clients.Messenger
	broadcaster  Broadcaster
	dates        *utils.DateValidator
	location     *time.Location
	now          func() time.Time
	log          logger.Logger
}

func New(
	contractRepo repositories.ContractRepository,
	messenger clients.Messenger,
	broadcaster Broadcaster,
	location *time.Location,
) *ContractController {
	if location == nil {
		location = time.UTC
	}
	return &ContractController{
		contractRepo: contractRepo,
		messenger:    messenger,
		broadcaster:  broadcaster,
		dates:        utils.NewDateValidator(),
		location:     location,
		now:          time.Now,
		log:          logger.New("ContractController"),
	}
}

type ReminderPreview struct {
	StartDate    Date   `json:"startDate"`
	Duration     string `json:"duration"`
	ExpiryDate   *Date  `json:"expiryDate,omitempty"`
	ReminderDate *Date  `json:"reminderDate,omitempty"`
}

type DispatchResult struct {
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Today is the current calendar date in the service's timezone.
func (cc *ContractController) Today() civil.Date {
	return civil.DateOf(cc.now().In(cc.location))
}

// Day parses a date parameter, defaulting to today when it is empty.
func (cc *ContractController) Day(param string) (civil.Date, error) {
	if strings.TrimSpace(param) == "" {
		return cc.Today(), nil
	}
	day, err := cc.dates.ParseDate(param)
	if err != nil {
		return civil.Date{}, controllers.Invalid("date", err.Error())
	}
	return day, nil
}

func (cc *ContractController) PreviewReminder(startDate, duration string) (*ReminderPreview, error) {
	start, category, err := cc.parseTerm(startDate, duration)
	if err != nil {
		return nil, err
	}

	preview := &ReminderPreview{StartDate: NewDate(start), Duration: string(category)}
	if !category.Fixed() {
		return preview, nil
	}

	reminderDate, expiryDate, err := schedule(start, category)
	if err != nil {
		return nil, err
	}
	preview.ReminderDate = &reminderDate
	preview.ExpiryDate = &expiryDate

	return preview, nil
}

// Register stores a contract together with its renewal reminder. Variable
// contracts, and fixed contracts that have already expired, get no reminder.
func (cc *ContractController) Register(ctx context.Context, request RegisterContractRequest) (*Contract, error) {
	log := cc.log.Function("Register")

	contract, err := cc.buildContract(request)
	if err != nil {
		return nil, err
	}

	if err := cc.contractRepo.Create(ctx, contract); err != nil {
		return nil, log.Err("failed to register contract", err)
	}

	log.Info("Contract registered",
		"contractID", contract.ID,
		"duration", contract.Duration,
		"reminderStatus", contract.ReminderStatus)
	cc.broadcaster.Broadcast(websockets.EventContractRegistered, map[string]any{
		"id":             contract.ID,
		"supplier":       contract.Supplier,
		"duration":       contract.Duration,
		"reminderDate":   contract.ReminderDate,
		"reminderStatus": contract.ReminderStatus,
	})

	return contract, nil
}

func (cc *ContractController) buildContract(request RegisterContractRequest) (*Contract, error) {
	name, err := controllers.Required("customerName", request.CustomerName)
	if err != nil {
		return nil, err
	}

	email, err := controllers.NormalizeEmail(request.Email)
	if err != nil {
		return nil, err
	}

	supplier, err := controllers.Required("supplier", request.Supplier)
	if err != nil {
		return nil, err
	}

	start, category, err := cc.parseTerm(request.StartDate, request.Duration)
	if err != nil {
		return nil, err
	}

	contract := &Contract{
		CustomerName:   name,
		Email:          email,
		Supplier:       supplier,
		StartDate:      NewDate(start),
		Duration:       string(category),
		ReminderStatus: ReminderStatusNotApplicable,
	}

	if phone := strings.TrimSpace(ptrValue(request.Phone)); phone != "" {
		contract.Phone = &phone
	}

	if strings.TrimSpace(request.PostalCode) != "" {
		postalCode, ok := pricezone.Normalize(request.PostalCode)
		if !ok {
			return nil, controllers.Invalid("postalCode", "must be 4 or 5 digits")
		}
		contract.PostalCode = postalCode
		contract.PriceZone = string(pricezone.Resolve(postalCode))
	}

	if !category.Fixed() {
		return contract, nil
	}

	reminderDate, expiryDate, err := schedule(start, category)
	if err != nil {
		return nil, err
	}
	contract.ReminderDate = &reminderDate
	contract.ExpiryDate = &expiryDate

	if !expiryDate.Before(cc.Today()) {
		contract.ReminderStatus = ReminderStatusPending
	}

	return contract, nil
}

func (cc *ContractController) parseTerm(startDate, duration string) (civil.Date, reminder.DurationCategory, error) {
	start, err := cc.dates.ParseDate(startDate)
	if err != nil {
		return civil.Date{}, "", controllers.Invalid("startDate", err.Error())
	}

	category, err := reminder.ParseDurationCategory(duration)
	if err != nil {
		return civil.Date{}, "", controllers.Invalid("duration", "must be 12, 24, 36 or variable")
	}

	return start, category, nil
}

func schedule(start civil.Date, category reminder.DurationCategory) (Date, Date, error) {
	reminderDate, err := reminder.ReminderDate(start, category)
	if err != nil {
		return Date{}, Date{}, err
	}

	expiryDate, err := reminder.ExpiryDate(start, category)
	if err != nil {
		return Date{}, Date{}, err
	}

	return NewDate(reminderDate), NewDate(expiryDate), nil
}

func (cc *ContractController) List(ctx context.Context, limit, offset int) ([]*Contract, error) {
	contracts, err := cc.contractRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, cc.log.Function("List").Err("failed to list contracts", err)
	}
	return contracts, nil
}

func (cc *ContractController) DueReminders(ctx context.Context, on civil.Date) ([]*Contract, error) {
	contracts, err := cc.contractRepo.DueReminders(ctx, NewDate(on))
	if err != nil {
		return nil, cc.log.Function("DueReminders").Err("failed to get due reminders", err, "on", on.String())
	}
	return contracts, nil
}

func (cc *ContractController) MarkReminderSent(ctx context.Context, id string) error {
	if err := cc.contractRepo.MarkReminderSent(ctx, id, cc.now().UTC()); err != nil {
		return cc.log.Function("MarkReminderSent").Err("failed to mark reminder sent", err, "id", id)
	}
	return nil
}

// DispatchDueReminders messages every customer whose reminder is due by today.
// Each reminder is claimed before sending, so overlapping runs message a
// customer once. A failed send marks that reminder failed and moves on.
func (cc *ContractController) DispatchDueReminders(ctx context.Context, today civil.Date) (DispatchResult, error) {
	log := cc.log.Function("DispatchDueReminders")

	due, err := cc.contractRepo.DueReminders(ctx, NewDate(today))
	if err != nil {
		return DispatchResult{}, log.Err("failed to get due reminders", err, "today", today.String())
	}

	result := DispatchResult{Due: len(due)}
	for _, contract := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		claimed, err := cc.contractRepo.ClaimReminder(ctx, contract.ID, cc.now().UTC())
		if err != nil {
			return result, log.Err("failed to claim reminder", err, "contractID", contract.ID)
		}
		if !claimed {
			result.Skipped++
			continue
		}

		err = cc.messenger.Send(ctx, reminderMessage(contract))
		if errors.Is(err, clients.ErrNotConfigured) {
			if releaseErr := cc.contractRepo.ReleaseReminder(ctx, contract.ID); releaseErr != nil {
				log.Warn("failed to release reminder", "contractID", contract.ID, "error", releaseErr)
			}
			return result, log.Err("messaging is not configured", err)
		}
		if err != nil {
			result.Failed++
			if markErr := cc.contractRepo.MarkReminderFailed(ctx, contract.ID, err.Error()); markErr != nil {
				log.Warn("failed to mark reminder failed", "contractID", contract.ID, "error", markErr)
			}
			continue
		}

		result.Sent++
		cc.broadcaster.Broadcast(websockets.EventReminderSent, map[string]any{
			"id":       contract.ID,
			"supplier": contract.Supplier,
		})
	}

	if result.Due > 0 {
		log.Info("Dispatched reminders",
			"due", result.Due,
			"sent", result.Sent,
			"failed", result.Failed,
			"skipped", result.Skipped)
	}

	return result, nil
}

func reminderMessage(contract *Contract) clients.Message {
	expiry := ""
	if contract.ExpiryDate != nil {
		expiry = formatDate(contract.ExpiryDate.Date)
	}

	body := fmt.Sprintf(
		"Hei %s,\n\nStrømavtalen din hos %s startet %s og løper ut %s. "+
			"Nå er et godt tidspunkt å sammenligne priser, så du ikke havner på en dyrere standardavtale.\n\n"+
			"Hilsen Elvalg",
		contract.CustomerName,
		contract.Supplier,
		formatDate(contract.StartDate.Date),
		expiry,
	)

	return clients.Message{
		To:      contract.Email,
		Phone:   ptrValue(contract.Phone),
		Subject: fmt.Sprintf("Påminnelse om strømavtalen din hos %s", contract.Supplier),
		Body:    body,
	}
}

func formatDate(d civil.Date) string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

func ptrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
