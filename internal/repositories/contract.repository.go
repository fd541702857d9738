package repositories

import (
	"context"
	"time"

	"elvalg/internal/database"
	"elvalg/internal/logger"
	. "elvalg/internal/models"

	"gorm.io/gorm"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *Contract) error
	GetByID(ctx context.Context, id string) (*Contract, error)
	List(ctx context.Context, limit, offset int) ([]*Contract, error)
	DueReminders(ctx context.Context, on Date) ([]*Contract, error)
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error
	MarkReminderFailed(ctx context.Context, id string, reason string) error
	ClaimReminder(ctx context.Context, id string, sentAt time.Time) (bool, error)
	ReleaseReminder(ctx context.Context, id string) error
	CountByDuration(ctx context.Context) ([]DurationCount, error)
	CountPendingReminders(ctx context.Context, dueBy *Date) (int64, error)
}

type contractRepository struct {
	db  database.DB
	log logger.Logger
}

func NewContract(db database.DB) ContractRepository {
	return &contractRepository{
		db:  db,
		log: logger.New("contractRepository"),
	}
}

func (r *contractRepository) Create(ctx context.Context, contract *Contract) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(contract).Error; err != nil {
		return log.Err("failed to create contract", err, "supplier", contract.Supplier)
	}

	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*Contract, error) {
	log := r.log.Function("GetByID")

	var contract Contract
	if err := getDB(ctx, r.db).First(&contract, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get contract by id", notFound(err), "id", id)
	}

	return &contract, nil
}

func (r *contractRepository) List(ctx context.Context, limit, offset int) ([]*Contract, error) {
	log := r.log.Function("List")

	query := getDB(ctx, r.db).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var contracts []*Contract
	if err := query.Find(&contracts).Error; err != nil {
		return nil, log.Err("failed to list contracts", err, "limit", limit, "offset", offset)
	}

	return contracts, nil
}

// DueReminders returns pending reminders dated on or before on, oldest first.
func (r *contractRepository) DueReminders(ctx context.Context, on Date) ([]*Contract, error) {
	log := r.log.Function("DueReminders")

	var contracts []*Contract
	if err := r.pending(ctx).
		Where("reminder_date <= ?", on).
		Order("reminder_date ASC").
		Find(&contracts).Error; err != nil {
		return nil, log.Err("failed to get due reminders", err, "on", on.String())
	}

	return contracts, nil
}

func (r *contractRepository) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	log := r.log.Function("MarkReminderSent")

	result := getDB(ctx, r.db).
		Model(&Contract{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reminder_status":  ReminderStatusSent,
			"reminder_sent_at": sentAt,
			"reminder_error":   nil,
		})
	if result.Error != nil {
		return log.Err("failed to mark reminder sent", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to mark reminder sent", ErrNotFound, "id", id)
	}

	return nil
}

func (r *contractRepository) MarkReminderFailed(ctx context.Context, id string, reason string) error {
	log := r.log.Function("MarkReminderFailed")

	result := getDB(ctx, r.db).
		Model(&Contract{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reminder_status":  ReminderStatusFailed,
			"reminder_sent_at": nil,
			"reminder_error":   reason,
		})
	if result.Error != nil {
		return log.Err("failed to mark reminder failed", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to mark reminder failed", ErrNotFound, "id", id)
	}

	return nil
}

// ClaimReminder marks a pending reminder sent. It reports false when the
// reminder is no longer pending, so only one dispatcher messages the customer.
func (r *contractRepository) ClaimReminder(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	log := r.log.Function("ClaimReminder")

	result := getDB(ctx, r.db).
		Model(&Contract{}).
		Where("id = ? AND reminder_status = ?", id, ReminderStatusPending).
		Updates(map[string]any{
			"reminder_status":  ReminderStatusSent,
			"reminder_sent_at": sentAt,
			"reminder_error":   nil,
		})
	if result.Error != nil {
		return false, log.Err("failed to claim reminder", result.Error, "id", id)
	}

	return result.RowsAffected == 1, nil
}

// ReleaseReminder returns a claimed reminder to pending.
func (r *contractRepository) ReleaseReminder(ctx context.Context, id string) error {
	log := r.log.Function("ReleaseReminder")

	result := getDB(ctx, r.db).
		Model(&Contract{}).
		Where("id = ? AND reminder_status = ?", id, ReminderStatusSent).
		Updates(map[string]any{
			"reminder_status":  ReminderStatusPending,
			"reminder_sent_at": nil,
		})
	if result.Error != nil {
		return log.Err("failed to release reminder", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to release reminder", ErrNotFound, "id", id)
	}

	return nil
}

func (r *contractRepository) CountByDuration(ctx context.Context) ([]DurationCount, error) {
	log := r.log.Function("CountByDuration")

	var counts []DurationCount
	if err := getDB(ctx, r.db).
		Model(&Contract{}).
		Select("duration, COUNT(*) AS count").
		Group("duration").
		Order("duration").
		Scan(&counts).Error; err != nil {
		return nil, log.Err("failed to count contracts by duration", err)
	}

	return counts, nil
}

// CountPendingReminders counts every pending reminder, or only those due by
// dueBy when it is set.
func (r *contractRepository) CountPendingReminders(ctx context.Context, dueBy *Date) (int64, error) {
	log := r.log.Function("CountPendingReminders")

	query := r.pending(ctx)
	if dueBy != nil {
		query = query.Where("reminder_date <= ?", *dueBy)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, log.Err("failed to count pending reminders", err)
	}

	return count, nil
}

func (r *contractRepository) pending(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db).
		Model(&Contract{}).
		Where("reminder_status = ?", ReminderStatusPending).
		Where("reminder_date IS NOT NULL")
}
