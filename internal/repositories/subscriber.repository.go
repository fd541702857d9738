package repositories

import (
	"context"

	"elvalg/internal/database"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
)

type SubscriberRepository interface {
	GetByEmail(ctx context.Context, email string) (*NewsletterSubscriber, error)
	Create(ctx context.Context, subscriber *NewsletterSubscriber) error
	MarkSynced(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type subscriberRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSubscriber(db database.DB) SubscriberRepository {
	return &subscriberRepository{
		db:  db,
		log: logger.New("subscriberRepository"),
	}
}

func (r *subscriberRepository) GetByEmail(ctx context.Context, email string) (*NewsletterSubscriber, error) {
	var subscriber NewsletterSubscriber
	if err := getDB(ctx, r.db).First(&subscriber, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &subscriber, nil
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *NewsletterSubscriber) error {
	if err := getDB(ctx, r.db).Create(subscriber).Error; err != nil {
		return r.log.Function("Create").Err("failed to create subscriber", err)
	}
	return nil
}

func (r *subscriberRepository) MarkSynced(ctx context.Context, id string) error {
	log := r.log.Function("MarkSynced")

	result := getDB(ctx, r.db).
		Model(&NewsletterSubscriber{}).
		Where("id = ?", id).
		Update("provider_sync", true)
	if result.Error != nil {
		return log.Err("failed to mark subscriber synced", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to mark subscriber synced", ErrNotFound, "id", id)
	}
	return nil
}

func (r *subscriberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&NewsletterSubscriber{}).Count(&count).Error; err != nil {
		return 0, r.log.Function("Count").Err("failed to count subscribers", err)
	}
	return count, nil
}
