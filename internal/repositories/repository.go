package repositories

import (
	"context"
	"errors"

	"elvalg/internal/database"
	"elvalg/internal/services"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repositories struct {
	Leads       LeadRepository
	Contracts   ContractRepository
	Subscribers SubscriberRepository
	Admins      AdminRepository
}

func New(db database.DB) Repositories {
	return Repositories{
		Leads:       NewLead(db),
		Contracts:   NewContract(db),
		Subscribers: NewSubscriber(db),
		Admins:      NewAdmin(db),
	}
}

func getDB(ctx context.Context, db database.DB) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return db.SQLWithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
