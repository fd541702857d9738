package repositories

import (
	"context"
	"errors"

	"elvalg/internal/database"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
)

type AdminRepository interface {
	GetByLogin(ctx context.Context, login string) (*AdminUser, error)
	Upsert(ctx context.Context, login, passwordHash string) (*AdminUser, error)
}

type adminRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAdmin(db database.DB) AdminRepository {
	return &adminRepository{
		db:  db,
		log: logger.New("adminRepository"),
	}
}

func (r *adminRepository) GetByLogin(ctx context.Context, login string) (*AdminUser, error) {
	var admin AdminUser
	if err := getDB(ctx, r.db).First(&admin, "login = ?", login).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

// Upsert creates the admin or replaces the password hash of an existing one.
func (r *adminRepository) Upsert(ctx context.Context, login, passwordHash string) (*AdminUser, error) {
	log := r.log.Function("Upsert")

	admin, err := r.GetByLogin(ctx, login)
	switch {
	case errors.Is(err, ErrNotFound):
		admin = &AdminUser{Login: login, PasswordHash: passwordHash}
		if err := getDB(ctx, r.db).Create(admin).Error; err != nil {
			return nil, log.Err("failed to create admin user", err, "login", login)
		}
		return admin, nil
	case err != nil:
		return nil, log.Err("failed to get admin user", err, "login", login)
	}

	admin.PasswordHash = passwordHash
	if err := getDB(ctx, r.db).Save(admin).Error; err != nil {
		return nil, log.Err("failed to update admin user", err, "login", login)
	}

	return admin, nil
}
