package initialize

import (
	"context"

	"elvalg/config"
	adminController "elvalg/internal/controllers/admin"
	"elvalg/internal/logger"
	"elvalg/internal/repositories"
)

// InitializeTables makes sure the admin account named in the config exists
// and carries the configured password.
func InitializeTables(ctx context.Context, repos repositories.Repositories, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if config.AdminLogin == "" || config.AdminPassword == "" {
		log.Warn("ADMIN_LOGIN or ADMIN_PASSWORD is empty, skipping admin user")
		return nil
	}

	hash, err := adminController.HashPassword(config.AdminPassword)
	if err != nil {
		return log.Err("failed to hash admin password", err)
	}

	admin, err := repos.Admins.Upsert(ctx, config.AdminLogin, hash)
	if err != nil {
		return log.Err("failed to ensure admin user", err, "login", config.AdminLogin)
	}

	log.Info("Table initialization complete", "admin", admin.Login)
	return nil
}
