package database

import (
	"database/sql"
	"embed"
	"time"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type MigrationState struct {
	ID        string     `json:"id"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFS,
		Root:       "migrations",
	}
}

func dialect(driver string) string {
	if driver == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

// Migrate applies every pending migration and returns how many ran.
func Migrate(sqlDB *sql.DB, driver string) (int, error) {
	return migrate.Exec(sqlDB, dialect(driver), migrationSource(), migrate.Up)
}

// Rollback reverts the most recent steps migrations.
func Rollback(sqlDB *sql.DB, driver string, steps int) (int, error) {
	return migrate.ExecMax(sqlDB, dialect(driver), migrationSource(), migrate.Down, steps)
}

func MigrationStatus(sqlDB *sql.DB, driver string) ([]MigrationState, error) {
	migrations, err := migrationSource().FindMigrations()
	if err != nil {
		return nil, err
	}

	records, err := migrate.GetMigrationRecords(sqlDB, dialect(driver))
	if err != nil {
		return nil, err
	}

	applied := make(map[string]time.Time, len(records))
	for _, record := range records {
		applied[record.Id] = record.AppliedAt
	}

	states := make([]MigrationState, 0, len(migrations))
	for _, m := range migrations {
		state := MigrationState{ID: m.Id}
		if at, ok := applied[m.Id]; ok {
			state.AppliedAt = &at
		}
		states = append(states, state)
	}

	return states, nil
}
