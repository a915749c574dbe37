package postgres

import (
	"embed"

	pgutil "github.com/supplyshield/riskengine/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationDir = "migrations"

// Migrations exposes the embedded schema migrations.
func Migrations() (embed.FS, string) {
	return migrationFS, migrationDir
}

// Migrate applies pending schema migrations to the database at dsn.
func Migrate(dsn string) error {
	return pgutil.MigrateUp(dsn, migrationFS, migrationDir)
}

// Rollback reverts every schema migration.
func Rollback(dsn string) error {
	return pgutil.MigrateDown(dsn, migrationFS, migrationDir)
}

// SchemaVersion reports the applied schema version.
func SchemaVersion(dsn string) (uint, bool, error) {
	return pgutil.MigrationVersion(dsn, migrationFS, migrationDir)
}
