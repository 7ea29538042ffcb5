package db

import (
	"fmt"
	"log/slog"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/PayRam/go-dbquery/internal/migration"
)

// MigrateLocal creates the FAQ and menu tables in a local SQLite database.
// The served production database is never migrated, so any other dialect is
// refused.
func MigrateLocal(db *gorm.DB, logger *slog.Logger) error {
	if name := db.Dialector.Name(); name != DriverSQLite {
		return fmt.Errorf("local schema can only be created on sqlite, got %s", name)
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		migration.LocalSchema,
	})
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if logger != nil {
		logger.Info("local schema ready")
	}
	return nil
}
