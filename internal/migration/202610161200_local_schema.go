package migration

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/PayRam/go-dbquery/models"
)

// LocalSchema creates the FAQ and menu tables for a local SQLite database.
var LocalSchema = &gormigrate.Migration{
	ID: "202610161200-dq-local-schema",
	Migrate: func(db *gorm.DB) error {
		return db.AutoMigrate(&models.FAQ{}, &models.Menu{})
	},
	Rollback: func(db *gorm.DB) error {
		return db.Migrator().DropTable(&models.FAQ{}, &models.Menu{})
	},
}
