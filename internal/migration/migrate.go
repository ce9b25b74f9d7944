package migration

import (
	"fmt"

	"github.com/prmhq/prm-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table in dependency order; join tables are created with their parents
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Profile{},
		&domain.AuthToken{},
		&domain.Contact{},
		&domain.Activity{},
		&domain.ActivityLog{},
		&domain.Event{},
		&domain.Mood{},
	}
}

// Run executes AutoMigrate for every table. Existing tables are altered in place, never dropped.
func Run(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}

// Drop removes every table including roster join tables
func Drop(db *gorm.DB) error {
	m := db.Migrator()
	tables := []interface{}{"activity_partners", "activity_log_companions", "event_contacts"}
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		tables = append(tables, models[i])
	}
	return m.DropTable(tables...)
}
