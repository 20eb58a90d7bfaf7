package db

import (
	"fmt"

	banddomain "gear-tracker-go/internal/domain/band"
	gigdomain "gear-tracker-go/internal/domain/gig"
	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	userdomain "gear-tracker-go/internal/domain/user"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema. Parents are migrated before
// children so the declared foreign keys and referential actions
// (CASCADE on instrument/gig/band children, SET NULL on
// instruments.band_id) can be installed in one pass.
func Migrate(db *gorm.DB) error {
	models := []any{
		&userdomain.User{},
		&banddomain.Band{},
		&banddomain.BandMember{},
		&instrumentdomain.Instrument{},
		&instrumentdomain.Image{},
		&instrumentdomain.MaintenanceRecord{},
		&instrumentdomain.ScheduleEntry{},
		&gigdomain.Gig{},
		&gigdomain.GigGear{},
		&instrumentdomain.ValueEntry{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
