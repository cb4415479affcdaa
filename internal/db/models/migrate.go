// Package models contains the gorm models of the persisted state.
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Now returns the current time as UTC wall clock.
// It is used as gorm NowFunc so created_at/updated_at carry no zone.
func Now() time.Time {
	return time.Now().UTC()
}

// Migrate registers the join models and creates or updates all tables.
func Migrate(db *gorm.DB) error {
	joins := []struct {
		model any
		field string
		join  any
	}{
		{&Role{}, "Permissions", &RolePermission{}},
		{&User{}, "Locations", &UserLocation{}},
		{&Location{}, "Users", &UserLocation{}},
	}

	for _, j := range joins {
		if err := db.SetupJoinTable(j.model, j.field, j.join); err != nil {
			return fmt.Errorf("setup join table %s: %w", j.field, err)
		}
	}

	if err := db.AutoMigrate(
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
		&Location{},
		&UserLocation{},
		&Camera{},
		&Video{},
		&Event{},
		&Object{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
