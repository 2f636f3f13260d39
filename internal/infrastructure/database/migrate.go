package database

import (
	"fmt"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	"github.com/bravo68web/gitdeck/pkg/logger"
)

// Migrate brings the catalog schema up to date. Owners migrate first so the
// foreign keys on the dependent tables resolve.
func (d *Database) Migrate() error {
	d.log.Debug("Running catalog schema migration")

	err := d.db.AutoMigrate(
		&models.Owner{},
		&models.GitHubRepository{},
		&models.LocalRepository{},
	)
	if err != nil {
		d.log.Error("Schema migration failed",
			logger.Error(err),
		)
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}

	d.log.Debug("Catalog schema up to date")
	return nil
}
