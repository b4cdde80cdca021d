// Package migration creates the ingestion schema on startup so the
// service is usable out of the box for local and self-hosted
// deployments.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	channeldomain "github.com/atendely/flowhook/internal/channel/domain"
	contactdomain "github.com/atendely/flowhook/internal/contact/domain"
	flowdomain "github.com/atendely/flowhook/internal/flow/domain"
	ticketdomain "github.com/atendely/flowhook/internal/ticket/domain"
	webhookdomain "github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "sql"

// RunPostgres applies the embedded SQL migrations against a postgres
// handle.
func RunPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema from the gorm models. It backs the
// sqlite and mysql paths that the SQL migrations do not cover.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&contactdomain.Contact{},
		&channeldomain.Channel{},
		&flowdomain.Flow{},
		&ticketdomain.Ticket{},
		&webhookdomain.WebhookLink{},
		&webhookdomain.WebhookLinkLog{},
	)
}
