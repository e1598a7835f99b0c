package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	insurerdomain "github.com/smallbiznis/policyhub/internal/insurer/domain"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists the catalog tables in dependency order.
func Models() []any {
	return []any{
		&insurerdomain.Insurer{},
		&productdomain.Product{},
		&specgroupdomain.SpecGroup{},
		&specdomain.Spec{},
		&groupchoicedomain.GroupChoice{},
		&groupchoicedomain.GroupChoiceValue{},
	}
}

// Migrate brings the catalog schema up to date. Postgres runs the versioned
// SQL migrations; other dialects use AutoMigrate on the models.
func Migrate(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if dbType != "postgres" {
		return AutoMigrate(conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(db *sql.DB) error {
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
	// migrator.Close would close the shared *sql.DB.

	return nil
}
