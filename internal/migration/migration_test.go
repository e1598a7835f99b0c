package migration

import (
	"io/fs"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, entry := range entries {
		names[entry.Name()] = true
	}
	assert.True(t, names["000001_catalog.up.sql"])
	assert.True(t, names["000001_catalog.down.sql"])
}

func TestMigrateSQLiteCreatesCatalogTables(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migration_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(conn, "sqlite"))
	for _, table := range []string{
		"insurers",
		"products",
		"product_spec_groups",
		"product_specs",
		"product_spec_group_choices",
		"product_spec_group_choice_values",
	} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, Migrate(conn, "sqlite"))
}

func TestMigrateRequiresConnection(t *testing.T) {
	assert.Error(t, Migrate(nil, "sqlite"))
}
