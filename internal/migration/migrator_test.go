package migration_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentfolio/internal/migration"
	"rentfolio/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestMigrator_UpCreatesPortfolioSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	m := migration.NewMigrator(db)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 3)
	assert.Equal(t, "create_portfolio_tables", applied[0].Name)
	assert.Equal(t, "widen_valuation_yields", applied[2].Name)

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Lease{}, "idx_leases_property_status"))

	again, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	for _, st := range statuses {
		assert.True(t, st.Applied, st.Name)
		assert.NotNil(t, st.AppliedAt)
	}
}

func TestMigrator_DownRevertsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	m := migration.NewMigrator(db)
	_, err := m.Up(ctx)
	require.NoError(t, err)

	reverted, err := m.Down(ctx)
	require.NoError(t, err)
	require.NotNil(t, reverted)
	assert.Equal(t, "widen_valuation_yields", reverted.Name)
	assert.True(t, db.Migrator().HasIndex(&models.Lease{}, "idx_leases_property_status"))

	reverted, err = m.Down(ctx)
	require.NoError(t, err)
	require.NotNil(t, reverted)
	assert.Equal(t, "add_lease_property_status_index", reverted.Name)
	assert.False(t, db.Migrator().HasIndex(&models.Lease{}, "idx_leases_property_status"))
	assert.True(t, db.Migrator().HasTable(&models.Lease{}))

	reverted, err = m.Down(ctx)
	require.NoError(t, err)
	require.NotNil(t, reverted)
	assert.False(t, db.Migrator().HasTable(&models.Lease{}))

	reverted, err = m.Down(ctx)
	require.NoError(t, err)
	assert.Nil(t, reverted)

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestMigrator_FailedMigrationIsRolledBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	m := migration.NewMigrator(db)
	m.Register(&migration.Migration{
		Version: "20990101000000",
		Name:    "broken",
		Up: func(tx *gorm.DB) error {
			if err := tx.Exec("CREATE TABLE scratch (id INTEGER PRIMARY KEY)").Error; err != nil {
				return err
			}
			return errors.New("boom")
		},
		Down: func(tx *gorm.DB) error { return nil },
	})

	applied, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Len(t, applied, 3, "earlier migrations stay applied")
	assert.False(t, db.Migrator().HasTable("scratch"))

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "broken", pending[0].Name)
}

func TestMigrator_WidenValuationYieldsOnLegacySchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	m := migration.NewMigrator(db)
	_, err := m.Up(ctx)
	require.NoError(t, err)

	// Rebuild the valuation table with the narrow percentage columns
	// databases created before the widening still carry.
	require.NoError(t, db.Migrator().DropTable(&models.PropertyValuation{}))
	legacy := []string{
		"`id` integer PRIMARY KEY AUTOINCREMENT",
		"`property_id` integer NOT NULL",
		"`annual_rent` decimal(15,2) NOT NULL",
		"`total_deposit` decimal(15,2) NOT NULL",
		"`annual_expense` decimal(15,2) NOT NULL",
		"`net_income` decimal(15,2) NOT NULL",
		"`total_investment` decimal(15,2) NOT NULL",
		"`gross_yield` decimal(7,2) NOT NULL",
		"`net_yield` decimal(7,2) NOT NULL",
		"`cash_on_cash` decimal(7,2) NOT NULL",
		"`target_yield` decimal(5,2) NOT NULL",
		"`suggested_price` decimal(15,2) NOT NULL",
		"`expected_profit` decimal(15,2) NOT NULL",
		"`memo` text",
		"`calculated_at` datetime NOT NULL",
	}
	require.NoError(t, db.Exec("CREATE TABLE `property_valuations` ("+strings.Join(legacy, ",")+")").Error)

	reverted, err := m.Down(ctx)
	require.NoError(t, err)
	require.NotNil(t, reverted)
	require.Equal(t, "widen_valuation_yields", reverted.Name)
	applied, err := m.Up(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)

	var ddl string
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'property_valuations'").Scan(&ddl).Error)
	assert.Regexp(t, "cash_on_cash`? decimal\\(20,2\\)", ddl)
	assert.Regexp(t, "gross_yield`? decimal\\(20,2\\)", ddl)
	assert.Regexp(t, "net_yield`? decimal\\(20,2\\)", ddl)
	assert.Regexp(t, "target_yield`? decimal\\(7,2\\)", ddl)
}
