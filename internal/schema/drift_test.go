package schema

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentfolio/internal/models"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestCompareInSync(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.AutoMigrate(models.All()...))

	tables, err := Describe(models.All()...)
	require.NoError(t, err)

	diff, err := Compare(context.Background(), db, tables)
	require.NoError(t, err)
	assert.True(t, diff.IsEmpty(), "%+v", diff)

	var buf bytes.Buffer
	WriteDiff(&buf, diff)
	assert.Equal(t, "No schema changes detected\n", buf.String())
}

func TestCompareReportsDrift(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	require.NoError(t, db.Exec("CREATE TABLE tenants (id INTEGER PRIMARY KEY, name TEXT, nickname TEXT)").Error)

	tables, err := Describe(&models.User{}, &models.Tenant{}, &models.Lease{})
	require.NoError(t, err)

	diff, err := Compare(context.Background(), db, tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"leases"}, diff.MissingTables)
	require.Len(t, diff.TablesToModify, 1)

	td := diff.TablesToModify[0]
	assert.Equal(t, "tenants", td.Table)
	assert.Contains(t, td.MissingColumns, "phone")
	assert.Equal(t, []string{"nickname"}, td.ExtraColumns)

	var buf bytes.Buffer
	WriteDiff(&buf, diff)
	assert.Contains(t, buf.String(), "missing table  leases")
	assert.Contains(t, buf.String(), "extra column   tenants.nickname")
}
