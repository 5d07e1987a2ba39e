// Package storetest builds migrated sqlite stores and fixture rows for
// tests.
package storetest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentfolio/internal/migration"
	"rentfolio/internal/models"
	"rentfolio/internal/store"
)

// New opens a fresh in-memory database with every registered migration applied.
func New(t *testing.T) *store.Store {
	t.Helper()
	return open(t, ":memory:", 1)
}

// NewFile opens a migrated database file under t.TempDir() that serves
// several connections at once, for tests that write concurrently.
func NewFile(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rentfolio.db")
	return open(t, path+"?_busy_timeout=10000&_txlock=immediate", 4)
}

func open(t *testing.T, dsn string, maxConns int) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Use(store.UTCTimes{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(maxConns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migration.NewMigrator(db).Up(context.Background())
	require.NoError(t, err)

	return store.New(db)
}

// Date is midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Won parses a decimal literal and fails the test on bad input.
func Won(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// Owner inserts a user.
func Owner(t *testing.T, s *store.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

// Property inserts a property for owner; opts adjust the defaults before insert.
func Property(t *testing.T, s *store.Store, ownerID uint, opts ...func(*models.Property)) *models.Property {
	t.Helper()
	p := &models.Property{
		OwnerID:       ownerID,
		Name:          fmt.Sprintf("property of %d", ownerID),
		PropertyType:  models.PropertyTypeApartment,
		Address:       "Seoul",
		PurchasePrice: decimal.NewFromInt(500_000_000),
		PurchaseDate:  Date(2020, time.January, 1),
		Status:        models.PropertyStatusVacant,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

// Tenant inserts a tenant.
func Tenant(t *testing.T, s *store.Store, name string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{Name: name}
	require.NoError(t, s.Create(context.Background(), tenant))
	return tenant
}

// Lease inserts an ACTIVE monthly lease; opts adjust the defaults before insert.
func Lease(t *testing.T, s *store.Store, propertyID, tenantID uint, opts ...func(*models.Lease)) *models.Lease {
	t.Helper()
	l := &models.Lease{
		PropertyID:    propertyID,
		TenantID:      tenantID,
		LeaseType:     models.LeaseTypeMonthly,
		Deposit:       decimal.NewFromInt(10_000_000),
		MonthlyRent:   decimal.NewFromInt(1_000_000),
		ManagementFee: decimal.NewFromInt(100_000),
		StartDate:     Date(2024, time.January, 1),
		EndDate:       Date(2025, time.December, 31),
		RentDueDay:    1,
		Status:        models.LeaseStatusActive,
	}
	for _, opt := range opts {
		opt(l)
	}
	require.NoError(t, s.Create(context.Background(), l))
	return l
}

// Payment inserts a rent payment; opts adjust the defaults before insert.
func Payment(t *testing.T, s *store.Store, leaseID uint, year, month int, opts ...func(*models.RentPayment)) *models.RentPayment {
	t.Helper()
	p := &models.RentPayment{
		LeaseID:             leaseID,
		PaymentYear:         year,
		PaymentMonth:        month,
		DueDate:             Date(year, time.Month(month), 1),
		RentAmount:          decimal.NewFromInt(1_000_000),
		ManagementFeeAmount: decimal.NewFromInt(100_000),
		TotalAmount:         decimal.NewFromInt(1_100_000),
		RentStatus:          models.PaymentStatusPending,
		ManagementFeeStatus: models.PaymentStatusPending,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

// Expense inserts an expense.
func Expense(t *testing.T, s *store.Store, propertyID uint, kind models.ExpenseType, amount decimal.Decimal, on time.Time) *models.Expense {
	t.Helper()
	e := &models.Expense{
		PropertyID:  propertyID,
		ExpenseType: kind,
		Amount:      amount,
		ExpenseDate: on,
	}
	require.NoError(t, s.Create(context.Background(), e))
	return e
}
