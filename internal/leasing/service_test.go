package leasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentfolio/internal/apperr"
	"rentfolio/internal/leasing"
	"rentfolio/internal/models"
	"rentfolio/internal/store"
	"rentfolio/internal/store/storetest"
)

func count(t *testing.T, s *store.Store, model interface{}, where ...interface{}) int64 {
	t.Helper()
	q := s.DB().Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}

func propertyStatus(t *testing.T, s *store.Store, ownerID, propertyID uint) models.PropertyStatus {
	t.Helper()
	p, err := s.FindProperty(context.Background(), ownerID, propertyID)
	require.NoError(t, err)
	return p.Status
}

func TestCreateLeaseOccupiesProperty(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID)
	tenant := storetest.Tenant(t, s, "Han")
	svc := leasing.NewService(s, zap.NewNop())

	lease, err := svc.CreateLease(ctx, owner.ID, leasing.CreateLeaseInput{
		PropertyID:  property.ID,
		TenantID:    tenant.ID,
		LeaseType:   models.LeaseTypeMonthly,
		Deposit:     decimal.NewFromInt(20_000_000),
		MonthlyRent: decimal.NewFromInt(900_000),
		StartDate:   storetest.Date(2024, time.March, 1),
		EndDate:     storetest.Date(2026, time.February, 28),
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
	assert.Equal(t, 1, lease.RentDueDay)
	require.NotNil(t, lease.Tenant)
	assert.Equal(t, "Han", lease.Tenant.Name)
	assert.Equal(t, models.PropertyStatusOccupied, propertyStatus(t, s, owner.ID, property.ID))

	stranger := storetest.Owner(t, s, "stranger@example.com")
	_, err = svc.CreateLease(ctx, stranger.ID, leasing.CreateLeaseInput{
		PropertyID: property.ID, TenantID: tenant.ID, LeaseType: models.LeaseTypeJeonse,
		StartDate: storetest.Date(2024, time.March, 1), EndDate: storetest.Date(2025, time.March, 1),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.CreateLease(ctx, owner.ID, leasing.CreateLeaseInput{
		PropertyID: property.ID, TenantID: tenant.ID + 99, LeaseType: models.LeaseTypeJeonse,
		StartDate: storetest.Date(2024, time.March, 1), EndDate: storetest.Date(2025, time.March, 1),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualValues(t, 1, count(t, s, &models.Lease{}))
}

func TestChangeLeaseStatusVacatesOnLastLease(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID, func(p *models.Property) {
		p.Status = models.PropertyStatusOccupied
	})
	tenant := storetest.Tenant(t, s, "Yoon")
	first := storetest.Lease(t, s, property.ID, tenant.ID)
	second := storetest.Lease(t, s, property.ID, tenant.ID)
	svc := leasing.NewService(s, zap.NewNop())

	got, err := svc.ChangeLeaseStatus(ctx, owner.ID, first.ID, models.LeaseStatusTerminated)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, got.Status)
	assert.Equal(t, models.PropertyStatusOccupied, propertyStatus(t, s, owner.ID, property.ID), "another lease is still active")

	_, err = svc.ChangeLeaseStatus(ctx, owner.ID, second.ID, models.LeaseStatusExpired)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusVacant, propertyStatus(t, s, owner.ID, property.ID))

	_, err = svc.ChangeLeaseStatus(ctx, owner.ID, second.ID, "BROKEN")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRenewLease(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID, func(p *models.Property) {
		p.Status = models.PropertyStatusOccupied
	})
	old := storetest.Lease(t, s, property.ID, storetest.Tenant(t, s, "Seo").ID, func(l *models.Lease) {
		l.Floor = "3F"
		l.HasVat = true
		l.RentDueDay = 25
	})
	storetest.Payment(t, s, old.ID, 2025, 12)
	svc := leasing.NewService(s, zap.NewNop())

	rent := decimal.NewFromInt(1_050_000)
	renewed, err := svc.RenewLease(ctx, owner.ID, old.ID, leasing.RenewLeaseInput{
		MonthlyRent: &rent,
		StartDate:   storetest.Date(2026, time.January, 1),
		EndDate:     storetest.Date(2027, time.December, 31),
	})
	require.NoError(t, err)

	assert.NotEqual(t, old.ID, renewed.ID)
	assert.Equal(t, models.LeaseStatusActive, renewed.Status)
	assert.Equal(t, old.TenantID, renewed.TenantID)
	assert.Equal(t, "3F", renewed.Floor)
	assert.True(t, renewed.HasVat)
	assert.Equal(t, 25, renewed.RentDueDay)
	assert.True(t, renewed.MonthlyRent.Equal(rent))
	assert.True(t, renewed.Deposit.Equal(old.Deposit))

	previous, err := s.FindLease(ctx, owner.ID, old.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusExpired, previous.Status)
	assert.EqualValues(t, 1, count(t, s, &models.RentPayment{}, "lease_id = ?", old.ID))
	assert.Equal(t, models.PropertyStatusOccupied, propertyStatus(t, s, owner.ID, property.ID))

	_, err = svc.RenewLease(ctx, owner.ID, old.ID, leasing.RenewLeaseInput{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRenewLeaseRejectsBadDueDay(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID)
	old := storetest.Lease(t, s, property.ID, storetest.Tenant(t, s, "Seo").ID)
	svc := leasing.NewService(s, zap.NewNop())

	for _, day := range []int{0, 45} {
		day := day
		_, err := svc.RenewLease(ctx, owner.ID, old.ID, leasing.RenewLeaseInput{
			StartDate:  storetest.Date(2026, time.January, 1),
			EndDate:    storetest.Date(2027, time.December, 31),
			RentDueDay: &day,
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, "day %d", day)
	}

	assert.EqualValues(t, 1, count(t, s, &models.Lease{}, "property_id = ?", property.ID))
	current, err := s.FindLease(ctx, owner.ID, old.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, current.Status)
}

func TestUpdateLease(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	lease := storetest.Lease(t, s, storetest.Property(t, s, owner.ID).ID, storetest.Tenant(t, s, "Kang").ID)
	svc := leasing.NewService(s, zap.NewNop())

	fee := decimal.NewFromInt(150_000)
	day := 10
	got, err := svc.UpdateLease(ctx, owner.ID, lease.ID, leasing.UpdateLeaseInput{ManagementFee: &fee, RentDueDay: &day})
	require.NoError(t, err)
	assert.True(t, got.ManagementFee.Equal(fee))
	assert.Equal(t, 10, got.RentDueDay)
	assert.True(t, got.MonthlyRent.Equal(lease.MonthlyRent))

	bad := 32
	_, err = svc.UpdateLease(ctx, owner.ID, lease.ID, leasing.UpdateLeaseInput{RentDueDay: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestDeleteLeaseRemovesPayments(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID)
	tenant := storetest.Tenant(t, s, "Baek")
	doomed := storetest.Lease(t, s, property.ID, tenant.ID)
	kept := storetest.Lease(t, s, property.ID, tenant.ID)
	storetest.Payment(t, s, doomed.ID, 2024, 1)
	storetest.Payment(t, s, doomed.ID, 2024, 2)
	storetest.Payment(t, s, kept.ID, 2024, 1)
	svc := leasing.NewService(s, zap.NewNop())

	stranger := storetest.Owner(t, s, "stranger@example.com")
	assert.ErrorIs(t, svc.DeleteLease(ctx, stranger.ID, doomed.ID), apperr.ErrNotFound)

	require.NoError(t, svc.DeleteLease(ctx, owner.ID, doomed.ID))
	assert.EqualValues(t, 1, count(t, s, &models.Lease{}))
	assert.EqualValues(t, 1, count(t, s, &models.RentPayment{}))
	assert.EqualValues(t, 0, count(t, s, &models.RentPayment{}, "lease_id = ?", doomed.ID))
}

func TestDeletePropertyFullCascade(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID)
	survivor := storetest.Property(t, s, owner.ID)

	const leases, months = 3, 4
	for i := 0; i < leases; i++ {
		l := storetest.Lease(t, s, property.ID, storetest.Tenant(t, s, "T").ID)
		for m := 1; m <= months; m++ {
			storetest.Payment(t, s, l.ID, 2024, m)
		}
	}
	other := storetest.Lease(t, s, survivor.ID, storetest.Tenant(t, s, "S").ID)
	storetest.Payment(t, s, other.ID, 2024, 1)
	storetest.Expense(t, s, property.ID, models.ExpenseTypeMaintenance, decimal.NewFromInt(10), storetest.Date(2024, time.May, 1))
	require.NoError(t, s.Create(ctx, &models.PropertyValuation{PropertyID: property.ID, CalculatedAt: time.Now()}))

	require.EqualValues(t, leases*months+1, count(t, s, &models.RentPayment{}))

	svc := leasing.NewService(s, zap.NewNop())
	stranger := storetest.Owner(t, s, "stranger@example.com")
	assert.ErrorIs(t, svc.DeleteProperty(ctx, stranger.ID, property.ID), apperr.ErrNotFound)
	assert.EqualValues(t, leases, count(t, s, &models.Lease{}, "property_id = ?", property.ID))

	require.NoError(t, svc.DeleteProperty(ctx, owner.ID, property.ID))

	assert.EqualValues(t, 0, count(t, s, &models.Lease{}, "property_id = ?", property.ID))
	assert.EqualValues(t, 0, count(t, s, &models.Expense{}, "property_id = ?", property.ID))
	assert.EqualValues(t, 0, count(t, s, &models.PropertyValuation{}, "property_id = ?", property.ID))
	assert.EqualValues(t, 1, count(t, s, &models.RentPayment{}), "only the surviving property's payment remains")
	_, err := s.FindProperty(ctx, owner.ID, property.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.FindProperty(ctx, owner.ID, survivor.ID)
	assert.NoError(t, err)
}

func TestDeleteTenant(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID)
	tenant := storetest.Tenant(t, s, "Oh")
	active := storetest.Lease(t, s, property.ID, tenant.ID)
	ended := storetest.Lease(t, s, property.ID, tenant.ID, func(l *models.Lease) {
		l.Status = models.LeaseStatusExpired
	})
	storetest.Payment(t, s, ended.ID, 2023, 1)
	svc := leasing.NewService(s, zap.NewNop())

	err := svc.DeleteTenant(ctx, owner.ID, tenant.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.EqualValues(t, 2, count(t, s, &models.Lease{}))

	stranger := storetest.Owner(t, s, "stranger@example.com")
	assert.ErrorIs(t, svc.DeleteTenant(ctx, stranger.ID, tenant.ID), apperr.ErrNotFound)

	_, err = svc.ChangeLeaseStatus(ctx, owner.ID, active.ID, models.LeaseStatusTerminated)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTenant(ctx, owner.ID, tenant.ID))
	assert.EqualValues(t, 0, count(t, s, &models.Tenant{}))
	assert.EqualValues(t, 0, count(t, s, &models.Lease{}))
	assert.EqualValues(t, 0, count(t, s, &models.RentPayment{}))
}
