package rent_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentfolio/internal/apperr"
	"rentfolio/internal/calendar"
	"rentfolio/internal/models"
	"rentfolio/internal/rent"
	"rentfolio/internal/store"
	"rentfolio/internal/store/storetest"
)

type fixture struct {
	store *store.Store
	owner *models.User
	lease *models.Lease
}

func newFixture(t *testing.T, opts ...func(*models.Lease)) fixture {
	t.Helper()
	s := storetest.New(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	property := storetest.Property(t, s, owner.ID)
	tenant := storetest.Tenant(t, s, "Kim")
	lease := storetest.Lease(t, s, property.ID, tenant.ID, opts...)
	return fixture{store: s, owner: owner, lease: lease}
}

func countPayments(t *testing.T, s *store.Store) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(&models.RentPayment{}).Count(&n).Error)
	return n
}

func TestGenerateCreatesOneRowPerMonth(t *testing.T) {
	f := newFixture(t)
	g := rent.NewGenerator(f.store, zap.NewNop(), nil)

	res, err := g.Generate(context.Background(), f.owner.ID, rent.GenerateInput{
		LeaseID: f.lease.ID, StartYear: 2024, StartMonth: 11, EndYear: 2025, EndMonth: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.EqualValues(t, 4, res.Inserted)

	payments, err := f.store.ListPayments(context.Background(), f.owner.ID, store.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, payments, 4)

	// newest period first
	assert.Equal(t, 2025, payments[0].PaymentYear)
	assert.Equal(t, 2, payments[0].PaymentMonth)
	assert.Equal(t, 2024, payments[3].PaymentYear)
	assert.Equal(t, 11, payments[3].PaymentMonth)

	for _, p := range payments {
		assert.Equal(t, models.PaymentStatusPending, p.RentStatus)
		assert.Equal(t, models.PaymentStatusPending, p.ManagementFeeStatus)
		assert.Nil(t, p.PaymentDate)
		assert.True(t, p.TotalAmount.Equal(p.RentAmount.Add(p.ManagementFeeAmount)))
		assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(1_100_000)))
	}
}

func TestGenerateStartAfterEndProducesNothing(t *testing.T) {
	f := newFixture(t)
	g := rent.NewGenerator(f.store, zap.NewNop(), nil)

	tests := []rent.GenerateInput{
		{StartYear: 2024, StartMonth: 6, EndYear: 2024, EndMonth: 5},
		{StartYear: 2025, StartMonth: 1, EndYear: 2024, EndMonth: 12},
	}
	for _, in := range tests {
		in.LeaseID = f.lease.ID
		res, err := g.Generate(context.Background(), f.owner.ID, in)
		require.NoError(t, err)
		assert.Zero(t, res.Count)
		assert.Zero(t, res.Inserted)
	}
	assert.Zero(t, countPayments(t, f.store))
}

func TestGenerateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	g := rent.NewGenerator(f.store, zap.NewNop(), nil)
	in := rent.GenerateInput{LeaseID: f.lease.ID, StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 12}

	first, err := g.Generate(context.Background(), f.owner.ID, in)
	require.NoError(t, err)
	assert.EqualValues(t, 12, first.Inserted)

	second, err := g.Generate(context.Background(), f.owner.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 12, second.Count)
	assert.Zero(t, second.Inserted)
	assert.EqualValues(t, 12, countPayments(t, f.store))
}

func TestGenerateKeepsExistingRows(t *testing.T) {
	f := newFixture(t)
	paidAt := storetest.Date(2024, time.March, 2)
	paid := storetest.Payment(t, f.store, f.lease.ID, 2024, 3, func(p *models.RentPayment) {
		p.RentStatus = models.PaymentStatusPaid
		p.PaymentDate = &paidAt
	})

	g := rent.NewGenerator(f.store, zap.NewNop(), nil)
	res, err := g.Generate(context.Background(), f.owner.ID, rent.GenerateInput{
		LeaseID: f.lease.ID, StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.EqualValues(t, 3, res.Inserted)

	got, err := f.store.FindPayment(context.Background(), f.owner.ID, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.RentStatus)
	require.NotNil(t, got.PaymentDate)
	assert.True(t, got.PaymentDate.Equal(paidAt))
}

func TestGenerateLongRange(t *testing.T) {
	f := newFixture(t)
	storetest.Payment(t, f.store, f.lease.ID, 2050, 6, func(p *models.RentPayment) {
		p.RentStatus = models.PaymentStatusPaid
	})

	g := rent.NewGenerator(f.store, zap.NewNop(), nil)
	res, err := g.Generate(context.Background(), f.owner.ID, rent.GenerateInput{
		LeaseID: f.lease.ID, StartYear: 2000, StartMonth: 1, EndYear: 2099, EndMonth: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 1200, res.Count)
	assert.EqualValues(t, 1199, res.Inserted)
	assert.EqualValues(t, 1200, countPayments(t, f.store))
}

func TestGenerateConcurrentOverlappingRanges(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewFile(t)
	owner := storetest.Owner(t, s, "owner@example.com")
	lease := storetest.Lease(t, s, storetest.Property(t, s, owner.ID).ID, storetest.Tenant(t, s, "Kim").ID)
	g := rent.NewGenerator(s, zap.NewNop(), nil)

	// Every range covers 2024-06 .. 2024-12; together they span 2024-01 .. 2025-06.
	ranges := []rent.GenerateInput{
		{StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 12},
		{StartYear: 2024, StartMonth: 6, EndYear: 2025, EndMonth: 6},
		{StartYear: 2024, StartMonth: 3, EndYear: 2025, EndMonth: 1},
		{StartYear: 2024, StartMonth: 6, EndYear: 2024, EndMonth: 12},
	}

	const rounds = 3
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int64
		errs     []error
	)
	for i := 0; i < rounds; i++ {
		for _, in := range ranges {
			in.LeaseID = lease.ID
			wg.Add(1)
			go func(in rent.GenerateInput) {
				defer wg.Done()
				res, err := g.Generate(ctx, owner.ID, in)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				inserted += res.Inserted
			}(in)
		}
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.EqualValues(t, 18, inserted)
	assert.EqualValues(t, 18, countPayments(t, s))

	var dupes int64
	require.NoError(t, s.DB().Raw(`SELECT COUNT(*) FROM (
		SELECT lease_id, payment_year, payment_month FROM rent_payments
		GROUP BY lease_id, payment_year, payment_month HAVING COUNT(*) > 1
	) AS d`).Scan(&dupes).Error)
	assert.Zero(t, dupes)
}

func TestGenerateUsesCurrentLeaseTerms(t *testing.T) {
	f := newFixture(t)
	g := rent.NewGenerator(f.store, zap.NewNop(), nil)
	ctx := context.Background()

	_, err := g.Generate(ctx, f.owner.ID, rent.GenerateInput{LeaseID: f.lease.ID, StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 1})
	require.NoError(t, err)

	require.NoError(t, f.store.DB().Model(&models.Lease{}).Where("id = ?", f.lease.ID).
		Update("monthly_rent", decimal.NewFromInt(1_200_000)).Error)

	_, err = g.Generate(ctx, f.owner.ID, rent.GenerateInput{LeaseID: f.lease.ID, StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 2})
	require.NoError(t, err)

	payments, err := f.store.ListPayments(ctx, f.owner.ID, store.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].RentAmount.Equal(decimal.NewFromInt(1_200_000)), "February picks up the new rent")
	assert.True(t, payments[1].RentAmount.Equal(decimal.NewFromInt(1_000_000)), "January keeps the old rent")
	assert.True(t, payments[0].TotalAmount.Equal(decimal.NewFromInt(1_300_000)))
}

func TestGenerateForeignLeaseIsNotFound(t *testing.T) {
	f := newFixture(t)
	stranger := storetest.Owner(t, f.store, "stranger@example.com")
	g := rent.NewGenerator(f.store, zap.NewNop(), nil)

	_, err := g.Generate(context.Background(), stranger.ID, rent.GenerateInput{
		LeaseID: f.lease.ID, StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 3,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, countPayments(t, f.store))
}

func TestScheduleDueDayRollsIntoNextMonth(t *testing.T) {
	lease := &models.Lease{
		ID:            7,
		RentDueDay:    31,
		MonthlyRent:   decimal.NewFromInt(500_000),
		ManagementFee: decimal.NewFromInt(50_000),
	}

	// April has 30 days, so day 31 becomes May 1.
	payments := rent.Schedule(lease, []calendar.YearMonth{{Year: 2024, Month: 4}, {Year: 2024, Month: 5}}, time.UTC)
	require.Len(t, payments, 2)

	assert.Equal(t, 4, payments[0].PaymentMonth)
	assert.Equal(t, storetest.Date(2024, time.May, 1), payments[0].DueDate)
	assert.Equal(t, storetest.Date(2024, time.May, 31), payments[1].DueDate)

	// February 2023 rolls three days.
	feb := rent.Schedule(lease, []calendar.YearMonth{{Year: 2023, Month: 2}}, time.UTC)
	assert.Equal(t, storetest.Date(2023, time.March, 3), feb[0].DueDate)
	assert.True(t, feb[0].TotalAmount.Equal(decimal.NewFromInt(550_000)))
}
