package rent_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentfolio/internal/apperr"
	"rentfolio/internal/models"
	"rentfolio/internal/rent"
	"rentfolio/internal/store"
	"rentfolio/internal/store/storetest"
)

func TestPaymentsCreateComputesTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := rent.NewPayments(f.store, zap.NewNop())

	created, err := p.Create(ctx, f.owner.ID, rent.CreatePaymentInput{
		LeaseID:             f.lease.ID,
		PaymentYear:         2024,
		PaymentMonth:        6,
		DueDate:             storetest.Date(2024, time.June, 5),
		RentAmount:          decimal.RequireFromString("950000.50"),
		ManagementFeeAmount: decimal.RequireFromString("80000.25"),
	})
	require.NoError(t, err)
	assert.True(t, created.TotalAmount.Equal(decimal.RequireFromString("1030000.75")))
	assert.Equal(t, models.PaymentStatusPending, created.RentStatus)
	assert.Equal(t, models.PaymentStatusPending, created.ManagementFeeStatus)
	require.NotNil(t, created.Lease)
	assert.Equal(t, "Kim", created.Lease.Tenant.Name)

	_, err = p.Create(ctx, f.owner.ID, rent.CreatePaymentInput{
		LeaseID: f.lease.ID, PaymentYear: 2024, PaymentMonth: 6, DueDate: storetest.Date(2024, time.June, 5),
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestPaymentsCreateRejectsForeignLease(t *testing.T) {
	f := newFixture(t)
	stranger := storetest.Owner(t, f.store, "stranger@example.com")
	p := rent.NewPayments(f.store, zap.NewNop())

	_, err := p.Create(context.Background(), stranger.ID, rent.CreatePaymentInput{
		LeaseID: f.lease.ID, PaymentYear: 2024, PaymentMonth: 1, DueDate: storetest.Date(2024, time.January, 1),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPaymentsUpdateRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := storetest.Payment(t, f.store, f.lease.ID, 2024, 1)
	p := rent.NewPayments(f.store, zap.NewNop())

	fee := decimal.NewFromInt(200_000)
	memo := "fee raised"
	updated, err := p.Update(ctx, f.owner.ID, existing.ID, rent.UpdatePaymentInput{
		ManagementFeeAmount: &fee,
		Memo:                &memo,
	})
	require.NoError(t, err)
	assert.True(t, updated.RentAmount.Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(1_200_000)))
	assert.Equal(t, "fee raised", updated.Memo)

	bad := models.PaymentStatus("LOST")
	_, err = p.Update(ctx, f.owner.ID, existing.ID, rent.UpdatePaymentInput{RentStatus: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestPaymentsUpdateStatusStampsPaymentDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := storetest.Payment(t, f.store, f.lease.ID, 2024, 1)
	p := rent.NewPayments(f.store, zap.NewNop())

	now := storetest.Date(2024, time.January, 3)
	paid := models.PaymentStatusPaid
	updated, err := p.UpdateStatus(ctx, f.owner.ID, existing.ID, rent.StatusInput{RentStatus: &paid}, now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.RentStatus)
	assert.Equal(t, models.PaymentStatusPending, updated.ManagementFeeStatus)
	require.NotNil(t, updated.PaymentDate)
	assert.True(t, updated.PaymentDate.Equal(now))
}

func TestPaymentsListFiltersAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	storetest.Payment(t, f.store, f.lease.ID, 2023, 12)
	jan := storetest.Payment(t, f.store, f.lease.ID, 2024, 1, func(rp *models.RentPayment) {
		rp.RentStatus = models.PaymentStatusPaid
	})
	storetest.Payment(t, f.store, f.lease.ID, 2024, 2)
	p := rent.NewPayments(f.store, zap.NewNop())

	year := 2024
	got, err := p.List(ctx, f.owner.ID, store.PaymentFilter{Year: &year})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	paid := models.PaymentStatusPaid
	got, err = p.List(ctx, f.owner.ID, store.PaymentFilter{Status: &paid})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, jan.ID, got[0].ID)

	got, err = p.List(ctx, f.owner.ID, store.PaymentFilter{PropertyID: &f.lease.PropertyID})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	require.NoError(t, p.Delete(ctx, f.owner.ID, jan.ID))
	_, err = p.Get(ctx, f.owner.ID, jan.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	stranger := storetest.Owner(t, f.store, "stranger@example.com")
	got, err = p.List(ctx, stranger.ID, store.PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
