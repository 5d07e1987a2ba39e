// Package rent builds monthly rent payment schedules for leases, flags
// overdue payments, and manages individual payment records.
package rent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rentfolio/internal/calendar"
	"rentfolio/internal/models"
)

// GeneratorStore is the persistence the Generator needs.
type GeneratorStore interface {
	FindLease(ctx context.Context, ownerID, leaseID uint) (*models.Lease, error)
	InsertMissingPayments(ctx context.Context, payments []models.RentPayment) (int64, error)
}

// GenerateInput is an inclusive month range for one lease. Months are
// trusted to be 1-12.
type GenerateInput struct {
	LeaseID    uint `json:"leaseId" binding:"required"`
	StartYear  int  `json:"startYear" binding:"required"`
	StartMonth int  `json:"startMonth" binding:"required"`
	EndYear    int  `json:"endYear" binding:"required"`
	EndMonth   int  `json:"endMonth" binding:"required"`
}

// GenerateResult reports how many months were considered and how many of
// them were new rows.
type GenerateResult struct {
	Count    int   `json:"count"`
	Inserted int64 `json:"inserted"`
}

// Generator creates one PENDING payment per month of a range, leaving
// months that already have a payment untouched.
type Generator struct {
	store GeneratorStore
	log   *zap.Logger
	loc   *time.Location
}

// NewGenerator builds a Generator. Due dates are built at midnight in loc
// (UTC when nil).
func NewGenerator(store GeneratorStore, log *zap.Logger, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{store: store, log: log, loc: loc}
}

// Generate fills in the lease's schedule for the range. Amounts come from the
// lease's current terms.
func (g *Generator) Generate(ctx context.Context, ownerID uint, in GenerateInput) (GenerateResult, error) {
	lease, err := g.store.FindLease(ctx, ownerID, in.LeaseID)
	if err != nil {
		return GenerateResult{}, err
	}

	months := calendar.Range(
		calendar.YearMonth{Year: in.StartYear, Month: in.StartMonth},
		calendar.YearMonth{Year: in.EndYear, Month: in.EndMonth},
	)
	payments := Schedule(lease, months, g.loc)
	if len(payments) == 0 {
		return GenerateResult{}, nil
	}

	inserted, err := g.store.InsertMissingPayments(ctx, payments)
	if err != nil {
		return GenerateResult{}, err
	}

	g.log.Info("generated rent schedule",
		zap.Uint("owner_id", ownerID),
		zap.Uint("lease_id", lease.ID),
		zap.Stringer("from", months[0]),
		zap.Stringer("to", months[len(months)-1]),
		zap.Int("count", len(payments)),
		zap.Int64("inserted", inserted),
	)
	return GenerateResult{Count: len(payments), Inserted: inserted}, nil
}

// Schedule builds the candidate payment rows for the given months.
func Schedule(lease *models.Lease, months []calendar.YearMonth, loc *time.Location) []models.RentPayment {
	payments := make([]models.RentPayment, 0, len(months))
	for _, ym := range months {
		payments = append(payments, models.RentPayment{
			LeaseID:             lease.ID,
			PaymentYear:         ym.Year,
			PaymentMonth:        ym.Month,
			DueDate:             calendar.DueDate(ym, lease.RentDueDay, loc),
			RentAmount:          lease.MonthlyRent,
			ManagementFeeAmount: lease.ManagementFee,
			TotalAmount:         lease.MonthlyRent.Add(lease.ManagementFee),
			RentStatus:          models.PaymentStatusPending,
			ManagementFeeStatus: models.PaymentStatusPending,
		})
	}
	return payments
}
