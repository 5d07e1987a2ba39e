// Package seed loads a small demo portfolio for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentfolio/internal/leasing"
	"rentfolio/internal/models"
	"rentfolio/internal/store"
)

// Result reports what Demo created.
type Result struct {
	OwnerID     uint   `json:"ownerId"`
	PropertyIDs []uint `json:"propertyIds"`
	LeaseIDs    []uint `json:"leaseIds"`
}

func won(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Demo creates two properties for the owner with the given email, one let
// and one vacant, plus a year of expenses. It is not idempotent: running it
// twice adds a second set of properties for the same owner.
func Demo(ctx context.Context, st *store.Store, email string, now time.Time, log *zap.Logger) (*Result, error) {
	owner, err := st.EnsureOwner(ctx, email, "Demo Owner")
	if err != nil {
		return nil, err
	}

	year := now.Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	res := &Result{OwnerID: owner.ID}

	let := &models.Property{
		OwnerID:          owner.ID,
		Name:             "Riverside Officetel 1203",
		PropertyType:     models.PropertyTypeOfficetel,
		Address:          "12 Riverside-ro, Seoul",
		Area:             decimal.RequireFromString("33.06"),
		PurchasePrice:    won(500_000_000),
		PurchaseDate:     start.AddDate(-3, 0, 0),
		AcquisitionCost:  won(20_000_000),
		LoanAmount:       won(200_000_000),
		LoanInterestRate: decimal.RequireFromString("4.5"),
		Status:           models.PropertyStatusVacant,
	}
	vacant := &models.Property{
		OwnerID:       owner.ID,
		Name:          "Hillside Villa 201",
		PropertyType:  models.PropertyTypeVilla,
		Address:       "8 Hillside-gil, Seoul",
		PurchasePrice: won(300_000_000),
		PurchaseDate:  start.AddDate(-1, 0, 0),
		Status:        models.PropertyStatusVacant,
	}
	for _, p := range []*models.Property{let, vacant} {
		if err := st.Create(ctx, p); err != nil {
			return nil, err
		}
		res.PropertyIDs = append(res.PropertyIDs, p.ID)
	}

	tenant := &models.Tenant{Name: "Demo Tenant", Phone: "010-0000-0000"}
	if err := st.Create(ctx, tenant); err != nil {
		return nil, err
	}

	lease, err := leasing.NewService(st, log).CreateLease(ctx, owner.ID, leasing.CreateLeaseInput{
		PropertyID:    let.ID,
		TenantID:      tenant.ID,
		LeaseType:     models.LeaseTypeMonthly,
		Deposit:       won(50_000_000),
		MonthlyRent:   won(2_000_000),
		ManagementFee: won(150_000),
		StartDate:     start,
		EndDate:       start.AddDate(2, 0, -1),
		RentDueDay:    25,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create demo lease: %w", err)
	}
	res.LeaseIDs = append(res.LeaseIDs, lease.ID)

	expenses := []models.Expense{
		{PropertyID: let.ID, ExpenseType: models.ExpenseTypePropertyTax, Amount: won(1_200_000), ExpenseDate: start.AddDate(0, 6, 30)},
		{PropertyID: let.ID, ExpenseType: models.ExpenseTypeMaintenance, Amount: won(350_000), ExpenseDate: start.AddDate(0, 2, 14)},
		{PropertyID: let.ID, ExpenseType: models.ExpenseTypeInsurance, Amount: won(240_000), ExpenseDate: start.AddDate(0, 0, 9)},
		{PropertyID: vacant.ID, ExpenseType: models.ExpenseTypeVacancyCost, Amount: won(180_000), ExpenseDate: start.AddDate(0, 3, 0)},
	}
	for i := range expenses {
		if err := st.Create(ctx, &expenses[i]); err != nil {
			return nil, err
		}
	}

	log.Info("seeded demo portfolio",
		zap.Uint("owner_id", owner.ID),
		zap.Uints("property_ids", res.PropertyIDs),
	)
	return res, nil
}
