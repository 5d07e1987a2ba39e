package valuation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentfolio/internal/apperr"
	"rentfolio/internal/calendar"
	"rentfolio/internal/models"
	"rentfolio/internal/money"
	"rentfolio/internal/store"
)

// Store is the persistence the Calculator needs.
type Store interface {
	FindProperty(ctx context.Context, ownerID, propertyID uint) (*models.Property, error)
	ActiveLeases(ctx context.Context, propertyID uint) ([]models.Lease, error)
	Expenses(ctx context.Context, f store.ExpenseFilter) ([]models.Expense, error)
	PaidPayments(ctx context.Context, propertyID uint, year int) ([]models.RentPayment, error)
	Create(ctx context.Context, value interface{}) error
	ListValuations(ctx context.Context, ownerID uint, propertyID *uint) ([]models.PropertyValuation, error)
	FindValuation(ctx context.Context, ownerID, valuationID uint) (*models.PropertyValuation, error)
	DeleteValuation(ctx context.Context, valuationID uint) error
}

// Accepted range for an explicit target yield, in percent.
var (
	minTargetYield = decimal.RequireFromString("0.01")
	maxTargetYield = decimal.NewFromInt(100)
)

// CalculateInput selects the property and the target yield percentage.
type CalculateInput struct {
	PropertyID  uint             `json:"propertyId" binding:"required"`
	TargetYield *decimal.Decimal `json:"targetYield"`
	Memo        string           `json:"memo"`
}

// Result is the stored snapshot plus the intermediate figures behind it.
type Result struct {
	Valuation *models.PropertyValuation `json:"valuation"`
	Details   Figures                   `json:"details"`
}

// Calculator computes and stores valuation snapshots.
type Calculator struct {
	store Store
	log   *zap.Logger
}

func NewCalculator(store Store, log *zap.Logger) *Calculator {
	return &Calculator{store: store, log: log}
}

// Calculate snapshots the property's profitability as of now. Expenses are
// those dated in now's calendar year.
func (c *Calculator) Calculate(ctx context.Context, ownerID uint, in CalculateInput, now time.Time) (*Result, error) {
	if in.TargetYield != nil {
		if in.TargetYield.IsNegative() {
			return nil, apperr.InvalidInput("target yield must not be negative")
		}
		if in.TargetYield.IsPositive() && (in.TargetYield.LessThan(minTargetYield) || in.TargetYield.GreaterThan(maxTargetYield)) {
			return nil, apperr.InvalidInput("target yield must be between %s and %s percent", minTargetYield, maxTargetYield)
		}
	}

	property, err := c.store.FindProperty(ctx, ownerID, in.PropertyID)
	if err != nil {
		return nil, err
	}
	leases, err := c.store.ActiveLeases(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	annualExpense, err := c.yearExpenses(ctx, ownerID, property.ID, now)
	if err != nil {
		return nil, err
	}

	f := Compute(Inputs{
		PurchasePrice:    property.PurchasePrice,
		AcquisitionCost:  property.AcquisitionCost,
		LoanAmount:       property.LoanAmount,
		LoanInterestRate: property.LoanInterestRate,
		ActiveLeases:     leases,
		AnnualExpense:    annualExpense,
		TargetYield:      in.TargetYield,
	})

	v := &models.PropertyValuation{
		PropertyID:      property.ID,
		AnnualRent:      f.AnnualRent,
		TotalDeposit:    f.TotalDeposit,
		AnnualExpense:   f.TotalAnnualExpense,
		NetIncome:       f.NetIncome,
		TotalInvestment: f.TotalInvestment,
		GrossYield:      f.Yields.GrossYield,
		NetYield:        f.Yields.NetYield,
		CashOnCash:      f.Yields.CashOnCash,
		TargetYield:     f.TargetYield,
		SuggestedPrice:  f.SuggestedPrice,
		ExpectedProfit:  f.ExpectedProfit,
		Memo:            in.Memo,
		CalculatedAt:    now,
	}
	if err := c.store.Create(ctx, v); err != nil {
		return nil, err
	}

	c.log.Info("valuation calculated",
		zap.Uint("owner_id", ownerID),
		zap.Uint("property_id", property.ID),
		zap.Uint("valuation_id", v.ID),
		zap.String("gross_yield", f.Yields.GrossYield.StringFixed(2)),
		zap.String("suggested_price", f.SuggestedPrice.String()),
	)

	stored, err := c.store.FindValuation(ctx, ownerID, v.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Valuation: stored, Details: f}, nil
}

// List returns the owner's snapshots, newest first.
func (c *Calculator) List(ctx context.Context, ownerID uint, propertyID *uint) ([]models.PropertyValuation, error) {
	return c.store.ListValuations(ctx, ownerID, propertyID)
}

func (c *Calculator) Get(ctx context.Context, ownerID, valuationID uint) (*models.PropertyValuation, error) {
	return c.store.FindValuation(ctx, ownerID, valuationID)
}

// Delete removes a snapshot. Snapshots are never edited.
func (c *Calculator) Delete(ctx context.Context, ownerID, valuationID uint) error {
	if _, err := c.store.FindValuation(ctx, ownerID, valuationID); err != nil {
		return err
	}
	return c.store.DeleteValuation(ctx, valuationID)
}

func (c *Calculator) yearExpenses(ctx context.Context, ownerID, propertyID uint, now time.Time) (decimal.Decimal, error) {
	from, to := calendar.YearWindow(now)
	expenses, err := c.store.Expenses(ctx, store.ExpenseFilter{
		OwnerID:    ownerID,
		PropertyID: &propertyID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// PropertySummary is the realised performance of one property in a year.
type PropertySummary struct {
	PropertyID       uint                  `json:"propertyId"`
	Name             string                `json:"name"`
	Status           models.PropertyStatus `json:"status"`
	Year             int                   `json:"currentYear"`
	MonthlyRentTotal decimal.Decimal       `json:"monthlyRentTotal"`
	AnnualRent       decimal.Decimal       `json:"annualRent"`
	AnnualExpense    decimal.Decimal       `json:"annualExpense"`
	NetIncome        decimal.Decimal       `json:"netIncome"`
	TotalInvestment  decimal.Decimal       `json:"totalInvestment"`
	Yields           Yields                `json:"yields"`
}

// PropertySummary reports collected rent (PAID payments of now's year) against
// that year's expenses. Unlike Calculate it neither deducts deposits from the
// investment nor adds loan interest, and nothing is stored.
func (c *Calculator) PropertySummary(ctx context.Context, ownerID, propertyID uint, now time.Time) (*PropertySummary, error) {
	property, err := c.store.FindProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	leases, err := c.store.ActiveLeases(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	paid, err := c.store.PaidPayments(ctx, property.ID, now.Year())
	if err != nil {
		return nil, err
	}
	annualExpense, err := c.yearExpenses(ctx, ownerID, property.ID, now)
	if err != nil {
		return nil, err
	}

	s := &PropertySummary{
		PropertyID:    property.ID,
		Name:          property.Name,
		Status:        property.Status,
		Year:          now.Year(),
		AnnualExpense: annualExpense,
	}
	for _, l := range leases {
		s.MonthlyRentTotal = s.MonthlyRentTotal.Add(l.MonthlyRent)
	}
	for _, p := range paid {
		s.AnnualRent = s.AnnualRent.Add(p.RentAmount)
	}
	s.NetIncome = s.AnnualRent.Sub(annualExpense)
	s.TotalInvestment = property.PurchasePrice.Add(property.AcquisitionCost).Sub(property.LoanAmount)
	s.Yields = Yields{
		GrossYield: money.Percent(s.AnnualRent, property.PurchasePrice),
		NetYield:   money.Percent(s.NetIncome, property.PurchasePrice),
		CashOnCash: money.Percent(s.NetIncome, s.TotalInvestment),
	}
	return s, nil
}
